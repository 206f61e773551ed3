// Package buildinfo carries release metadata stamped in at link time:
//
//	go build -ldflags "-X github.com/dunyajewellery/catalogbot/core/buildinfo.Version=v1.4.0 \
//	  -X github.com/dunyajewellery/catalogbot/core/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/dunyajewellery/catalogbot/core/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

var (
	Version = "dev"
	Commit  = "local"
	// Date is the RFC3339 build time; empty for local builds.
	Date = ""
)

// String renders the build as "v1.4.0 (abc1234)".
func String() string {
	return Version + " (" + Commit + ")"
}
