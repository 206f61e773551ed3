package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"log/slog"
)

func newTestLogger(buf *bytes.Buffer, format logFormat) *slog.Logger {
	return slog.New(newContextHandler(newBaseHandler(buf, format, slog.LevelDebug)))
}

func TestContextHandlerKV(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithRID(context.Background(), BuildRID(42, 9, 7))
	ctx = WithUpdateMeta(ctx, 42, 7, 9)

	log := newTestLogger(buf, formatKV).With("component", "form")
	LogEvent(ctx, log, slog.LevelInfo, "session.start",
		slog.String("status", "ok"),
		slog.Duration("duration", 1500*time.Microsecond),
	)

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected log line")
	}
	for _, want := range []string{"ts=", "level=INFO", "component=form", "event=session.start", "status=ok", "duration_ms=2", "rid=16.9.7", "update_id=42", "user_id=7", "chat_id=9"} {
		if !strings.Contains(line, want) {
			t.Fatalf("line %q missing %q", line, want)
		}
	}
	if strings.Contains(line, "msg=") {
		t.Fatalf("empty message should be dropped: %s", line)
	}
}

func TestContextHandlerJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithHandler(context.Background(), "cmd.add")

	log := newTestLogger(buf, formatJSON)
	log.ErrorContext(ctx, "db ping failed", slog.String("err", "boom"))

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("decode: %v (%s)", err, buf.String())
	}
	checks := map[string]any{
		"level":     "ERROR",
		"component": "app",
		"event":     "db ping failed",
		"handler":   "cmd.add",
		"err":       "boom",
	}
	for k, want := range checks {
		if rec[k] != want {
			t.Fatalf("%s = %v, want %v", k, rec[k], want)
		}
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatal("expected ts field")
	}
}

func TestContextHandlerKeepsExplicitFields(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithUpdateMeta(context.Background(), 1, 100, 200)

	log := newTestLogger(buf, formatJSON)
	log.InfoContext(ctx, "x", slog.String("event", "explicit"), slog.Int64("user_id", 5))

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["event"] != "explicit" {
		t.Fatalf("event = %v", rec["event"])
	}
	if rec["user_id"] != float64(5) {
		t.Fatalf("user_id = %v", rec["user_id"])
	}
}

func TestFanoutHandlerRespectsLevels(t *testing.T) {
	all, errs := &bytes.Buffer{}, &bytes.Buffer{}
	h := fanoutHandler{
		newBaseHandler(all, formatKV, slog.LevelDebug),
		newBaseHandler(errs, formatKV, slog.LevelError),
	}
	log := slog.New(newContextHandler(h))
	log.Info("one")
	log.Error("two")

	if got := strings.Count(all.String(), "\n"); got != 2 {
		t.Fatalf("all sink lines = %d", got)
	}
	if strings.Contains(errs.String(), "event=one") || !strings.Contains(errs.String(), "event=two") {
		t.Fatalf("errors sink = %q", errs.String())
	}
}

func TestCompactRID(t *testing.T) {
	if got := CompactRID("42:9:7"); got != "16.9.7" {
		t.Fatalf("CompactRID = %q", got)
	}
	if got := CompactRID("not-a-rid"); got != "not-a-rid" {
		t.Fatalf("CompactRID passthrough = %q", got)
	}
}

func TestSanitizeLimit(t *testing.T) {
	if got := SanitizeLimit("ab\x00c\u200bdé", 4); got != "abcd" {
		t.Fatalf("SanitizeLimit = %q", got)
	}
	if got := SanitizeLimit("abc", 0); got != "" {
		t.Fatalf("SanitizeLimit zero = %q", got)
	}
}

func TestPreview(t *testing.T) {
	files := []string{"1.up.sql", "2.up.sql", "3.up.sql"}
	if got := Preview(files, 6); got != "1.up.sql, 2.up.sql, 3.up.sql" {
		t.Fatalf("Preview all = %q", got)
	}
	if got := Preview(files, 1); got != "1.up.sql (+2 more)" {
		t.Fatalf("Preview truncated = %q", got)
	}
	if got := Preview(files, 0); got != "+3 more" {
		t.Fatalf("Preview zero = %q", got)
	}
}

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Fatalf("Status(nil) = %q", got)
	}
	if got := Status(context.Canceled); got != "canceled" {
		t.Fatalf("Status(canceled) = %q", got)
	}
	if got := Status(errors.New("boom")); got != "error" {
		t.Fatalf("Status(err) = %q", got)
	}
}
