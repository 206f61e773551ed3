// Command catalogbot runs the Dunya Jewellery Telegram catalog bot together
// with its read-only HTTP API.
package main

import (
	"log"

	"github.com/dunyajewellery/catalogbot/core/cmd"
)

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig:        loadConfig,
		Bootstrap:         bootstrapApp,
	})
	if err != nil {
		log.Fatal(err)
	}
}
