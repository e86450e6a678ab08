package main

import (
	"os"

	"github.com/deadside-ru/hub/pkg/cli"
	"github.com/deadside-ru/hub/pkg/logging"
)

func main() {
	// Default to "info"; override with DEADSIDE_HUB_LOG_LEVEL (debug,
	// info, warn, error). The CLI flags can override again later.
	level := "info"
	if v := os.Getenv("DEADSIDE_HUB_LOG_LEVEL"); v != "" {
		level = v
	}
	_ = logging.Setup(logging.Options{Level: level, Output: os.Stderr})

	cli.Execute()
}
