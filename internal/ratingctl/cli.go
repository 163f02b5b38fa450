package ratingctl

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/starrating/pkg/logger"
)

// SetupLogging initialises the global logger on stderr, keeping stdout for rows.
func SetupLogging(verbose bool) error {
	if err := logger.InitWith(logger.Options{Writer: os.Stderr}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "info"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `ratingctl
=========

Drives a running star rating server: creates a widget, replays a script of
clicks and key presses, prints every row and checks each step against a
local replay of the same rules.

Usage:
  go run ./cmd/ratingctl [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -script string
        Comma separated steps; "click:N" clicks star N, anything else is a key
        (default "ArrowUp,ArrowUp,click:4,Backspace")
  -random int
        Append N random steps
  -seed uint
        Seed for random steps (default 1)
  -stars int
        Stars in the row, clamped to 1..15 by the server (default 5)
  -rating float
        Starting rating
  -half
        Show half stars (default true)
  -retry
        Resend every step with the same interaction id and expect a duplicate
  -history int
        Changes the server keeps per widget (default 100)
  -keep
        Keep the widget after the run
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/ratingctl -script "3,ArrowUp,ArrowUp,Delete"
  go run ./cmd/ratingctl -stars 10 -random 200 -retry
`)
}
