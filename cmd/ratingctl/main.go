package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/starrating/internal/ratingctl"
)

// Default configuration constants.
const (
	defaultScript  = "ArrowUp,ArrowUp,click:4,Backspace"
	defaultStars   = 5
	defaultHistory = 100
	defaultTimeout = 10 * time.Second
	defaultRunTime = 5 * time.Minute
)

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9090", "Base URL of the service")
		script  = flag.String("script", defaultScript, "Comma separated steps; click:N clicks star N, anything else is a key")
		random  = flag.Int("random", 0, "Append N random steps")
		seed    = flag.Uint64("seed", 1, "Seed for random steps")
		stars   = flag.Int("stars", defaultStars, "Stars in the row")
		rating  = flag.Float64("rating", 0, "Starting rating")
		half    = flag.Bool("half", true, "Show half stars")
		retry   = flag.Bool("retry", false, "Resend every step with the same interaction id")
		history = flag.Int("history", defaultHistory, "Changes the server keeps per widget")
		keep    = flag.Bool("keep", false, "Keep the widget after the run")
		timeout = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
		help    = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		ratingctl.ShowHelp(os.Stdout)
		return
	}

	if err := ratingctl.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTime)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &ratingctl.Config{
		BaseURL:   *baseURL,
		Script:    *script,
		Random:    *random,
		Seed:      *seed,
		Timeout:   *timeout,
		Retry:     *retry,
		Keep:      *keep,
		Verbose:   *verbose,
		History:   *history,
		Stars:     *stars,
		Rating:    *rating,
		HalfStars: *half,
	}

	if _, err := ratingctl.Run(ctx, config, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("Run failed: " + err.Error() + "\n")
		stop()
		cancel()
		os.Exit(1)
	}
}
