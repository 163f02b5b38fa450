// Package ratingctl drives a running star rating server from the command
// line: it creates a widget, replays a script of clicks and key presses,
// prints each row and checks every step against a local replay.
package ratingctl

import "time"

// Config holds configuration for a ratingctl run.
type Config struct {
	BaseURL string        // Base URL of the service
	Script  string        // Comma separated steps, e.g. "ArrowUp,click:4,Backspace"
	Random  int           // Number of random steps appended to the script
	Seed    uint64        // Seed for random steps
	Timeout time.Duration // HTTP request timeout
	Retry   bool          // Resend every step with the same interaction id
	Keep    bool          // Keep the widget after the run
	Verbose bool          // Enable verbose logging
	History int           // Changes the server retains per widget

	// Widget settings sent on create.
	Stars     int
	Rating    float64
	HalfStars bool
}

// Stats holds run statistics.
type Stats struct {
	Steps      int
	Changed    int
	Noops      int
	Duplicates int
	Mismatches int
	Notified   int
	StartTime  time.Time
	Duration   time.Duration
}
