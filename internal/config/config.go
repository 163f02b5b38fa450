// Package config defines service configuration structures and loading hooks.
//
// Conventions:
//   - New() returns a Config filled with defaults.
//   - Load(ctx) layers defaults, an optional YAML file and STARRATING_ env vars.
//   - Validate reports problems wrapped in ErrInvalidConfig.
package config

import (
	"runtime"

	"github.com/okian/starrating/internal/domain/rating"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches the log handler to JSON output.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CORSAllowedOrigins lists browser origins allowed to drive widgets.
	// Empty means DefaultCORSOrigins.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Widget defaults applied when a create request omits a field.
	NumberOfStars int     `koanf:"number_of_stars"`
	ShowHalfStars bool    `koanf:"show_half_stars"`
	Rating        float64 `koanf:"rating"`
	StaticColor   string  `koanf:"static_color"`

	// Band colors, lowest threshold first.
	ColorDefault  string `koanf:"color_default"`
	ColorNegative string `koanf:"color_negative"`
	ColorOk       string `koanf:"color_ok"`
	ColorPositive string `koanf:"color_positive"`

	// Whole-rating thresholds where each band starts. The default band starts at 0.
	ThresholdNegative int `koanf:"threshold_negative"`
	ThresholdOk       int `koanf:"threshold_ok"`
	ThresholdPositive int `koanf:"threshold_positive"`

	// QueueSize bounds the change notification queue.
	QueueSize int `koanf:"queue_size"`
	// DispatchWorkers sets the number of notification dispatchers.
	DispatchWorkers int `koanf:"dispatch_workers"`
	// DedupeSize bounds the remembered interaction ids.
	DedupeSize int `koanf:"dedupe_size"`
	// ChangelogSize bounds the recent changes kept per widget.
	ChangelogSize int `koanf:"changelog_size"`
	// MaxWidgets caps the number of hosted widgets.
	MaxWidgets int `koanf:"max_widgets"`
}

// DefaultCORSOrigins is used when no origins are configured.
var DefaultCORSOrigins = []string{"http://localhost:3000"} //nolint:gochecknoglobals // read-only default

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		Addr:              ":9090",
		NumberOfStars:     5,
		ShowHalfStars:     true,
		ColorDefault:      "#9e9e9e",
		ColorNegative:     "#e53935",
		ColorOk:           "#fb8c00",
		ColorPositive:     "#43a047",
		ThresholdNegative: 1,
		ThresholdOk:       3,
		ThresholdPositive: 4,
		QueueSize:         10_000,
		DispatchWorkers:   runtime.NumCPU(),
		DedupeSize:        50_000,
		ChangelogSize:     100,
		MaxWidgets:        10_000,
	}
}

// Origins returns the configured CORS origins or the defaults.
func (c *Config) Origins() []string {
	if len(c.CORSAllowedOrigins) == 0 {
		return append([]string(nil), DefaultCORSOrigins...)
	}
	return c.CORSAllowedOrigins
}

// Bands returns the four standard color bands.
func (c *Config) Bands() []rating.Band {
	return []rating.Band{
		{Threshold: 0, Color: c.ColorDefault},
		{Threshold: c.ThresholdNegative, Color: c.ColorNegative},
		{Threshold: c.ThresholdOk, Color: c.ColorOk},
		{Threshold: c.ThresholdPositive, Color: c.ColorPositive},
	}
}

// Palette builds the default palette described by the config.
func (c *Config) Palette() (rating.Palette, error) {
	return rating.NewPalette(c.StaticColor, c.Bands()...)
}
