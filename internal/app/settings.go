package service

import (
	"fmt"
	"math"

	"github.com/okian/starrating/internal/domain/input"
	"github.com/okian/starrating/internal/domain/rating"
)

// Settings is the inbound widget configuration.
type Settings struct {
	Rating        float64 `json:"rating"`
	NumberOfStars int     `json:"number_of_stars"`
	ShowHalfStars bool    `json:"show_half_stars"`
	StaticColor   string  `json:"static_color,omitempty"`
	ColorDefault  string  `json:"color_default,omitempty"`
	ColorNegative string  `json:"color_negative,omitempty"`
	ColorOk       string  `json:"color_ok,omitempty"`
	ColorPositive string  `json:"color_positive,omitempty"`
	Disabled      bool    `json:"disabled"`
	ReadOnly      bool    `json:"read_only"`
}

// Thresholds are the whole ratings at which the negative, ok and positive
// colors take over from the default color.
type Thresholds struct {
	Negative int `json:"negative"`
	Ok       int `json:"ok"`
	Positive int `json:"positive"`
}

// DefaultThresholds splits a five star row into default, negative, ok and positive.
var DefaultThresholds = Thresholds{Negative: 1, Ok: 3, Positive: 4} //nolint:gochecknoglobals // read-only default

// Bands pairs the thresholds with the settings colors. Bands without a color
// are left out, so the next lower band covers their range.
func (t Thresholds) Bands(s Settings) []rating.Band { //nolint:gocritic // hugeParam: value semantics
	all := []rating.Band{
		{Threshold: 0, Color: s.ColorDefault},
		{Threshold: t.Negative, Color: s.ColorNegative},
		{Threshold: t.Ok, Color: s.ColorOk},
		{Threshold: t.Positive, Color: s.ColorPositive},
	}
	bands := all[:0]
	for _, b := range all {
		if b.Color != "" {
			bands = append(bands, b)
		}
	}
	return bands
}

// Build resolves settings with DefaultThresholds.
func (s Settings) Build() (rating.Config, input.Policy, error) { //nolint:gocritic // hugeParam: value semantics
	return s.BuildWith(DefaultThresholds)
}

// BuildWith validates the settings and produces the resolver config and the
// interaction policy. Star count and rating are clamped, never rejected.
func (s Settings) BuildWith(t Thresholds) (rating.Config, input.Policy, error) { //nolint:gocritic // hugeParam: value semantics
	if math.IsNaN(s.Rating) || math.IsInf(s.Rating, 0) || s.Rating < 0 {
		return rating.Config{}, input.Policy{}, fmt.Errorf("%w: rating %v", ErrInvalidSettings, s.Rating)
	}
	palette, err := rating.NewPalette(s.StaticColor, t.Bands(s)...)
	if err != nil {
		return rating.Config{}, input.Policy{}, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	cfg := rating.NewConfig(s.Rating, s.NumberOfStars, s.ShowHalfStars, palette)
	return cfg, input.Policy{Disabled: s.Disabled, ReadOnly: s.ReadOnly}, nil
}
