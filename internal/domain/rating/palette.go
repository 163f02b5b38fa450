package rating

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Band associates a whole-number rating threshold with a fill color.
type Band struct {
	Threshold int    `json:"threshold" koanf:"threshold"`
	Color     string `json:"color" koanf:"color"`
}

// Palette picks the fill color shared by every filled or half star in a render.
// The zero value has no colors and resolves to the empty string.
type Palette struct {
	static string
	bands  []Band // ascending by Threshold, bands[0].Threshold == 0
}

// NewPalette validates and builds a Palette. A non-empty static color wins over
// every band. Without a static color the bands must contain threshold 0.
func NewPalette(static string, bands ...Band) (Palette, error) {
	static = strings.TrimSpace(static)

	sorted := make([]Band, len(bands))
	copy(sorted, bands)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Threshold < sorted[j].Threshold })

	for i, b := range sorted {
		if b.Threshold < 0 {
			return Palette{}, fmt.Errorf("%w: negative threshold %d", ErrInvalidBand, b.Threshold)
		}
		if strings.TrimSpace(b.Color) == "" {
			return Palette{}, fmt.Errorf("%w: empty color at threshold %d", ErrInvalidBand, b.Threshold)
		}
		if i > 0 && sorted[i-1].Threshold == b.Threshold {
			return Palette{}, fmt.Errorf("%w: duplicate threshold %d", ErrInvalidBand, b.Threshold)
		}
	}

	if static == "" && (len(sorted) == 0 || sorted[0].Threshold != 0) {
		return Palette{}, ErrNoDefaultBand
	}

	return Palette{static: static, bands: sorted}, nil
}

// MustPalette is NewPalette for package-level defaults; it panics on error.
func MustPalette(static string, bands ...Band) Palette {
	p, err := NewPalette(static, bands...)
	if err != nil {
		panic(err)
	}
	return p
}

// Static returns the static color, or "" when banding is in effect.
func (p Palette) Static() string { return p.static }

// Bands returns a copy of the configured bands in ascending threshold order.
func (p Palette) Bands() []Band {
	out := make([]Band, len(p.bands))
	copy(out, p.bands)
	return out
}

// Resolve returns the fill color for a render at the given rating. Banding uses
// the whole part of the rating: the band with the greatest threshold not above it.
func (p Palette) Resolve(rating float64) string {
	if p.static != "" {
		return p.static
	}
	if len(p.bands) == 0 {
		return ""
	}

	whole := 0
	if rating > 0 && !math.IsNaN(rating) {
		whole = int(math.Floor(math.Min(rating, float64(math.MaxInt32))))
	}

	// First band whose threshold exceeds whole; the one before it wins.
	i := sort.Search(len(p.bands), func(i int) bool { return p.bands[i].Threshold > whole })
	if i == 0 {
		return p.bands[0].Color
	}
	return p.bands[i-1].Color
}
