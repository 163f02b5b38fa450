package ratingctl

import (
	"strings"

	"github.com/okian/starrating/internal/domain/rating"
)

// Star glyphs.
const (
	glyphFilled = "★"
	glyphHalf   = "⯪"
	glyphEmpty  = "☆"
)

// Glyphs draws a resolved row.
func Glyphs(stars []rating.Star) string {
	var b strings.Builder
	for _, s := range stars {
		switch s.State {
		case rating.Filled:
			b.WriteString(glyphFilled)
		case rating.Half:
			b.WriteString(glyphHalf)
		default:
			b.WriteString(glyphEmpty)
		}
	}
	return b.String()
}
