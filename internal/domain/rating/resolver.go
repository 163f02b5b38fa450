package rating

import "math"

// Star count bounds. Requests above MaxStars are clamped silently.
const (
	MinStars = 1
	MaxStars = 15
)

// halfStarFraction is the smallest fractional part that shows a half star.
const halfStarFraction = 0.5

// Config is the resolved widget configuration passed by value into the resolver.
type Config struct {
	Rating        float64
	StarCount     int
	ShowHalfStars bool
	Palette       Palette
}

// NewConfig clamps starCount to [MinStars, MaxStars] and rating to [0, starCount].
func NewConfig(rating float64, starCount int, showHalfStars bool, palette Palette) Config {
	n := ClampStars(starCount)
	return Config{
		Rating:        Clamp(rating, n),
		StarCount:     n,
		ShowHalfStars: showHalfStars,
		Palette:       palette,
	}
}

// ClampStars bounds a requested star count to [MinStars, MaxStars].
func ClampStars(n int) int {
	switch {
	case n < MinStars:
		return MinStars
	case n > MaxStars:
		return MaxStars
	default:
		return n
	}
}

// Clamp bounds a rating to [0, starCount]. NaN becomes 0.
func Clamp(rating float64, starCount int) float64 {
	if math.IsNaN(rating) || rating < 0 {
		return 0
	}
	if upper := float64(starCount); rating > upper {
		return upper
	}
	return rating
}

// Star is the resolved render state of one star. Color is empty for empty stars.
type Star struct {
	Index int    `json:"index"`
	State State  `json:"state"`
	Color string `json:"color,omitempty"`
}

// ResolveStar maps a rating and a 1-based star index to a visual state.
func ResolveStar(rating float64, index int, showHalfStars bool) State {
	if math.IsNaN(rating) || rating < 0 {
		rating = 0
	}
	whole := math.Floor(rating)
	fraction := rating - whole

	switch {
	case float64(index) <= whole:
		return Filled
	case showHalfStars && float64(index) == whole+1 && fraction >= halfStarFraction:
		return Half
	default:
		return Empty
	}
}

// Resolve renders the whole row. The palette is consulted once and the color is
// shared by every filled and half star.
func Resolve(cfg Config) []Star {
	n := ClampStars(cfg.StarCount)
	color := cfg.Palette.Resolve(cfg.Rating)

	stars := make([]Star, n)
	for i := range stars {
		s := Star{Index: i + 1, State: ResolveStar(cfg.Rating, i+1, cfg.ShowHalfStars)}
		if s.State.Colored() {
			s.Color = color
		}
		stars[i] = s
	}
	return stars
}
