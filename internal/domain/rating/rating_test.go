package rating_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/okian/starrating/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

func testPalette() rating.Palette {
	return rating.MustPalette("",
		rating.Band{Threshold: 4, Color: "green"},
		rating.Band{Threshold: 0, Color: "gray"},
		rating.Band{Threshold: 1, Color: "red"},
		rating.Band{Threshold: 3, Color: "orange"},
	)
}

func TestResolveStar(t *testing.T) {
	Convey("Given a fractional rating of 3.63 with half stars enabled", t, func() {
		r := 3.63

		Convey("Then stars up to the whole part are filled", func() {
			for i := 1; i <= 3; i++ {
				So(rating.ResolveStar(r, i, true), ShouldEqual, rating.Filled)
			}
		})

		Convey("Then only the next star is half", func() {
			So(rating.ResolveStar(r, 4, true), ShouldEqual, rating.Half)
			So(rating.ResolveStar(r, 5, true), ShouldEqual, rating.Empty)
		})

		Convey("And with half stars disabled the next star is empty", func() {
			So(rating.ResolveStar(r, 4, false), ShouldEqual, rating.Empty)
		})
	})

	Convey("Given a fraction below one half", t, func() {
		Convey("Then no half star is shown", func() {
			So(rating.ResolveStar(2.49, 3, true), ShouldEqual, rating.Empty)
			So(rating.ResolveStar(2.5, 3, true), ShouldEqual, rating.Half)
		})
	})

	Convey("Given an integer rating", t, func() {
		Convey("Then no star is half", func() {
			for i := 1; i <= 5; i++ {
				So(rating.ResolveStar(3, i, true), ShouldNotEqual, rating.Half)
			}
		})
	})

	Convey("Given a rating of zero", t, func() {
		Convey("Then every star is empty", func() {
			for i := 1; i <= rating.MaxStars; i++ {
				So(rating.ResolveStar(0, i, true), ShouldEqual, rating.Empty)
			}
		})
	})

	Convey("Given a rating above the star count", t, func() {
		Convey("Then every star in the row is filled and nothing else", func() {
			for i := 1; i <= 5; i++ {
				So(rating.ResolveStar(9.7, i, true), ShouldEqual, rating.Filled)
			}
		})
	})

	Convey("Given a NaN or negative rating", t, func() {
		Convey("Then it resolves as zero", func() {
			So(rating.ResolveStar(math.NaN(), 1, true), ShouldEqual, rating.Empty)
			So(rating.ResolveStar(-2, 1, true), ShouldEqual, rating.Empty)
		})
	})
}

func TestResolveStar_Monotonic(t *testing.T) {
	Convey("Given a spread of ratings", t, func() {
		ratings := []float64{0, 0.2, 0.5, 1, 1.49, 1.5, 2.99, 3.63, 7.5, 14.5, 15}

		Convey("Then once a star is empty every later star is empty", func() {
			for _, r := range ratings {
				for _, half := range []bool{true, false} {
					seenEmpty := false
					for i := 1; i <= rating.MaxStars; i++ {
						st := rating.ResolveStar(r, i, half)
						if seenEmpty {
							So(st, ShouldEqual, rating.Empty)
						}
						if st == rating.Empty {
							seenEmpty = true
						}
					}
				}
			}
		})
	})
}

func TestPalette(t *testing.T) {
	Convey("Given banded colors", t, func() {
		p := testPalette()

		Convey("Then the greatest threshold not above the whole rating wins", func() {
			So(p.Resolve(0), ShouldEqual, "gray")
			So(p.Resolve(0.9), ShouldEqual, "gray")
			So(p.Resolve(1), ShouldEqual, "red")
			So(p.Resolve(2.99), ShouldEqual, "red")
			So(p.Resolve(3.5), ShouldEqual, "orange")
			So(p.Resolve(4), ShouldEqual, "green")
			So(p.Resolve(15), ShouldEqual, "green")
		})

		Convey("Then bands are kept in ascending order", func() {
			bands := p.Bands()
			So(len(bands), ShouldEqual, 4)
			So(bands[0].Threshold, ShouldEqual, 0)
			So(bands[3].Threshold, ShouldEqual, 4)
		})
	})

	Convey("Given a static color", t, func() {
		p := rating.MustPalette("green",
			rating.Band{Threshold: 0, Color: "gray"},
			rating.Band{Threshold: 1, Color: "red"},
		)

		Convey("Then it is returned regardless of rating or bands", func() {
			for _, r := range []float64{0, 1, 2.5, 5, 15} {
				So(p.Resolve(r), ShouldEqual, "green")
			}
		})

		Convey("And bands are optional", func() {
			only, err := rating.NewPalette("green")
			So(err, ShouldBeNil)
			So(only.Resolve(3), ShouldEqual, "green")
		})
	})

	Convey("Given bands without threshold 0", t, func() {
		_, err := rating.NewPalette("", rating.Band{Threshold: 1, Color: "red"})

		Convey("Then construction fails with ErrNoDefaultBand", func() {
			So(err, ShouldEqual, rating.ErrNoDefaultBand)
		})
	})

	Convey("Given malformed bands", t, func() {
		Convey("Then negative, empty and duplicate bands are rejected", func() {
			_, err := rating.NewPalette("", rating.Band{Threshold: -1, Color: "red"})
			So(errors.Is(err, rating.ErrInvalidBand), ShouldBeTrue)

			_, err = rating.NewPalette("", rating.Band{Threshold: 0, Color: " "})
			So(errors.Is(err, rating.ErrInvalidBand), ShouldBeTrue)

			_, err = rating.NewPalette("",
				rating.Band{Threshold: 0, Color: "gray"},
				rating.Band{Threshold: 0, Color: "red"},
			)
			So(errors.Is(err, rating.ErrInvalidBand), ShouldBeTrue)
		})
	})
}

func TestNewConfig(t *testing.T) {
	Convey("Given a requested star count above the ceiling", t, func() {
		cfg := rating.NewConfig(20, 40, true, testPalette())

		Convey("Then the effective star count is exactly 15", func() {
			So(cfg.StarCount, ShouldEqual, rating.MaxStars)
			So(len(rating.Resolve(cfg)), ShouldEqual, rating.MaxStars)
		})

		Convey("And the rating is clamped to the star count", func() {
			So(cfg.Rating, ShouldEqual, 15)
		})
	})

	Convey("Given a star count below one", t, func() {
		cfg := rating.NewConfig(-3, 0, false, testPalette())

		Convey("Then one star is used and the rating is zero", func() {
			So(cfg.StarCount, ShouldEqual, rating.MinStars)
			So(cfg.Rating, ShouldEqual, 0)
		})
	})
}

func TestResolve(t *testing.T) {
	Convey("Given a five star row at 3.63", t, func() {
		cfg := rating.NewConfig(3.63, 5, true, testPalette())
		stars := rating.Resolve(cfg)

		Convey("Then each star carries its index, state and the shared color", func() {
			So(len(stars), ShouldEqual, 5)
			So(stars[0], ShouldResemble, rating.Star{Index: 1, State: rating.Filled, Color: "orange"})
			So(stars[3], ShouldResemble, rating.Star{Index: 4, State: rating.Half, Color: "orange"})
			So(stars[4], ShouldResemble, rating.Star{Index: 5, State: rating.Empty})
		})

		Convey("Then the row encodes states by name", func() {
			raw, err := json.Marshal(stars[3])
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"index":4,"state":"half","color":"orange"}`)
		})
	})

	Convey("Given a zero rating", t, func() {
		stars := rating.Resolve(rating.NewConfig(0, 3, true, testPalette()))

		Convey("Then no star is colored", func() {
			for _, s := range stars {
				So(s.State, ShouldEqual, rating.Empty)
				So(s.Color, ShouldBeEmpty)
			}
		})
	})
}

func TestState_Text(t *testing.T) {
	Convey("Given a state name", t, func() {
		var s rating.State

		Convey("Then known names decode", func() {
			So(s.UnmarshalText([]byte("half")), ShouldBeNil)
			So(s, ShouldEqual, rating.Half)
		})

		Convey("Then unknown names fail", func() {
			So(errors.Is(s.UnmarshalText([]byte("quarter")), rating.ErrUnknownState), ShouldBeTrue)
		})
	})
}
