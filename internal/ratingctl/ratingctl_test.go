package ratingctl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/starrating/internal/adapters/http/api"
	service "github.com/okian/starrating/internal/app"
	"github.com/okian/starrating/internal/domain/rating"
	"github.com/okian/starrating/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.InitWith(logger.Options{Writer: io.Discard}); err != nil {
		panic(err)
	}
}

func TestParseScript(t *testing.T) {
	convey.Convey("Given a script", t, func() {
		convey.Convey("When it mixes keys and clicks", func() {
			steps, err := ParseScript(" ArrowUp, click:4 ,,Backspace")

			convey.Convey("Then each token becomes a step", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(len(steps), convey.ShouldEqual, 3)
				convey.So(steps[0], convey.ShouldResemble, Step{Key: "ArrowUp"})
				convey.So(steps[1], convey.ShouldResemble, Step{Click: true, Star: 4})
				convey.So(steps[1].String(), convey.ShouldEqual, "click:4")
				convey.So(steps[2].String(), convey.ShouldEqual, "Backspace")
			})
		})

		convey.Convey("When a click names no star", func() {
			_, err := ParseScript("ArrowUp,click:0")

			convey.Convey("Then parsing fails", func() {
				convey.So(errors.Is(err, ErrBadScript), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a click index is not a number", func() {
			_, err := ParseScript("click:x")

			convey.Convey("Then parsing fails", func() {
				convey.So(errors.Is(err, ErrBadScript), convey.ShouldBeTrue)
			})
		})
	})
}

func TestRandomSteps(t *testing.T) {
	convey.Convey("Given a seed", t, func() {
		a := RandomSteps(50, 5, 7)
		b := RandomSteps(50, 5, 7)

		convey.Convey("Then the steps are reproducible and clicks stay near the row", func() {
			convey.So(a, convey.ShouldResemble, b)
			for _, s := range a {
				if s.Click {
					convey.So(s.Star, convey.ShouldBeBetweenOrEqual, 1, 7)
				}
			}
		})
	})
}

func TestGlyphs(t *testing.T) {
	convey.Convey("Given a row at 3.63", t, func() {
		cfg := rating.NewConfig(3.63, 5, true, rating.MustPalette("gold"))

		convey.So(Glyphs(rating.Resolve(cfg)), convey.ShouldEqual, "★★★⯪☆")
	})
}

func TestReplay(t *testing.T) {
	convey.Convey("Given a local replay at 2 of 5", t, func() {
		r := &replay{rating: 2, starCount: 5}

		convey.Convey("Then it follows the controller", func() {
			next, changed := r.apply(Step{Key: "ArrowUp"})
			convey.So(next, convey.ShouldEqual, 3)
			convey.So(changed, convey.ShouldBeTrue)

			_, changed = r.apply(Step{Key: "Tab"})
			convey.So(changed, convey.ShouldBeFalse)

			next, _ = r.apply(Step{Click: true, Star: 9})
			convey.So(next, convey.ShouldEqual, 5)
			convey.So(r.changes, convey.ShouldEqual, 2)
		})

		convey.Convey("Then mismatches are reported", func() {
			convey.So(verifyStep(0, Step{Key: "1"}, 1, true, 1, true), convey.ShouldBeNil)
			err := verifyStep(0, Step{Key: "1"}, 2, true, 1, true)
			convey.So(errors.Is(err, ErrMismatch), convey.ShouldBeTrue)
		})

		convey.Convey("Then the change log must hold the newest reported changes", func() {
			sent := []string{"a", "b", "c"}
			ok := []service.Change{{ID: "c"}, {ID: "b"}}
			convey.So(verifyNotifications(sent, 2, ok), convey.ShouldBeNil)

			wrong := []service.Change{{ID: "b"}, {ID: "c"}}
			convey.So(errors.Is(verifyNotifications(sent, 2, wrong), ErrMismatch), convey.ShouldBeTrue)
			convey.So(errors.Is(verifyNotifications(sent, 3, ok), ErrMismatch), convey.ShouldBeTrue)
		})
	})
}

func TestRun(t *testing.T) {
	convey.Convey("Given a live widget API", t, func() {
		ctx := context.Background()
		svc := service.New(
			service.WithWorkerCount(2),
			service.WithChangelogSize(100),
			service.WithDefaults(service.Settings{NumberOfStars: 5, ShowHalfStars: true, ColorDefault: "grey"}),
			service.WithLogger(logger.Nop()),
		)
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer func() { _ = svc.Stop(ctx) }()

		srv := httptest.NewServer(api.NewServer(svc, svc, api.WithLogger(logger.Nop())).Router(ctx))
		defer srv.Close()

		config := &Config{
			BaseURL:   srv.URL,
			Script:    "ArrowUp,ArrowUp,click:4,Backspace,Tab",
			Random:    40,
			Seed:      3,
			Timeout:   5 * time.Second,
			Retry:     true,
			History:   100,
			Stars:     5,
			HalfStars: true,
		}

		convey.Convey("When the script is replayed", func() {
			var out bytes.Buffer
			stats, err := Run(ctx, config, &out)

			convey.Convey("Then the server agrees with the local replay at every step", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(stats.Steps, convey.ShouldEqual, 45)
				convey.So(stats.Mismatches, convey.ShouldEqual, 0)
				convey.So(stats.Duplicates, convey.ShouldEqual, 45)
				convey.So(stats.Notified, convey.ShouldEqual, stats.Changed)
				convey.So(out.String(), convey.ShouldContainSubstring, "★★★★☆  4.00 *")
			})

			convey.Convey("Then the widget is removed afterwards", func() {
				convey.So(svc.List(ctx), convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When the script is empty", func() {
			config.Script = ""
			config.Random = 0
			_, err := Run(ctx, config, io.Discard)

			convey.Convey("Then the run is refused", func() {
				convey.So(errors.Is(err, ErrBadScript), convey.ShouldBeTrue)
			})
		})
	})
}

func TestShowHelp(t *testing.T) {
	convey.Convey("Given the help text", t, func() {
		var b strings.Builder
		ShowHelp(&b)
		convey.So(b.String(), convey.ShouldContainSubstring, "-script")
	})
}
