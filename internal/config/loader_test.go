package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/okian/starrating/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.NumberOfStars, convey.ShouldEqual, 5)
			convey.So(cfg.ShowHalfStars, convey.ShouldBeTrue)
			convey.So(cfg.DispatchWorkers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Origins(), convey.ShouldResemble, config.DefaultCORSOrigins)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("Then the palette bands by whole rating", func() {
			p, err := cfg.Palette()
			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Resolve(0), convey.ShouldEqual, cfg.ColorDefault)
			convey.So(p.Resolve(2.7), convey.ShouldEqual, cfg.ColorNegative)
			convey.So(p.Resolve(3), convey.ShouldEqual, cfg.ColorOk)
			convey.So(p.Resolve(5), convey.ShouldEqual, cfg.ColorPositive)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading with defaults only", func() {
			clearConfigEnvVars()
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			})
		})

		convey.Convey("When loading with environment variables", func() {
			_ = os.Setenv("STARRATING_ADDR", ":8080")
			_ = os.Setenv("STARRATING_NUMBER_OF_STARS", "10")
			_ = os.Setenv("STARRATING_SHOW_HALF_STARS", "false")
			_ = os.Setenv("STARRATING_STATIC_COLOR", "green")
			_ = os.Setenv("STARRATING_CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then env overrides defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.NumberOfStars, convey.ShouldEqual, 10)
				convey.So(cfg.ShowHalfStars, convey.ShouldBeFalse)
				convey.So(cfg.StaticColor, convey.ShouldEqual, "green")
				convey.So(cfg.Origins(), convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When loading with a YAML file", func() {
			clearConfigEnvVars()
			path := filepath.Join(t.TempDir(), "starrating.yaml")
			yaml := "addr: \":7070\"\nqueue_size: 64\ncolor_ok: yellow\nthreshold_ok: 2\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("STARRATING_CONFIG", path)
			_ = os.Setenv("STARRATING_QUEUE_SIZE", "128")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 128)
				convey.So(cfg.ColorOk, convey.ShouldEqual, "yellow")
				convey.So(cfg.ThresholdOk, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("STARRATING_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the color bands collide", func() {
			_ = os.Setenv("STARRATING_THRESHOLD_OK", "1")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then the config is rejected at setup", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		cases := []func(c *config.Config){
			func(c *config.Config) { c.Addr = " " },
			func(c *config.Config) { c.QueueSize = 0 },
			func(c *config.Config) { c.DispatchWorkers = 0 },
			func(c *config.Config) { c.DedupeSize = -1 },
			func(c *config.Config) { c.ChangelogSize = 0 },
			func(c *config.Config) { c.MaxWidgets = 0 },
			func(c *config.Config) { c.Rating = -1 },
			func(c *config.Config) { c.ColorDefault = "" },
		}

		convey.Convey("Then each is reported as ErrInvalidConfig", func() {
			for _, mutate := range cases {
				cfg := config.New()
				mutate(cfg)
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			}
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"STARRATING_CONFIG",
		"STARRATING_ADDR",
		"STARRATING_NUMBER_OF_STARS",
		"STARRATING_SHOW_HALF_STARS",
		"STARRATING_STATIC_COLOR",
		"STARRATING_CORS_ALLOWED_ORIGINS",
		"STARRATING_QUEUE_SIZE",
		"STARRATING_THRESHOLD_OK",
	} {
		_ = os.Unsetenv(key)
	}
}
