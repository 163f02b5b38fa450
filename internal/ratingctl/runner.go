package ratingctl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	service "github.com/okian/starrating/internal/app"
	"github.com/okian/starrating/internal/domain/input"
	"github.com/okian/starrating/pkg/logger"
)

// Notification polling.
const (
	notifyPollInterval = 20 * time.Millisecond
	notifyPollTimeout  = 5 * time.Second
	maxChangesLimit    = 1000
)

// Run executes the script against the service, writing one row per step to out.
func Run(ctx context.Context, config *Config, out io.Writer) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("ratingctl")

	steps, err := ParseScript(config.Script)
	if err != nil {
		return stats, err
	}
	if config.Random > 0 {
		steps = append(steps, RandomSteps(config.Random, max(config.Stars, 1), config.Seed)...)
	}
	if len(steps) == 0 {
		return stats, fmt.Errorf("%w: no steps", ErrBadScript)
	}

	log.Info(ctx, "starting ratingctl run",
		logger.String("base_url", config.BaseURL),
		logger.Int("steps", len(steps)),
		logger.Bool("retry", config.Retry),
	)

	client := NewHTTPClient(config.BaseURL, config.Timeout)
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	render, err := client.CreateWidget(ctx, map[string]any{
		"number_of_stars": config.Stars,
		"rating":          config.Rating,
		"show_half_stars": config.HalfStars,
	})
	if err != nil {
		return stats, fmt.Errorf("create widget: %w", err)
	}
	if !config.Keep {
		defer func() {
			if err := client.DeleteWidget(context.WithoutCancel(ctx), render.ID); err != nil {
				log.Warn(ctx, "failed to delete widget", logger.String("widget_id", render.ID), logger.Error(err))
			}
		}()
	}
	_, _ = fmt.Fprintf(out, "widget %s\n%-16s %s %5.2f\n", render.ID, "start", Glyphs(render.Stars), render.Rating)

	local := &replay{
		rating:    render.Rating,
		starCount: render.StarCount,
		policy:    input.Policy{Disabled: render.Disabled, ReadOnly: render.ReadOnly},
	}

	var (
		mismatch  error
		changeIDs []string // oldest first
	)
	for i, step := range steps {
		id := uuid.NewString()
		res, err := send(ctx, client, render.ID, step, id)
		if err != nil {
			return stats, fmt.Errorf("step %d %s: %w", i+1, step, err)
		}
		stats.Steps++

		expected, changed := local.apply(step)
		if err := verifyStep(i, step, res.Rating, res.Changed, expected, changed); err != nil {
			stats.Mismatches++
			mismatch = errors.Join(mismatch, err)
		}

		mark := ""
		if res.Changed {
			stats.Changed++
			mark = "*"
			if res.Change != nil {
				changeIDs = append(changeIDs, res.Change.ID)
			}
		} else {
			stats.Noops++
		}
		_, _ = fmt.Fprintf(out, "%-16s %s %5.2f %s\n", step, Glyphs(res.Render.Stars), res.Rating, mark)

		if config.Retry {
			again, err := send(ctx, client, render.ID, step, id)
			if err != nil {
				return stats, fmt.Errorf("retry step %d %s: %w", i+1, step, err)
			}
			if !again.Duplicate || again.Rating != res.Rating {
				stats.Mismatches++
				mismatch = errors.Join(mismatch, fmt.Errorf("%w: retry of step %d was applied again", ErrMismatch, i+1))
			}
			stats.Duplicates++
		}
		log.Debug(ctx, "step applied",
			logger.Int("step", i+1),
			logger.String("input", step.String()),
			logger.Float64("rating", res.Rating),
			logger.Bool("changed", res.Changed),
		)
	}

	want := min(local.changes, max(config.History, 0), maxChangesLimit)
	logged, err := waitForNotifications(ctx, client, render.ID, want)
	if err != nil {
		return stats, err
	}
	stats.Notified = len(logged)
	if err := verifyNotifications(changeIDs, want, logged); err != nil {
		stats.Mismatches++
		mismatch = errors.Join(mismatch, err)
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, log, stats)
	return stats, mismatch
}

func send(ctx context.Context, client *HTTPClient, widgetID string, step Step, interactionID string) (service.Result, error) { //nolint:gocritic // hugeParam: value semantics
	if step.Click {
		return client.Click(ctx, widgetID, step.Star, interactionID)
	}
	return client.Key(ctx, widgetID, step.Key, interactionID)
}

// waitForNotifications polls the change log until want entries arrive or the
// poll times out, and returns the last page seen, newest first.
func waitForNotifications(ctx context.Context, client *HTTPClient, widgetID string, want int) ([]service.Change, error) {
	limit := min(want+1, maxChangesLimit)
	deadline := time.Now().Add(notifyPollTimeout)
	for {
		changes, err := client.Changes(ctx, widgetID, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch changes: %w", err)
		}
		if len(changes) >= want || time.Now().After(deadline) {
			return changes, nil
		}
		select {
		case <-ctx.Done():
			return changes, ctx.Err()
		case <-time.After(notifyPollInterval):
		}
	}
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	log.Info(ctx, "final statistics",
		logger.Int("steps", stats.Steps),
		logger.Int("changed", stats.Changed),
		logger.Int("noops", stats.Noops),
		logger.Int("duplicates", stats.Duplicates),
		logger.Int("notified", stats.Notified),
		logger.Int("mismatches", stats.Mismatches),
		logger.Duration("duration", stats.Duration),
	)
}
