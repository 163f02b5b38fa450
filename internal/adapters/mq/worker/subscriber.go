package worker

import (
	"context"

	"github.com/okian/starrating/pkg/logger"
)

// LogSubscriber writes every change to a logger.
type LogSubscriber struct {
	logger logger.Logger
}

// NewLogSubscriber returns a subscriber that logs at debug level.
func NewLogSubscriber(l logger.Logger) *LogSubscriber {
	return &LogSubscriber{logger: l}
}

// Name implements Subscriber.
func (s *LogSubscriber) Name() string { return "log" }

// Deliver implements Subscriber.
func (s *LogSubscriber) Deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam: value semantics
	s.logger.Debug(ctx, "rating changed",
		logger.String("widget_id", c.WidgetID),
		logger.String("change_id", c.ID),
		logger.String("source", c.Source),
		logger.Float64("previous", c.Previous),
		logger.Float64("rating", c.Rating),
	)
	return nil
}
