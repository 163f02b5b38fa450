package service

import (
	workerpool "github.com/okian/starrating/internal/adapters/mq/worker"
	"github.com/okian/starrating/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of dispatcher goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the notification queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many interaction ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithChangelogSize sets how many changes are kept per widget.
func WithChangelogSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.changelogSize = size
		}
	}
}

// WithMaxWidgets caps the number of hosted widgets.
func WithMaxWidgets(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxWidgets = n
		}
	}
}

// WithDefaults sets the settings new widgets start from.
func WithDefaults(d Settings) Option { //nolint:gocritic // hugeParam: value semantics
	return func(s *Service) {
		s.defaults = d
	}
}

// WithThresholds sets the color band thresholds for every widget.
func WithThresholds(t Thresholds) Option {
	return func(s *Service) {
		s.thresholds = t
	}
}

// WithSubscribers adds change subscribers next to the built-in changelog.
func WithSubscribers(subs ...workerpool.Subscriber) Option {
	return func(s *Service) {
		s.subscribers = append(s.subscribers, subs...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
