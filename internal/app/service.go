// Package service hosts star rating widgets and routes their change
// notifications through the queue, the dispatchers and the changelog.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"

	changequeue "github.com/okian/starrating/internal/adapters/mq/queue"
	workerpool "github.com/okian/starrating/internal/adapters/mq/worker"
	"github.com/okian/starrating/internal/adapters/repository"
	"github.com/okian/starrating/internal/domain/dedupe"
	"github.com/okian/starrating/pkg/logger"
	"github.com/okian/starrating/pkg/metrics"
)

// Result describes the outcome of one interaction.
type Result struct {
	Changed   bool    `json:"changed"`
	Duplicate bool    `json:"duplicate"`
	Rating    float64 `json:"rating"`
	Change    *Change `json:"change,omitempty"`
	Render    Render  `json:"render"`
}

// Service implements the API dependencies for the widget host.
type Service struct {
	mu sync.RWMutex

	widgets   map[string]*Widget
	deduper   dedupe.Deduper
	changelog *repository.Changelog
	queue     *changequeue.Sharded
	pool      *workerpool.Pool

	defaults      Settings
	thresholds    Thresholds
	subscribers   []workerpool.Subscriber
	workerCount   int
	queueSize     int
	dedupeSize    int
	changelogSize int
	maxWidgets    int

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		widgets:       make(map[string]*Widget),
		defaults:      Settings{NumberOfStars: 5, ShowHalfStars: true, ColorDefault: "#9e9e9e"},
		thresholds:    DefaultThresholds,
		workerCount:   runtime.NumCPU(),
		queueSize:     10_000,
		dedupeSize:    50_000,
		changelogSize: 100,
		maxWidgets:    10_000,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.changelog = repository.NewChangelog(repository.WithMaxPerWidget(s.changelogSize))
	return s
}

// Start creates the notification queue and starts the dispatchers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	// One dispatcher per shard keeps each widget's notifications in commit order.
	s.queue = changequeue.NewSharded(s.workerCount, s.queueSize)
	shards := make([]workerpool.Queue, s.queue.Shards())
	for i := range shards {
		shards[i] = s.queue.Shard(i)
	}
	subs := append([]workerpool.Subscriber{s.changelog, workerpool.NewLogSubscriber(s.logger)}, s.subscribers...)
	s.pool = workerpool.NewShardedPool(shards, subs, workerpool.WithLogger(s.logger))
	// Dispatchers outlive the start context; Stop closes the queue and drains it.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "widget service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
		logger.Int("max_widgets", s.maxWidgets),
	)
	return nil
}

// Stop closes the queue and waits for queued notifications to be delivered.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping widget service")

	err := s.pool.Shutdown(ctx)
	s.started = false
	if err != nil {
		return fmt.Errorf("stop dispatchers: %w", err)
	}
	s.logger.Info(ctx, "widget service stopped", logger.Int64("dispatched", s.pool.Processed()))
	return nil
}

// Defaults returns the settings new widgets start from.
func (s *Service) Defaults() Settings { return s.defaults }

// notify hands a change to the queue. It runs under the widget lock.
func (s *Service) notify(ctx context.Context, c Change) bool { //nolint:gocritic // hugeParam: value semantics
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()

	if !started {
		return false
	}
	return q.Enqueue(ctx, c)
}

// Create hosts a new widget.
func (s *Service) Create(ctx context.Context, settings Settings) (*Widget, error) { //nolint:gocritic // hugeParam: value semantics
	w, err := NewWidget(uuid.NewString(), settings, s.thresholds, NotifierFunc(s.notify))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if len(s.widgets) >= s.maxWidgets {
		s.mu.Unlock()
		return nil, ErrTooManyWidgets
	}
	s.widgets[w.ID()] = w
	count := len(s.widgets)
	s.mu.Unlock()

	s.changelog.Track(ctx, w.ID())
	metrics.UpdateWidgets(count)
	s.logger.Debug(ctx, "widget created", logger.String("widget_id", w.ID()), logger.Float64("rating", w.Rating()))
	return w, nil
}

// Get returns a hosted widget.
func (s *Service) Get(_ context.Context, id string) (*Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	w, ok := s.widgets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// Update replaces a widget's settings. Property changes do not notify.
func (s *Service) Update(ctx context.Context, id string, settings Settings) (*Widget, error) { //nolint:gocritic // hugeParam: value semantics
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := w.Update(ctx, settings); err != nil {
		return nil, err
	}
	return w, nil
}

// Delete removes a widget and its history.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, ok := s.widgets[id]; !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	delete(s.widgets, id)
	count := len(s.widgets)
	s.mu.Unlock()

	s.changelog.Forget(ctx, id)
	metrics.UpdateWidgets(count)
	s.logger.Debug(ctx, "widget deleted", logger.String("widget_id", id))
	return nil
}

// List renders every hosted widget ordered by id.
func (s *Service) List(_ context.Context) []Render {
	s.mu.RLock()
	widgets := make([]*Widget, 0, len(s.widgets))
	for _, w := range s.widgets {
		widgets = append(widgets, w)
	}
	s.mu.RUnlock()

	sort.Slice(widgets, func(i, j int) bool { return widgets[i].ID() < widgets[j].ID() })
	out := make([]Render, len(widgets))
	for i, w := range widgets {
		out[i] = w.Render()
	}
	return out
}

// Interact applies one interaction to a widget. An interaction id that was
// already seen for the widget is reported as a duplicate and not re-applied.
func (s *Service) Interact(ctx context.Context, widgetID string, in Interaction) (Result, error) { //nolint:gocritic // hugeParam: value semantics
	w, err := s.Get(ctx, widgetID)
	if err != nil {
		return Result{}, err
	}

	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return Result{}, ErrNotStarted
	}

	var dedupeKey string
	if in.ID != "" {
		dedupeKey = widgetID + "/" + in.ID
		if s.deduper.SeenAndRecord(ctx, dedupeKey) {
			metrics.RecordInteraction(in.Kind.String(), metrics.OutcomeDuplicate)
			r := w.Render()
			return Result{Duplicate: true, Rating: r.Rating, Render: r}, nil
		}
	}

	c, changed, err := w.Apply(ctx, in)
	if err != nil {
		if dedupeKey != "" {
			s.deduper.Unrecord(ctx, dedupeKey)
		}
		if errors.Is(err, ErrBackpressure) {
			s.logger.Warn(ctx, "change notification rejected", logger.String("widget_id", widgetID))
		}
		return Result{}, err
	}

	r := w.Render()
	res := Result{Changed: changed, Rating: r.Rating, Render: r}
	if changed {
		res.Change = &c
	}
	return res, nil
}

// Changes returns up to limit recent changes of a widget, newest first.
func (s *Service) Changes(ctx context.Context, id string, limit int) ([]Change, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	changes, err := s.changelog.Recent(ctx, id, limit)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return changes, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":          s.started,
		"widgets":          len(s.widgets),
		"max_widgets":      s.maxWidgets,
		"worker_count":     s.workerCount,
		"queue_size":       s.queueSize,
		"dedupe_size":      s.deduper.Size(),
		"changes_retained": s.changelog.Count(ctx),
	}
	if s.started {
		stats["queue_length"] = s.queue.Len(ctx)
		stats["dispatched"] = s.pool.Processed()
	}
	metrics.UpdateWidgets(len(s.widgets))
	return stats
}
