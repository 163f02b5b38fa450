package repository

import (
	"context"
	"sync"
)

const defaultMaxPerWidget = 100

// Changelog is an in-memory Store bounded per widget. It also serves as a
// dispatcher subscriber.
//
// Entries are kept oldest first and ordered by Change.At, so deliveries that
// arrive out of order from concurrent dispatchers still read back in commit
// order.
type Changelog struct {
	maxPerWidget int

	mu      sync.RWMutex
	history map[string][]Change
	total   int
}

var _ Store = (*Changelog)(nil)

// NewChangelog creates an empty changelog.
func NewChangelog(opts ...Option) *Changelog {
	s := &Changelog{
		maxPerWidget: defaultMaxPerWidget,
		history:      make(map[string][]Change),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Track implements Store.
func (s *Changelog) Track(_ context.Context, widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.history[widgetID]; !ok {
		s.history[widgetID] = nil
	}
}

// Forget implements Store.
func (s *Changelog) Forget(_ context.Context, widgetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total -= len(s.history[widgetID])
	delete(s.history, widgetID)
}

// Append implements Store.
func (s *Changelog) Append(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam: value semantics
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, ok := s.history[c.WidgetID]
	if !ok {
		return nil
	}

	i := len(entries)
	for i > 0 && entries[i-1].At.After(c.At) {
		i--
	}
	entries = append(entries, Change{})
	copy(entries[i+1:], entries[i:])
	entries[i] = c
	s.total++

	if over := len(entries) - s.maxPerWidget; over > 0 {
		entries = append(entries[:0:0], entries[over:]...)
		s.total -= over
	}
	s.history[c.WidgetID] = entries
	return nil
}

// Recent implements Store.
func (s *Changelog) Recent(ctx context.Context, widgetID string, limit int) ([]Change, error) {
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, ok := s.history[widgetID]
	if !ok {
		return nil, ErrNotFound
	}
	if limit == 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]Change, 0, limit)
	for i := len(entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, entries[i])
	}
	return out, nil
}

// Count implements Store.
func (s *Changelog) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

// Name identifies the changelog as a subscriber.
func (s *Changelog) Name() string { return "changelog" }

// Deliver appends a dispatched change.
func (s *Changelog) Deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam: value semantics
	return s.Append(ctx, c)
}
