package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/starrating/internal/domain/input"
	"github.com/okian/starrating/internal/domain/model"
	"github.com/okian/starrating/internal/domain/rating"
	"github.com/okian/starrating/pkg/metrics"
)

// Change is the notification a widget emits per accepted interaction.
type Change = model.Change

// Notifier receives accepted changes. Notify returns false when the change
// cannot be delivered, in which case the widget keeps its previous rating.
type Notifier interface {
	Notify(ctx context.Context, c Change) bool
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, c Change) bool

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, c Change) bool { //nolint:gocritic // hugeParam: value semantics
	return f(ctx, c)
}

// Interaction is one click or key press, optionally carrying an idempotency id.
type Interaction struct {
	ID   string
	Kind input.Kind
	Star int
	Key  string
}

// ClickInteraction builds a click on the 1-based star index.
func ClickInteraction(id string, star int) Interaction {
	return Interaction{ID: id, Kind: input.KindClick, Star: star}
}

// KeyInteraction builds a key press from a key or code identifier.
func KeyInteraction(id, key string) Interaction {
	return Interaction{ID: id, Kind: input.KindKey, Key: key}
}

// Render is the resolved row plus the state a view needs to draw it.
type Render struct {
	ID            string        `json:"id"`
	Rating        float64       `json:"rating"`
	StarCount     int           `json:"star_count"`
	ShowHalfStars bool          `json:"show_half_stars"`
	Stars         []rating.Star `json:"stars"`
	Disabled      bool          `json:"disabled"`
	ReadOnly      bool          `json:"read_only"`
}

// Widget owns one rating and turns interactions into change notifications.
// All methods are safe for concurrent use; interactions are serialized.
type Widget struct {
	id         string
	thresholds Thresholds
	notifier   Notifier

	mu       sync.Mutex
	settings Settings
	cfg      rating.Config
	policy   input.Policy
}

// NewWidget validates settings and creates a widget.
func NewWidget(id string, s Settings, t Thresholds, n Notifier) (*Widget, error) { //nolint:gocritic // hugeParam: value semantics
	cfg, policy, err := s.BuildWith(t)
	if err != nil {
		return nil, err
	}
	if n == nil {
		n = NotifierFunc(func(context.Context, Change) bool { return true })
	}
	s.Rating = cfg.Rating
	return &Widget{
		id:         id,
		thresholds: t,
		notifier:   n,
		settings:   s,
		cfg:        cfg,
		policy:     policy,
	}, nil
}

// ID returns the widget id.
func (w *Widget) ID() string { return w.id }

// Rating returns the current rating.
func (w *Widget) Rating() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg.Rating
}

// Settings returns the current settings, with Rating reflecting interactions.
func (w *Widget) Settings() Settings {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.settings
}

// Click applies a click on the 1-based star index.
func (w *Widget) Click(ctx context.Context, star int) (Change, bool, error) {
	return w.Apply(ctx, ClickInteraction("", star))
}

// Key applies a key press. Unknown keys are no-ops.
func (w *Widget) Key(ctx context.Context, key string) (Change, bool, error) {
	return w.Apply(ctx, KeyInteraction("", key))
}

// Dispatch applies an already decoded event.
func (w *Widget) Dispatch(ctx context.Context, ev input.Event) (Change, bool, error) {
	return w.apply(ctx, ev, Interaction{Kind: ev.Kind, Star: ev.Star})
}

// Apply decodes and applies an interaction. The bool reports whether the
// rating changed, and with it whether exactly one notification was sent.
func (w *Widget) Apply(ctx context.Context, in Interaction) (Change, bool, error) { //nolint:gocritic // hugeParam: value semantics
	switch in.Kind {
	case input.KindClick:
		if in.Star < 1 {
			metrics.RecordInteraction(in.Kind.String(), metrics.OutcomeNoop)
			return Change{}, false, fmt.Errorf("%w: star %d is not in the row", ErrInvalidInteraction, in.Star)
		}
		return w.apply(ctx, input.Click(in.Star), in)
	case input.KindKey:
		cmd, ok := input.ParseKey(in.Key)
		if !ok {
			metrics.RecordInteraction(in.Kind.String(), metrics.OutcomeUnknown)
			return Change{}, false, nil
		}
		return w.apply(ctx, input.Key(cmd), in)
	default:
		return Change{}, false, fmt.Errorf("%w: kind %s", ErrInvalidInteraction, in.Kind)
	}
}

func (w *Widget) apply(ctx context.Context, ev input.Event, in Interaction) (Change, bool, error) { //nolint:gocritic // hugeParam: value semantics
	w.mu.Lock()
	defer w.mu.Unlock()

	kind := ev.Kind.String()
	if w.policy.Blocked() {
		metrics.RecordInteraction(kind, metrics.OutcomeBlocked)
		return Change{}, false, nil
	}

	next, changed := input.Next(w.cfg.Rating, ev, w.cfg.StarCount, w.policy)
	if !changed {
		metrics.RecordInteraction(kind, metrics.OutcomeNoop)
		return Change{}, false, nil
	}

	c := Change{
		ID:            uuid.NewString(),
		WidgetID:      w.id,
		InteractionID: in.ID,
		Previous:      w.cfg.Rating,
		Rating:        next,
		Source:        kind,
		Key:           in.Key,
		At:            time.Now(),
	}
	// Notify under the lock so notifications leave in commit order.
	if !w.notifier.Notify(ctx, c) {
		return Change{}, false, ErrBackpressure
	}

	w.cfg.Rating = next
	w.settings.Rating = next
	metrics.RecordInteraction(kind, metrics.OutcomeChanged)
	metrics.RecordRatingChange(next)
	return c, true, nil
}

// Update re-applies settings as a property change. It never notifies.
func (w *Widget) Update(_ context.Context, s Settings) error { //nolint:gocritic // hugeParam: value semantics
	cfg, policy, err := s.BuildWith(w.thresholds)
	if err != nil {
		return err
	}
	s.Rating = cfg.Rating

	w.mu.Lock()
	defer w.mu.Unlock()
	w.settings = s
	w.cfg = cfg
	w.policy = policy
	return nil
}

// Render resolves the current row.
func (w *Widget) Render() Render {
	w.mu.Lock()
	cfg, policy := w.cfg, w.policy
	w.mu.Unlock()

	metrics.RecordRender()
	return Render{
		ID:            w.id,
		Rating:        cfg.Rating,
		StarCount:     cfg.StarCount,
		ShowHalfStars: cfg.ShowHalfStars,
		Stars:         rating.Resolve(cfg),
		Disabled:      policy.Disabled,
		ReadOnly:      policy.ReadOnly,
	}
}
