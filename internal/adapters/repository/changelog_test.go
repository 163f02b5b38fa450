package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(widget string, seq int) Change {
	return Change{
		ID:       fmt.Sprintf("%s-%d", widget, seq),
		WidgetID: widget,
		Rating:   float64(seq),
		At:       base.Add(time.Duration(seq) * time.Millisecond),
	}
}

func TestChangelog_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewChangelog()
	store.Track(ctx, "w1")

	got, err := store.Recent(ctx, "w1", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %d", len(got))
	}

	for i := 1; i <= 3; i++ {
		if err := store.Append(ctx, at("w1", i)); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	if n := store.Count(ctx); n != 3 {
		t.Errorf("expected count 3, got %d", n)
	}

	got, err = store.Recent(ctx, "w1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].ID != "w1-3" || got[1].ID != "w1-2" {
		t.Errorf("expected newest first [w1-3 w1-2], got %v", ids(got))
	}

	all, _ := store.Recent(ctx, "w1", 0)
	if len(all) != 3 {
		t.Errorf("limit 0: expected 3, got %d", len(all))
	}
}

func TestChangelog_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewChangelog()

	if _, err := store.Recent(ctx, "missing", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	store.Track(ctx, "w1")
	if _, err := store.Recent(ctx, "w1", -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if err := store.Append(cancelled, at("w1", 1)); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestChangelog_UntrackedDropped(t *testing.T) {
	ctx := context.Background()
	store := NewChangelog()

	if err := store.Append(ctx, at("ghost", 1)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := store.Count(ctx); n != 0 {
		t.Errorf("expected untracked change dropped, count %d", n)
	}

	store.Track(ctx, "w1")
	_ = store.Append(ctx, at("w1", 1))
	store.Forget(ctx, "w1")
	_ = store.Append(ctx, at("w1", 2))
	if n := store.Count(ctx); n != 0 {
		t.Errorf("expected forgotten widget to stay empty, count %d", n)
	}
	if _, err := store.Recent(ctx, "w1", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after Forget, got %v", err)
	}
}

func TestChangelog_OutOfOrderDelivery(t *testing.T) {
	ctx := context.Background()
	store := NewChangelog()
	store.Track(ctx, "w1")

	for _, seq := range []int{2, 5, 1, 4, 3} {
		if err := store.Deliver(ctx, at("w1", seq)); err != nil {
			t.Fatalf("deliver %d: %v", seq, err)
		}
	}

	got, _ := store.Recent(ctx, "w1", 0)
	want := []string{"w1-5", "w1-4", "w1-3", "w1-2", "w1-1"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("position %d: expected %s, got %v", i, want[i], ids(got))
		}
	}
}

func TestChangelog_Bounded(t *testing.T) {
	ctx := context.Background()
	store := NewChangelog(WithMaxPerWidget(3))
	store.Track(ctx, "w1")

	for i := 1; i <= 10; i++ {
		_ = store.Append(ctx, at("w1", i))
	}
	if n := store.Count(ctx); n != 3 {
		t.Errorf("expected 3 retained, got %d", n)
	}
	got, _ := store.Recent(ctx, "w1", 0)
	if got[0].ID != "w1-10" || got[2].ID != "w1-8" {
		t.Errorf("expected newest three, got %v", ids(got))
	}
}

func TestChangelog_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewChangelog(WithMaxPerWidget(1000))

	const widgets, perWidget = 8, 100
	for w := 0; w < widgets; w++ {
		store.Track(ctx, fmt.Sprintf("w%d", w))
	}

	var wg sync.WaitGroup
	for w := 0; w < widgets; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			id := fmt.Sprintf("w%d", w)
			for i := 0; i < perWidget; i++ {
				_ = store.Append(ctx, at(id, i))
				_, _ = store.Recent(ctx, id, 5)
			}
		}(w)
	}
	wg.Wait()

	if n := store.Count(ctx); n != widgets*perWidget {
		t.Errorf("expected %d retained, got %d", widgets*perWidget, n)
	}
	if store.Name() != "changelog" {
		t.Errorf("unexpected subscriber name %q", store.Name())
	}
}

func ids(cs []Change) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	return out
}
