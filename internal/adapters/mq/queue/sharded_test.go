package queue

import (
	"context"
	"strconv"
	"testing"
)

func TestSharded_SameWidgetSameShard(t *testing.T) {
	s := NewSharded(4, 100)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		widget := "w-" + strconv.Itoa(i)
		want := s.ShardFor(widget)
		for j := 0; j < 3; j++ {
			c := change(widget + "/" + strconv.Itoa(j))
			c.WidgetID = widget
			if !s.Enqueue(ctx, c) {
				t.Fatalf("enqueue %s failed", c.ID)
			}
		}
		if got := s.ShardFor(widget); got != want {
			t.Errorf("widget %s moved from shard %d to %d", widget, want, got)
		}
	}
	if l := s.Len(ctx); l != 60 {
		t.Errorf("expected 60 queued, got %d", l)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for i := 0; i < s.Shards(); i++ {
		last := map[string]int{}
		for c := range s.Shard(i).Dequeue(ctx) {
			if s.ShardFor(c.WidgetID) != i {
				t.Errorf("change %s of %s read from shard %d", c.ID, c.WidgetID, i)
			}
			seq, _ := strconv.Atoi(c.ID[len(c.WidgetID)+1:])
			if prev, ok := last[c.WidgetID]; ok && seq != prev+1 {
				t.Errorf("widget %s: change %d after %d", c.WidgetID, seq, prev)
			}
			last[c.WidgetID] = seq
		}
	}
}

func TestSharded_CapacityAndClose(t *testing.T) {
	s := NewSharded(3, 10)
	if s.Shards() != 3 {
		t.Fatalf("expected 3 shards, got %d", s.Shards())
	}
	if c := s.Capacity(); c != 12 {
		t.Errorf("expected capacity 12 (3 x 4), got %d", c)
	}

	if NewSharded(0, 5).Shards() != 1 {
		t.Error("expected one shard when n < 1")
	}

	ctx := context.Background()
	_ = s.Close()
	if !s.IsClosed() {
		t.Error("expected queue to be closed")
	}
	if s.Enqueue(ctx, change("late")) {
		t.Error("expected enqueue after close to fail")
	}
}
