package queue

import (
	"context"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/starrating/pkg/metrics"
)

// Sharded splits changes over several in-memory queues by widget id. Every
// change of one widget lands in the same shard, so a single consumer per
// shard sees that widget's changes in enqueue order.
type Sharded struct {
	shards []*InMemoryQueue
}

// NewSharded creates n shards sharing capacity between them. n < 1 means one shard.
func NewSharded(n, capacity int) *Sharded {
	if n < 1 {
		n = 1
	}
	per := max((capacity+n-1)/n, 1)

	s := &Sharded{shards: make([]*InMemoryQueue, n)}
	for i := range s.shards {
		s.shards[i] = NewInMemoryQueue(WithCapacity(per))
	}
	metrics.UpdateQueueCapacity(s.Capacity())
	return s
}

// Shards returns the number of shards.
func (s *Sharded) Shards() int { return len(s.shards) }

// Shard returns the i-th shard for its consumer.
func (s *Sharded) Shard(i int) *InMemoryQueue { return s.shards[i] }

// ShardFor returns the index of the shard that owns widgetID.
func (s *Sharded) ShardFor(widgetID string) int {
	return int(xxhash.Sum64String(widgetID) % uint64(len(s.shards)))
}

// Enqueue adds a change to its widget's shard without blocking. Returns false
// if that shard is full or closed.
func (s *Sharded) Enqueue(ctx context.Context, c Change) bool { //nolint:gocritic // hugeParam: passed by value for channel semantics
	if !s.shards[s.ShardFor(c.WidgetID)].Enqueue(ctx, c) {
		return false
	}
	metrics.UpdateQueueSize(s.Len(ctx))
	return true
}

// Len returns the number of queued changes across shards.
func (s *Sharded) Len(_ context.Context) int {
	n := 0
	for _, q := range s.shards {
		n += len(q.changes)
	}
	metrics.UpdateQueueSize(n)
	return n
}

// Capacity returns the combined bound of all shards.
func (s *Sharded) Capacity() int {
	n := 0
	for _, q := range s.shards {
		n += q.capacity
	}
	return n
}

// Close closes every shard. Queued changes stay readable.
func (s *Sharded) Close() error {
	for _, q := range s.shards {
		if err := q.Close(); err != nil {
			return err
		}
	}
	return nil
}

// IsClosed reports whether Close has been called.
func (s *Sharded) IsClosed() bool { return s.shards[0].IsClosed() }
