// Package worker delivers queued change notifications to subscribers.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/starrating/internal/domain/model"
	"github.com/okian/starrating/pkg/logger"
	"github.com/okian/starrating/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Change is what workers read off the queue.
type Change = model.Change

// Subscriber receives every dispatched change. Deliver may be called from
// several workers at once; per-widget order holds only under NewShardedPool.
type Subscriber interface {
	Name() string
	Deliver(ctx context.Context, c Change) error
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc struct {
	ID string
	Fn func(ctx context.Context, c Change) error
}

// Name implements Subscriber.
func (f SubscriberFunc) Name() string { return f.ID }

// Deliver implements Subscriber.
func (f SubscriberFunc) Deliver(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam: value semantics
	return f.Fn(ctx, c)
}

// Queue defines how workers receive changes.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Change
}

// Worker dispatches changes until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker without draining the queue.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker over a shared queue channel.
type InMemoryWorker struct {
	queue       Queue
	subscribers []Subscriber
	name        string
	processed   *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker delivering to subscribers in order.
func NewInMemoryWorker(queue Queue, subscribers []Subscriber, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:       queue,
		subscribers: subscribers,
		name:        "worker",
		processed:   new(atomic.Int64),
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	changes := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			if err := w.dispatch(ctx, c); err != nil {
				w.logger.Error(ctx, "change delivery failed",
					logger.String("change_id", c.ID),
					logger.String("widget_id", c.WidgetID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// dispatch hands c to every subscriber. A failing subscriber does not stop
// the others; the first error is returned.
func (w *InMemoryWorker) dispatch(ctx context.Context, c Change) error { //nolint:gocritic // hugeParam: value semantics
	start := time.Now()
	defer func() {
		metrics.RecordDispatchLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	var first error
	for _, s := range w.subscribers {
		if err := s.Deliver(ctx, c); err != nil {
			metrics.RecordDispatchError(s.Name())
			if first == nil {
				first = fmt.Errorf("%s: %w", s.Name(), err)
			}
		}
	}
	w.processed.Add(1)
	return first
}

// Pool manages multiple dispatch workers.
type Pool struct {
	workers   []*InMemoryWorker
	queues    []Queue
	processed atomic.Int64

	logger logger.Logger
}

// NewPool creates workerCount workers sharing one queue. workerCount < 1 means
// one per CPU. Changes of one widget may be delivered out of order.
func NewPool(workerCount int, queue Queue, subscribers []Subscriber, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	queues := make([]Queue, workerCount)
	for i := range queues {
		queues[i] = queue
	}
	return newPool(queues, subscribers, opts)
}

// NewShardedPool creates one worker per queue. Everything routed to a queue is
// delivered in the order it was queued.
func NewShardedPool(queues []Queue, subscribers []Subscriber, opts ...Option) *Pool {
	return newPool(queues, subscribers, opts)
}

func newPool(queues []Queue, subscribers []Subscriber, opts []Option) *Pool {
	p := &Pool{
		workers: make([]*InMemoryWorker, len(queues)),
		queues:  queues,
	}
	for i, q := range queues {
		workerOpts := append([]Option{WithName("dispatcher-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(q, subscribers, workerOpts...)
		w.processed = &p.processed
		p.workers[i] = w
	}
	p.logger = NewInMemoryWorker(nil, nil, append([]Option{WithName("dispatcher-pool")}, opts...)...).logger
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of changes dispatched so far.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateDispatchers(len(p.workers))
	p.logger.Info(ctx, "dispatchers started", logger.Int("workers", len(p.workers)))
}

// Shutdown closes the queues and waits for the workers to drain them.
func (p *Pool) Shutdown(ctx context.Context) error {
	for _, q := range p.queues {
		if closer, ok := q.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				p.logger.Error(ctx, "error closing queue", logger.Error(err))
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "dispatcher drain timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateDispatchers(0)
	if timedOut {
		return fmt.Errorf("dispatcher drain: %w", shutdownCtx.Err())
	}
	return nil
}
