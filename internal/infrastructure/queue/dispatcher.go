package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mealbridge/marketplace/internal/core/domain"
	"github.com/mealbridge/marketplace/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Dispatcher routes lifecycle events to a fixed set of workers using
// consistent hashing on the aggregate id, guaranteeing per-meal (and
// per-restaurant) ordering. Every worker delivers to all sinks.
type Dispatcher struct {
	workers []chan domain.LifecycleEvent
	sinks   []ports.EventSink
	onDrop  func(domain.LifecycleEvent)
	log     zerolog.Logger
	wg      sync.WaitGroup

	mu     sync.RWMutex // guards closed against sends on closed shards
	closed bool
	cancel context.CancelFunc
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithDropHook is called for every event that could not be queued.
func WithDropHook(fn func(domain.LifecycleEvent)) Option {
	return func(disp *Dispatcher) { disp.onDrop = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, sinks []ports.EventSink, log zerolog.Logger, opts ...Option) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.LifecycleEvent, numWorkers),
		sinks:   sinks,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.LifecycleEvent, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var _ ports.EventPublisher = (*Dispatcher)(nil)

// Start launches all worker goroutines. Cancelling ctx abandons whatever is
// still queued; Shutdown is the orderly way to stop.
func (d *Dispatcher) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Shutdown stops accepting events and waits until the workers have delivered
// everything already queued. If ctx ends first, in-flight deliveries are
// cancelled and ctx's error is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if d.cancel != nil {
			d.cancel()
		}
		<-done
		return ctx.Err()
	}
}

// Enqueue hands an event to the worker responsible for its aggregate. It
// never blocks: callers may hold registry locks, so a full shard or a shut
// down dispatcher drops the event and logs it.
func (d *Dispatcher) Enqueue(event domain.LifecycleEvent) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(event, "dispatcher shut down, dropping event")
		return
	}
	select {
	case d.workers[d.shardIndex(event.AggregateID())] <- event:
	default:
		d.drop(event, "event queue full, dropping event")
	}
}

func (d *Dispatcher) drop(event domain.LifecycleEvent, msg string) {
	d.log.Warn().
		Str("kind", string(event.Kind)).
		Str("aggregate_id", event.AggregateID()).
		Msg(msg)
	if d.onDrop != nil {
		d.onDrop(event)
	}
}

// shardIndex maps an aggregate id deterministically to a worker index.
func (d *Dispatcher) shardIndex(aggregateID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(aggregateID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.LifecycleEvent) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			d.deliver(ctx, id, event)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID int, event domain.LifecycleEvent) {
	for _, sink := range d.sinks {
		if err := sink.Publish(ctx, event); err != nil {
			d.log.Error().Err(err).
				Str("kind", string(event.Kind)).
				Str("aggregate_id", event.AggregateID()).
				Int("worker_id", workerID).
				Msg("event delivery failed")
		}
	}
}
