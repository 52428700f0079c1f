package queue

import (
	"context"
	"hash/fnv"

	"github.com/rs/zerolog"

	"github.com/shopfront/shop-api/internal/core/domain"
	"github.com/shopfront/shop-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher fans audit events out to a fixed set of workers. Events for the
// same subject always land on the same worker so they are persisted in the
// order they were recorded.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	service ports.AuthEventService
	log     zerolog.Logger
	onDrop  func()
}

var _ ports.AuthEventRecorder = (*Dispatcher)(nil)

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithDropHook registers fn to run whenever an event is dropped because its
// worker queue is full.
func WithDropHook(fn func()) DispatcherOption {
	return func(d *Dispatcher) { d.onDrop = fn }
}

// NewDispatcher creates a Dispatcher with numWorkers shards.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.AuthEventService, log zerolog.Logger, opts ...DispatcherOption) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start launches the workers. They exit when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record queues ev for persistence and never blocks: when the worker queue
// is full the event is dropped and logged.
func (d *Dispatcher) Record(ev domain.AuthEvent) {
	select {
	case d.workers[d.shardIndex(ev.Subject)] <- ev:
	default:
		d.log.Warn().
			Str("subject", ev.Subject).
			Str("kind", string(ev.Kind)).
			Msg("audit queue full, event dropped")
		if d.onDrop != nil {
			d.onDrop()
		}
	}
}

func (d *Dispatcher) shardIndex(subject string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(subject))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-ch:
			if err := d.service.Process(ctx, ev); err != nil {
				d.log.Error().Err(err).
					Str("subject", ev.Subject).
					Int("worker_id", id).
					Msg("audit event processing failed")
			}
		}
	}
}
