// Package eventbus delivers committed domain events to outbound sinks
// (JetStream, Redis pub/sub) off the request path. Events with the same key
// are delivered in publish order; delivery is best effort.
package eventbus

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/lotbid-backend/internal/domain"
)

// Sink is an outbound destination for events.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event domain.Event) error
}

type recorder interface {
	EventDelivered(sink string, err error)
	EventDropped()
}

// Config controls queueing and delivery.
type Config struct {
	QueueSize      int
	Workers        int
	DeliverTimeout time.Duration
}

// Bus fans events out to sinks. Publish never blocks: when a shard queue is
// full the event is dropped and counted.
type Bus struct {
	shards  []chan domain.Event
	sinks   []Sink
	log     *slog.Logger
	metrics recorder
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a Bus and starts its workers. Call Close to drain.
func New(log *slog.Logger, metrics recorder, cfg Config, sinks ...Sink) *Bus {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.DeliverTimeout <= 0 {
		cfg.DeliverTimeout = 5 * time.Second
	}

	b := &Bus{
		shards:  make([]chan domain.Event, cfg.Workers),
		sinks:   sinks,
		log:     log.With("component", "eventbus"),
		metrics: metrics,
		timeout: cfg.DeliverTimeout,
	}

	perShard := max(1, cfg.QueueSize/cfg.Workers)
	for i := range b.shards {
		b.shards[i] = make(chan domain.Event, perShard)
		b.wg.Add(1)
		go b.run(b.shards[i])
	}

	return b
}

// Publish enqueues events for delivery.
func (b *Bus) Publish(ctx context.Context, events ...domain.Event) {
	if len(b.sinks) == 0 {
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}

	for _, ev := range events {
		select {
		case b.shards[b.shardFor(ev)] <- ev:
		default:
			b.metrics.EventDropped()
			b.log.WarnContext(ctx, "event queue full, dropping event",
				slog.String("type", string(ev.Type())),
				slog.String("key", ev.Key().String()),
			)
		}
	}
}

// Close stops accepting events and waits for queued ones to be delivered or
// for ctx to expire.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		for _, ch := range b.shards {
			close(ch)
		}
	}
	b.mu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("eventbus: drain interrupted"), ctx.Err())
	}
}

func (b *Bus) shardFor(ev domain.Event) int {
	if len(b.shards) == 1 {
		return 0
	}
	key := ev.Key()
	h := fnv.New32a()
	_, _ = h.Write(key[:])
	return int(h.Sum32() % uint32(len(b.shards)))
}

func (b *Bus) run(queue <-chan domain.Event) {
	defer b.wg.Done()

	for ev := range queue {
		for _, sink := range b.sinks {
			b.deliver(sink, ev)
		}
	}
}

func (b *Bus) deliver(sink Sink, ev domain.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	err := sink.Deliver(ctx, ev)
	b.metrics.EventDelivered(sink.Name(), err)
	if err != nil {
		b.log.Warn("event delivery failed",
			slog.String("sink", sink.Name()),
			slog.String("type", string(ev.Type())),
			slog.String("key", ev.Key().String()),
			slog.String("error", err.Error()),
		)
	}
}
