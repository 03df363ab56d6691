package events

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
)

// DefaultBufferSize is the per-subscriber buffer when none is given.
const DefaultBufferSize = 16

// ErrBusClosed is returned by Subscribe after Close.
var ErrBusClosed = errors.NewStd("event bus closed")

// Bus fans values of type T out to any number of subscribers.
type Bus[T any] struct {
	opts options

	mu     sync.Mutex
	subs   map[string]*Subscription[T]
	closed bool

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64

	log logger.Logger
}

// Subscription is a single subscriber's view of a Bus.
type Subscription[T any] struct {
	id   string
	ch   chan T
	bus  *Bus[T]
	once sync.Once
}

// NewBus creates an empty bus.
func NewBus[T any](opts ...Option) *Bus[T] {
	o := options{name: "events", defaultBuf: DefaultBufferSize}
	for _, opt := range opts {
		opt(&o)
	}
	var log logger.Logger
	if o.log != nil {
		log = o.log.Module("events")
	} else {
		log = logger.Global().Module("events")
	}
	return &Bus[T]{
		opts: o,
		subs: make(map[string]*Subscription[T]),
		log:  log.With(logger.String("bus", o.name)),
	}
}

// Subscribe registers a subscriber with the given buffer size.
func (b *Bus[T]) Subscribe(buffer int) (*Subscription[T], error) {
	if buffer <= 0 {
		buffer = b.opts.defaultBuf
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	sub := &Subscription[T]{
		id:  uuid.NewString(),
		ch:  make(chan T, buffer),
		bus: b,
	}
	b.subs[sub.id] = sub

	b.log.Debug("subscriber registered",
		logger.String("subscription_id", sub.id),
		logger.Int("buffer", buffer),
		logger.Int("subscribers", len(b.subs)))

	return sub, nil
}

// Publish delivers v to every subscriber without blocking and returns the
// number of subscribers it reached. Values published from one goroutine,
// or under a caller-held lock, arrive in publish order.
func (b *Bus[T]) Publish(v T) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0
	}
	b.published.Add(1)

	dropped := 0
	for _, sub := range b.subs {
		select {
		case sub.ch <- v:
		default:
			// Full: discard the oldest pending value. Only Publish sends, and
			// it holds b.mu, so the retry below cannot find the buffer full.
			select {
			case <-sub.ch:
				dropped++
			default:
			}
			select {
			case sub.ch <- v:
			default:
				dropped++
				continue
			}
		}
		b.delivered.Add(1)
	}

	if dropped > 0 {
		b.dropped.Add(uint64(dropped))
		if b.opts.onDrop != nil {
			b.opts.onDrop(dropped)
		}
		b.log.Trace("stale values dropped for slow subscribers", logger.Int("count", dropped))
	}
	return len(b.subs)
}

// Close closes every subscription channel. Further publishes are ignored.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		close(sub.ch)
		delete(b.subs, id)
	}
	b.log.Debug("event bus closed")
}

// Stats returns current bus statistics
func (b *Bus[T]) Stats() Stats {
	b.mu.Lock()
	n := len(b.subs)
	b.mu.Unlock()

	return Stats{
		Published:   b.published.Load(),
		Delivered:   b.delivered.Load(),
		Dropped:     b.dropped.Load(),
		Subscribers: n,
	}
}

func (b *Bus[T]) unsubscribe(sub *Subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.subs[sub.id]; !ok {
		return
	}
	delete(b.subs, sub.id)
	close(sub.ch)
}

// ID returns the subscription's unique identifier.
func (s *Subscription[T]) ID() string {
	return s.id
}

// C returns the receive channel. It is closed on Unsubscribe or bus Close.
func (s *Subscription[T]) C() <-chan T {
	return s.ch
}

// Unsubscribe detaches the subscription and closes its channel. Safe to
// call more than once.
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.bus.unsubscribe(s)
	})
}

func (s *Subscription[T]) String() string {
	return fmt.Sprintf("subscription(%s)", s.id)
}
