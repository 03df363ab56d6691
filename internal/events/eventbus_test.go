package events

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AvtMob/WeatherApp/internal/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestBus(t *testing.T, opts ...Option) *Bus[int] {
	t.Helper()
	opts = append(opts, WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)))
	b := NewBus[int](opts...)
	t.Cleanup(b.Close)
	return b
}

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	t.Parallel()
	b := newTestBus(t)

	s1, err := b.Subscribe(4)
	require.NoError(t, err)
	s2, err := b.Subscribe(4)
	require.NoError(t, err)
	assert.NotEqual(t, s1.ID(), s2.ID())

	assert.Equal(t, 2, b.Publish(7))
	assert.Equal(t, 7, <-s1.C())
	assert.Equal(t, 7, <-s2.C())

	stats := b.Stats()
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(2), stats.Delivered)
	assert.Zero(t, stats.Dropped)
	assert.Equal(t, 2, stats.Subscribers)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	t.Parallel()
	b := newTestBus(t)
	assert.Zero(t, b.Publish(1))
	assert.Equal(t, uint64(1), b.Stats().Published)
}

func TestSlowSubscriberKeepsLatestValues(t *testing.T) {
	t.Parallel()

	var hookDrops int
	b := newTestBus(t, WithDropHook(func(n int) { hookDrops += n }))

	sub, err := b.Subscribe(2)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		b.Publish(i)
	}

	assert.Equal(t, 4, <-sub.C())
	assert.Equal(t, 5, <-sub.C())
	assert.Equal(t, uint64(3), b.Stats().Dropped)
	assert.Equal(t, 3, hookDrops)
}

func TestPublishOrderIsPreserved(t *testing.T) {
	t.Parallel()
	b := newTestBus(t)

	sub, err := b.Subscribe(100)
	require.NoError(t, err)

	for i := range 100 {
		b.Publish(i)
	}
	for i := range 100 {
		assert.Equal(t, i, <-sub.C())
	}
}

func TestDefaultBuffer(t *testing.T) {
	t.Parallel()
	b := newTestBus(t, WithDefaultBuffer(3))

	sub, err := b.Subscribe(0)
	require.NoError(t, err)
	assert.Equal(t, 3, cap(sub.ch))
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()
	b := newTestBus(t)

	sub, err := b.Subscribe(1)
	require.NoError(t, err)

	sub.Unsubscribe()
	sub.Unsubscribe()

	_, open := <-sub.C()
	assert.False(t, open)
	assert.Zero(t, b.Publish(1))
	assert.Zero(t, b.Stats().Subscribers)
}

func TestCloseClosesSubscriptions(t *testing.T) {
	t.Parallel()
	b := NewBus[string](WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)))

	sub, err := b.Subscribe(1)
	require.NoError(t, err)

	b.Close()
	b.Close()

	_, open := <-sub.C()
	assert.False(t, open)
	assert.Zero(t, b.Publish("late"))

	sub.Unsubscribe()

	_, err = b.Subscribe(1)
	require.ErrorIs(t, err, ErrBusClosed)
}

func TestConcurrentPublishAndConsume(t *testing.T) {
	t.Parallel()
	b := newTestBus(t)

	sub, err := b.Subscribe(8)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for p := range 4 {
		wg.Go(func() {
			for i := range 250 {
				b.Publish(p*1000 + i)
			}
		})
	}

	done := make(chan int)
	go func() {
		n := 0
		for range sub.C() {
			n++
		}
		done <- n
	}()

	wg.Wait()
	sub.Unsubscribe()
	received := <-done

	stats := b.Stats()
	assert.Equal(t, uint64(1000), stats.Published)
	assert.Equal(t, uint64(1000), stats.Delivered, "eviction always makes room for the new value")
	assert.Equal(t, stats.Dropped, uint64(1000-received))
}
