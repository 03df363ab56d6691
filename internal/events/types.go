// Package events provides an in-process publish/subscribe bus with
// non-blocking, latest-wins delivery.
//
// Publishers never wait on subscribers. When a subscriber's buffer is full
// the oldest pending value is discarded to make room, so a slow subscriber
// always ends up seeing the most recent value.
package events

import "github.com/AvtMob/WeatherApp/internal/logger"

// Stats contains runtime statistics for monitoring
type Stats struct {
	Published   uint64 // values passed to Publish
	Delivered   uint64 // per-subscriber sends that succeeded
	Dropped     uint64 // stale values discarded to make room
	Subscribers int
}

// Option configures a Bus.
type Option func(*options)

type options struct {
	name       string
	onDrop     func(n int)
	defaultBuf int
	log        logger.Logger
}

// WithName labels the bus in logs.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithDropHook registers fn to be called with the number of values
// discarded during a single Publish. fn runs under the bus lock and must
// not call back into the bus.
func WithDropHook(fn func(n int)) Option {
	return func(o *options) {
		o.onDrop = fn
	}
}

// WithDefaultBuffer sets the buffer used when Subscribe is called with a
// non-positive size.
func WithDefaultBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.defaultBuf = n
		}
	}
}

// WithLogger sets the parent logger; the bus logs under module "events".
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}
