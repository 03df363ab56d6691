// Package viewstate holds the search input, location suggestions, last
// weather snapshot and last error for one screen or session, and
// republishes every change to subscribers.
//
// The controller has exactly two mutating entry points. OnInputChanged
// gates searches on a minimum input length; LoadWeatherForLocation fetches
// a forecast. Each call that reaches the network runs as its own
// goroutine. Tasks are never cancelled when superseded, and by default the
// last one to complete wins, even if it was started first.
package viewstate

import (
	"context"
	"fmt"
	"runtime/debug"
	"slices"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/AvtMob/WeatherApp/internal/events"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability/metrics"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

const (
	// MinSearchLength is the input length, in characters, at which a
	// location search is issued.
	MinSearchLength = 2

	// DefaultDays is the forecast length used when a load passes days <= 0.
	DefaultDays = 3

	searchFailedFormat = "Failed to search locations: %v"
	loadFailedFormat   = "Failed to load weather: %v"

	opSearch = "search"
	opLoad   = "load"
)

// Repository is the data source the controller depends on.
type Repository interface {
	FetchForecast(ctx context.Context, query string, days int) (*weatherapi.Snapshot, error)
	SearchLocations(ctx context.Context, query string) ([]weatherapi.SearchSuggestion, error)
}

// Controller owns a State and the tasks that write to it.
type Controller struct {
	repo     Repository
	log      logger.Logger
	metrics  *metrics.ControllerMetrics
	sequence bool
	eventBuf int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	state  State
	closed bool

	// generation counters, guarded by mu; only consulted with sequencing on
	searchGen uint64
	loadGen   uint64

	bus *events.Bus[Change]
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the parent logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l.Module("viewstate")
		}
	}
}

// WithMetrics enables controller metrics.
func WithMetrics(m *metrics.ControllerMetrics) Option {
	return func(c *Controller) {
		c.metrics = m
	}
}

// WithRequestSequencing discards task results that are no longer the newest
// for their concern: a search completion is dropped once a later input
// change happened, a load completion once a later load started.
func WithRequestSequencing() Option {
	return func(c *Controller) {
		c.sequence = true
	}
}

// WithEventBuffer sets the default subscriber buffer size.
func WithEventBuffer(n int) Option {
	return func(c *Controller) {
		c.eventBuf = n
	}
}

// New creates a controller with empty state.
func New(repo Repository, opts ...Option) *Controller {
	c := &Controller{
		repo:     repo,
		eventBuf: events.DefaultBufferSize,
		state:    State{Suggestions: []weatherapi.SearchSuggestion{}},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Global().Module("viewstate")
	}

	c.ctx, c.cancel = context.WithCancel(context.Background())
	c.bus = events.NewBus[Change](
		events.WithName("viewstate"),
		events.WithLogger(c.log),
		events.WithDefaultBuffer(c.eventBuf),
		events.WithDropHook(c.metrics.RecordDropped),
	)
	return c
}

// OnInputChanged stores text and refreshes suggestions. Input shorter than
// MinSearchLength clears the suggestions without a network call; anything
// longer starts one search for exactly text.
func (c *Controller) OnInputChanged(text string) {
	short := utf8.RuneCountInString(text) < MinSearchLength

	c.mu.Lock()
	c.searchGen++
	gen := c.searchGen
	c.state.InputText = text
	if short {
		c.state.Suggestions = []weatherapi.SearchSuggestion{}
		c.publishLocked(FieldInputText, FieldSuggestions)
		c.mu.Unlock()
		return
	}
	c.publishLocked(FieldInputText)
	started := c.startTaskLocked(opSearch)
	c.mu.Unlock()

	if !started {
		c.log.Debug("controller closed, search not started", logger.String("query", text))
		return
	}
	go c.runSearch(gen, text)
}

// LoadWeatherForLocation clears the error and starts one forecast fetch.
// days <= 0 means DefaultDays. A failed fetch keeps the previous snapshot.
func (c *Controller) LoadWeatherForLocation(query string, days int) {
	if days <= 0 {
		days = DefaultDays
	}

	c.mu.Lock()
	c.loadGen++
	gen := c.loadGen
	c.state.ErrorMessage = ""
	c.publishLocked(FieldErrorMessage)
	started := c.startTaskLocked(opLoad)
	c.mu.Unlock()

	if !started {
		c.log.Debug("controller closed, load not started", logger.String("query", query))
		return
	}
	go c.runLoad(gen, query, days)
}

func (c *Controller) runSearch(gen uint64, query string) {
	defer c.finishTask(opSearch)

	results, err := c.repo.SearchLocations(c.ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.acceptLocked(opSearch, c.searchGen, gen) {
		return
	}

	if err != nil {
		c.state.Suggestions = []weatherapi.SearchSuggestion{}
		c.state.ErrorMessage = fmt.Sprintf(searchFailedFormat, err)
		c.publishLocked(FieldSuggestions, FieldErrorMessage)
		c.metrics.RecordOperation(opSearch, metrics.StatusError)
		c.log.Warn("location search failed",
			logger.String("query", query),
			logger.Error(err))
		return
	}

	if results == nil {
		results = []weatherapi.SearchSuggestion{}
	}
	c.state.Suggestions = slices.Clone(results)
	c.publishLocked(FieldSuggestions)
	c.metrics.RecordOperation(opSearch, metrics.StatusSuccess)
	c.log.Debug("location search completed",
		logger.String("query", query),
		logger.Int("results", len(results)))
}

func (c *Controller) runLoad(gen uint64, query string, days int) {
	defer c.finishTask(opLoad)

	snap, err := c.repo.FetchForecast(c.ctx, query, days)

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.acceptLocked(opLoad, c.loadGen, gen) {
		return
	}

	if err != nil {
		c.state.ErrorMessage = fmt.Sprintf(loadFailedFormat, err)
		c.publishLocked(FieldErrorMessage)
		c.metrics.RecordOperation(opLoad, metrics.StatusError)
		c.log.Warn("weather load failed",
			logger.String("query", query),
			logger.Int("days", days),
			logger.Error(err))
		return
	}

	c.state.Snapshot = snap
	c.publishLocked(FieldSnapshot)
	c.metrics.RecordOperation(opLoad, metrics.StatusSuccess)
	c.log.Info("weather loaded",
		logger.String("query", query),
		logger.String("location", snap.Location.Name))
}

// acceptLocked decides whether a completed task may write. c.mu must be held.
func (c *Controller) acceptLocked(op string, current, gen uint64) bool {
	if c.closed {
		return false
	}
	if c.sequence && current != gen {
		c.metrics.RecordOperation(op, metrics.StatusStale)
		c.log.Debug("stale result discarded",
			logger.String("operation", op),
			logger.Uint64("generation", gen),
			logger.Uint64("current", current))
		return false
	}
	return true
}

// startTaskLocked registers a task unless the controller is closed. c.mu
// must be held so that Close cannot start waiting in between.
func (c *Controller) startTaskLocked(op string) bool {
	if c.closed {
		return false
	}
	c.wg.Add(1)
	c.metrics.TaskStarted(op)
	return true
}

func (c *Controller) finishTask(op string) {
	if r := recover(); r != nil {
		c.log.Error("controller task panicked",
			logger.String("operation", op),
			logger.Any("panic", r),
			logger.String("stack", string(debug.Stack())))
	}
	c.metrics.TaskFinished(op)
	c.wg.Done()
}

// publishLocked emits the current state. c.mu must be held, which keeps
// changes in write order.
func (c *Controller) publishLocked(fields ...Field) {
	for _, f := range fields {
		c.metrics.RecordStateChange(string(f))
	}
	c.bus.Publish(Change{
		Fields: fields,
		State:  c.state.clone(),
		Time:   time.Now(),
	})
}

// Subscribe returns a subscription receiving a Change per state write.
// A subscriber that falls behind loses the oldest pending changes; the
// newest one is always delivered. buffer <= 0 uses the default size.
func (c *Controller) Subscribe(buffer int) (*events.Subscription[Change], error) {
	return c.bus.Subscribe(buffer)
}

// State returns a copy of the whole state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// InputText returns the last text passed to OnInputChanged.
func (c *Controller) InputText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.InputText
}

// Suggestions returns a copy of the current suggestions, never nil.
func (c *Controller) Suggestions() []weatherapi.SearchSuggestion {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone().Suggestions
}

// Snapshot returns the last successfully loaded snapshot, or nil.
func (c *Controller) Snapshot() *weatherapi.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot
}

// ErrorMessage returns the last error message, or "" when none is set.
func (c *Controller) ErrorMessage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.ErrorMessage
}

// Stats returns delivery statistics of the change stream.
func (c *Controller) Stats() events.Stats {
	return c.bus.Stats()
}

// Wait blocks until every task started so far has finished. It must not
// race with the entry points.
func (c *Controller) Wait() {
	c.wg.Wait()
}

// Close cancels in-flight tasks, waits for them and closes all
// subscriptions. Results that arrive after Close are discarded. Entry
// points called after Close do not start tasks.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	c.bus.Close()
	c.log.Debug("controller closed")
}
