// Package app assembles the weather client, repository, controller and
// device location helper from settings. Commands share it so every view is
// wired the same way.
package app

import (
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/httpclient"
	"github.com/AvtMob/WeatherApp/internal/location"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability"
	"github.com/AvtMob/WeatherApp/internal/repository"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

const defaultUserAgent = "WeatherApp"

// App holds the wired components. Metrics is nil unless requested.
type App struct {
	Settings   *conf.Settings
	Client     *weatherapi.Client
	Repository *repository.Repository
	Controller *viewstate.Controller
	Locator    *location.Locator
	Metrics    *observability.Metrics
}

// Option customizes New.
type Option func(*options)

type options struct {
	metrics *observability.Metrics
	client  *weatherapi.Client
	log     logger.Logger
}

// WithMetrics feeds the components' collectors into m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithClient replaces the weather API client built from settings.
func WithClient(c *weatherapi.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithLogger sets the parent logger for all components.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// New wires all components. It fails when the API key is missing or the
// location source is misconfigured.
func New(settings *conf.Settings, build *buildinfo.Context, opts ...Option) (*App, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.Global().Module("app")
	}

	client := o.client
	if client == nil {
		client = NewClient(settings, build, o.metrics, o.log)
	}

	repo, err := repository.New(client, settings.WeatherAPIKey(),
		repository.WithForecastFeatures(settings.Forecast.AirQuality, settings.Forecast.Alerts),
		repository.WithLogger(o.log))
	if err != nil {
		client.Close()
		return nil, err
	}

	locator, err := location.New(location.Config{
		Source:    settings.Location.Source,
		Latitude:  settings.Location.Latitude,
		Longitude: settings.Location.Longitude,
		CacheTTL:  settings.Location.CacheTTL,
	}, repo, o.log)
	if err != nil {
		client.Close()
		return nil, err
	}

	ctrlOpts := []viewstate.Option{viewstate.WithLogger(o.log)}
	if settings.Controller.SequenceRequests {
		ctrlOpts = append(ctrlOpts, viewstate.WithRequestSequencing())
	}
	if settings.Controller.EventBuffer > 0 {
		ctrlOpts = append(ctrlOpts, viewstate.WithEventBuffer(settings.Controller.EventBuffer))
	}
	if o.metrics != nil {
		ctrlOpts = append(ctrlOpts, viewstate.WithMetrics(o.metrics.Controller))
	}

	return &App{
		Settings:   settings,
		Client:     client,
		Repository: repo,
		Controller: viewstate.New(repo, ctrlOpts...),
		Locator:    locator,
		Metrics:    o.metrics,
	}, nil
}

// NewClient builds the weather API client from settings.
func NewClient(settings *conf.Settings, build *buildinfo.Context, m *observability.Metrics, log logger.Logger) *weatherapi.Client {
	userAgent := settings.WeatherAPI.UserAgent
	if userAgent == "" || userAgent == defaultUserAgent {
		userAgent = build.UserAgent()
	}

	opts := []weatherapi.Option{
		weatherapi.WithHTTPClient(httpclient.New(&httpclient.Config{
			DefaultTimeout: settings.WeatherAPI.Timeout,
			UserAgent:      userAgent,
		})),
		weatherapi.WithLogger(log),
	}
	if settings.WeatherAPI.Endpoint != "" {
		opts = append(opts, weatherapi.WithBaseURL(settings.WeatherAPI.Endpoint))
	}
	if m != nil {
		opts = append(opts, weatherapi.WithMetrics(m.WeatherAPI))
	}
	return weatherapi.NewClient(opts...)
}

// DefaultDays returns the configured forecast length.
func (a *App) DefaultDays() int {
	if a.Settings.Forecast.Days > 0 {
		return a.Settings.Forecast.Days
	}
	return conf.DefaultForecastDays
}

// Close stops the controller and releases idle connections.
func (a *App) Close() {
	a.Controller.Close()
	a.Client.Close()
}

// Load drives a forecast load through the controller and waits for it.
// A failure is returned with the controller's error message.
func (a *App) Load(query string, days int) (*weatherapi.Snapshot, error) {
	a.Controller.LoadWeatherForLocation(query, days)
	a.Controller.Wait()
	if msg := a.Controller.ErrorMessage(); msg != "" {
		return nil, errors.NewStd(msg)
	}
	return a.Controller.Snapshot(), nil
}

// Search drives a location search through the controller and waits for it.
func (a *App) Search(query string) ([]weatherapi.SearchSuggestion, error) {
	a.Controller.OnInputChanged(query)
	a.Controller.Wait()
	if msg := a.Controller.ErrorMessage(); msg != "" {
		return nil, errors.NewStd(msg)
	}
	return a.Controller.Suggestions(), nil
}
