// Package repository binds the configured API key to weather API calls.
//
// It is the seam the view-state controller depends on: callers pass only
// the place query, and errors from the client are returned unchanged.
package repository

import (
	"context"
	"time"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// IPAutoQuery asks the provider to geolocate the caller's own address.
const IPAutoQuery = "auto:ip"

// API is the subset of *weatherapi.Client the repository uses.
type API interface {
	GetForecast(ctx context.Context, apiKey string, req weatherapi.ForecastRequest) (*weatherapi.Snapshot, error)
	GetHistory(ctx context.Context, apiKey string, req weatherapi.HistoryRequest) (*weatherapi.Snapshot, error)
	SearchLocations(ctx context.Context, apiKey, query string) ([]weatherapi.SearchSuggestion, error)
	LookupIP(ctx context.Context, apiKey, query string) (*weatherapi.IPInfo, error)
}

// Repository forwards requests to the API with the stored key.
type Repository struct {
	api        API
	apiKey     string
	airQuality bool
	alerts     bool
	log        logger.Logger
}

// Option configures a Repository.
type Option func(*Repository)

// WithForecastFeatures toggles the air quality and alert sections of
// forecast and history responses. Both are enabled by default.
func WithForecastFeatures(airQuality, alerts bool) Option {
	return func(r *Repository) {
		r.airQuality = airQuality
		r.alerts = alerts
	}
}

// WithLogger sets the parent logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.log = l.Module("repository")
		}
	}
}

// New creates a repository. An empty key is a configuration error.
func New(api API, apiKey string, opts ...Option) (*Repository, error) {
	if api == nil {
		return nil, errors.Newf("weather API client is required").
			Component("repository").
			Category(errors.CategoryConfiguration).
			Build()
	}
	if apiKey == "" {
		return nil, errors.Newf("weather API key is not configured").
			Component("repository").
			Category(errors.CategoryConfiguration).
			Build()
	}

	r := &Repository{
		api:        api,
		apiKey:     apiKey,
		airQuality: true,
		alerts:     true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.log == nil {
		r.log = logger.Global().Module("repository")
	}
	return r, nil
}

// FetchForecast returns current conditions and a days-long forecast for query.
func (r *Repository) FetchForecast(ctx context.Context, query string, days int) (*weatherapi.Snapshot, error) {
	start := time.Now()
	snap, err := r.api.GetForecast(ctx, r.apiKey, weatherapi.ForecastRequest{
		Query:      query,
		Days:       days,
		AirQuality: r.airQuality,
		Alerts:     r.alerts,
	})
	fields := []logger.Field{
		logger.String("query", query),
		logger.Int("days", days),
		logger.Duration("elapsed", time.Since(start)),
		logger.Bool("ok", err == nil),
	}
	if snap != nil {
		fields = append(fields, logger.Int64("localtime_epoch", snap.Location.LocaltimeEpoch))
	}
	r.log.Debug("forecast requested", fields...)
	return snap, err
}

// FetchHistory returns the weather of a past date (YYYY-MM-DD) for query.
func (r *Repository) FetchHistory(ctx context.Context, query, date string) (*weatherapi.Snapshot, error) {
	return r.api.GetHistory(ctx, r.apiKey, weatherapi.HistoryRequest{
		Query:      query,
		Date:       date,
		AirQuality: r.airQuality,
	})
}

// FetchHistoryHour is FetchHistory narrowed to one hour of the day.
func (r *Repository) FetchHistoryHour(ctx context.Context, query, date string, hour int) (*weatherapi.Snapshot, error) {
	return r.api.GetHistory(ctx, r.apiKey, weatherapi.HistoryRequest{
		Query:      query,
		Date:       date,
		Hour:       &hour,
		AirQuality: r.airQuality,
	})
}

// SearchLocations returns autocomplete suggestions for query.
func (r *Repository) SearchLocations(ctx context.Context, query string) ([]weatherapi.SearchSuggestion, error) {
	return r.api.SearchLocations(ctx, r.apiKey, query)
}

// LookupIP geolocates the caller's public address.
func (r *Repository) LookupIP(ctx context.Context) (*weatherapi.IPInfo, error) {
	return r.api.LookupIP(ctx, r.apiKey, IPAutoQuery)
}
