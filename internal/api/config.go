// Package api exposes the view-state controller over HTTP for remote views:
// JSON endpoints for the two entry points, a history lookup, the device
// location and a server-sent event stream of state changes.
package api

import (
	"fmt"
	"net"
	"time"

	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout       = 30 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultHeartbeatInterval = 30 * time.Second
	DefaultBodyLimit         = "64K"
)

// Config holds the HTTP server configuration.
type Config struct {
	Listen string // host:port

	// Timeouts. There is no write timeout because of the event stream.
	ReadTimeout     time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	BodyLimit string // e.g. "64K"

	// Per-client request rate; 0 disables rate limiting.
	RateLimit float64
	Burst     int

	AccessLog bool
	Debug     bool

	// DefaultQuery is loaded by reload when the input is empty.
	DefaultQuery string
	// ForecastDays is passed to loads that do not specify days.
	ForecastDays int

	HeartbeatInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Listen:            conf.DefaultListen,
		ReadTimeout:       DefaultReadTimeout,
		IdleTimeout:       DefaultIdleTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		BodyLimit:         DefaultBodyLimit,
		RateLimit:         10,
		Burst:             20,
		DefaultQuery:      conf.DefaultQuery,
		ForecastDays:      conf.DefaultForecastDays,
		HeartbeatInterval: DefaultHeartbeatInterval,
	}
}

// ConfigFromSettings creates a Config from the application settings.
func ConfigFromSettings(settings *conf.Settings) *Config {
	cfg := DefaultConfig()
	cfg.Listen = settings.Server.Listen
	cfg.RateLimit = settings.Server.RateLimit
	cfg.Burst = settings.Server.Burst
	cfg.AccessLog = settings.Server.AccessLog
	cfg.Debug = settings.Debug
	if settings.Forecast.DefaultQuery != "" {
		cfg.DefaultQuery = settings.Forecast.DefaultQuery
	}
	if settings.Forecast.Days > 0 {
		cfg.ForecastDays = settings.Forecast.Days
	}
	return cfg
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", c.Listen, err)
	}
	if c.ReadTimeout <= 0 {
		return fmt.Errorf("read timeout must be positive")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.RateLimit > 0 && c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1 when rate limiting is enabled")
	}
	if c.DefaultQuery == "" {
		return fmt.Errorf("default query is required")
	}
	return nil
}

// String returns a human-readable representation of the config.
func (c *Config) String() string {
	limit := "disabled"
	if c.RateLimit > 0 {
		limit = fmt.Sprintf("%g/s burst %d", c.RateLimit, c.Burst)
	}
	return fmt.Sprintf("Server Config: address=%s, rate_limit=%s, debug=%v", c.Listen, limit, c.Debug)
}
