package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echo_log "github.com/labstack/gommon/log"

	mw "github.com/AvtMob/WeatherApp/internal/api/middleware"
	"github.com/AvtMob/WeatherApp/internal/events"
	"github.com/AvtMob/WeatherApp/internal/location"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// StateController is the part of viewstate.Controller the server drives.
type StateController interface {
	State() viewstate.State
	InputText() string
	OnInputChanged(text string)
	LoadWeatherForLocation(query string, days int)
	Subscribe(buffer int) (*events.Subscription[viewstate.Change], error)
}

// HistoryFetcher serves the history endpoint.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, query, date string) (*weatherapi.Snapshot, error)
	FetchHistoryHour(ctx context.Context, query, date string, hour int) (*weatherapi.Snapshot, error)
}

// Locator serves the device location endpoints.
type Locator interface {
	Source() string
	LastKnownLocation(ctx context.Context) (location.Coordinates, bool)
}

// Server is the HTTP server in front of one controller.
type Server struct {
	echo       *echo.Echo
	config     *Config
	controller StateController
	history    HistoryFetcher
	locator    Locator
	metrics    *observability.Metrics
	log        logger.Logger

	// Lifecycle management
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time
}

// ServerOption is a functional option for configuring the Server.
type ServerOption func(*Server)

// WithLogger sets the parent logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l.Module("api")
		}
	}
}

// WithHistory enables GET /api/v1/history.
func WithHistory(h HistoryFetcher) ServerOption {
	return func(s *Server) {
		s.history = h
	}
}

// WithLocator enables the device location endpoints.
func WithLocator(l Locator) ServerOption {
	return func(s *Server) {
		s.locator = l
	}
}

// WithMetrics enables GET /metrics.
func WithMetrics(m *observability.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// New creates a server for controller.
func New(config *Config, controller StateController, opts ...ServerOption) (*Server, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	if controller == nil {
		return nil, fmt.Errorf("controller is required")
	}
	if config.HeartbeatInterval <= 0 {
		config.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if config.ForecastDays <= 0 {
		config.ForecastDays = viewstate.DefaultDays
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config:     config,
		controller: controller,
		ctx:        ctx,
		cancel:     cancel,
		startTime:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = GetLogger()
	}

	s.echo = echo.New()
	s.echo.HideBanner = true
	s.echo.HidePort = true
	echoLogger := logger.NewEchoLoggerAdapter(s.log.Module("echo"))
	if config.Debug {
		echoLogger.SetLevel(echo_log.DEBUG)
	}
	s.echo.Logger = echoLogger

	s.echo.Server.ReadTimeout = config.ReadTimeout
	s.echo.Server.IdleTimeout = config.IdleTimeout

	s.setupMiddleware()
	s.setupRoutes()

	s.log.Info("HTTP server initialized",
		logger.String("address", config.Listen),
		logger.Bool("debug", config.Debug))

	return s, nil
}

// setupMiddleware configures the Echo middleware stack.
func (s *Server) setupMiddleware() {
	s.echo.Use(echomw.Recover())

	if s.config.AccessLog {
		s.echo.Use(mw.NewRequestLoggerWithSkipper(s.log, skipOperational))
	}

	s.echo.Use(echomw.BodyLimit(s.config.BodyLimit))
	s.echo.Use(mw.NewRateLimiter(s.config.RateLimit, s.config.Burst, skipOperational))
}

// skipOperational exempts health and metrics scrapes from logging and
// rate limiting.
func skipOperational(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/health" || p == "/metrics"
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	if s.metrics != nil {
		s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
	}

	v1 := s.echo.Group("/api/v1")
	v1.GET("/state", s.getState)
	v1.POST("/input", s.postInput)
	v1.POST("/load", s.postLoad)
	v1.POST("/select", s.postSelect)
	v1.POST("/reload", s.postReload)
	v1.GET("/history", s.getHistory)
	v1.GET("/location", s.getLocation)
	v1.POST("/locate", s.postLocate)
	v1.GET("/stream", s.streamState)
	v1.GET("/system", s.getSystemInfo)
}

// healthCheck handles the server health check endpoint.
func (s *Server) healthCheck(c echo.Context) error {
	uptime := time.Since(s.startTime)

	return c.JSON(http.StatusOK, map[string]any{
		"status":         "healthy",
		"uptime":         uptime.String(),
		"uptime_seconds": uptime.Seconds(),
		"timestamp":      time.Now().Format(time.RFC3339),
	})
}

// Start serves HTTP requests and blocks until the server is shut down.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", logger.String("address", s.config.Listen))

	if err := s.echo.Start(s.config.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown ends open event streams and gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(ctx); err != nil {
		s.log.Error("error during server shutdown", logger.Error(err))
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.wg.Wait()
	s.log.Info("server shutdown complete")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
