// Package weatherapi is a client for the weatherapi.com v1 REST API.
//
// Every operation is a single GET request. The client performs no retries,
// caching or rate limiting; every failure is reported as *RequestFailed.
package weatherapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/httpclient"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability/metrics"
)

const (
	// DefaultBaseURL is the production API root.
	DefaultBaseURL = "https://api.weatherapi.com/v1"

	// DefaultForecastDays is used when a request leaves Days unset.
	DefaultForecastDays = 3

	// HistoryDateLayout is the required format of HistoryRequest.Date.
	HistoryDateLayout = "2006-01-02"

	// maxResponseSize bounds how much of a response body is read.
	maxResponseSize = 4 << 20
)

// Endpoint names, relative to the base URL.
const (
	EndpointForecast = "forecast.json"
	EndpointHistory  = "history.json"
	EndpointSearch   = "search.json"
	EndpointIP       = "ip.json"
)

// ForecastRequest selects a forecast.
type ForecastRequest struct {
	Query      string // city name, "lat,lon", postcode, "auto:ip", ...
	Days       int    // 0 means DefaultForecastDays; the provider clamps to its plan limit
	AirQuality bool
	Alerts     bool
}

// NewForecastRequest returns a request with air quality and alerts enabled.
func NewForecastRequest(query string, days int) ForecastRequest {
	return ForecastRequest{Query: query, Days: days, AirQuality: true, Alerts: true}
}

// HistoryRequest selects a past day.
type HistoryRequest struct {
	Query      string
	Date       string // YYYY-MM-DD
	Hour       *int   // optional 0-23 filter
	AirQuality bool
}

// Client talks to the weather API.
type Client struct {
	baseURL string
	http    *httpclient.Client
	metrics *metrics.WeatherAPIMetrics
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root, mainly for tests and proxies.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient sets the transport client.
func WithHTTPClient(hc *httpclient.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithMetrics enables request metrics.
func WithMetrics(m *metrics.WeatherAPIMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger sets the parent logger; the client logs under module "weatherapi".
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l.Module("weatherapi")
		}
	}
}

// NewClient creates a client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpclient.New(nil)
	}
	if c.log == nil {
		c.log = logger.Global().Module("weatherapi")
	}
	c.installHooks()
	return c
}

// installHooks feeds transport-level observations into metrics.
func (c *Client) installHooks() {
	if c.metrics == nil {
		return
	}
	c.http.SetAfterResponseHook(func(req *http.Request, resp *http.Response, err error, _ time.Duration) {
		if err != nil || resp == nil {
			return
		}
		c.metrics.RecordHTTPResponse(endpointOf(req.URL), resp.StatusCode)
	})
}

func endpointOf(u *url.URL) string {
	path := u.Path
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

// GetForecast fetches current conditions plus a multi-day forecast.
func (c *Client) GetForecast(ctx context.Context, apiKey string, req ForecastRequest) (*Snapshot, error) {
	days := req.Days
	if days <= 0 {
		days = DefaultForecastDays
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", yesNo(req.AirQuality))
	params.Set("alerts", yesNo(req.Alerts))

	var snapshot Snapshot
	if err := c.getJSON(ctx, "get_forecast", EndpointForecast, apiKey, params, &snapshot); err != nil {
		return nil, err
	}

	c.log.Debug("forecast fetched",
		logger.String("location", snapshot.Location.Name),
		logger.Int("days", days))

	return &snapshot, nil
}

// GetHistory fetches a past day.
func (c *Client) GetHistory(ctx context.Context, apiKey string, req HistoryRequest) (*Snapshot, error) {
	if _, err := time.Parse(HistoryDateLayout, req.Date); err != nil {
		return nil, c.fail("get_history", validationFailure(EndpointHistory,
			"invalid history date %q: expected YYYY-MM-DD", req.Date), 0)
	}
	if req.Hour != nil && (*req.Hour < 0 || *req.Hour > 23) {
		return nil, c.fail("get_history", validationFailure(EndpointHistory,
			"invalid history hour %d: expected 0-23", *req.Hour), 0)
	}

	params := url.Values{}
	params.Set("q", req.Query)
	params.Set("dt", req.Date)
	if req.Hour != nil {
		params.Set("hour", strconv.Itoa(*req.Hour))
	}
	params.Set("aqi", yesNo(req.AirQuality))

	var snapshot Snapshot
	if err := c.getJSON(ctx, "get_history", EndpointHistory, apiKey, params, &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}

// SearchLocations returns autocomplete suggestions for a partial place name.
func (c *Client) SearchLocations(ctx context.Context, apiKey, query string) ([]SearchSuggestion, error) {
	params := url.Values{}
	params.Set("q", query)

	var suggestions []SearchSuggestion
	if err := c.getJSON(ctx, "search_locations", EndpointSearch, apiKey, params, &suggestions); err != nil {
		return nil, err
	}
	if suggestions == nil {
		suggestions = []SearchSuggestion{}
	}
	return suggestions, nil
}

// LookupIP resolves an IP address (or "auto:ip" for the caller's own) to a place.
func (c *Client) LookupIP(ctx context.Context, apiKey, query string) (*IPInfo, error) {
	params := url.Values{}
	params.Set("q", query)

	var info IPInfo
	if err := c.getJSON(ctx, "lookup_ip", EndpointIP, apiKey, params, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.Close()
}

func (c *Client) getJSON(ctx context.Context, operation, endpoint, apiKey string, params url.Values, out any) error {
	params.Set("key", apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	start := time.Now()
	status := metrics.StatusError
	defer func() {
		c.metrics.RecordRequest(endpoint, status, time.Since(start))
	}()

	resp, err := c.http.Get(ctx, reqURL)
	if err != nil {
		return c.fail(operation, transportFailure(endpoint, err), time.Since(start))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug("failed to close response body", logger.Error(cerr))
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return c.fail(operation, transportFailure(endpoint, err), time.Since(start))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.fail(operation, statusFailure(endpoint, resp.StatusCode, body), time.Since(start))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(operation, decodeFailure(endpoint, err), time.Since(start))
	}

	status = metrics.StatusSuccess
	return nil
}

// fail records and logs a failure and returns it wrapped with context.
func (c *Client) fail(operation string, rf *RequestFailed, elapsed time.Duration) error {
	c.metrics.RecordError(rf.Endpoint, rf.Kind)

	c.log.Warn("weather API request failed",
		logger.String("operation", operation),
		logger.String("endpoint", rf.Endpoint),
		logger.String("kind", rf.Kind),
		logger.Int("status_code", rf.StatusCode),
		logger.String("message", rf.Message),
		logger.Duration("elapsed", elapsed))

	return c.wrap(operation, rf, elapsed)
}

// wrap attaches component, timing and endpoint context to a RequestFailed.
func (c *Client) wrap(operation string, rf *RequestFailed, elapsed time.Duration) error {
	b := errors.New(rf).
		Component("weatherapi").
		Category(rf.ErrorCategory()).
		Timing(operation, elapsed).
		Context("endpoint", rf.Endpoint).
		Context("status_code", rf.StatusCode)

	switch {
	case rf.Kind == KindTransport:
		b = b.NetworkContext(c.baseURL, c.http.Timeout())
	case rf.StatusCode == http.StatusUnauthorized || rf.StatusCode == http.StatusForbidden:
		// a rejected key fails every request until reconfigured
		b = b.Priority(errors.PriorityHigh)
	}

	return b.Build()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
