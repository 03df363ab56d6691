package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/location"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

// fakeRepo serves canned data to a real controller.
type fakeRepo struct {
	mu        sync.Mutex
	forecasts []string
	days      []int

	forecastErr error
	historyFn   func(query, date string, hour int) (*weatherapi.Snapshot, error)
}

func (f *fakeRepo) FetchForecast(_ context.Context, query string, days int) (*weatherapi.Snapshot, error) {
	f.mu.Lock()
	f.forecasts = append(f.forecasts, query)
	f.days = append(f.days, days)
	err := f.forecastErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return snapshotFor(query), nil
}

func (f *fakeRepo) SearchLocations(_ context.Context, query string) ([]weatherapi.SearchSuggestion, error) {
	return []weatherapi.SearchSuggestion{{ID: 1, Name: query + "ville", Country: "Nowhere"}}, nil
}

func (f *fakeRepo) FetchHistory(_ context.Context, query, date string) (*weatherapi.Snapshot, error) {
	return f.historyFn(query, date, -1)
}

func (f *fakeRepo) FetchHistoryHour(_ context.Context, query, date string, hour int) (*weatherapi.Snapshot, error) {
	return f.historyFn(query, date, hour)
}

func (f *fakeRepo) loads() ([]string, []int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.forecasts...), append([]int(nil), f.days...)
}

func snapshotFor(name string) *weatherapi.Snapshot {
	return &weatherapi.Snapshot{
		Location: weatherapi.Location{Name: name, Country: "UK", TzID: "Europe/London"},
		Current: weatherapi.Current{
			TempC:     11,
			Condition: weatherapi.Condition{Text: "Overcast", Code: 1009},
		},
	}
}

type fakeLocator struct {
	coords location.Coordinates
	ok     bool
}

func (f fakeLocator) Source() string { return location.SourceStatic }

func (f fakeLocator) LastKnownLocation(context.Context) (location.Coordinates, bool) {
	return f.coords, f.ok
}

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.RateLimit = 0
	cfg.ForecastDays = 5
	cfg.DefaultQuery = "London"
	return cfg
}

type testEnv struct {
	server *Server
	ctrl   *viewstate.Controller
	repo   *fakeRepo
}

func newTestEnv(t *testing.T, cfg *Config, opts ...ServerOption) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	repo := &fakeRepo{}
	ctrl := viewstate.New(repo, viewstate.WithLogger(testLogger()))
	t.Cleanup(ctrl.Close)

	opts = append([]ServerOption{WithLogger(testLogger()), WithHistory(repo)}, opts...)
	s, err := New(cfg, ctrl, opts...)
	require.NoError(t, err)

	return &testEnv{server: s, ctrl: ctrl, repo: repo}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Echo().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}
