package app

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/location"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability"
)

const forecastJSON = `{
  "location": {"name": "Oslo", "region": "Oslo", "country": "Norway", "lat": 59.91, "lon": 10.75,
    "tz_id": "Europe/Oslo", "localtime_epoch": 1718000000, "localtime": "2024-06-10 8:13"},
  "current": {"temp_c": 14.0, "is_day": 1, "condition": {"text": "Sunny", "icon": "", "code": 1000}, "humidity": 55},
  "forecast": {"forecastday": []}
}`

func testSettings(endpoint string) *conf.Settings {
	return &conf.Settings{
		WeatherAPI: conf.WeatherAPISettings{
			APIKey:   "test-key",
			Endpoint: endpoint,
			Timeout:  5 * time.Second,
		},
		Forecast: conf.ForecastSettings{
			Days:         2,
			AirQuality:   true,
			Alerts:       true,
			DefaultQuery: "Oslo",
		},
		Location: conf.LocationSettings{Source: location.SourceNone},
	}
}

func testLogger() logger.Logger {
	return logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)
}

func TestNewRequiresAPIKey(t *testing.T) {
	settings := testSettings("http://127.0.0.1:1")
	settings.WeatherAPI.APIKey = ""

	old := conf.BuildAPIKey
	conf.BuildAPIKey = ""
	t.Cleanup(func() { conf.BuildAPIKey = old })

	_, err := New(settings, nil, WithLogger(testLogger()))
	require.Error(t, err)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestNewRejectsBadLocationSource(t *testing.T) {
	settings := testSettings("http://127.0.0.1:1")
	settings.Location.Source = "gps"

	_, err := New(settings, nil, WithLogger(testLogger()))
	require.Error(t, err)
}

func TestAppLoadsThroughController(t *testing.T) {
	var userAgent atomic.Value
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.Header.Get("User-Agent"))
		if r.URL.Path != "/forecast.json" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		assert.Equal(t, "2", r.URL.Query().Get("days"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, forecastJSON)
	}))
	t.Cleanup(ts.Close)

	m, err := observability.NewMetrics()
	require.NoError(t, err)

	a, err := New(testSettings(ts.URL), buildinfo.NewContext("1.0.0", "", ""),
		WithLogger(testLogger()), WithMetrics(m))
	require.NoError(t, err)
	t.Cleanup(a.Close)

	a.Controller.LoadWeatherForLocation("Oslo", a.DefaultDays())
	a.Controller.Wait()

	require.Empty(t, a.Controller.ErrorMessage())
	require.NotNil(t, a.Controller.Snapshot())
	assert.Equal(t, "Oslo", a.Controller.Snapshot().Location.Name)
	assert.Equal(t, "WeatherApp/1.0.0", userAgent.Load())

	_, ok := a.Locator.LastKnownLocation(context.Background())
	assert.False(t, ok)
}

func TestDefaultDays(t *testing.T) {
	a := &App{Settings: &conf.Settings{}}
	assert.Equal(t, conf.DefaultForecastDays, a.DefaultDays())

	a.Settings.Forecast.Days = 7
	assert.Equal(t, 7, a.DefaultDays())
}
