package weatherapi

import (
	"io"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/httpclient"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/observability/metrics"
)

const testAPIKey = "test-key-123"

const forecastJSON = `{
  "location": {
    "name": "Paris", "region": "Ile-de-France", "country": "France",
    "lat": 48.87, "lon": 2.33, "tz_id": "Europe/Paris",
    "localtime_epoch": 1718000000, "localtime": "2024-06-10 8:13"
  },
  "current": {
    "temp_c": 18.0, "feelslike_c": 17.5, "is_day": 1,
    "condition": {"text": "Partly cloudy", "icon": "//cdn.weatherapi.com/weather/64x64/day/116.png", "code": 1003},
    "wind_kph": 11.2, "wind_dir": "WSW", "pressure_mb": 1015.0, "precip_mm": 0.0,
    "humidity": 64, "cloud": 50, "uv": 4.0,
    "air_quality": {"co": 230.3, "no2": 13.5, "o3": 60.1, "pm2_5": 5.4, "us-epa-index": 1}
  },
  "forecast": {
    "forecastday": [
      {
        "date": "2024-06-10",
        "day": {
          "maxtemp_c": 21.3, "mintemp_c": 12.1, "avgtemp_c": 16.4, "maxwind_kph": 18.0,
          "totalprecip_mm": 0.4, "avghumidity": 70, "daily_chance_of_rain": 40,
          "condition": {"text": "Patchy rain nearby", "icon": "//cdn.weatherapi.com/weather/64x64/day/176.png", "code": 1063},
          "uv": 5.0
        },
        "hour": [
          {"time_epoch": 1717970400, "time": "2024-06-10 00:00", "temp_c": 13.1, "is_day": 0,
           "condition": {"text": "Clear", "icon": "//cdn.weatherapi.com/weather/64x64/night/113.png", "code": 1000},
           "wind_kph": 7.2, "humidity": 80, "chance_of_rain": 0}
        ]
      }
    ]
  },
  "alerts": {
    "alert": [
      {
        "headline": "Yellow thunderstorm warning", "msgtype": "Alert", "severity": "Moderate",
        "urgency": "Expected", "areas": "Paris", "category": "Met", "certainty": "Likely",
        "event": "Thunderstorm", "note": "", "effective": "2024-06-10T12:00:00+02:00",
        "expires": "2024-06-10T22:00:00+02:00", "desc": "Thunderstorms <b>likely</b>.", "instruction": "Stay indoors."
      }
    ]
  }
}`

const searchJSON = `[
  {"id": 803267, "name": "Paris", "region": "Ile-de-France", "country": "France", "lat": 48.87, "lon": 2.33, "url": "paris-ile-de-france-france"},
  {"id": 2618724, "name": "Paris", "region": "Texas", "country": "United States of America", "lat": 33.66, "lon": -95.56, "url": "paris-texas-united-states-of-america"}
]`

const ipJSON = `{"ip": "203.0.113.7", "type": "ipv4", "city": "Lyon", "region": "Auvergne-Rhone-Alpes",
  "country_name": "France", "lat": 45.75, "lon": 4.85, "tz_id": "Europe/Paris"}`

const errorJSON = `{"error": {"code": 1006, "message": "No matching location found."}}`

// setupMockClient returns a Client whose transport is replaced by httpmock.
func setupMockClient(t *testing.T) (*Client, *metrics.WeatherAPIMetrics) {
	t.Helper()

	hc := httpclient.New(&httpclient.Config{DefaultTimeout: 5 * time.Second})
	httpmock.ActivateNonDefault(hc.StandardClient())
	t.Cleanup(httpmock.DeactivateAndReset)

	m, err := metrics.NewWeatherAPIMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	client := NewClient(
		WithHTTPClient(hc),
		WithMetrics(m),
		WithLogger(logger.NewSlogLogger(io.Discard, logger.LogLevelError, time.UTC)),
	)
	return client, m
}
