package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper isolates tests that go through the global viper instance.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromEmbeddedDefaults(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, string(getDefaultConfig()))

	settings, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.weatherapi.com/v1", settings.WeatherAPI.Endpoint)
	assert.Equal(t, 15*time.Second, settings.WeatherAPI.Timeout)
	assert.Equal(t, 3, settings.Forecast.Days)
	assert.True(t, settings.Forecast.AirQuality)
	assert.True(t, settings.Forecast.Alerts)
	assert.Equal(t, "New York", settings.Forecast.DefaultQuery)
	assert.Equal(t, "none", settings.Location.Source)
	assert.Equal(t, 30*time.Minute, settings.Location.CacheTTL)
	assert.Equal(t, "127.0.0.1:8080", settings.Server.Listen)
	assert.Equal(t, 24*time.Hour, settings.Notifications.DedupTTL)
	assert.False(t, settings.MQTT.Enabled)
	assert.Equal(t, "info", settings.Logging.DefaultLevel)
	require.NotNil(t, settings.Logging.Console)
	assert.True(t, settings.Logging.Console.Enabled)

	assert.Same(t, settings, GetSettings())
}

func TestLoadFromPartialFileUsesDefaults(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `
forecast:
  days: 7
location:
  source: static
  latitude: 52.52
  longitude: 13.405
controller:
  sequencerequests: true
`)

	settings, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 7, settings.Forecast.Days)
	assert.Equal(t, "New York", settings.Forecast.DefaultQuery)
	assert.Equal(t, "static", settings.Location.Source)
	assert.InDelta(t, 52.52, settings.Location.Latitude, 1e-9)
	assert.True(t, settings.Controller.SequenceRequests)
	assert.Equal(t, 16, settings.Controller.EventBuffer)
}

func TestLoadFromRejectsInvalidSettings(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, `
forecast:
  days: 30
mqtt:
  enabled: true
  topic: ""
`)

	_, err := LoadFrom(path)
	require.Error(t, err)

	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Len(t, ve.Errors, 2)
}

func TestLoadFromMissingFile(t *testing.T) {
	resetViper(t)
	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	resetViper(t)
	t.Setenv("WEATHERAPI_KEY", "env-key")
	t.Setenv("WEATHERAPP_FORECAST_DAYS", "5")
	t.Setenv("WEATHERAPP_LISTEN", ":9090")
	path := writeConfig(t, "weatherapi:\n  apikey: file-key\n")

	settings, err := LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", settings.WeatherAPIKey())
	assert.Equal(t, 5, settings.Forecast.Days)
	assert.Equal(t, ":9090", settings.Server.Listen)
}

func TestLoadCreatesDefaultConfig(t *testing.T) {
	resetViper(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Chdir(t.TempDir())

	settings, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, settings.Forecast.Days)

	paths, err := GetDefaultConfigPaths()
	require.NoError(t, err)
	created := filepath.Join(paths[0], "config.yaml")
	assert.FileExists(t, created)

	found, err := FindConfigFile()
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestWeatherAPIKeyFallsBackToBuildKey(t *testing.T) {
	old := BuildAPIKey
	BuildAPIKey = "baked-in"
	t.Cleanup(func() { BuildAPIKey = old })

	s := &Settings{}
	assert.Equal(t, "baked-in", s.WeatherAPIKey())

	s.WeatherAPI.APIKey = "configured"
	assert.Equal(t, "configured", s.WeatherAPIKey())
}

func TestWriteDefaultConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, getDefaultConfig(), data)

	assert.Error(t, WriteDefaultConfig(path))
}

func TestSaveYAMLConfigRoundTrip(t *testing.T) {
	resetViper(t)
	path := writeConfig(t, string(getDefaultConfig()))

	settings, err := LoadFrom(path)
	require.NoError(t, err)

	settings.Forecast.DefaultQuery = "Helsinki"
	settings.MQTT.Enabled = true
	settings.MQTT.QoS = 1
	require.NoError(t, SaveYAMLConfig(path, settings))

	viper.Reset()
	reloaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "Helsinki", reloaded.Forecast.DefaultQuery)
	assert.True(t, reloaded.MQTT.Enabled)
	assert.Equal(t, 1, reloaded.MQTT.QoS)
	assert.Equal(t, settings.WeatherAPI.Timeout, reloaded.WeatherAPI.Timeout)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}
