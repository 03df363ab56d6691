// env.go - Environment variable configuration and validation for WeatherApp
package conf

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// envBinding holds metadata for environment variable bindings (internal use)
type envBinding struct {
	ConfigKey string             // Viper config key
	EnvVar    string             // Environment variable name
	Validate  func(string) error // Optional validation function
}

// getEnvBindings returns all environment variable bindings with validation
func getEnvBindings() []envBinding {
	return []envBinding{
		{"debug", "WEATHERAPP_DEBUG", validateEnvBool},

		// Weather API
		{"weatherapi.apikey", "WEATHERAPI_KEY", validateEnvAPIKey},
		{"weatherapi.endpoint", "WEATHERAPP_API_ENDPOINT", validateEnvURL},

		// Forecast
		{"forecast.days", "WEATHERAPP_FORECAST_DAYS", validateEnvForecastDays},
		{"forecast.defaultquery", "WEATHERAPP_DEFAULT_QUERY", nil},

		// Location
		{"location.source", "WEATHERAPP_LOCATION_SOURCE", validateEnvLocationSource},
		{"location.latitude", "WEATHERAPP_LATITUDE", validateEnvLatitude},
		{"location.longitude", "WEATHERAPP_LONGITUDE", validateEnvLongitude},

		// HTTP API
		{"server.listen", "WEATHERAPP_LISTEN", nil},

		// Integrations
		{"mqtt.broker", "WEATHERAPP_MQTT_BROKER", validateEnvURL},
		{"mqtt.username", "WEATHERAPP_MQTT_USERNAME", nil},
		{"mqtt.password", "WEATHERAPP_MQTT_PASSWORD", nil},
		{"telemetry.sentrydsn", "WEATHERAPP_SENTRY_DSN", validateEnvURL},

		{"logging.default_level", "WEATHERAPP_LOG_LEVEL", validateEnvLogLevel},
	}
}

// bindEnvVars sets up environment variable bindings with validation (internal)
func bindEnvVars() error {
	var warnings []string

	for _, binding := range getEnvBindings() {
		if err := viper.BindEnv(binding.ConfigKey, binding.EnvVar); err != nil {
			warnings = append(warnings, fmt.Sprintf("Failed to bind %s: %v", binding.EnvVar, err))
			continue
		}

		if binding.Validate != nil {
			if envValue := os.Getenv(binding.EnvVar); envValue != "" {
				if err := binding.Validate(envValue); err != nil {
					warnings = append(warnings, fmt.Sprintf("Invalid %s value: %v", binding.EnvVar, err))
				}
			}
		}
	}

	if len(warnings) > 0 {
		return fmt.Errorf("environment variable issues:\n  - %s", strings.Join(warnings, "\n  - "))
	}

	return nil
}

// configureEnvironmentVariables sets up environment variable support for Viper
func configureEnvironmentVariables() error {
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return bindEnvVars()
}

// Environment variable validation functions

func validateEnvBool(value string) error {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Errorf("invalid boolean value '%s': must be true/false, 1/0, t/f", value)
	}
	return nil
}

// validateEnvAPIKey rejects keys with embedded whitespace. The value itself
// is never echoed back.
func validateEnvAPIKey(value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("api key is blank")
	}
	if strings.ContainsAny(strings.TrimSpace(value), " \t\r\n") {
		return fmt.Errorf("api key contains whitespace")
	}
	return nil
}

func validateEnvURL(value string) error {
	u, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("URL must include scheme and host, got '%s'", value)
	}
	return nil
}

func validateEnvForecastDays(value string) error {
	days, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("invalid forecast days: %w", err)
	}
	if days < 1 || days > MaxForecastDays {
		return fmt.Errorf("forecast days must be between 1 and %d, got %d", MaxForecastDays, days)
	}
	return nil
}

func validateEnvLocationSource(value string) error {
	switch strings.TrimSpace(value) {
	case "none", "static", "ip":
		return nil
	default:
		return fmt.Errorf("location source must be none, static or ip, got '%s'", value)
	}
}

func validateEnvLatitude(value string) error {
	lat, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid latitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude must be between -90 and 90, got %g", lat)
	}
	return nil
}

func validateEnvLongitude(value string) error {
	lng, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return fmt.Errorf("invalid longitude: %w", err)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude must be between -180 and 180, got %g", lng)
	}
	return nil
}

func validateEnvLogLevel(value string) error {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("unknown log level '%s'", value)
	}
}
