// conf/validate.go

package conf

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct. The API key is not
// checked here so that commands like "config init" work without one.
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	collect := func(err error) {
		if err != nil {
			ve.Errors = append(ve.Errors, err.Error())
		}
	}

	collect(validateWeatherAPISettings(&settings.WeatherAPI))
	collect(validateForecastSettings(&settings.Forecast))
	collect(validateLocationSettings(&settings.Location))
	collect(validateControllerSettings(&settings.Controller))
	collect(validateServerSettings(&settings.Server))
	collect(validateNotificationSettings(&settings.Notifications))
	collect(validateMQTTSettings(&settings.MQTT))
	collect(validateTelemetrySettings(&settings.Telemetry))

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

func validateWeatherAPISettings(settings *WeatherAPISettings) error {
	u, err := url.Parse(settings.Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("weatherapi endpoint must be an absolute URL, got %q", settings.Endpoint)
	}
	if settings.Timeout < 0 {
		return fmt.Errorf("weatherapi timeout must not be negative")
	}
	return nil
}

func validateForecastSettings(settings *ForecastSettings) error {
	if settings.Days < 1 || settings.Days > MaxForecastDays {
		return fmt.Errorf("forecast days must be between 1 and %d, got %d", MaxForecastDays, settings.Days)
	}
	if strings.TrimSpace(settings.DefaultQuery) == "" {
		return fmt.Errorf("forecast default query must not be empty")
	}
	return nil
}

func validateLocationSettings(settings *LocationSettings) error {
	switch settings.Source {
	case "none", "ip":
	case "static":
		if settings.Latitude < -90 || settings.Latitude > 90 {
			return fmt.Errorf("location latitude must be between -90 and 90, got %g", settings.Latitude)
		}
		if settings.Longitude < -180 || settings.Longitude > 180 {
			return fmt.Errorf("location longitude must be between -180 and 180, got %g", settings.Longitude)
		}
	default:
		return fmt.Errorf("location source must be none, static or ip, got %q", settings.Source)
	}
	if settings.CacheTTL < 0 {
		return fmt.Errorf("location cache TTL must not be negative")
	}
	return nil
}

func validateControllerSettings(settings *ControllerSettings) error {
	if settings.EventBuffer < 0 {
		return fmt.Errorf("controller event buffer must not be negative, got %d", settings.EventBuffer)
	}
	return nil
}

func validateServerSettings(settings *ServerSettings) error {
	if _, _, err := net.SplitHostPort(settings.Listen); err != nil {
		return fmt.Errorf("server listen address %q is invalid: %w", settings.Listen, err)
	}
	if settings.RateLimit < 0 {
		return fmt.Errorf("server rate limit must not be negative")
	}
	if settings.RateLimit > 0 && settings.Burst < 1 {
		return fmt.Errorf("server burst must be at least 1 when rate limiting is enabled")
	}
	return nil
}

func validateNotificationSettings(settings *NotificationSettings) error {
	if !settings.Enabled {
		return nil
	}
	if len(settings.URLs) == 0 {
		return fmt.Errorf("notifications are enabled but no service URLs are configured")
	}
	return nil
}

func validateMQTTSettings(settings *MQTTSettings) error {
	if !settings.Enabled {
		return nil
	}
	if settings.Broker == "" {
		return fmt.Errorf("MQTT is enabled but no broker is configured")
	}
	if settings.Topic == "" {
		return fmt.Errorf("MQTT is enabled but no topic is configured")
	}
	if settings.QoS < 0 || settings.QoS > 2 {
		return fmt.Errorf("MQTT QoS must be 0, 1 or 2, got %d", settings.QoS)
	}
	return nil
}

func validateTelemetrySettings(settings *TelemetrySettings) error {
	if settings.Enabled && settings.SentryDSN == "" {
		return fmt.Errorf("telemetry is enabled but no Sentry DSN is configured")
	}
	return nil
}
