// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Defaults shared with other packages.
const (
	DefaultForecastDays = 3
	DefaultQuery        = "New York"
	DefaultListen       = "127.0.0.1:8080"
	MaxForecastDays     = 14
)

// setDefaultConfig sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("weatherapi.apikey", "")
	viper.SetDefault("weatherapi.endpoint", "https://api.weatherapi.com/v1")
	viper.SetDefault("weatherapi.timeout", 15*time.Second)
	viper.SetDefault("weatherapi.useragent", "WeatherApp")

	viper.SetDefault("forecast.days", DefaultForecastDays)
	viper.SetDefault("forecast.airquality", true)
	viper.SetDefault("forecast.alerts", true)
	viper.SetDefault("forecast.defaultquery", DefaultQuery)

	viper.SetDefault("location.source", "none")
	viper.SetDefault("location.latitude", 0.0)
	viper.SetDefault("location.longitude", 0.0)
	viper.SetDefault("location.cachettl", 30*time.Minute)

	viper.SetDefault("controller.sequencerequests", false)
	viper.SetDefault("controller.eventbuffer", 16)

	viper.SetDefault("server.listen", DefaultListen)
	viper.SetDefault("server.ratelimit", 10.0)
	viper.SetDefault("server.burst", 20)
	viper.SetDefault("server.accesslog", false)

	viper.SetDefault("notifications.enabled", false)
	viper.SetDefault("notifications.urls", []string{})
	viper.SetDefault("notifications.timeout", 10*time.Second)
	viper.SetDefault("notifications.dedupttl", 24*time.Hour)

	viper.SetDefault("mqtt.enabled", false)
	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.topic", "weatherapp")
	viper.SetDefault("mqtt.clientid", "weatherapp")
	viper.SetDefault("mqtt.retain", true)
	viper.SetDefault("mqtt.qos", 0)

	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.sentrydsn", "")

	viper.SetDefault("logging.default_level", "info")
	viper.SetDefault("logging.timezone", "Local")
	viper.SetDefault("logging.console.enabled", true)
	viper.SetDefault("logging.console.level", "info")
	viper.SetDefault("logging.file_output.enabled", false)
	viper.SetDefault("logging.file_output.path", "logs/weatherapp.log")
	viper.SetDefault("logging.file_output.level", "info")
}
