package conf

import "github.com/AvtMob/WeatherApp/internal/logger"

// GetLogger returns the config package logger scoped to the config module.
// The logger is fetched from the global logger each time so that it follows
// the central logger once main has installed it.
func GetLogger() logger.Logger {
	return logger.Global().Module("config")
}
