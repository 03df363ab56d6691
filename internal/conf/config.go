// Package conf provides configuration management for WeatherApp.
package conf

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
)

//go:embed config.yaml
var configFiles embed.FS

// BuildAPIKey is the weather API key baked in at build time:
//
//	go build -ldflags "-X github.com/AvtMob/WeatherApp/internal/conf.BuildAPIKey=..."
//
// A key from the config file or WEATHERAPI_KEY takes precedence.
var BuildAPIKey string

// WeatherAPISettings contains settings for the upstream weather API.
type WeatherAPISettings struct {
	APIKey    string        // weatherapi.com key
	Endpoint  string        // API root URL
	Timeout   time.Duration // per-request timeout
	UserAgent string        // User-Agent header sent upstream
}

// ForecastSettings controls what a forecast load asks for.
type ForecastSettings struct {
	Days         int    // forecast length, 1-14
	AirQuality   bool   // request air quality data
	Alerts       bool   // request government alerts
	DefaultQuery string // place loaded on reload with an empty search box
}

// LocationSettings selects how "use my location" resolves coordinates.
type LocationSettings struct {
	Source    string        // none, static or ip
	Latitude  float64       // static source latitude
	Longitude float64       // static source longitude
	CacheTTL  time.Duration // how long the last fix is reused on failure
}

// ControllerSettings tunes the view-state controller.
type ControllerSettings struct {
	SequenceRequests bool // discard results of superseded requests
	EventBuffer      int  // per-subscriber change buffer
}

// ServerSettings contains settings for the HTTP API.
type ServerSettings struct {
	Listen    string  // IP address and port to listen on
	RateLimit float64 // requests per second per client, 0 disables
	Burst     int     // rate limiter burst
	AccessLog bool    // log every request
}

// NotificationSettings contains settings for alert push notifications.
type NotificationSettings struct {
	Enabled  bool          // true to send weather alerts
	URLs     []string      // shoutrrr service URLs
	Timeout  time.Duration // per-send timeout
	DedupTTL time.Duration // how long a sent alert is remembered
}

// MQTTSettings contains settings for snapshot publishing.
type MQTTSettings struct {
	Enabled  bool   // true to enable MQTT
	Broker   string // MQTT broker URL (tcp://host:port, ssl://host:port)
	Topic    string // topic prefix; the location name is appended
	ClientID string // MQTT client ID
	Username string // MQTT username
	Password string // MQTT password
	Retain   bool   // retain published snapshots
	QoS      int    // 0, 1 or 2
}

// TelemetrySettings controls error reporting to Sentry.
type TelemetrySettings struct {
	Enabled   bool   // true to report errors
	SentryDSN string // Sentry project DSN
}

// Settings contains all configuration options for WeatherApp.
type Settings struct {
	Debug bool // true to enable debug mode

	WeatherAPI    WeatherAPISettings
	Forecast      ForecastSettings
	Location      LocationSettings
	Controller    ControllerSettings
	Server        ServerSettings
	Notifications NotificationSettings
	MQTT          MQTTSettings
	Telemetry     TelemetrySettings
	Logging       logger.LoggingConfig
}

// WeatherAPIKey returns the configured key, falling back to BuildAPIKey.
func (s *Settings) WeatherAPIKey() string {
	if s.WeatherAPI.APIKey != "" {
		return s.WeatherAPI.APIKey
	}
	return BuildAPIKey
}

// settingsInstance is the current settings instance
var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables. When no
// config file exists one is created from the embedded defaults.
func Load() (*Settings, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file. An empty path searches
// the working directory and GetDefaultConfigPaths.
func LoadFrom(configFile string) (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	if err := initViper(configFile); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("config").
			Category(errors.CategoryFileParsing).
			Context("config_file", viper.ConfigFileUsed()).
			Build()
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// initViper sets defaults and environment bindings and reads the config file.
func initViper(configFile string) error {
	setDefaultConfig()

	if err := configureEnvironmentVariables(); err != nil {
		GetLogger().Warn("environment configuration issues", logger.Error(err))
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errors.New(fmt.Errorf("error reading config file: %w", err)).
				Component("config").
				Category(errors.CategoryFileIO).
				Context("config_file", configFile).
				Build()
		}
		return nil
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return createDefaultConfig()
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// createDefaultConfig writes the embedded defaults to the first default path
// and reads it back.
func createDefaultConfig() error {
	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	configPath := filepath.Join(configPaths[0], "config.yaml")

	if err := WriteDefaultConfig(configPath); err != nil {
		return err
	}

	GetLogger().Info("created default config file", logger.String("path", configPath))
	return viper.ReadInConfig()
}

// WriteDefaultConfig writes the embedded default configuration to path,
// creating parent directories. An existing file is left untouched.
func WriteDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path).
			Component("config").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating directories for config file: %w", err)
	}

	if err := os.WriteFile(path, getDefaultConfig(), 0o600); err != nil {
		return fmt.Errorf("error writing default config file: %w", err)
	}
	return nil
}

// getDefaultConfig reads the default configuration from the embedded config.yaml file.
func getDefaultConfig() []byte {
	data, err := fs.ReadFile(configFiles, "config.yaml")
	if err != nil {
		// embedded at compile time
		panic(fmt.Sprintf("embedded config.yaml missing: %v", err))
	}
	return data
}

// GetSettings returns the current settings instance
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// SaveYAMLConfig writes settings to configPath through a temporary file so
// the update is atomic. Comments in the existing file are not preserved.
func SaveYAMLConfig(configPath string, settings *Settings) error {
	yamlData, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("error marshaling settings to YAML: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(configPath), "config-*.yaml")
	if err != nil {
		return fmt.Errorf("error creating temporary file: %w", err)
	}
	tempFileName := tempFile.Name()
	defer func() {
		_ = os.Remove(tempFileName)
	}()

	if _, err := tempFile.Write(yamlData); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("error writing to temporary file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("error closing temporary file: %w", err)
	}

	if err := moveFile(tempFileName, configPath); err != nil {
		return fmt.Errorf("error moving config file into place: %w", err)
	}
	return nil
}
