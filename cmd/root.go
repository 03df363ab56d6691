// Package cmd assembles the weatherapp command tree.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AvtMob/WeatherApp/cmd/configcmd"
	"github.com/AvtMob/WeatherApp/cmd/forecast"
	"github.com/AvtMob/WeatherApp/cmd/history"
	"github.com/AvtMob/WeatherApp/cmd/locate"
	"github.com/AvtMob/WeatherApp/cmd/search"
	"github.com/AvtMob/WeatherApp/cmd/serve"
	"github.com/AvtMob/WeatherApp/cmd/version"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "weatherapp",
		Short:         "WeatherApp CLI",
		Long:          "Current conditions, forecasts, air quality and alerts from weatherapi.com.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		GetLogger().Warn("failed to bind global flags", logger.Error(err))
	}

	versionCmd := version.Command(build)
	configCmd := configcmd.Command()

	rootCmd.AddCommand(
		forecast.Command(settings, build),
		history.Command(settings, build),
		search.Command(settings, build),
		locate.Command(settings, build),
		serve.Command(settings, build),
		configCmd,
		versionCmd,
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Skip setup for commands that only print local information
		if cmd == versionCmd || (cmd.HasParent() && cmd.Parent() == configCmd) {
			return nil
		}
		return initialize(settings, build)
	}

	return rootCmd
}

// initialize installs the central logger and, when enabled, error telemetry.
func initialize(settings *conf.Settings, build *buildinfo.Context) error {
	logCfg := settings.Logging
	if settings.Debug {
		logCfg.DefaultLevel = "debug"
		if logCfg.Console != nil {
			console := *logCfg.Console
			console.Level = "debug"
			logCfg.Console = &console
		}
	}

	central, err := logger.NewCentralLogger(&logCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(central)

	if settings.Telemetry.Enabled {
		if err := errors.InitSentry(settings.Telemetry.SentryDSN, build.Release()); err != nil {
			// Telemetry is optional; keep running without it
			GetLogger().Warn("error telemetry disabled", logger.Error(err))
		}
	}

	return nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.WeatherAPI.APIKey, "apikey", viper.GetString("weatherapi.apikey"), "weatherapi.com API key")
	rootCmd.PersistentFlags().IntVar(&settings.Forecast.Days, "days", viper.GetInt("forecast.days"), "Forecast length in days (1-14)")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

// GetLogger returns the cmd package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("cmd")
}
