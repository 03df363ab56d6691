// Package serve runs the HTTP API together with the alert notifier and
// the MQTT publisher until the process is signalled.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/AvtMob/WeatherApp/internal/api"
	"github.com/AvtMob/WeatherApp/internal/app"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/errors"
	"github.com/AvtMob/WeatherApp/internal/logger"
	"github.com/AvtMob/WeatherApp/internal/mqtt"
	"github.com/AvtMob/WeatherApp/internal/notification"
	"github.com/AvtMob/WeatherApp/internal/observability"
	"github.com/AvtMob/WeatherApp/internal/viewstate"
)

// DefaultRefreshInterval is how often the loaded location is reloaded so
// new alerts reach the notifier.
const DefaultRefreshInterval = 15 * time.Minute

// Command creates the serve command.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var (
		refresh time.Duration
		query   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the weather view over HTTP",
		Long: `Serve the weather view over HTTP with a server-sent event stream of state
changes. Alert notifications and MQTT publishing run alongside when they are
enabled in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if query == "" {
				query = settings.Forecast.DefaultQuery
			}
			return Run(ctx, settings, build, query, refresh)
		},
	}

	cmd.Flags().StringVar(&settings.Server.Listen, "listen", viper.GetString("server.listen"), "Listen address and port of the HTTP API")
	cmd.Flags().DurationVar(&refresh, "refresh", DefaultRefreshInterval, "Reload interval for the current location, 0 disables")
	cmd.Flags().StringVar(&query, "query", "", "Location loaded at startup (default forecast.defaultquery)")

	if err := viper.BindPFlag("server.listen", cmd.Flags().Lookup("listen")); err != nil {
		GetLogger().Warn("failed to bind listen flag", logger.Error(err))
	}

	return cmd
}

// Run wires every component and blocks until ctx is done or a component
// fails.
func Run(ctx context.Context, settings *conf.Settings, build *buildinfo.Context, query string, refresh time.Duration) error {
	log := GetLogger()
	defer errors.FlushSentry()

	m, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	a, err := app.New(settings, build, app.WithMetrics(m))
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := api.New(api.ConfigFromSettings(settings), a.Controller,
		api.WithHistory(a.Repository),
		api.WithLocator(a.Locator),
		api.WithMetrics(m))
	if err != nil {
		return err
	}

	var notifier *notification.AlertNotifier
	if settings.Notifications.Enabled {
		if notifier, err = newNotifier(settings, m); err != nil {
			return err
		}
	}

	var mqttClient mqtt.Client
	if settings.MQTT.Enabled {
		if mqttClient, err = newMQTTClient(settings, m); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	if notifier != nil {
		sub, err := a.Controller.Subscribe(0)
		if err != nil {
			return err
		}
		g.Go(func() error {
			notifier.Run(gctx, sub)
			return nil
		})
	}

	if mqttClient != nil {
		sub, err := a.Controller.Subscribe(0)
		if err != nil {
			return err
		}
		publisher := mqtt.NewPublisher(mqttClient, settings.MQTT.Topic, log)
		g.Go(func() error {
			defer mqttClient.Disconnect()
			if err := mqttClient.Connect(gctx); err != nil {
				log.Warn("MQTT broker unavailable, snapshots will not be published", logger.Error(err))
			}
			publisher.Run(gctx, sub)
			return nil
		})
	}

	g.Go(server.Start)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), api.DefaultShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		refreshLoop(gctx, a.Controller, query, a.DefaultDays(), refresh)
		return nil
	})

	log.Info("weatherapp serving",
		logger.String("listen", settings.Server.Listen),
		logger.String("query", query),
		logger.Bool("notifications", settings.Notifications.Enabled),
		logger.Bool("mqtt", settings.MQTT.Enabled))

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("weatherapp stopped")
	return nil
}

// refreshLoop loads query once, then reloads the current location every
// interval until ctx is done.
func refreshLoop(ctx context.Context, ctrl *viewstate.Controller, query string, days int, interval time.Duration) {
	ctrl.LoadWeatherForLocation(query, days)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ctrl.LoadWeatherForLocation(reloadQuery(ctrl.Snapshot(), query), days)
		}
	}
}

func newNotifier(settings *conf.Settings, m *observability.Metrics) (*notification.AlertNotifier, error) {
	sender, err := notification.NewShoutrrrSender(settings.Notifications.URLs, settings.Notifications.Timeout)
	if err != nil {
		return nil, err
	}
	return notification.NewAlertNotifier(sender,
		notification.WithDedupTTL(settings.Notifications.DedupTTL),
		notification.WithSendTimeout(settings.Notifications.Timeout),
		notification.WithMetrics(m.Notification),
		notification.WithLogger(GetLogger()))
}

func newMQTTClient(settings *conf.Settings, m *observability.Metrics) (mqtt.Client, error) {
	cfg := mqtt.DefaultConfig()
	cfg.Broker = settings.MQTT.Broker
	cfg.Username = settings.MQTT.Username
	cfg.Password = settings.MQTT.Password
	cfg.Retain = settings.MQTT.Retain
	cfg.QoS = byte(settings.MQTT.QoS) //nolint:gosec // G115: validated to 0-2 by conf
	if settings.MQTT.ClientID != "" {
		cfg.ClientID = settings.MQTT.ClientID
	}
	if settings.MQTT.Topic != "" {
		cfg.Topic = settings.MQTT.Topic
	}
	return mqtt.NewClient(cfg, m.MQTT, GetLogger())
}

// GetLogger returns the serve command logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("serve")
}
