package forecast

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AvtMob/WeatherApp/internal/app"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/display"
)

// Command creates the forecast command.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var tabName string

	cmd := &cobra.Command{
		Use:   "forecast [location]",
		Short: "Show current weather and the forecast for a location",
		Long: `Show current conditions, the daily forecast, air quality and alerts.

The location is anything weatherapi.com accepts: a city name, "lat,lon",
a postcode, an IATA code or "auto:ip". Without one the configured default
query is used.`,
		Example: `  weatherapp forecast London
  weatherapp forecast --days 7 --tab forecast "48.8567,2.3508"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				query = settings.Forecast.DefaultQuery
			}

			var tab display.Tab
			if tabName != "" {
				var err error
				if tab, err = display.ParseTab(tabName); err != nil {
					return err
				}
			}

			a, err := app.New(settings, build)
			if err != nil {
				return err
			}
			defer a.Close()

			snap, err := a.Load(query, a.DefaultDays())
			if err != nil {
				return err
			}

			if tabName == "" {
				return display.WriteAll(cmd.OutOrStdout(), snap)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), display.Render(snap, tab))
			return err
		},
	}

	cmd.Flags().StringVar(&tabName, "tab", "", "Show one tab: current, forecast, air-quality or alerts")
	return cmd
}
