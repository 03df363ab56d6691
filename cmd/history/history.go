package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AvtMob/WeatherApp/internal/app"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/display"
	"github.com/AvtMob/WeatherApp/internal/weatherapi"
)

const lookupTimeout = 30 * time.Second

// Command creates the history command.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var (
		date string
		hour int
	)

	cmd := &cobra.Command{
		Use:   "history [location]",
		Short: "Show the observed weather of a past day",
		Example: `  weatherapp history Paris --date 2024-06-01
  weatherapp history Paris --date 2024-06-01 --hour 15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			if strings.TrimSpace(query) == "" {
				query = settings.Forecast.DefaultQuery
			}
			if date == "" {
				date = time.Now().AddDate(0, 0, -1).Format(weatherapi.HistoryDateLayout)
			}

			a, err := app.New(settings, build)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
			defer cancel()

			var snap *weatherapi.Snapshot
			if cmd.Flags().Changed("hour") {
				snap, err = a.Repository.FetchHistoryHour(ctx, query, date, hour)
			} else {
				snap, err = a.Repository.FetchHistory(ctx, query, date)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s, %s on %s\n\n", snap.Location.Name, snap.Location.Country, date); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, display.Forecast(snap))
			return err
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Day to look up, YYYY-MM-DD (default yesterday)")
	cmd.Flags().IntVar(&hour, "hour", 0, "Restrict the result to one hour, 0-23")
	return cmd
}
