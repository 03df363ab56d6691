package locate

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AvtMob/WeatherApp/internal/app"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/display"
)

const lookupTimeout = 15 * time.Second

// Command creates the locate command.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	var withForecast bool

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Print the device location",
		Long: `Print the device location from the configured source (static or ip).
With --forecast the weather for that location is shown as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings, build)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
			defer cancel()

			coords, ok := a.Locator.LastKnownLocation(ctx)
			if !ok {
				return fmt.Errorf("location unavailable (source %q)", a.Locator.Source())
			}

			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintf(out, "%s (source: %s)\n", coords.Query(), a.Locator.Source()); err != nil {
				return err
			}
			if !withForecast {
				return nil
			}

			snap, err := a.Load(coords.Query(), a.DefaultDays())
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(out); err != nil {
				return err
			}
			return display.WriteAll(out, snap)
		},
	}

	cmd.Flags().BoolVar(&withForecast, "forecast", false, "Also show the weather for the location")
	return cmd
}
