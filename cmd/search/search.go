package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AvtMob/WeatherApp/internal/app"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
	"github.com/AvtMob/WeatherApp/internal/display"
)

// Command creates the search command.
func Command(settings *conf.Settings, build *buildinfo.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "search <text>",
		Short: "List locations matching text",
		Long:  "List location suggestions for text. Text shorter than two characters matches nothing.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.New(settings, build)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), display.Suggestions(results))
			return err
		},
	}
}
