// Package configcmd implements the config command group.
package configcmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AvtMob/WeatherApp/internal/conf"
)

// Command returns the config command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(initCommand(), pathCommand(), setKeyCommand())
	return cmd
}

func initCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default configuration file. Without --path it goes to the first
default location for this system. An existing file is never overwritten.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				paths, err := conf.GetDefaultConfigPaths()
				if err != nil {
					return err
				}
				path = filepath.Join(paths[0], "config.yaml")
			}
			if err := conf.WriteDefaultConfig(path); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Destination file")
	return cmd
}

func pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := conf.FindConfigFile()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
			return err
		},
	}
}

func setKeyCommand() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "set-key <apikey>",
		Short: "Store the weather API key in the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			if key == "" || strings.ContainsAny(key, " \t\r\n") {
				return fmt.Errorf("api key must be a single non-blank token")
			}

			if path == "" {
				found, err := conf.FindConfigFile()
				if err != nil {
					return err
				}
				path = found
			}

			settings, err := conf.LoadFrom(path)
			if err != nil {
				return err
			}
			settings.WeatherAPI.APIKey = key

			if err := conf.SaveYAMLConfig(path, settings); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved API key to %s\n", path)
			return err
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Configuration file to update")
	return cmd
}
