package main

import (
	"fmt"
	"os"

	"github.com/AvtMob/WeatherApp/cmd"
	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
)

// buildDate, version and commit are set at build time:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.buildDate=$(date -u +%F) -X main.commit=$(git rev-parse --short HEAD)"
var (
	buildDate string
	version   string
	commit    string
)

func main() {
	settings, err := conf.LoadFrom(os.Getenv("WEATHERAPP_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	build := buildinfo.NewContext(version, buildDate, commit)

	rootCmd := cmd.RootCommand(settings, build)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
