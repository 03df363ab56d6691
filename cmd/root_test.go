package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvtMob/WeatherApp/internal/buildinfo"
	"github.com/AvtMob/WeatherApp/internal/conf"
)

func TestRootCommandHasSubcommands(t *testing.T) {
	root := RootCommand(&conf.Settings{}, buildinfo.NewContext("1.0.0", "", ""))

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"forecast", "history", "search", "locate", "serve", "config", "version"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCommand(t *testing.T) {
	root := RootCommand(&conf.Settings{}, buildinfo.NewContext("1.2.3", "2024-06-21", "deadbee"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())

	assert.Equal(t, "WeatherApp 1.2.3 (commit deadbee, built 2024-06-21)\n", out.String())
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	root := RootCommand(&conf.Settings{}, nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "init", "--path", path})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "weatherapi:")

	root = RootCommand(&conf.Settings{}, nil)
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"config", "init", "--path", path})
	assert.Error(t, root.Execute())
}

func TestSearchRequiresText(t *testing.T) {
	root := RootCommand(&conf.Settings{}, nil)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"search"})
	assert.Error(t, root.Execute())
}

func TestConfigSetKeyCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, conf.WriteDefaultConfig(path))

	root := RootCommand(&conf.Settings{}, nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"config", "set-key", "--path", path, "abc123"})
	require.NoError(t, root.Execute())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "abc123")
	assert.NotContains(t, out.String(), "abc123")

	root = RootCommand(&conf.Settings{}, nil)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"config", "set-key", "--path", path, "has space"})
	assert.Error(t, root.Execute())
}
