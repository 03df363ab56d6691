// Package buildinfo carries build-time metadata separate from user configuration.
package buildinfo

import "fmt"

// UnknownValue is reported for metadata that was not injected at build time.
const UnknownValue = "unknown"

// appName prefixes the User-Agent and the telemetry release.
const appName = "WeatherApp"

// Context contains build-time metadata that is not user-configurable.
// It is filled from -ldflags in main and handed to the commands.
type Context struct {
	// Version holds the Git version tag from build
	Version string

	// BuildDate is the time when the binary was built
	BuildDate string

	// Commit is the short Git revision
	Commit string
}

// NewContext creates a Context.
func NewContext(version, buildDate, commit string) *Context {
	return &Context{
		Version:   version,
		BuildDate: buildDate,
		Commit:    commit,
	}
}

// GetVersion returns the version or UnknownValue.
func (c *Context) GetVersion() string {
	if c == nil || c.Version == "" {
		return UnknownValue
	}
	return c.Version
}

// GetBuildDate returns the build date or UnknownValue.
func (c *Context) GetBuildDate() string {
	if c == nil || c.BuildDate == "" {
		return UnknownValue
	}
	return c.BuildDate
}

// GetCommit returns the revision or UnknownValue.
func (c *Context) GetCommit() string {
	if c == nil || c.Commit == "" {
		return UnknownValue
	}
	return c.Commit
}

// UserAgent is the User-Agent sent to the weather API.
func (c *Context) UserAgent() string {
	return appName + "/" + c.GetVersion()
}

// Release names the build for error telemetry.
func (c *Context) Release() string {
	return "weatherapp@" + c.GetVersion()
}

// String renders the metadata for the version command.
func (c *Context) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", appName, c.GetVersion(), c.GetCommit(), c.GetBuildDate())
}
