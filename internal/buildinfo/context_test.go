package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContext_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ctx  *Context
		want string
	}{
		{"nil context", nil, UnknownValue},
		{"empty version", NewContext("", "2024-01-01", "abc123"), UnknownValue},
		{"valid version", NewContext("1.0.0", "2024-01-01", "abc123"), "1.0.0"},
		{"pre-release tag", NewContext("1.0.0-beta.1", "", ""), "1.0.0-beta.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.ctx.GetVersion())
		})
	}
}

func TestContext_MissingFields(t *testing.T) {
	t.Parallel()

	var nilCtx *Context
	assert.Equal(t, UnknownValue, nilCtx.GetBuildDate())
	assert.Equal(t, UnknownValue, nilCtx.GetCommit())

	ctx := NewContext("1.2.3", "", "")
	assert.Equal(t, UnknownValue, ctx.GetBuildDate())
	assert.Equal(t, UnknownValue, ctx.GetCommit())
}

func TestContext_Derived(t *testing.T) {
	t.Parallel()

	ctx := NewContext("1.2.3", "2024-06-21", "deadbee")
	assert.Equal(t, "WeatherApp/1.2.3", ctx.UserAgent())
	assert.Equal(t, "weatherapp@1.2.3", ctx.Release())
	assert.Equal(t, "WeatherApp 1.2.3 (commit deadbee, built 2024-06-21)", ctx.String())

	var nilCtx *Context
	assert.Equal(t, "WeatherApp/unknown", nilCtx.UserAgent())
}
