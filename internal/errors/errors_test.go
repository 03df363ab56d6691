package errors

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type categorized struct{ msg string }

func (c categorized) Error() string                { return c.msg }
func (c categorized) ErrorCategory() ErrorCategory { return CategoryHTTP }

type recordingReporter struct {
	reported []*EnhancedError
}

func (r *recordingReporter) ReportError(ee *EnhancedError) {
	r.reported = append(r.reported, ee)
	ee.MarkReported()
}
func (r *recordingReporter) IsEnabled() bool { return true }

func TestBuildDefaults(t *testing.T) {
	ee := New(fmt.Errorf("test error")).Build()

	assert.Equal(t, "test error", ee.Error())
	assert.Equal(t, ComponentUnknown, ee.GetComponent())
	assert.Equal(t, CategoryGeneric, ee.Category)
	assert.False(t, ee.GetTimestamp().IsZero())
}

func TestBuildWithContext(t *testing.T) {
	ee := Newf("lookup of %q failed", "Paris").
		Component("weatherapi").
		Category(CategoryNetwork).
		Priority("bogus").
		Context("operation", "forecast").
		Build()

	assert.Equal(t, `lookup of "Paris" failed`, ee.Error())
	assert.Equal(t, "weatherapi", ee.GetComponent())
	assert.Equal(t, PriorityMedium, ee.GetPriority())
	assert.Equal(t, "forecast", ee.GetContext()["operation"])
	assert.True(t, IsCategory(ee, CategoryNetwork))
	assert.False(t, IsNotFound(ee))
}

func TestCategoryDetection(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"categorized error wins", categorized{"boom"}, CategoryHTTP},
		{"wrapped categorized", fmt.Errorf("outer: %w", categorized{"x"}), CategoryHTTP},
		{"timeout", fmt.Errorf("context deadline exceeded"), CategoryTimeout},
		{"connection", fmt.Errorf("connection refused"), CategoryNetwork},
		{"validation", fmt.Errorf("invalid date"), CategoryValidation},
		{"fallback", fmt.Errorf("something odd"), CategoryGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.err).Build().Category)
		})
	}
}

func TestUnwrapAndAs(t *testing.T) {
	base := categorized{"root cause"}
	ee := New(base).Component("test").Build()

	var target categorized
	require.True(t, As(ee, &target))
	assert.Equal(t, "root cause", target.msg)
	assert.Equal(t, base, Unwrap(ee))
}

func TestTelemetryReporterReceivesErrors(t *testing.T) {
	reporter := &recordingReporter{}
	SetTelemetryReporter(reporter)
	t.Cleanup(func() { SetTelemetryReporter(nil) })

	ee := New(fmt.Errorf("reported")).Component("viewstate").Build()

	require.Len(t, reporter.reported, 1)
	assert.Same(t, ee, reporter.reported[0])
	assert.True(t, ee.IsReported())
}

func TestBasicURLScrub(t *testing.T) {
	scrubbed := basicURLScrub("Error at https://api.weatherapi.com/v1/forecast.json?key=secret123&q=Paris")
	assert.Equal(t, "Error at https://api.weatherapi.com/v1/forecast.json?[REDACTED]", scrubbed)

	scrubbed = basicURLScrub("Config error: api_key=secret123 is invalid")
	assert.Contains(t, scrubbed, "[API_KEY_REDACTED]")

	scrubbed = basicURLScrub("no weather for 48.8566,2.3522")
	assert.NotContains(t, scrubbed, "48.8566")
}

func TestGenerateErrorTitle(t *testing.T) {
	ee := New(fmt.Errorf("x")).
		Component("weatherapi").
		Category(CategoryNetwork).
		Context("operation", "search_locations").
		Build()

	assert.Equal(t, "Weatherapi Network Error Search Locations", generateErrorTitle(ee))
}

func TestNetworkErrorAnonymizesURL(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://api.weatherapi.com/v1/forecast.json?key=secret", "https-endpoint"},
		{"http://localhost:8080", "http-endpoint"},
		{"ssl://broker.example:8883", "mqtt-broker"},
		{"ftp://example", "other-protocol"},
	}
	for _, tt := range tests {
		ee := NetworkError("weatherapi", fmt.Errorf("dial failed"), tt.url, 0)

		assert.Equal(t, "weatherapi", ee.GetComponent())
		assert.Equal(t, CategoryNetwork, ee.Category)
		assert.Equal(t, tt.want, ee.GetContext()["url_category"], tt.url)
		assert.NotContains(t, ee.GetContext(), "timeout_seconds")
	}
}

func TestTimingContext(t *testing.T) {
	ee := New(fmt.Errorf("slow")).Timing("get_forecast", 1500*time.Millisecond).Build()

	assert.Equal(t, "get_forecast", ee.GetContext()["operation"])
	assert.Equal(t, int64(1500), ee.GetContext()["duration_ms"])
}
