package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WeatherAPIMetrics contains Prometheus metrics for upstream weather API calls
type WeatherAPIMetrics struct {
	requestsTotal   *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	statusCodes     *prometheus.CounterVec
}

// NewWeatherAPIMetrics creates and registers new weather API metrics
func NewWeatherAPIMetrics(registry prometheus.Registerer) (*WeatherAPIMetrics, error) {
	m := &WeatherAPIMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weatherapi_requests_total",
				Help:      "Total number of weather API requests",
			},
			[]string{"endpoint", "status"}, // status: success, error
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weatherapi_errors_total",
				Help:      "Total number of weather API request failures by kind",
			},
			[]string{"endpoint", "error_type"}, // transport, http_status, decode, validation
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "weatherapi_request_duration_seconds",
				Help:      "Round-trip time of weather API requests",
				// 10ms .. ~40s
				Buckets: prometheus.ExponentialBuckets(BucketStart10ms, BucketFactor2, BucketCount12),
			},
			[]string{"endpoint"},
		),
		statusCodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "weatherapi_http_responses_total",
				Help:      "HTTP responses received from the weather API by status code",
			},
			[]string{"endpoint", "code"},
		),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *WeatherAPIMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.errorsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
	m.statusCodes.Describe(ch)
}

// Collect implements the Collector interface
func (m *WeatherAPIMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.errorsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
	m.statusCodes.Collect(ch)
}

// RecordRequest records the outcome of one API call
func (m *WeatherAPIMetrics) RecordRequest(endpoint, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(endpoint, status).Inc()
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordError records a failed API call by failure kind
func (m *WeatherAPIMetrics) RecordError(endpoint, errorType string) {
	if m == nil {
		return
	}
	m.errorsTotal.WithLabelValues(endpoint, errorType).Inc()
}

// RecordHTTPResponse records the status code of a received response
func (m *WeatherAPIMetrics) RecordHTTPResponse(endpoint string, code int) {
	if m == nil {
		return
	}
	m.statusCodes.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
}
