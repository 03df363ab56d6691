package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ControllerMetrics tracks the view-state controller's background work
type ControllerMetrics struct {
	operationsTotal *prometheus.CounterVec
	inFlight        *prometheus.GaugeVec
	publishedTotal  *prometheus.CounterVec
	droppedTotal    prometheus.Counter
}

// NewControllerMetrics creates and registers controller metrics
func NewControllerMetrics(registry prometheus.Registerer) (*ControllerMetrics, error) {
	m := &ControllerMetrics{
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "controller_operations_total",
				Help:      "Completed controller operations by kind and result",
			},
			[]string{"operation", "result"}, // operation: search, load; result: success, error, stale
		),
		inFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "controller_tasks_in_flight",
				Help:      "Background tasks currently running",
			},
			[]string{"operation"},
		),
		publishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "controller_state_changes_total",
				Help:      "State changes published to subscribers by field",
			},
			[]string{"field"},
		),
		droppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "controller_events_dropped_total",
			Help:      "State change events replaced before a slow subscriber consumed them",
		}),
	}

	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe implements the Collector interface
func (m *ControllerMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.operationsTotal.Describe(ch)
	m.inFlight.Describe(ch)
	m.publishedTotal.Describe(ch)
	m.droppedTotal.Describe(ch)
}

// Collect implements the Collector interface
func (m *ControllerMetrics) Collect(ch chan<- prometheus.Metric) {
	m.operationsTotal.Collect(ch)
	m.inFlight.Collect(ch)
	m.publishedTotal.Collect(ch)
	m.droppedTotal.Collect(ch)
}

// RecordOperation records a completed search or load
func (m *ControllerMetrics) RecordOperation(operation, result string) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(operation, result).Inc()
}

// TaskStarted increments the in-flight gauge for operation
func (m *ControllerMetrics) TaskStarted(operation string) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(operation).Inc()
}

// TaskFinished decrements the in-flight gauge for operation
func (m *ControllerMetrics) TaskFinished(operation string) {
	if m == nil {
		return
	}
	m.inFlight.WithLabelValues(operation).Dec()
}

// RecordStateChange counts one published change of field
func (m *ControllerMetrics) RecordStateChange(field string) {
	if m == nil {
		return
	}
	m.publishedTotal.WithLabelValues(field).Inc()
}

// RecordDropped counts events displaced from full subscriber buffers
func (m *ControllerMetrics) RecordDropped(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.droppedTotal.Add(float64(n))
}
