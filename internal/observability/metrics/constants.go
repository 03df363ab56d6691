// Package metrics provides Prometheus collectors for the weather client, the
// view-state controller, and the outbound integrations.
package metrics

// Status label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusStale   = "stale"
)

// Histogram bucket parameters.
const (
	// BucketStart10ms is the starting bucket for 10ms histograms (10ms to ~40s range).
	BucketStart10ms = 0.01
	// BucketStart64B is the starting bucket for payload size histograms.
	BucketStart64B = 64.0
	// BucketFactor2 is the common exponential growth factor of 2 for histogram buckets.
	BucketFactor2 = 2
	// BucketCount12 defines 12 exponential buckets.
	BucketCount12 = 12
	// BucketCount10 defines 10 exponential buckets.
	BucketCount10 = 10
)

const namespace = "weatherapp"
