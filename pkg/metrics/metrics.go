package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timetrack_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timetrack_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
		[]string{"operation", "table"},
	)

	TimersRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "timetrack_timers_recorded_total",
			Help: "Total number of timer records saved",
		},
	)

	ExportsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timetrack_exports_total",
			Help: "Total number of exports generated",
		},
		[]string{"format"},
	)
)

// RecordHTTPRequestDuration observes one served request
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveQuery is meant to be deferred at the top of a store operation:
//
//	defer metrics.ObserveQuery("list", "timers", time.Now())
func ObserveQuery(operation, table string, start time.Time) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
}

// IncrementTimersRecorded counts a saved timer
func IncrementTimersRecorded() {
	TimersRecorded.Inc()
}

// IncrementExports counts a generated export by format
func IncrementExports(format string) {
	ExportsGenerated.WithLabelValues(format).Inc()
}
