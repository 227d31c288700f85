// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 8),
		},
		[]string{"method", "path"},
	)
)

// Ingestion metrics
var (
	// IngestRunsTotal counts ingestion runs per source by final status
	IngestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_ingest_runs_total",
			Help: "Total number of ingestion runs",
		},
		[]string{"source", "status"}, // status: success, provider_failed, unknown_provider, locked, error
	)

	// IngestArticlesTotal counts raw records per source by outcome
	IngestArticlesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_ingest_articles_total",
			Help: "Total number of provider records handled during ingestion",
		},
		[]string{"source", "outcome"}, // outcome: saved, skipped, error
	)

	IngestRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_ingest_run_duration_seconds",
			Help:    "Duration of one ingestion run",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		},
		[]string{"source"},
	)

	ProviderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_provider_requests_total",
			Help: "Total number of outbound provider requests",
		},
		[]string{"provider", "status"}, // status: HTTP code, "error", "quota", "circuit_open"
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_provider_request_duration_seconds",
			Help:    "Outbound provider request duration",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider"},
	)
)

// Post-processing and enrichment metrics
var (
	PostProcessTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_postprocess_total",
			Help: "Total number of article post-processing runs",
		},
		[]string{"status"}, // status: success, failure, not_found
	)

	PostProcessDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "news_postprocess_duration_seconds",
			Help:    "Duration of one article post-processing run",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)

	ContentFetchAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_fetch_attempts_total",
			Help: "Total number of full-text enrichment fetch attempts",
		},
		[]string{"result"}, // result: success, failure, skipped
	)

	ContentFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "content_fetch_duration_seconds",
			Help:    "Time taken to fetch article content",
			Buckets: []float64{0.1, 0.2, 0.4, 0.8, 1.6, 3.2, 6.4, 12.8},
		},
	)
)

// Job queue and maintenance metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_jobs_total",
			Help: "Total number of background jobs by kind and outcome",
		},
		[]string{"kind", "status"}, // status: enqueued, succeeded, retried, failed
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "news_job_duration_seconds",
			Help:    "Background job execution time",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
		},
		[]string{"kind"},
	)

	RetentionDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "news_retention_deleted_total",
			Help: "Total number of articles deleted by the retention sweep",
		},
	)

	SourcesDue = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "news_sources_due",
			Help: "Number of sources found due at the last dispatch",
		},
	)
)

// Database metrics
var (
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
