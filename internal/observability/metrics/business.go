package metrics

import (
	"strconv"
	"time"
)

// Ingestion run statuses.
const (
	RunSuccess         = "success"
	RunProviderFailed  = "provider_failed"
	RunUnknownProvider = "unknown_provider"
	RunLocked          = "locked"
	RunError           = "error"
)

// RecordIngestRun records one finished ingestion run and its per-record outcome counts.
func RecordIngestRun(source, status string, duration time.Duration, saved, skipped, errored int) {
	IngestRunsTotal.WithLabelValues(source, status).Inc()
	IngestRunDuration.WithLabelValues(source).Observe(duration.Seconds())
	for outcome, n := range map[string]int{"saved": saved, "skipped": skipped, "error": errored} {
		if n > 0 {
			IngestArticlesTotal.WithLabelValues(source, outcome).Add(float64(n))
		}
	}
}

// RecordProviderRequest records an outbound provider call. status is the
// HTTP status code, or 0 when no response was received.
func RecordProviderRequest(provider string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	ProviderRequestsTotal.WithLabelValues(provider, label).Inc()
	ProviderRequestDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordProviderRejected records a call refused before it reached the network.
// reason is "quota" or "circuit_open".
func RecordProviderRejected(provider, reason string) {
	ProviderRequestsTotal.WithLabelValues(provider, reason).Inc()
}

func RecordPostProcess(status string, duration time.Duration) {
	PostProcessTotal.WithLabelValues(status).Inc()
	PostProcessDuration.Observe(duration.Seconds())
}

func RecordContentFetch(result string, duration time.Duration) {
	ContentFetchAttemptsTotal.WithLabelValues(result).Inc()
	if duration > 0 {
		ContentFetchDuration.Observe(duration.Seconds())
	}
}

// RecordJob records a job state transition. Duration is observed for
// terminal transitions only.
func RecordJob(kind, status string, duration time.Duration) {
	JobsTotal.WithLabelValues(kind, status).Inc()
	if duration > 0 {
		JobDuration.WithLabelValues(kind).Observe(duration.Seconds())
	}
}

func RecordRetentionDeleted(n int64) {
	if n > 0 {
		RetentionDeletedTotal.Add(float64(n))
	}
}

func UpdateSourcesDue(n int) {
	SourcesDue.Set(float64(n))
}

// UpdateDBConnectionStats updates database connection pool statistics.
func UpdateDBConnectionStats(active, idle int) {
	DBConnectionsActive.Set(float64(active))
	DBConnectionsIdle.Set(float64(idle))
}
