package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordIngestRun(t *testing.T) {
	before := testutil.ToFloat64(IngestArticlesTotal.WithLabelValues("metrics-test", "saved"))
	beforeRuns := testutil.ToFloat64(IngestRunsTotal.WithLabelValues("metrics-test", RunSuccess))

	RecordIngestRun("metrics-test", RunSuccess, 150*time.Millisecond, 3, 2, 0)

	assert.Equal(t, before+3, testutil.ToFloat64(IngestArticlesTotal.WithLabelValues("metrics-test", "saved")))
	assert.Equal(t, beforeRuns+1, testutil.ToFloat64(IngestRunsTotal.WithLabelValues("metrics-test", RunSuccess)))
}

func TestRecordProviderRequest(t *testing.T) {
	tests := []struct {
		name   string
		status int
		label  string
	}{
		{"ok", 200, "200"},
		{"server error", 503, "503"},
		{"transport error", 0, "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ProviderRequestsTotal.WithLabelValues("metrics-test", tt.label)
			before := testutil.ToFloat64(c)
			RecordProviderRequest("metrics-test", tt.status, time.Second)
			assert.Equal(t, before+1, testutil.ToFloat64(c))
		})
	}
}

func TestRecordProviderRejected(t *testing.T) {
	c := ProviderRequestsTotal.WithLabelValues("metrics-test", "quota")
	before := testutil.ToFloat64(c)
	RecordProviderRejected("metrics-test", "quota")
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordJob(t *testing.T) {
	c := JobsTotal.WithLabelValues("metrics_test_job", "failed")
	before := testutil.ToFloat64(c)
	RecordJob("metrics_test_job", "failed", 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestRecordRetentionDeleted(t *testing.T) {
	before := testutil.ToFloat64(RetentionDeletedTotal)
	RecordRetentionDeleted(0)
	RecordRetentionDeleted(-4)
	RecordRetentionDeleted(12)
	assert.Equal(t, before+12, testutil.ToFloat64(RetentionDeletedTotal))
}

func TestGauges(t *testing.T) {
	UpdateSourcesDue(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(SourcesDue))

	UpdateDBConnectionStats(3, 7)
	assert.Equal(t, 3.0, testutil.ToFloat64(DBConnectionsActive))
	assert.Equal(t, 7.0, testutil.ToFloat64(DBConnectionsIdle))
}

func TestRecordHelpersDoNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordPostProcess("success", 10*time.Millisecond)
		RecordContentFetch("skipped", 0)
		RecordContentFetch("success", time.Second)
		RecordHTTPRequest("GET", "/articles", "200", time.Millisecond, 512)
	})
}
