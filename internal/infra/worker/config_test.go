package worker

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "*/5 * * * *", cfg.DispatchSchedule)
	assert.Equal(t, time.Minute, cfg.DispatchTimeout)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, 9091, cfg.HealthPort)
	assert.False(t, cfg.RetentionEnabled())
	require.NoError(t, cfg.Validate())
}

func TestWorkerConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DispatchSchedule = "often"
	cfg.RetentionSchedule = "nightly"
	cfg.HealthPort = 80

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dispatch schedule")
	assert.Contains(t, err.Error(), "retention schedule")
	assert.Contains(t, err.Error(), "health port")
	assert.NotContains(t, err.Error(), "timezone")
}

func TestWorkerConfig_RetentionEnabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RetentionSchedule = "off"
	assert.False(t, cfg.RetentionEnabled())
	cfg.RetentionSchedule = "0 3 * * *"
	assert.True(t, cfg.RetentionEnabled())
}

func TestWorkerConfig_Location(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Asia/Tokyo"
	assert.Equal(t, "Asia/Tokyo", cfg.Location().String())

	cfg.Timezone = "Nowhere/Invalid"
	assert.Equal(t, time.UTC, cfg.Location())
}

/* ───────── LoadConfigFromEnv ───────── */

func TestLoadConfigFromEnv_Valid(t *testing.T) {
	t.Setenv("DISPATCH_SCHEDULE", "*/10 * * * *")
	t.Setenv("DISPATCH_TIMEOUT", "2m")
	t.Setenv("RETENTION_SCHEDULE", "0 3 * * *")
	t.Setenv("WORKER_TIMEZONE", "Europe/London")
	t.Setenv("WORKER_HEALTH_PORT", "9200")

	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	assert.Equal(t, "*/10 * * * *", cfg.DispatchSchedule)
	assert.Equal(t, 2*time.Minute, cfg.DispatchTimeout)
	assert.Equal(t, "0 3 * * *", cfg.RetentionSchedule)
	assert.True(t, cfg.RetentionEnabled())
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, 9200, cfg.HealthPort)
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbackActive))
	assert.Greater(t, testutil.ToFloat64(metrics.LoadTimestamp), float64(0))
}

func TestLoadConfigFromEnv_FallsBack(t *testing.T) {
	t.Setenv("DISPATCH_SCHEDULE", "whenever")
	t.Setenv("DISPATCH_TIMEOUT", "5s")
	t.Setenv("WORKER_HEALTH_PORT", "not-a-port")

	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	cfg := LoadConfigFromEnv(discardLogger(), metrics)

	def := DefaultConfig()
	assert.Equal(t, def.DispatchSchedule, cfg.DispatchSchedule)
	assert.Equal(t, def.DispatchTimeout, cfg.DispatchTimeout)
	assert.Equal(t, def.HealthPort, cfg.HealthPort)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbackActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("dispatch_schedule")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("dispatch_timeout")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("health_port")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.FallbacksTotal.WithLabelValues("timezone")))
}
