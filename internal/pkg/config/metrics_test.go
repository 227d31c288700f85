package config

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConfigMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConfigMetrics("test_component", reg)

	m.RecordLoadTimestamp()
	assert.Greater(t, testutil.ToFloat64(m.LoadTimestamp), float64(0))

	m.RecordFallback("dispatch_schedule")
	m.RecordFallback("dispatch_schedule")
	m.RecordFallback("timezone")
	assert.Equal(t, float64(2), testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("dispatch_schedule")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ValidationErrorsTotal.WithLabelValues("dispatch_schedule")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbacksTotal.WithLabelValues("timezone")))

	m.SetFallbackActive(true)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FallbackActive))
	m.SetFallbackActive(false)
	assert.Equal(t, float64(0), testutil.ToFloat64(m.FallbackActive))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 6, count) // two gauges plus two series per counter
}

func TestConfigMetrics_SeparateRegistries(t *testing.T) {
	a := NewConfigMetrics("same_name", prometheus.NewRegistry())
	b := NewConfigMetrics("same_name", prometheus.NewRegistry())

	a.RecordFallback("x")
	assert.Equal(t, float64(1), testutil.ToFloat64(a.FallbacksTotal.WithLabelValues("x")))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.FallbacksTotal.WithLabelValues("x")))
}
