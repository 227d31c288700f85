package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// LoadEnvWithFallback
// ============================================================================

func TestLoadEnvWithFallback(t *testing.T) {
	tests := []struct {
		name         string
		env          string
		want         string
		wantFallback bool
	}{
		{"unset uses default", "", "*/5 * * * *", false},
		{"valid value", "0 * * * *", "0 * * * *", false},
		{"descriptor", "@hourly", "@hourly", false},
		{"invalid falls back", "every minute", "*/5 * * * *", true},
		{"blank is unset", "   ", "*/5 * * * *", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DISPATCH_SCHEDULE", tt.env)

			result := LoadEnvWithFallback("TEST_DISPATCH_SCHEDULE", "*/5 * * * *", ValidateCronSchedule)

			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
			if tt.wantFallback {
				assert.Len(t, result.Warnings, 1)
				assert.Contains(t, result.Warnings[0], "TEST_DISPATCH_SCHEDULE")
				assert.Contains(t, result.Warnings[0], "falling back to default")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestLoadEnvWithFallback_NoValidator(t *testing.T) {
	t.Setenv("TEST_ANY", "anything")

	result := LoadEnvWithFallback("TEST_ANY", "default", nil)

	assert.Equal(t, "anything", result.Value)
	assert.False(t, result.FallbackApplied)
}

// ============================================================================
// LoadEnvDuration / LoadEnvInt / LoadEnvBool
// ============================================================================

func TestLoadEnvDuration(t *testing.T) {
	validate := func(d time.Duration) error { return ValidateDuration(d, time.Minute, time.Hour) }

	t.Run("valid", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "10m")
		result := LoadEnvDuration("TEST_TIMEOUT", 5*time.Minute, validate)
		assert.Equal(t, 10*time.Minute, result.Value)
		assert.False(t, result.FallbackApplied)
	})

	t.Run("unparseable", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "ten minutes")
		result := LoadEnvDuration("TEST_TIMEOUT", 5*time.Minute, validate)
		assert.Equal(t, 5*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
	})

	t.Run("out of range", func(t *testing.T) {
		t.Setenv("TEST_TIMEOUT", "2h")
		result := LoadEnvDuration("TEST_TIMEOUT", 5*time.Minute, validate)
		assert.Equal(t, 5*time.Minute, result.Value)
		assert.True(t, result.FallbackApplied)
		assert.Contains(t, result.Warnings[0], "out of range")
	})
}

func TestLoadEnvInt(t *testing.T) {
	validate := func(v int) error { return ValidateIntRange(v, 1024, 65535) }

	tests := []struct {
		env          string
		want         int
		wantFallback bool
	}{
		{"", 9091, false},
		{"9100", 9100, false},
		{"80", 9091, true},
		{"91OO", 9091, true},
		{"9100.5", 9091, true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("TEST_PORT", tt.env)
			result := LoadEnvInt("TEST_PORT", 9091, validate)
			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}

func TestLoadEnvBool(t *testing.T) {
	tests := []struct {
		env          string
		want         bool
		wantFallback bool
	}{
		{"", false, false},
		{"true", true, false},
		{"1", true, false},
		{"FALSE", false, false},
		{"yes", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("TEST_FLAG", tt.env)
			result := LoadEnvBool("TEST_FLAG", false)
			assert.Equal(t, tt.want, result.Value)
			assert.Equal(t, tt.wantFallback, result.FallbackApplied)
		})
	}
}
