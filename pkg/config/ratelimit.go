package config

import (
	"errors"
	"fmt"
	"time"
)

// RateLimitConfig configures the API's per-IP request limiter.
type RateLimitConfig struct {
	Enabled           bool
	RequestsPerMinute int
	Burst             int
	// IdleTTL is how long an idle client's bucket is kept.
	IdleTTL time.Duration
	// TrustProxyHeaders makes X-Forwarded-For / X-Real-IP authoritative.
	// Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool
}

// DefaultRateLimitConfig allows 60 requests per minute with a burst of 20.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           true,
		RequestsPerMinute: 60,
		Burst:             20,
		IdleTTL:           10 * time.Minute,
	}
}

// LoadRateLimitConfig reads RATELIMIT_* variables over the defaults.
//
//   - RATELIMIT_ENABLED (default true)
//   - RATELIMIT_RPM (default 60)
//   - RATELIMIT_BURST (default 20)
//   - RATELIMIT_IDLE_TTL (default 10m)
//   - RATELIMIT_TRUST_PROXY (default false)
func LoadRateLimitConfig() (RateLimitConfig, error) {
	def := DefaultRateLimitConfig()
	cfg := RateLimitConfig{
		Enabled:           GetEnvBool("RATELIMIT_ENABLED", def.Enabled),
		RequestsPerMinute: GetEnvInt("RATELIMIT_RPM", def.RequestsPerMinute),
		Burst:             GetEnvInt("RATELIMIT_BURST", def.Burst),
		IdleTTL:           GetEnvDuration("RATELIMIT_IDLE_TTL", def.IdleTTL),
		TrustProxyHeaders: GetEnvBool("RATELIMIT_TRUST_PROXY", def.TrustProxyHeaders),
	}
	if err := cfg.Validate(); err != nil {
		return def, err
	}
	return cfg, nil
}

// Validate checks the limiter settings.
func (c RateLimitConfig) Validate() error {
	if c.RequestsPerMinute < 1 {
		return errors.New("RATELIMIT_RPM must be at least 1")
	}
	if c.Burst < 1 {
		return errors.New("RATELIMIT_BURST must be at least 1")
	}
	if err := ValidateDurationRange(c.IdleTTL, time.Minute, 24*time.Hour); err != nil {
		return fmt.Errorf("RATELIMIT_IDLE_TTL: %w", err)
	}
	return nil
}
