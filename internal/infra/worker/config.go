// Package worker hosts the long-running worker process pieces: cron
// schedules for source dispatch and retention, its health and metrics
// endpoints, and fail-open configuration.
package worker

import (
	"fmt"
	"log/slog"
	"time"

	"news-aggregator/internal/pkg/config"
)

// WorkerConfig is loaded from the environment:
//
//	DISPATCH_SCHEDULE   cron expression for enqueuing due sources (default "*/5 * * * *")
//	DISPATCH_TIMEOUT    bound on one dispatch pass (default 1m, 10s..30m)
//	RETENTION_SCHEDULE  cron expression for the retention sweep ("" or "off" disables)
//	WORKER_TIMEZONE     IANA zone the schedules are evaluated in (default UTC)
//	WORKER_HEALTH_PORT  port for /health, /health/ready and /metrics (default 9091)
type WorkerConfig struct {
	DispatchSchedule  string
	DispatchTimeout   time.Duration
	RetentionSchedule string
	Timezone          string
	HealthPort        int
}

func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		DispatchSchedule: "*/5 * * * *",
		DispatchTimeout:  time.Minute,
		Timezone:         "UTC",
		HealthPort:       9091,
	}
}

// RetentionEnabled reports whether a retention schedule is configured.
func (c *WorkerConfig) RetentionEnabled() bool {
	return c.RetentionSchedule != "" && c.RetentionSchedule != "off"
}

// Location returns the schedule time zone, UTC when it cannot be loaded.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Validate collects every invalid field.
func (c *WorkerConfig) Validate() error {
	var errs []error
	if err := config.ValidateCronSchedule(c.DispatchSchedule); err != nil {
		errs = append(errs, fmt.Errorf("dispatch schedule: %w", err))
	}
	if err := config.ValidateOptionalCronSchedule(c.RetentionSchedule); err != nil {
		errs = append(errs, fmt.Errorf("retention schedule: %w", err))
	}
	if err := config.ValidateDuration(c.DispatchTimeout, 10*time.Second, 30*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("dispatch timeout: %w", err))
	}
	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", err))
	}
	if err := config.ValidateIntRange(c.HealthPort, 1024, 65535); err != nil {
		errs = append(errs, fmt.Errorf("health port: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("validation failed: %v", errs)
	}
	return nil
}

// LoadConfigFromEnv never fails: every invalid value is replaced by its
// default, logged, and counted on metrics.
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) *WorkerConfig {
	cfg := DefaultConfig()
	fallback := false

	apply := func(field string, r config.ConfigLoadResult) {
		if !r.FallbackApplied {
			return
		}
		fallback = true
		metrics.RecordFallback(field)
		for _, w := range r.Warnings {
			logger.Warn("configuration fallback applied",
				slog.String("field", field),
				slog.String("warning", w))
		}
	}

	r := config.LoadEnvWithFallback("DISPATCH_SCHEDULE", cfg.DispatchSchedule, config.ValidateCronSchedule)
	cfg.DispatchSchedule = r.Value.(string)
	apply("dispatch_schedule", r)

	r = config.LoadEnvDuration("DISPATCH_TIMEOUT", cfg.DispatchTimeout, func(d time.Duration) error {
		return config.ValidateDuration(d, 10*time.Second, 30*time.Minute)
	})
	cfg.DispatchTimeout = r.Value.(time.Duration)
	apply("dispatch_timeout", r)

	r = config.LoadEnvWithFallback("RETENTION_SCHEDULE", cfg.RetentionSchedule, config.ValidateOptionalCronSchedule)
	cfg.RetentionSchedule = r.Value.(string)
	apply("retention_schedule", r)

	r = config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone)
	cfg.Timezone = r.Value.(string)
	apply("timezone", r)

	r = config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, func(v int) error {
		return config.ValidateIntRange(v, 1024, 65535)
	})
	cfg.HealthPort = r.Value.(int)
	apply("health_port", r)

	metrics.SetFallbackActive(fallback)
	metrics.RecordLoadTimestamp()
	return &cfg
}
