package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/resilience/retry"
)

// Outcome is what the queue should do with a job after one attempt.
type Outcome int

const (
	OutcomeDone Outcome = iota
	OutcomeRetry
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeDone:
		return "success"
	case OutcomeRetry:
		return "retry"
	default:
		return "failed"
	}
}

// Executor runs one attempt of a job under its policy. Both queue
// implementations share it so retry decisions are identical.
type Executor struct {
	Handler  Handler
	Policies Policies
}

func NewExecutor(h Handler, p Policies) *Executor {
	return &Executor{Handler: h, Policies: p}
}

// Execute runs job.Attempt and returns the outcome, the delay before the
// next attempt when the outcome is OutcomeRetry, and the attempt's error.
// Permanent errors and the last allowed attempt yield OutcomeFailed.
func (e *Executor) Execute(ctx context.Context, job Job) (Outcome, time.Duration, error) {
	policy := e.Policies.For(job.Kind)
	start := time.Now()

	err := e.run(ctx, job, policy.Timeout)

	outcome := OutcomeDone
	var delay time.Duration
	switch {
	case err == nil:
	case retry.IsPermanent(err) || job.Attempt >= policy.MaxAttempts:
		outcome = OutcomeFailed
	default:
		outcome = OutcomeRetry
		delay = retry.JitteredDelay(policy.Backoff, job.Attempt+1)
	}
	metrics.RecordJob(string(job.Kind), outcome.String(), time.Since(start))

	attrs := []any{
		slog.String("job_id", job.ID),
		slog.String("kind", string(job.Kind)),
		slog.Int("attempt", job.Attempt),
		slog.Int("max_attempts", policy.MaxAttempts),
	}
	switch outcome {
	case OutcomeRetry:
		slog.Warn("job attempt failed, will retry", append(attrs, slog.Duration("delay", delay), slog.Any("error", err))...)
	case OutcomeFailed:
		slog.Error("job permanently failed", append(attrs, slog.Any("error", err))...)
	}
	return outcome, delay, err
}

func (e *Executor) run(ctx context.Context, job Job, timeout time.Duration) (err error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %s panicked: %v", job.ID, r)
		}
	}()
	return e.Handler.Handle(ctx, job)
}
