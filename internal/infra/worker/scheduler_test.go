package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) (*Scheduler, *WorkerMetrics) {
	t.Helper()
	metrics := NewWorkerMetrics(prometheus.NewRegistry())
	return NewScheduler(time.UTC, discardLogger(), metrics), metrics
}

func TestScheduler_RunRecordsSuccess(t *testing.T) {
	s, metrics := newTestScheduler(t)

	s.run(context.Background(), "dispatch", time.Second, func(ctx context.Context) (int, error) {
		return 3, nil
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("dispatch", "success")))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.CronJobItemsTotal.WithLabelValues("dispatch")))
	assert.Greater(t, testutil.ToFloat64(metrics.CronJobLastSuccessTimestamp.WithLabelValues("dispatch")), float64(0))
}

func TestScheduler_RunRecordsFailure(t *testing.T) {
	s, metrics := newTestScheduler(t)

	s.run(context.Background(), "retention", time.Second, func(ctx context.Context) (int, error) {
		return 0, errors.New("db down")
	})

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("retention", "failure")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.CronJobRunsTotal.WithLabelValues("retention", "success")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.CronJobLastSuccessTimestamp.WithLabelValues("retention")))
}

func TestScheduler_RunAppliesTimeout(t *testing.T) {
	s, _ := newTestScheduler(t)

	var sawDeadline atomic.Bool
	s.run(context.Background(), "dispatch", 20*time.Millisecond, func(ctx context.Context) (int, error) {
		<-ctx.Done()
		sawDeadline.Store(errors.Is(ctx.Err(), context.DeadlineExceeded))
		return 0, ctx.Err()
	})

	assert.True(t, sawDeadline.Load())
}

func TestScheduler_AddRejectsInvalidSchedule(t *testing.T) {
	s, _ := newTestScheduler(t)

	err := s.Add("dispatch", "not a schedule", time.Second, func(ctx context.Context) (int, error) { return 0, nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "add dispatch job")
}

func TestScheduler_RunStopsOnCancel(t *testing.T) {
	s, _ := newTestScheduler(t)
	require.NoError(t, s.Add("dispatch", "@every 1h", time.Second, func(ctx context.Context) (int, error) { return 0, nil }))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
