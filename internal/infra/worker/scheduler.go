package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc runs one scheduled pass and reports how many items it handled.
type JobFunc func(ctx context.Context) (int, error)

// Scheduler runs named JobFuncs on cron schedules. A run that is still in
// progress when its next tick fires causes that tick to be skipped.
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	metrics *WorkerMetrics
	ctx     context.Context
}

func NewScheduler(loc *time.Location, logger *slog.Logger, metrics *WorkerMetrics) *Scheduler {
	cl := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelWarn))
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger:  logger,
		metrics: metrics,
		ctx:     context.Background(),
	}
}

// Add registers fn under name. Each run gets its own timeout.
func (s *Scheduler) Add(name, schedule string, timeout time.Duration, fn JobFunc) error {
	_, err := s.cron.AddFunc(schedule, func() {
		s.run(s.ctx, name, timeout, fn)
	})
	if err != nil {
		return fmt.Errorf("add %s job: %w", name, err)
	}
	s.logger.Info("scheduled job registered",
		slog.String("job", name),
		slog.String("schedule", schedule))
	return nil
}

// Run starts the schedules and blocks until ctx is done, then waits for
// in-flight runs to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.ctx = ctx
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) run(parent context.Context, name string, timeout time.Duration, fn JobFunc) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	n, err := fn(ctx)
	s.metrics.RecordJobDuration(name, time.Since(start).Seconds())
	if err != nil {
		s.metrics.RecordJobRun(name, "failure")
		s.logger.Error("scheduled job failed",
			slog.String("job", name),
			slog.Any("error", err))
		return
	}

	s.metrics.RecordJobRun(name, "success")
	s.metrics.RecordItems(name, n)
	s.metrics.RecordLastSuccess(name)
	s.logger.Info("scheduled job completed",
		slog.String("job", name),
		slog.Int("items", n),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
}
