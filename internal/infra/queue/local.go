// Package queue implements dispatch.Queue in-process (LocalQueue, SyncQueue)
// and on NATS JetStream (NATSQueue).
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"news-aggregator/internal/usecase/dispatch"
)

var (
	// ErrQueueFull is returned when the local buffer cannot take another job.
	ErrQueueFull = errors.New("job queue is full")
	// ErrQueueStopped is returned by Enqueue after Run has returned.
	ErrQueueStopped = errors.New("job queue is stopped")
)

// DefaultBuffer is the LocalQueue channel capacity.
const DefaultBuffer = 1024

// LocalQueue runs jobs on a fixed number of goroutines. Failed attempts are
// re-enqueued after the policy backoff until the attempts are exhausted.
// Jobs still buffered when Run returns are dropped.
type LocalQueue struct {
	jobs    chan dispatch.Job
	workers int
	stopped atomic.Bool
}

func NewLocalQueue(workers, buffer int) *LocalQueue {
	if workers < 1 {
		workers = 1
	}
	if buffer < 1 {
		buffer = DefaultBuffer
	}
	return &LocalQueue{jobs: make(chan dispatch.Job, buffer), workers: workers}
}

// Enqueue never blocks; a full buffer is reported as ErrQueueFull.
func (q *LocalQueue) Enqueue(_ context.Context, job dispatch.Job) error {
	if q.stopped.Load() {
		return ErrQueueStopped
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Len returns the number of buffered jobs.
func (q *LocalQueue) Len() int { return len(q.jobs) }

// Run processes jobs with exec until ctx is cancelled.
func (q *LocalQueue) Run(ctx context.Context, exec *dispatch.Executor) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < q.workers; i++ {
		g.Go(func() error {
			q.work(gctx, g, exec)
			return nil
		})
	}
	err := g.Wait()
	q.stopped.Store(true)
	if n := len(q.jobs); n > 0 {
		slog.Warn("local queue stopped with pending jobs", slog.Int("pending", n))
	}
	return err
}

func (q *LocalQueue) work(ctx context.Context, g *errgroup.Group, exec *dispatch.Executor) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-q.jobs:
			outcome, delay, _ := exec.Execute(ctx, job)
			if outcome != dispatch.OutcomeRetry {
				continue
			}
			next := job
			next.Attempt++
			g.Go(func() error {
				q.requeueAfter(ctx, next, delay)
				return nil
			})
		}
	}
}

func (q *LocalQueue) requeueAfter(ctx context.Context, job dispatch.Job, delay time.Duration) {
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}
	if err := q.Enqueue(ctx, job); err != nil {
		slog.Error("failed to re-enqueue job",
			slog.String("job_id", job.ID),
			slog.String("kind", string(job.Kind)),
			slog.Any("error", err))
	}
}

// SyncQueue collects jobs and runs them in the caller's goroutine on Drain.
// It is used by the CLI when no broker is configured.
type SyncQueue struct {
	mu      sync.Mutex
	pending []dispatch.Job
	// Sleep waits between attempts; tests replace it.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewSyncQueue() *SyncQueue {
	return &SyncQueue{Sleep: sleepCtx}
}

func (q *SyncQueue) Enqueue(_ context.Context, job dispatch.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, job)
	return nil
}

// Drain runs every pending job, including jobs enqueued while draining,
// retrying each in place. It returns the number of jobs that failed for good.
func (q *SyncQueue) Drain(ctx context.Context, exec *dispatch.Executor) (int, error) {
	failed := 0
	for {
		job, ok := q.pop()
		if !ok {
			return failed, nil
		}
		for {
			outcome, delay, _ := exec.Execute(ctx, job)
			if outcome == dispatch.OutcomeFailed {
				failed++
			}
			if outcome != dispatch.OutcomeRetry {
				break
			}
			if err := q.Sleep(ctx, delay); err != nil {
				return failed, err
			}
			job.Attempt++
		}
	}
}

func (q *SyncQueue) pop() (dispatch.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return dispatch.Job{}, false
	}
	job := q.pending[0]
	q.pending = q.pending[1:]
	return job, true
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
