package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"news-aggregator/internal/usecase/dispatch"
)

const (
	// StreamName is the JetStream stream holding every job kind.
	StreamName    = "NEWS_JOBS"
	subjectPrefix = "news.jobs."
	fetchWait     = 5 * time.Second
	// ackGrace is added to the job timeout so the broker never redelivers a
	// job that is still running.
	ackGrace = 30 * time.Second
)

// Subject returns the subject a job kind is published on.
func Subject(kind dispatch.Kind) string {
	return subjectPrefix + string(kind)
}

// EnsureStream creates the work-queue stream if it does not exist yet.
func EnsureStream(js nats.JetStreamContext) error {
	_, err := js.AddStream(&nats.StreamConfig{
		Name:      StreamName,
		Subjects:  []string{subjectPrefix + ">"},
		Retention: nats.WorkQueuePolicy,
		Storage:   nats.FileStorage,
		MaxAge:    24 * time.Hour,
	})
	if err != nil && !errors.Is(err, nats.ErrStreamNameAlreadyInUse) {
		return fmt.Errorf("EnsureStream: %w", err)
	}
	return nil
}

// NATSQueue publishes jobs to JetStream and consumes them with one durable
// pull consumer per job kind. The broker's delivery count is the attempt
// number; MaxDeliver is the policy's attempt limit.
type NATSQueue struct {
	js       nats.JetStreamContext
	policies dispatch.Policies
	workers  int
}

func NewNATSQueue(nc *nats.Conn, policies dispatch.Policies, workers int) (*NATSQueue, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, fmt.Errorf("NewNATSQueue: %w", err)
	}
	if err := EnsureStream(js); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	return &NATSQueue{js: js, policies: policies, workers: workers}, nil
}

func (q *NATSQueue) Enqueue(ctx context.Context, job dispatch.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("Enqueue: %w", err)
	}
	if _, err := q.js.Publish(Subject(job.Kind), data, nats.Context(ctx), nats.MsgId(job.ID)); err != nil {
		return fmt.Errorf("Enqueue: publish %s: %w", job.Kind, err)
	}
	return nil
}

// Run consumes every kind with a policy until ctx is cancelled.
func (q *NATSQueue) Run(ctx context.Context, exec *dispatch.Executor) error {
	g, gctx := errgroup.WithContext(ctx)
	for kind, policy := range q.policies {
		sub, err := q.js.PullSubscribe(Subject(kind), "news-"+string(kind),
			nats.BindStream(StreamName),
			nats.ManualAck(),
			nats.AckExplicit(),
			nats.MaxDeliver(policy.MaxAttempts),
			nats.AckWait(policy.Timeout+ackGrace),
			nats.MaxAckPending(q.workers),
		)
		if err != nil {
			return fmt.Errorf("Run: subscribe %s: %w", kind, err)
		}
		for i := 0; i < q.workers; i++ {
			g.Go(func() error {
				q.consume(gctx, sub, exec)
				return nil
			})
		}
	}
	return g.Wait()
}

func (q *NATSQueue) consume(ctx context.Context, sub *nats.Subscription, exec *dispatch.Executor) {
	for ctx.Err() == nil {
		fetchCtx, cancel := context.WithTimeout(ctx, fetchWait)
		msgs, err := sub.Fetch(1, nats.Context(fetchCtx))
		cancel()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, nats.ErrTimeout) || ctx.Err() != nil {
				continue
			}
			slog.Warn("job fetch failed", slog.Any("error", err))
			continue
		}
		for _, msg := range msgs {
			q.handle(ctx, msg, exec)
		}
	}
}

func (q *NATSQueue) handle(ctx context.Context, msg *nats.Msg, exec *dispatch.Executor) {
	job, err := decodeJob(msg.Data)
	if err != nil {
		slog.Error("discarding malformed job", slog.String("subject", msg.Subject), slog.Any("error", err))
		_ = msg.Term()
		return
	}
	if meta, err := msg.Metadata(); err == nil {
		job.Attempt = int(meta.NumDelivered)
	}

	outcome, delay, _ := exec.Execute(ctx, job)
	switch outcome {
	case dispatch.OutcomeDone:
		err = msg.Ack()
	case dispatch.OutcomeRetry:
		err = msg.NakWithDelay(delay)
	default:
		err = msg.Term()
	}
	if err != nil {
		slog.Warn("failed to settle job message",
			slog.String("job_id", job.ID),
			slog.String("outcome", outcome.String()),
			slog.Any("error", err))
	}
}

func decodeJob(data []byte) (dispatch.Job, error) {
	var job dispatch.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return job, err
	}
	if job.Kind == "" {
		return job, errors.New("job kind is empty")
	}
	if job.Attempt < 1 {
		job.Attempt = 1
	}
	return job, nil
}
