package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/resilience/retry"
	"news-aggregator/internal/usecase/ingest"
)

// SourceRunner runs ingestion for one source.
type SourceRunner interface {
	Run(ctx context.Context, src *entity.Source) (*ingest.Result, error)
}

// ArticleProcessor post-processes one stored article.
type ArticleProcessor interface {
	Process(ctx context.Context, articleID int64) error
}

// Locker grants short-lived exclusive leases. Acquire reports ok=false when
// the key is already held.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (token string, ok bool, err error)
	Release(ctx context.Context, key, token string) error
}

// LeaseKey is the lease held while a source is being ingested.
func LeaseKey(sourceID int64) string {
	return "lease:source:" + strconv.FormatInt(sourceID, 10)
}

// JobHandler routes jobs to the ingestion orchestrator and the
// post-processor.
type JobHandler struct {
	Sources   repository.SourceRepository
	Runner    SourceRunner
	Processor ArticleProcessor
	Locker    Locker
	LeaseTTL  time.Duration
}

func (h *JobHandler) Handle(ctx context.Context, job Job) error {
	switch job.Kind {
	case KindScrapeSource:
		return h.scrape(ctx, job)
	case KindProcessArticle:
		return h.Processor.Process(ctx, job.ArticleID)
	default:
		return retry.Permanent(fmt.Errorf("%w: %q", ErrUnknownJobKind, job.Kind))
	}
}

func (h *JobHandler) scrape(ctx context.Context, job Job) error {
	src, err := h.Sources.Get(ctx, job.SourceID)
	if err != nil {
		return fmt.Errorf("scrape: %w", err)
	}
	if src == nil {
		return retry.Permanent(fmt.Errorf("scrape: source %d: %w", job.SourceID, ErrSourceNotFound))
	}
	ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(slog.String("job_id", job.ID)))
	logger := logging.WithSource(logging.FromContext(ctx), src)
	if !src.Active {
		logger.Info("source deactivated since dispatch, skipping")
		return nil
	}

	guarded := &GuardedRunner{Runner: h.Runner, Locker: h.Locker, LeaseTTL: h.LeaseTTL}
	_, err = guarded.Run(ctx, src)
	if errors.Is(err, ErrSourceBusy) {
		logger.Info("source run skipped, already running")
		return nil
	}
	if errors.Is(err, ingest.ErrUnknownProvider) {
		logger.Warn("no provider for source, run skipped", slog.Any("error", err))
		return nil
	}
	return err
}

// GuardedRunner runs ingestion while holding the source lease, optionally
// bounded by Timeout. Scrape jobs and manual runs both go through it so two
// runs never overlap on one source.
type GuardedRunner struct {
	Runner   SourceRunner
	Locker   Locker
	LeaseTTL time.Duration
	Timeout  time.Duration // zero leaves ctx as is
}

// Run returns ErrSourceBusy without running when the lease is held.
func (g *GuardedRunner) Run(ctx context.Context, src *entity.Source) (*ingest.Result, error) {
	key := LeaseKey(src.ID)
	token, ok, err := g.Locker.Acquire(ctx, key, g.LeaseTTL)
	if err != nil {
		return nil, fmt.Errorf("scrape: acquire lease: %w", err)
	}
	if !ok {
		metrics.RecordIngestRun(src.Slug, metrics.RunLocked, 0, 0, 0, 0)
		return nil, fmt.Errorf("scrape %s: %w", src.Slug, ErrSourceBusy)
	}
	defer func() {
		if err := g.Locker.Release(context.WithoutCancel(ctx), key, token); err != nil {
			logging.FromContext(ctx).Warn("failed to release source lease",
				slog.String("source_slug", src.Slug),
				slog.Any("error", err))
		}
	}()

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}
	return g.Runner.Run(ctx, src)
}
