package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/repository"
)

// Service turns sources into scrape jobs and new articles into
// post-processing jobs.
type Service struct {
	Sources repository.SourceRepository
	Queue   Queue
	Now     func() time.Time
}

func NewService(sources repository.SourceRepository, queue Queue) *Service {
	return &Service{Sources: sources, Queue: queue, Now: time.Now}
}

// DispatchDue enqueues one scrape job per active source that is due now and
// returns how many were enqueued. A failed enqueue is logged and the
// remaining sources are still dispatched.
func (s *Service) DispatchDue(ctx context.Context) (int, error) {
	sources, err := s.Sources.ListActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("DispatchDue: %w", err)
	}

	now := s.Now()
	due := 0
	enqueued := 0
	for _, src := range sources {
		if !src.IsDue(now) {
			continue
		}
		due++
		if err := s.Queue.Enqueue(ctx, NewScrapeJob(src.ID)); err != nil {
			slog.Error("failed to enqueue scrape job",
				slog.Int64("source_id", src.ID),
				slog.String("source_slug", src.Slug),
				slog.Any("error", err))
			continue
		}
		enqueued++
	}
	metrics.UpdateSourcesDue(due)
	slog.Info("dispatched due sources",
		slog.Int("active", len(sources)),
		slog.Int("due", due),
		slog.Int("enqueued", enqueued))
	return enqueued, nil
}

// DispatchSlug enqueues the active source with slug regardless of its due
// state.
func (s *Service) DispatchSlug(ctx context.Context, slug string) error {
	src, err := s.Sources.GetBySlug(ctx, slug)
	if err != nil {
		return fmt.Errorf("DispatchSlug: %w", err)
	}
	if src == nil || !src.Active {
		return fmt.Errorf("DispatchSlug: %q: %w", slug, ErrSourceNotFound)
	}
	if err := s.Queue.Enqueue(ctx, NewScrapeJob(src.ID)); err != nil {
		return fmt.Errorf("DispatchSlug: %w", err)
	}
	return nil
}

// EnqueueProcessArticle schedules post-processing for a new article.
func (s *Service) EnqueueProcessArticle(ctx context.Context, articleID int64) error {
	return s.Queue.Enqueue(ctx, NewProcessJob(articleID))
}
