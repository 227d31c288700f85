// Package retention deletes articles older than the retention window.
package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/repository"
)

// DefaultDays is the retention window used when none is configured.
const DefaultDays = 30

// ErrInvalidDays is returned for a non-positive retention window.
var ErrInvalidDays = errors.New("retention days must be positive")

type Service struct {
	Articles repository.ArticleRepository
	Now      func() time.Time
}

func NewService(articles repository.ArticleRepository) *Service {
	return &Service{Articles: articles, Now: time.Now}
}

// Cutoff returns the instant before which articles are expired.
func (s *Service) Cutoff(days int) (time.Time, error) {
	if days <= 0 {
		return time.Time{}, ErrInvalidDays
	}
	return s.Now().UTC().AddDate(0, 0, -days), nil
}

// Count reports how many articles Purge(days) would delete.
func (s *Service) Count(ctx context.Context, days int) (int64, error) {
	cutoff, err := s.Cutoff(days)
	if err != nil {
		return 0, err
	}
	n, err := s.Articles.CountPublishedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

// Purge deletes every article published before now - days.
func (s *Service) Purge(ctx context.Context, days int) (int64, error) {
	cutoff, err := s.Cutoff(days)
	if err != nil {
		return 0, err
	}
	n, err := s.Articles.DeletePublishedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("Purge: %w", err)
	}
	metrics.RecordRetentionDeleted(n)
	slog.Info("retention sweep completed",
		slog.Int("days", days),
		slog.Time("cutoff", cutoff),
		slog.Int64("deleted", n))
	return n, nil
}
