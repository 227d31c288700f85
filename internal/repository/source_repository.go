package repository

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
)

// SourceWithCount pairs a source with its number of active articles.
type SourceWithCount struct {
	Source       *entity.Source
	ArticleCount int64
}

type SourceRepository interface {
	// Get and GetBySlug return (nil, nil) when no row matches.
	Get(ctx context.Context, id int64) (*entity.Source, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Source, error)
	ListActive(ctx context.Context) ([]*entity.Source, error)
	ListActiveWithCounts(ctx context.Context) ([]SourceWithCount, error)
	// TouchScraped sets last_scraped_at and shallow-merges stats into scrape_stats.
	TouchScraped(ctx context.Context, id int64, t time.Time, stats entity.Metadata) error
}
