package repository

import (
	"context"

	"news-aggregator/internal/domain/entity"
)

// CategoryWithCount pairs a category with its number of active articles.
type CategoryWithCount struct {
	Category     *entity.Category
	ArticleCount int64
}

type CategoryRepository interface {
	// List returns every category, active or not, ordered by sort_order.
	List(ctx context.Context) ([]*entity.Category, error)
	ListActiveWithCounts(ctx context.Context) ([]CategoryWithCount, error)
	// GetBySlug returns (nil, nil) when no active category matches.
	GetBySlug(ctx context.Context, slug string) (*entity.Category, error)
}
