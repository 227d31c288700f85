package repository

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
)

type InteractionRepository interface {
	// Record upserts the (user, article, type) row, refreshing interacted_at.
	Record(ctx context.Context, userID, articleID int64, kind entity.InteractionType, at time.Time) error
	// Remove reports whether a row was deleted.
	Remove(ctx context.Context, userID, articleID int64, kind entity.InteractionType) (bool, error)
	Exists(ctx context.Context, userID, articleID int64, kind entity.InteractionType) (bool, error)
}
