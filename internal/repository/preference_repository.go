package repository

import (
	"context"

	"news-aggregator/internal/domain/entity"
)

type PreferenceRepository interface {
	// GetByUserID returns (nil, nil) when the user has no stored preferences.
	GetByUserID(ctx context.Context, userID int64) (*entity.UserPreference, error)
	// Upsert inserts or replaces the user's preferences and sets ID.
	Upsert(ctx context.Context, pref *entity.UserPreference) error
}
