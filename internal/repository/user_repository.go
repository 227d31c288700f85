package repository

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
)

type UserRepository interface {
	// Create inserts the user; a taken email is reported as ErrDuplicateEmail.
	Create(ctx context.Context, user *entity.User) error
	// Get and GetByEmail return (nil, nil) when no row matches.
	Get(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
}

// RevokedTokenRepository tracks logged-out bearer tokens until they expire.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
