package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type InteractionRepo struct{ db *sql.DB }

func NewInteractionRepo(db *sql.DB) repository.InteractionRepository {
	return &InteractionRepo{db: db}
}

func (repo *InteractionRepo) Record(ctx context.Context, userID, articleID int64, kind entity.InteractionType, at time.Time) error {
	const query = `
INSERT INTO user_article_interactions (user_id, article_id, interaction_type, interacted_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, article_id, interaction_type)
DO UPDATE SET interacted_at = EXCLUDED.interacted_at, updated_at = NOW()`
	if _, err := repo.db.ExecContext(ctx, query, userID, articleID, string(kind), at); err != nil {
		return fmt.Errorf("Record: %w", err)
	}
	return nil
}

func (repo *InteractionRepo) Remove(ctx context.Context, userID, articleID int64, kind entity.InteractionType) (bool, error) {
	const query = `
DELETE FROM user_article_interactions
WHERE user_id = $1 AND article_id = $2 AND interaction_type = $3`
	res, err := repo.db.ExecContext(ctx, query, userID, articleID, string(kind))
	if err != nil {
		return false, fmt.Errorf("Remove: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Remove: RowsAffected: %w", err)
	}
	return n > 0, nil
}

func (repo *InteractionRepo) Exists(ctx context.Context, userID, articleID int64, kind entity.InteractionType) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM user_article_interactions
    WHERE user_id = $1 AND article_id = $2 AND interaction_type = $3
)`
	var exists bool
	err := repo.db.QueryRowContext(ctx, query, userID, articleID, string(kind)).Scan(&exists)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("Exists: %w", err)
	}
	return exists, nil
}
