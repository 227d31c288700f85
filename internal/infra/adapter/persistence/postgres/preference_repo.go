package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type PreferenceRepo struct{ db *sql.DB }

func NewPreferenceRepo(db *sql.DB) repository.PreferenceRepository {
	return &PreferenceRepo{db: db}
}

func (repo *PreferenceRepo) GetByUserID(ctx context.Context, userID int64) (*entity.UserPreference, error) {
	const query = `
SELECT id, user_id, preferred_sources, preferred_categories, preferred_authors,
       blocked_sources, blocked_categories, blocked_keywords,
       language, country, articles_per_page, email_notifications, email_frequency
FROM user_preferences
WHERE user_id = $1
LIMIT 1`
	var (
		p                                            entity.UserPreference
		prefSources, prefCategories, prefAuthors     []byte
		blockSources, blockCategories, blockKeywords []byte
	)
	err := repo.db.QueryRowContext(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &prefSources, &prefCategories, &prefAuthors,
		&blockSources, &blockCategories, &blockKeywords,
		&p.Language, &p.Country, &p.ArticlesPerPage, &p.EmailNotifications, &p.EmailFrequency,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUserID: %w", err)
	}

	base := entity.DefaultPreference(userID)
	p.PreferredSources, p.PreferredCategories, p.PreferredAuthors = base.PreferredSources, base.PreferredCategories, base.PreferredAuthors
	p.BlockedSources, p.BlockedCategories, p.BlockedKeywords = base.BlockedSources, base.BlockedCategories, base.BlockedKeywords
	for _, f := range []struct {
		raw []byte
		dst any
	}{
		{prefSources, &p.PreferredSources},
		{prefCategories, &p.PreferredCategories},
		{prefAuthors, &p.PreferredAuthors},
		{blockSources, &p.BlockedSources},
		{blockCategories, &p.BlockedCategories},
		{blockKeywords, &p.BlockedKeywords},
	} {
		if err := fromJSON(f.raw, f.dst); err != nil {
			return nil, fmt.Errorf("GetByUserID: unmarshal: %w", err)
		}
	}
	return &p, nil
}

func (repo *PreferenceRepo) Upsert(ctx context.Context, p *entity.UserPreference) error {
	lists := make([]string, 0, 6)
	for _, v := range []any{
		p.PreferredSources, p.PreferredCategories, p.PreferredAuthors,
		p.BlockedSources, p.BlockedCategories, p.BlockedKeywords,
	} {
		s, err := toJSON(v)
		if err != nil {
			return fmt.Errorf("Upsert: marshal: %w", err)
		}
		lists = append(lists, s)
	}

	const query = `
INSERT INTO user_preferences (user_id, preferred_sources, preferred_categories, preferred_authors,
                              blocked_sources, blocked_categories, blocked_keywords,
                              language, country, articles_per_page, email_notifications, email_frequency)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT (user_id) DO UPDATE
SET preferred_sources    = EXCLUDED.preferred_sources,
    preferred_categories = EXCLUDED.preferred_categories,
    preferred_authors    = EXCLUDED.preferred_authors,
    blocked_sources      = EXCLUDED.blocked_sources,
    blocked_categories   = EXCLUDED.blocked_categories,
    blocked_keywords     = EXCLUDED.blocked_keywords,
    language             = EXCLUDED.language,
    country              = EXCLUDED.country,
    articles_per_page    = EXCLUDED.articles_per_page,
    email_notifications  = EXCLUDED.email_notifications,
    email_frequency      = EXCLUDED.email_frequency,
    updated_at           = NOW()
RETURNING id`
	err := repo.db.QueryRowContext(ctx, query,
		p.UserID, lists[0], lists[1], lists[2], lists[3], lists[4], lists[5],
		p.Language, p.Country, p.ArticlesPerPage, p.EmailNotifications, p.EmailFrequency,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("Upsert: %w", err)
	}
	return nil
}
