package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

const sourceColumns = `s.id, s.name, s.slug, s.description, s.url, s.api_endpoint, s.api_key_required,
s.api_config, s.language, s.country, s.logo_url, s.is_active, s.scrape_interval_minutes,
s.last_scraped_at, s.scrape_stats, s.created_at, s.updated_at`

// scanSource scans sourceColumns followed by any extra destinations.
func scanSource(row rowScanner, extra ...any) (*entity.Source, error) {
	var (
		src                            entity.Source
		description, endpoint, logoURL sql.NullString
		lastScrapedAt                  sql.NullTime
		apiConfig, scrapeStats         []byte
	)
	dest := []any{
		&src.ID, &src.Name, &src.Slug, &description, &src.URL, &endpoint, &src.APIKeyRequired,
		&apiConfig, &src.Language, &src.Country, &logoURL, &src.Active, &src.ScrapeIntervalMinutes,
		&lastScrapedAt, &scrapeStats, &src.CreatedAt, &src.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	src.Description = description.String
	src.APIEndpoint = endpoint.String
	src.LogoURL = logoURL.String
	if lastScrapedAt.Valid {
		t := lastScrapedAt.Time
		src.LastScrapedAt = &t
	}
	if err := fromJSON(apiConfig, &src.APIConfig); err != nil {
		return nil, fmt.Errorf("unmarshal api_config: %w", err)
	}
	if err := fromJSON(scrapeStats, &src.ScrapeStats); err != nil {
		return nil, fmt.Errorf("unmarshal scrape_stats: %w", err)
	}
	return &src, nil
}

func (repo *SourceRepo) Get(ctx context.Context, id int64) (*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM news_sources s
WHERE s.id = $1
LIMIT 1`
	src, err := scanSource(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return src, nil
}

func (repo *SourceRepo) GetBySlug(ctx context.Context, slug string) (*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM news_sources s
WHERE s.slug = $1
LIMIT 1`
	src, err := scanSource(repo.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return src, nil
}

func (repo *SourceRepo) ListActive(ctx context.Context) ([]*entity.Source, error) {
	const query = `
SELECT ` + sourceColumns + `
FROM news_sources s
WHERE s.is_active = TRUE
ORDER BY s.id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActive: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var sources []*entity.Source
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("ListActive: Scan: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) ListActiveWithCounts(ctx context.Context) ([]repository.SourceWithCount, error) {
	const query = `
SELECT ` + sourceColumns + `, COUNT(a.id) FILTER (WHERE a.is_active)
FROM news_sources s
LEFT JOIN articles a ON a.news_source_id = s.id
WHERE s.is_active = TRUE
GROUP BY s.id
ORDER BY s.name ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActiveWithCounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []repository.SourceWithCount
	for rows.Next() {
		var count int64
		src, err := scanSource(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("ListActiveWithCounts: Scan: %w", err)
		}
		out = append(out, repository.SourceWithCount{Source: src, ArticleCount: count})
	}
	return out, rows.Err()
}

// TouchScraped merges stats with the jsonb || operator so the update is a single statement
// and keys absent from stats survive.
func (repo *SourceRepo) TouchScraped(ctx context.Context, id int64, t time.Time, stats entity.Metadata) error {
	patch, err := toJSON(stats)
	if err != nil {
		return fmt.Errorf("TouchScraped: marshal stats: %w", err)
	}
	const query = `
UPDATE news_sources
SET last_scraped_at = $1,
    scrape_stats    = COALESCE(scrape_stats, '{}'::jsonb) || $2::jsonb,
    updated_at      = $1
WHERE id = $3`
	if _, err := repo.db.ExecContext(ctx, query, t, patch, id); err != nil {
		return fmt.Errorf("TouchScraped: %w", err)
	}
	return nil
}
