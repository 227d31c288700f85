package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type CategoryRepo struct{ db *sql.DB }

func NewCategoryRepo(db *sql.DB) repository.CategoryRepository {
	return &CategoryRepo{db: db}
}

const categoryColumns = `c.id, c.name, c.slug, c.description, c.color, c.icon, c.is_active, c.sort_order, c.created_at`

func scanCategory(row rowScanner, extra ...any) (*entity.Category, error) {
	var (
		c                        entity.Category
		description, color, icon sql.NullString
	)
	dest := []any{&c.ID, &c.Name, &c.Slug, &description, &color, &icon, &c.Active, &c.SortOrder, &c.CreatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	c.Description = description.String
	c.Color = color.String
	c.Icon = icon.String
	return &c, nil
}

func (repo *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	const query = `
SELECT ` + categoryColumns + `
FROM categories c
ORDER BY c.sort_order ASC, c.id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (repo *CategoryRepo) ListActiveWithCounts(ctx context.Context) ([]repository.CategoryWithCount, error) {
	const query = `
SELECT ` + categoryColumns + `, COUNT(a.id) FILTER (WHERE a.is_active)
FROM categories c
LEFT JOIN articles a ON a.category_id = c.id
WHERE c.is_active = TRUE
GROUP BY c.id
ORDER BY c.sort_order ASC, c.id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("ListActiveWithCounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []repository.CategoryWithCount
	for rows.Next() {
		var count int64
		c, err := scanCategory(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("ListActiveWithCounts: Scan: %w", err)
		}
		out = append(out, repository.CategoryWithCount{Category: c, ArticleCount: count})
	}
	return out, rows.Err()
}

func (repo *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	const query = `
SELECT ` + categoryColumns + `
FROM categories c
WHERE c.slug = $1 AND c.is_active = TRUE
LIMIT 1`
	c, err := scanCategory(repo.db.QueryRowContext(ctx, query, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetBySlug: %w", err)
	}
	return c, nil
}
