package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"

	"github.com/lib/pq"
)

type ArticleRepo struct {
	db           *sql.DB
	queryBuilder *ArticleQueryBuilder
}

func NewArticleRepo(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepo{
		db:           db,
		queryBuilder: NewArticleQueryBuilder(),
	}
}

// scanArticle scans articleColumns followed by any extra destinations.
func scanArticle(row rowScanner, extra ...any) (*entity.Article, error) {
	var (
		a                                      entity.Article
		categoryID                             sql.NullInt64
		description, content, imageURL, author sql.NullString
		metadata                               []byte
	)
	dest := []any{
		&a.ID, &a.UUID, &a.SourceID, &categoryID, &a.Title, &description, &content,
		&a.URL, &imageURL, &author, &a.PublishedAt, &metadata, &a.Language, &a.Country,
		&a.WordCount, &a.ReadingTimeMinutes, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := categoryID.Int64
		a.CategoryID = &id
	}
	a.Description = description.String
	a.Content = content.String
	a.ImageURL = imageURL.String
	a.Author = author.String
	if err := fromJSON(metadata, &a.Metadata); err != nil {
		return nil, fmt.Errorf("unmarshal metadata: %w", err)
	}
	return &a, nil
}

// scanArticleWithRelations scans articleColumns + relationColumns.
func scanArticleWithRelations(row rowScanner) (repository.ArticleWithRelations, error) {
	var sourceName, sourceSlug string
	var categoryName, categorySlug, categoryColor sql.NullString
	a, err := scanArticle(row, &sourceName, &sourceSlug, &categoryName, &categorySlug, &categoryColor)
	if err != nil {
		return repository.ArticleWithRelations{}, err
	}
	return repository.ArticleWithRelations{
		Article:       a,
		SourceName:    sourceName,
		SourceSlug:    sourceSlug,
		CategoryName:  categoryName.String,
		CategorySlug:  categorySlug.String,
		CategoryColor: categoryColor.String,
	}, nil
}

func (repo *ArticleRepo) Get(ctx context.Context, id int64) (*entity.Article, error) {
	const query = `
SELECT ` + articleColumns + `
FROM articles a
WHERE a.id = $1
LIMIT 1`
	article, err := scanArticle(repo.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return article, nil
}

func (repo *ArticleRepo) GetByUUID(ctx context.Context, uuid string) (*repository.ArticleWithRelations, error) {
	const query = `
SELECT ` + articleColumns + `, ` + relationColumns + `
FROM articles a
INNER JOIN news_sources s ON s.id = a.news_source_id
LEFT JOIN categories c ON c.id = a.category_id
WHERE a.uuid = $1 AND a.is_active = TRUE
LIMIT 1`
	item, err := scanArticleWithRelations(repo.db.QueryRowContext(ctx, query, uuid))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("GetByUUID: %w", err)
	}
	return &item, nil
}

func (repo *ArticleRepo) List(ctx context.Context, filter repository.ArticleFilter, page repository.Page) ([]repository.ArticleWithRelations, int64, error) {
	countSQL, countArgs, err := repo.queryBuilder.Count(filter).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("List: build count: %w", err)
	}
	var total int64
	if err := repo.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}
	if total == 0 {
		return []repository.ArticleWithRelations{}, 0, nil
	}

	selectSQL, args, err := repo.queryBuilder.Select(filter, page).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("List: build select: %w", err)
	}
	items, err := repo.queryRelations(ctx, selectSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return items, total, nil
}

func (repo *ArticleRepo) ListBookmarked(ctx context.Context, userID int64, page repository.Page) ([]repository.ArticleWithRelations, int64, error) {
	const countQuery = `
SELECT COUNT(*)
FROM articles a
INNER JOIN user_article_interactions i ON i.article_id = a.id
WHERE i.user_id = $1 AND i.interaction_type = 'bookmark' AND a.is_active = TRUE`
	var total int64
	if err := repo.db.QueryRowContext(ctx, countQuery, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListBookmarked: count: %w", err)
	}
	if total == 0 {
		return []repository.ArticleWithRelations{}, 0, nil
	}

	const query = `
SELECT ` + articleColumns + `, ` + relationColumns + `
FROM articles a
INNER JOIN user_article_interactions i ON i.article_id = a.id
INNER JOIN news_sources s ON s.id = a.news_source_id
LEFT JOIN categories c ON c.id = a.category_id
WHERE i.user_id = $1 AND i.interaction_type = 'bookmark' AND a.is_active = TRUE
ORDER BY i.interacted_at DESC
LIMIT $2 OFFSET $3`
	items, err := repo.queryRelations(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("ListBookmarked: %w", err)
	}
	return items, total, nil
}

func (repo *ArticleRepo) queryRelations(ctx context.Context, query string, args ...any) ([]repository.ArticleWithRelations, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make([]repository.ArticleWithRelations, 0, 20)
	for rows.Next() {
		item, err := scanArticleWithRelations(rows)
		if err != nil {
			return nil, fmt.Errorf("Scan: %w", err)
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (repo *ArticleRepo) SuggestTitles(ctx context.Context, query string, limit int) ([]string, error) {
	const q = `
SELECT title
FROM articles
WHERE is_active = TRUE AND title ILIKE $1
ORDER BY published_at DESC
LIMIT $2`
	out, err := repo.queryStrings(ctx, q, escapeILIKE(query), limit)
	if err != nil {
		return nil, fmt.Errorf("SuggestTitles: %w", err)
	}
	return out, nil
}

func (repo *ArticleRepo) SuggestAuthors(ctx context.Context, query string, limit int) ([]string, error) {
	const q = `
SELECT DISTINCT author
FROM articles
WHERE is_active = TRUE AND author IS NOT NULL AND author ILIKE $1
ORDER BY author
LIMIT $2`
	out, err := repo.queryStrings(ctx, q, escapeILIKE(query), limit)
	if err != nil {
		return nil, fmt.Errorf("SuggestAuthors: %w", err)
	}
	return out, nil
}

func (repo *ArticleRepo) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := make([]string, 0, 8)
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (repo *ArticleRepo) Create(ctx context.Context, article *entity.Article) error {
	metadata, err := toJSON(article.Metadata)
	if err != nil {
		return fmt.Errorf("Create: marshal metadata: %w", err)
	}
	const query = `
INSERT INTO articles (uuid, news_source_id, category_id, title, description, content, url,
                      image_url, author, published_at, metadata, language, country,
                      word_count, reading_time_minutes, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id, created_at, updated_at`
	err = repo.db.QueryRowContext(ctx, query,
		article.UUID, article.SourceID, article.CategoryID, article.Title,
		nullString(article.Description), nullString(article.Content), article.URL,
		nullString(article.ImageURL), nullString(article.Author), article.PublishedAt,
		metadata, article.Language, article.Country,
		article.WordCount, article.ReadingTimeMinutes, article.Active,
	).Scan(&article.ID, &article.CreatedAt, &article.UpdatedAt)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", repository.ErrDuplicateURL)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *ArticleRepo) UpdateProcessed(ctx context.Context, article *entity.Article, metadata entity.Metadata) error {
	patch, err := toJSON(metadata)
	if err != nil {
		return fmt.Errorf("UpdateProcessed: marshal metadata: %w", err)
	}
	const query = `
UPDATE articles
SET content              = $1,
    description          = $2,
    word_count           = $3,
    reading_time_minutes = $4,
    metadata             = COALESCE(metadata, '{}'::jsonb) || $5::jsonb,
    updated_at           = NOW()
WHERE id = $6`
	res, err := repo.db.ExecContext(ctx, query,
		nullString(article.Content), nullString(article.Description),
		article.WordCount, article.ReadingTimeMinutes, patch, article.ID)
	if err != nil {
		return fmt.Errorf("UpdateProcessed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateProcessed: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("UpdateProcessed: %w", entity.ErrNotFound)
	}
	return nil
}

// ExistsByURLBatch はバッチでURL存在チェックを行い、N+1問題を解消する
func (repo *ArticleRepo) ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error) {
	if len(urls) == 0 {
		return make(map[string]bool), nil
	}

	const query = `SELECT url FROM articles WHERE url = ANY($1)`
	rows, err := repo.db.QueryContext(ctx, query, pq.Array(urls))
	if err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]bool, len(urls))
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, fmt.Errorf("ExistsByURLBatch: Scan: %w", err)
		}
		result[url] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByURLBatch: rows.Err: %w", err)
	}
	return result, nil
}

func (repo *ArticleRepo) CountPublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM articles WHERE published_at < $1`
	var n int64
	if err := repo.db.QueryRowContext(ctx, query, cutoff).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountPublishedBefore: %w", err)
	}
	return n, nil
}

func (repo *ArticleRepo) DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	const query = `DELETE FROM articles WHERE published_at < $1`
	res, err := repo.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("DeletePublishedBefore: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("DeletePublishedBefore: RowsAffected: %w", err)
	}
	return n, nil
}
