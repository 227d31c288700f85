// Package postgres provides PostgreSQL implementations of repository interfaces.
package postgres

import (
	sq "github.com/Masterminds/squirrel"

	"news-aggregator/internal/repository"
)

// articleColumns is the column list scanned by scanArticle, in order.
const articleColumns = `a.id, a.uuid, a.news_source_id, a.category_id, a.title, a.description, a.content,
a.url, a.image_url, a.author, a.published_at, a.metadata, a.language, a.country,
a.word_count, a.reading_time_minutes, a.is_active, a.created_at, a.updated_at`

// relationColumns follow articleColumns in every joined select.
const relationColumns = `s.name, s.slug, c.name, c.slug, c.color`

// ArticleQueryBuilder builds article list/search queries with squirrel.
// COUNT and SELECT share the same joins and predicates.
type ArticleQueryBuilder struct {
	psql sq.StatementBuilderType
}

// NewArticleQueryBuilder creates a new query builder instance using $N placeholders.
func NewArticleQueryBuilder() *ArticleQueryBuilder {
	return &ArticleQueryBuilder{psql: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Select builds the paged SELECT for filter.
func (qb *ArticleQueryBuilder) Select(filter repository.ArticleFilter, page repository.Page) sq.SelectBuilder {
	b := qb.psql.Select(articleColumns, relationColumns)
	b = qb.apply(qb.from(b), filter).
		OrderBy(orderClause(filter), "a.id DESC")
	if page.Limit > 0 {
		b = b.Limit(uint64(page.Limit))
	}
	if page.Offset > 0 {
		b = b.Offset(uint64(page.Offset))
	}
	return b
}

// Count builds the COUNT(*) query for filter.
func (qb *ArticleQueryBuilder) Count(filter repository.ArticleFilter) sq.SelectBuilder {
	return qb.apply(qb.from(qb.psql.Select("COUNT(*)")), filter)
}

func (qb *ArticleQueryBuilder) from(b sq.SelectBuilder) sq.SelectBuilder {
	return b.From("articles a").
		Join("news_sources s ON s.id = a.news_source_id").
		LeftJoin("categories c ON c.id = a.category_id")
}

func (qb *ArticleQueryBuilder) apply(b sq.SelectBuilder, f repository.ArticleFilter) sq.SelectBuilder {
	b = b.Where(sq.Eq{"a.is_active": true}).Where("a.published_at <= NOW()")

	if f.Query != "" {
		pattern := escapeILIKE(f.Query)
		b = b.Where(sq.Or{
			sq.ILike{"a.title": pattern},
			sq.Expr("COALESCE(a.description, '') ILIKE ?", pattern),
			sq.Expr("COALESCE(a.author, '') ILIKE ?", pattern),
		})
	}
	if len(f.SourceIDs) > 0 {
		b = b.Where(sq.Eq{"a.news_source_id": f.SourceIDs})
	}
	if len(f.CategoryIDs) > 0 {
		b = b.Where(sq.Eq{"a.category_id": f.CategoryIDs})
	}
	if f.SourceSlug != "" {
		b = b.Where(sq.Eq{"s.slug": f.SourceSlug})
	}
	if f.CategorySlug != "" {
		b = b.Where(sq.Eq{"c.slug": f.CategorySlug})
	}
	if f.Author != "" {
		b = b.Where(sq.ILike{"a.author": escapeILIKE(f.Author)})
	}
	if f.Language != "" {
		b = b.Where(sq.Eq{"a.language": f.Language})
	}
	if f.From != nil {
		b = b.Where(sq.GtOrEq{"a.published_at": *f.From})
	}
	if f.To != nil {
		b = b.Where(sq.LtOrEq{"a.published_at": *f.To})
	}

	if p := f.Preferences; p != nil {
		if len(p.PreferredSources) > 0 {
			b = b.Where(sq.Eq{"a.news_source_id": p.PreferredSources})
		}
		if len(p.PreferredCategories) > 0 {
			b = b.Where(sq.Eq{"a.category_id": p.PreferredCategories})
		}
		if len(p.BlockedSources) > 0 {
			b = b.Where(sq.NotEq{"a.news_source_id": p.BlockedSources})
		}
		if len(p.BlockedCategories) > 0 {
			b = b.Where(sq.Or{
				sq.Eq{"a.category_id": nil},
				sq.NotEq{"a.category_id": p.BlockedCategories},
			})
		}
		for _, kw := range p.BlockedKeywords {
			if kw == "" {
				continue
			}
			pattern := escapeILIKE(kw)
			b = b.Where(sq.And{
				sq.NotILike{"a.title": pattern},
				sq.Expr("COALESCE(a.description, '') NOT ILIKE ?", pattern),
			})
		}
	}
	return b
}

// orderClause whitelists the sort column.
func orderClause(f repository.ArticleFilter) string {
	col := "a.published_at"
	switch f.SortBy {
	case repository.SortTitle:
		col = "a.title"
	case repository.SortCreatedAt:
		col = "a.created_at"
	}
	if f.SortAsc {
		return col + " ASC"
	}
	return col + " DESC"
}
