package repository

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
)

// Sort columns accepted by ArticleFilter.SortBy.
const (
	SortPublishedAt = "published_at"
	SortTitle       = "title"
	SortCreatedAt   = "created_at"
)

// ArticleWithRelations is an article joined with its source and optional category.
type ArticleWithRelations struct {
	Article       *entity.Article
	SourceName    string
	SourceSlug    string
	CategoryName  string
	CategorySlug  string
	CategoryColor string
}

// ArticleFilter holds the optional predicates for listing and searching articles.
// Zero values mean "no filter". Only active articles are ever returned.
type ArticleFilter struct {
	Query        string // ILIKE across title, description and author
	SourceIDs    []int64
	CategoryIDs  []int64
	SourceSlug   string
	CategorySlug string
	Author       string
	Language     string
	From         *time.Time
	To           *time.Time
	SortBy       string
	SortAsc      bool // default is descending

	// Preferences, when set, restricts to preferred sources/categories
	// and excludes blocked sources, categories and keywords.
	Preferences *entity.UserPreference
}

// Page is an offset/limit window.
type Page struct {
	Offset int
	Limit  int
}

type ArticleRepository interface {
	// Get returns (nil, nil) when the article does not exist.
	Get(ctx context.Context, id int64) (*entity.Article, error)
	// GetByUUID returns an active article with its relations, or (nil, nil).
	GetByUUID(ctx context.Context, uuid string) (*ArticleWithRelations, error)
	// List returns one page of matching articles and the total match count.
	List(ctx context.Context, filter ArticleFilter, page Page) ([]ArticleWithRelations, int64, error)
	// ListBookmarked returns the user's bookmarked articles, newest bookmark first.
	ListBookmarked(ctx context.Context, userID int64, page Page) ([]ArticleWithRelations, int64, error)
	SuggestTitles(ctx context.Context, query string, limit int) ([]string, error)
	SuggestAuthors(ctx context.Context, query string, limit int) ([]string, error)
	// Create inserts the article and sets its ID and CreatedAt.
	// A URL unique violation is reported as ErrDuplicateURL.
	Create(ctx context.Context, article *entity.Article) error
	// UpdateProcessed writes the post-processing results in a single statement:
	// content, description, word_count, reading_time_minutes, and metadata merged into the stored blob.
	UpdateProcessed(ctx context.Context, article *entity.Article, metadata entity.Metadata) error
	// ExistsByURLBatch はバッチでURL存在チェックを行い、N+1問題を解消する
	ExistsByURLBatch(ctx context.Context, urls []string) (map[string]bool, error)
	CountPublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeletePublishedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
