package article

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

const (
	maxQueryLength     = 255
	minSuggestionQuery = 2
	titleSuggestions   = 5
	authorSuggestions  = 3
)

// Item is an article as presented to one caller.
// Bookmarked is only meaningful when the caller is authenticated.
type Item struct {
	repository.ArticleWithRelations
	Bookmarked bool
}

// Result is one page of items.
type Result struct {
	Items      []Item
	Pagination pagination.Metadata
}

// ListInput holds the feed filters. UserID 0 means anonymous.
type ListInput struct {
	CategorySlug string
	SourceSlug   string
	Search       string
	Author       string
	From         *time.Time
	To           *time.Time
	Params       pagination.Params
	UserID       int64
}

// SearchInput holds the search filters. SortBy defaults to published_at and
// SortOrder to desc.
type SearchInput struct {
	Query       string
	CategoryIDs []int64
	SourceIDs   []int64
	Author      string
	Language    string
	From        *time.Time
	To          *time.Time
	SortBy      string
	SortOrder   string
	Params      pagination.Params
	UserID      int64
}

// Suggestions are autocomplete candidates for a search prefix.
type Suggestions struct {
	Titles  []string
	Authors []string
}

// Service provides article read use cases.
type Service struct {
	Articles     repository.ArticleRepository
	Interactions repository.InteractionRepository
	Preferences  repository.PreferenceRepository
	Now          func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns one page of the feed. Stored preferences of an authenticated
// caller narrow the result; users without stored preferences see everything.
func (s *Service) List(ctx context.Context, in ListInput) (*Result, error) {
	if err := validateRange(in.From, in.To); err != nil {
		return nil, err
	}
	filter := repository.ArticleFilter{
		Query:        strings.TrimSpace(in.Search),
		CategorySlug: in.CategorySlug,
		SourceSlug:   in.SourceSlug,
		Author:       strings.TrimSpace(in.Author),
		From:         in.From,
		To:           in.To,
		SortBy:       repository.SortPublishedAt,
	}

	if in.UserID > 0 {
		prefs, err := s.Preferences.GetByUserID(ctx, in.UserID)
		if err != nil {
			return nil, fmt.Errorf("get preferences: %w", err)
		}
		filter.Preferences = prefs
	}

	return s.page(ctx, filter, in.Params, in.UserID)
}

// Search validates the input and returns one page of matches.
func (s *Service) Search(ctx context.Context, in SearchInput) (*Result, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	filter := repository.ArticleFilter{
		Query:       strings.TrimSpace(in.Query),
		CategoryIDs: in.CategoryIDs,
		SourceIDs:   in.SourceIDs,
		Author:      strings.TrimSpace(in.Author),
		Language:    in.Language,
		From:        in.From,
		To:          in.To,
		SortBy:      in.SortBy,
		SortAsc:     strings.EqualFold(in.SortOrder, "asc"),
	}
	if filter.SortBy == "" {
		filter.SortBy = repository.SortPublishedAt
	}
	return s.page(ctx, filter, in.Params, in.UserID)
}

func (in SearchInput) validate() error {
	if utf8.RuneCountInString(in.Query) > maxQueryLength {
		return &entity.ValidationError{Field: "q", Message: "q may not be greater than 255 characters"}
	}
	if utf8.RuneCountInString(in.Author) > maxQueryLength {
		return &entity.ValidationError{Field: "author", Message: "author may not be greater than 255 characters"}
	}
	if in.Language != "" && len(in.Language) != 2 {
		return &entity.ValidationError{Field: "language", Message: "language must be 2 characters"}
	}
	switch in.SortBy {
	case "", repository.SortPublishedAt, repository.SortTitle, repository.SortCreatedAt:
	default:
		return &entity.ValidationError{Field: "sort_by", Message: "sort_by must be one of published_at, title, created_at"}
	}
	switch strings.ToLower(in.SortOrder) {
	case "", "asc", "desc":
	default:
		return &entity.ValidationError{Field: "sort_order", Message: "sort_order must be asc or desc"}
	}
	return validateRange(in.From, in.To)
}

func validateRange(from, to *time.Time) error {
	if from != nil && to != nil && to.Before(*from) {
		return &entity.ValidationError{Field: "to_date", Message: "End date must be after or equal to start date"}
	}
	return nil
}

func (s *Service) page(ctx context.Context, filter repository.ArticleFilter, params pagination.Params, userID int64) (*Result, error) {
	rows, total, err := s.Articles.List(ctx, filter, repository.Page{Offset: params.Offset(), Limit: params.PerPage})
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	items, err := s.decorate(ctx, rows, userID)
	if err != nil {
		return nil, err
	}
	return &Result{
		Items:      items,
		Pagination: pagination.NewMetadata(params, total, len(items)),
	}, nil
}

func (s *Service) decorate(ctx context.Context, rows []repository.ArticleWithRelations, userID int64) ([]Item, error) {
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		item := Item{ArticleWithRelations: row}
		if userID > 0 {
			ok, err := s.Interactions.Exists(ctx, userID, row.Article.ID, entity.InteractionBookmark)
			if err != nil {
				return nil, fmt.Errorf("check bookmark: %w", err)
			}
			item.Bookmarked = ok
		}
		items = append(items, item)
	}
	return items, nil
}

// Get returns the active article with the given UUID. An authenticated
// caller's view is recorded; a failure to record it is logged only.
func (s *Service) Get(ctx context.Context, articleUUID string, userID int64) (*Item, error) {
	row, err := s.lookup(ctx, articleUUID)
	if err != nil {
		return nil, err
	}
	item := &Item{ArticleWithRelations: *row}
	if userID <= 0 {
		return item, nil
	}

	if err := s.Interactions.Record(ctx, userID, row.Article.ID, entity.InteractionView, s.now()); err != nil {
		slog.WarnContext(ctx, "failed to record view",
			slog.Int64("user_id", userID),
			slog.Int64("article_id", row.Article.ID),
			slog.Any("error", err))
	}
	item.Bookmarked, err = s.Interactions.Exists(ctx, userID, row.Article.ID, entity.InteractionBookmark)
	if err != nil {
		return nil, fmt.Errorf("check bookmark: %w", err)
	}
	return item, nil
}

func (s *Service) lookup(ctx context.Context, articleUUID string) (*repository.ArticleWithRelations, error) {
	// the column is uuid-typed; a malformed value can never match
	if _, err := uuid.Parse(articleUUID); err != nil {
		return nil, ErrArticleNotFound
	}
	row, err := s.Articles.GetByUUID(ctx, articleUUID)
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	if row == nil {
		return nil, ErrArticleNotFound
	}
	return row, nil
}

// Suggest returns up to 5 matching titles and 3 distinct authors.
// A query shorter than two characters yields nil.
func (s *Service) Suggest(ctx context.Context, query string) (*Suggestions, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestionQuery {
		return nil, nil
	}
	titles, err := s.Articles.SuggestTitles(ctx, query, titleSuggestions)
	if err != nil {
		return nil, fmt.Errorf("suggest titles: %w", err)
	}
	authors, err := s.Articles.SuggestAuthors(ctx, query, authorSuggestions)
	if err != nil {
		return nil, fmt.Errorf("suggest authors: %w", err)
	}
	if titles == nil {
		titles = []string{}
	}
	if authors == nil {
		authors = []string{}
	}
	return &Suggestions{Titles: titles, Authors: authors}, nil
}
