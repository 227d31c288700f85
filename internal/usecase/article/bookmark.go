package article

import (
	"context"
	"fmt"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// Bookmark marks the article as bookmarked by the user. Repeating it only
// refreshes the bookmark time.
func (s *Service) Bookmark(ctx context.Context, userID int64, articleUUID string) error {
	row, err := s.lookup(ctx, articleUUID)
	if err != nil {
		return err
	}
	if err := s.Interactions.Record(ctx, userID, row.Article.ID, entity.InteractionBookmark, s.now()); err != nil {
		return fmt.Errorf("record bookmark: %w", err)
	}
	return nil
}

// RemoveBookmark deletes the bookmark. Removing a missing bookmark succeeds.
func (s *Service) RemoveBookmark(ctx context.Context, userID int64, articleUUID string) error {
	row, err := s.lookup(ctx, articleUUID)
	if err != nil {
		return err
	}
	if _, err := s.Interactions.Remove(ctx, userID, row.Article.ID, entity.InteractionBookmark); err != nil {
		return fmt.Errorf("remove bookmark: %w", err)
	}
	return nil
}

// Bookmarks lists the user's bookmarked articles, most recently bookmarked first.
func (s *Service) Bookmarks(ctx context.Context, userID int64, params pagination.Params) (*Result, error) {
	rows, total, err := s.Articles.ListBookmarked(ctx, userID, repository.Page{Offset: params.Offset(), Limit: params.PerPage})
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{ArticleWithRelations: row, Bookmarked: true})
	}
	return &Result{
		Items:      items,
		Pagination: pagination.NewMetadata(params, total, len(items)),
	}, nil
}
