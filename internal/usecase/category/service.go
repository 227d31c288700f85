// Package category provides read use cases for the article taxonomy.
package category

import (
	"context"
	"errors"
	"fmt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// ErrCategoryNotFound indicates that no active category has the requested slug.
var ErrCategoryNotFound = errors.New("category not found")

// Service provides category read use cases.
type Service struct {
	Repo repository.CategoryRepository
}

// List returns the active categories with article counts, in display order.
func (s *Service) List(ctx context.Context) ([]repository.CategoryWithCount, error) {
	cats, err := s.Repo.ListActiveWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// Get returns the active category with the given slug.
func (s *Service) Get(ctx context.Context, slug string) (*entity.Category, error) {
	cat, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	if cat == nil {
		return nil, ErrCategoryNotFound
	}
	return cat, nil
}
