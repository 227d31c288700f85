package source

import (
	"context"
	"fmt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// Service provides source read use cases.
type Service struct {
	Repo repository.SourceRepository
}

// List returns the active sources with their article counts, ordered by name.
func (s *Service) List(ctx context.Context) ([]repository.SourceWithCount, error) {
	sources, err := s.Repo.ListActiveWithCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// Get returns the active source with the given slug.
func (s *Service) Get(ctx context.Context, slug string) (*entity.Source, error) {
	src, err := s.Repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get source: %w", err)
	}
	if src == nil || !src.Active {
		return nil, ErrSourceNotFound
	}
	return src, nil
}
