package category

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type stubCategoryRepo struct {
	cats []repository.CategoryWithCount
	err  error
}

func (r *stubCategoryRepo) List(context.Context) ([]*entity.Category, error) {
	out := make([]*entity.Category, 0, len(r.cats))
	for _, c := range r.cats {
		out = append(out, c.Category)
	}
	return out, r.err
}

func (r *stubCategoryRepo) ListActiveWithCounts(context.Context) ([]repository.CategoryWithCount, error) {
	return r.cats, r.err
}

func (r *stubCategoryRepo) GetBySlug(_ context.Context, slug string) (*entity.Category, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.cats {
		if c.Category.Slug == slug {
			return c.Category, nil
		}
	}
	return nil, nil
}

func TestService(t *testing.T) {
	repo := &stubCategoryRepo{cats: []repository.CategoryWithCount{
		{Category: &entity.Category{ID: 1, Name: "Technology", Slug: "technology", Color: "#3B82F6"}, ArticleCount: 12},
		{Category: &entity.Category{ID: 7, Name: "General", Slug: "general", Color: "#6B7280"}, ArticleCount: 3},
	}}
	svc := &Service{Repo: repo}

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)

	cat, err := svc.Get(context.Background(), "technology")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cat.ID)

	_, err = svc.Get(context.Background(), "politics")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestService_RepositoryError(t *testing.T) {
	svc := &Service{Repo: &stubCategoryRepo{err: errors.New("db down")}}

	_, err := svc.List(context.Background())
	assert.ErrorContains(t, err, "list categories")
	_, err = svc.Get(context.Background(), "technology")
	assert.ErrorContains(t, err, "get category")
	assert.NotErrorIs(t, err, ErrCategoryNotFound)
}
