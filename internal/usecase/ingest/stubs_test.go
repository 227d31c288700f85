package ingest_test

import (
	"context"
	"sync"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/usecase/ingest"
)

/* ───────── モック実装 ───────── */

// stubArticleRepo keeps created articles in memory and enforces URL uniqueness.
type stubArticleRepo struct {
	mu        sync.Mutex
	byURL     map[string]*entity.Article
	created   []*entity.Article
	batchErr  error
	createErr map[string]error
	nextID    int64

	afterCreate func()
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{byURL: map[string]*entity.Article{}, createErr: map[string]error{}}
}

func (s *stubArticleRepo) ExistsByURLBatch(_ context.Context, urls []string) (map[string]bool, error) {
	if s.batchErr != nil {
		return nil, s.batchErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(urls))
	for _, u := range urls {
		_, ok := s.byURL[u]
		out[u] = ok
	}
	return out, nil
}

func (s *stubArticleRepo) Create(_ context.Context, a *entity.Article) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.createErr[a.URL]; err != nil {
		return err
	}
	if _, ok := s.byURL[a.URL]; ok {
		return repository.ErrDuplicateURL
	}
	s.nextID++
	a.ID = s.nextID
	s.byURL[a.URL] = a
	s.created = append(s.created, a)
	if s.afterCreate != nil {
		s.afterCreate()
	}
	return nil
}

// 以下は未使用だが、インターフェース満たすために実装
func (s *stubArticleRepo) Get(context.Context, int64) (*entity.Article, error) { return nil, nil }
func (s *stubArticleRepo) GetByUUID(context.Context, string) (*repository.ArticleWithRelations, error) {
	return nil, nil
}
func (s *stubArticleRepo) List(context.Context, repository.ArticleFilter, repository.Page) ([]repository.ArticleWithRelations, int64, error) {
	return nil, 0, nil
}
func (s *stubArticleRepo) ListBookmarked(context.Context, int64, repository.Page) ([]repository.ArticleWithRelations, int64, error) {
	return nil, 0, nil
}
func (s *stubArticleRepo) SuggestTitles(context.Context, string, int) ([]string, error) {
	return nil, nil
}
func (s *stubArticleRepo) SuggestAuthors(context.Context, string, int) ([]string, error) {
	return nil, nil
}
func (s *stubArticleRepo) UpdateProcessed(context.Context, *entity.Article, entity.Metadata) error {
	return nil
}
func (s *stubArticleRepo) CountPublishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (s *stubArticleRepo) DeletePublishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

// stubSourceRepo records TouchScraped calls.
type stubSourceRepo struct {
	touchErr error
	touches  []touchCall
}

type touchCall struct {
	id    int64
	at    time.Time
	stats entity.Metadata
}

func (s *stubSourceRepo) TouchScraped(_ context.Context, id int64, t time.Time, stats entity.Metadata) error {
	s.touches = append(s.touches, touchCall{id: id, at: t, stats: stats})
	return s.touchErr
}

func (s *stubSourceRepo) Get(context.Context, int64) (*entity.Source, error) { return nil, nil }
func (s *stubSourceRepo) GetBySlug(context.Context, string) (*entity.Source, error) {
	return nil, nil
}
func (s *stubSourceRepo) ListActive(context.Context) ([]*entity.Source, error) { return nil, nil }
func (s *stubSourceRepo) ListActiveWithCounts(context.Context) ([]repository.SourceWithCount, error) {
	return nil, nil
}

// stubCategoryRepo returns a fixed category list.
type stubCategoryRepo struct {
	cats []*entity.Category
	err  error
}

func (s *stubCategoryRepo) List(context.Context) ([]*entity.Category, error) { return s.cats, s.err }
func (s *stubCategoryRepo) ListActiveWithCounts(context.Context) ([]repository.CategoryWithCount, error) {
	return nil, nil
}
func (s *stubCategoryRepo) GetBySlug(context.Context, string) (*entity.Category, error) {
	return nil, nil
}

func seededCategories() []*entity.Category {
	slugs := []string{"general", "business", "technology", "sports", "entertainment", "health", "science"}
	out := make([]*entity.Category, 0, len(slugs))
	for i, slug := range slugs {
		out = append(out, &entity.Category{ID: int64(i + 1), Slug: slug, Name: slug, Active: true})
	}
	return out
}

// stubProvider returns canned records.
type stubProvider struct {
	name     string
	taxonomy ingest.Taxonomy
	records  []ingest.RawArticle
	err      error
	limits   []int
}

func (p *stubProvider) Name() string              { return p.name }
func (p *stubProvider) Taxonomy() ingest.Taxonomy { return p.taxonomy }
func (p *stubProvider) Fetch(_ context.Context, _ *entity.Source, limit int) ([]ingest.RawArticle, error) {
	p.limits = append(p.limits, limit)
	return p.records, p.err
}

type stubResolver struct {
	provider ingest.Provider
	err      error
}

func (r *stubResolver) Resolve(*entity.Source) (ingest.Provider, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.provider, nil
}

type stubEnqueuer struct {
	ids []int64
	err error
}

func (e *stubEnqueuer) EnqueueProcessArticle(_ context.Context, id int64) error {
	e.ids = append(e.ids, id)
	return e.err
}
