package article

import (
	"context"
	"errors"
	"strings"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

type stubArticleRepo struct {
	rows       []repository.ArticleWithRelations
	bookmarked []repository.ArticleWithRelations
	lastFilter repository.ArticleFilter
	lastPage   repository.Page
	listErr    error
	titles     []string
	authors    []string
}

func (r *stubArticleRepo) Get(context.Context, int64) (*entity.Article, error) { return nil, nil }

func (r *stubArticleRepo) GetByUUID(_ context.Context, id string) (*repository.ArticleWithRelations, error) {
	for _, row := range r.rows {
		if row.Article.UUID == id {
			cp := row
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *stubArticleRepo) List(_ context.Context, f repository.ArticleFilter, p repository.Page) ([]repository.ArticleWithRelations, int64, error) {
	r.lastFilter, r.lastPage = f, p
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.rows, int64(len(r.rows)), nil
}

func (r *stubArticleRepo) ListBookmarked(_ context.Context, _ int64, p repository.Page) ([]repository.ArticleWithRelations, int64, error) {
	r.lastPage = p
	return r.bookmarked, int64(len(r.bookmarked)), nil
}

func (r *stubArticleRepo) SuggestTitles(_ context.Context, q string, limit int) ([]string, error) {
	return filterPrefix(r.titles, q, limit), nil
}

func (r *stubArticleRepo) SuggestAuthors(_ context.Context, q string, limit int) ([]string, error) {
	return filterPrefix(r.authors, q, limit), nil
}

func filterPrefix(in []string, q string, limit int) []string {
	var out []string
	for _, s := range in {
		if strings.Contains(strings.ToLower(s), strings.ToLower(q)) && len(out) < limit {
			out = append(out, s)
		}
	}
	return out
}

func (r *stubArticleRepo) Create(context.Context, *entity.Article) error { return nil }
func (r *stubArticleRepo) UpdateProcessed(context.Context, *entity.Article, entity.Metadata) error {
	return nil
}
func (r *stubArticleRepo) ExistsByURLBatch(context.Context, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}
func (r *stubArticleRepo) CountPublishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}
func (r *stubArticleRepo) DeletePublishedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

type interactionKey struct {
	user, article int64
	kind          entity.InteractionType
}

type stubInteractionRepo struct {
	rows      map[interactionKey]time.Time
	recordErr error
}

func newStubInteractionRepo() *stubInteractionRepo {
	return &stubInteractionRepo{rows: map[interactionKey]time.Time{}}
}

func (r *stubInteractionRepo) Record(_ context.Context, user, article int64, kind entity.InteractionType, at time.Time) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.rows[interactionKey{user, article, kind}] = at
	return nil
}

func (r *stubInteractionRepo) Remove(_ context.Context, user, article int64, kind entity.InteractionType) (bool, error) {
	k := interactionKey{user, article, kind}
	_, ok := r.rows[k]
	delete(r.rows, k)
	return ok, nil
}

func (r *stubInteractionRepo) Exists(_ context.Context, user, article int64, kind entity.InteractionType) (bool, error) {
	_, ok := r.rows[interactionKey{user, article, kind}]
	return ok, nil
}

type stubPreferenceRepo struct {
	byUser map[int64]*entity.UserPreference
}

func (r *stubPreferenceRepo) GetByUserID(_ context.Context, id int64) (*entity.UserPreference, error) {
	return r.byUser[id], nil
}

func (r *stubPreferenceRepo) Upsert(context.Context, *entity.UserPreference) error {
	return errors.New("not used")
}
