package dispatch_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/usecase/dispatch"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ago(d time.Duration) *time.Time {
	t := now.Add(-d)
	return &t
}

func sources() []*entity.Source {
	return []*entity.Source{
		{ID: 1, Slug: "stale", Active: true, ScrapeIntervalMinutes: 120, LastScrapedAt: ago(3 * time.Hour)},
		{ID: 2, Slug: "fresh", Active: true, ScrapeIntervalMinutes: 120, LastScrapedAt: ago(time.Hour)},
		{ID: 3, Slug: "never", Active: true, ScrapeIntervalMinutes: 120},
		{ID: 4, Slug: "inactive", Active: false},
		{ID: 5, Slug: "exact", Active: true, ScrapeIntervalMinutes: 60, LastScrapedAt: ago(time.Hour)},
	}
}

func newService(repo *stubSourceRepo, q *memQueue) *dispatch.Service {
	svc := dispatch.NewService(repo, q)
	svc.Now = func() time.Time { return now }
	return svc
}

func TestDispatchDue(t *testing.T) {
	q := &memQueue{}
	n, err := newService(&stubSourceRepo{sources: sources()}, q).DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	var ids []int64
	for _, j := range q.jobs {
		assert.Equal(t, dispatch.KindScrapeSource, j.Kind)
		assert.Equal(t, 1, j.Attempt)
		assert.NotEmpty(t, j.ID)
		ids = append(ids, j.SourceID)
	}
	assert.Equal(t, []int64{1, 3, 5}, ids)
}

func TestDispatchDue_EnqueueFailureContinues(t *testing.T) {
	q := &memQueue{err: errors.New("broker down"), failFor: 1}
	n, err := newService(&stubSourceRepo{sources: sources()}, q).DispatchDue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestDispatchDue_ListError(t *testing.T) {
	boom := errors.New("db down")
	_, err := newService(&stubSourceRepo{listErr: boom}, &memQueue{}).DispatchDue(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestDispatchSlug(t *testing.T) {
	q := &memQueue{}
	svc := newService(&stubSourceRepo{sources: sources()}, q)

	require.NoError(t, svc.DispatchSlug(context.Background(), "fresh"))
	require.Len(t, q.jobs, 1)
	assert.Equal(t, int64(2), q.jobs[0].SourceID, "slug dispatch ignores due state")

	assert.ErrorIs(t, svc.DispatchSlug(context.Background(), "missing"), dispatch.ErrSourceNotFound)
	assert.ErrorIs(t, svc.DispatchSlug(context.Background(), "inactive"), dispatch.ErrSourceNotFound)
}

func TestEnqueueProcessArticle(t *testing.T) {
	q := &memQueue{}
	require.NoError(t, newService(&stubSourceRepo{}, q).EnqueueProcessArticle(context.Background(), 77))
	require.Len(t, q.jobs, 1)
	assert.Equal(t, dispatch.KindProcessArticle, q.jobs[0].Kind)
	assert.Equal(t, int64(77), q.jobs[0].ArticleID)
}

func TestPoliciesDefaults(t *testing.T) {
	p := dispatch.DefaultPolicies()
	assert.Equal(t, 5*time.Minute, p.For(dispatch.KindScrapeSource).Timeout)
	assert.Equal(t, 3, p.For(dispatch.KindScrapeSource).MaxAttempts)
	assert.Equal(t, 2*time.Minute, p.For(dispatch.KindProcessArticle).Timeout)
	assert.Equal(t, 2, p.For(dispatch.KindProcessArticle).MaxAttempts)
	assert.Equal(t, 1, p.For("other").MaxAttempts)
}
