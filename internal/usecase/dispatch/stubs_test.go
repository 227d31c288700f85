package dispatch_test

import (
	"context"
	"sync"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/usecase/dispatch"
	"news-aggregator/internal/usecase/ingest"
)

/* ───────── モック実装 ───────── */

type stubSourceRepo struct {
	sources []*entity.Source
	listErr error
	getErr  error
}

func (s *stubSourceRepo) Get(_ context.Context, id int64) (*entity.Source, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, src := range s.sources {
		if src.ID == id {
			return src, nil
		}
	}
	return nil, nil
}

func (s *stubSourceRepo) GetBySlug(_ context.Context, slug string) (*entity.Source, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, src := range s.sources {
		if src.Slug == slug {
			return src, nil
		}
	}
	return nil, nil
}

func (s *stubSourceRepo) ListActive(context.Context) ([]*entity.Source, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []*entity.Source
	for _, src := range s.sources {
		if src.Active {
			out = append(out, src)
		}
	}
	return out, nil
}

// 以下は未使用だが、インターフェース満たすために実装
func (s *stubSourceRepo) ListActiveWithCounts(context.Context) ([]repository.SourceWithCount, error) {
	return nil, nil
}
func (s *stubSourceRepo) TouchScraped(context.Context, int64, time.Time, entity.Metadata) error {
	return nil
}

// memQueue records enqueued jobs; failFor makes Enqueue fail for one source.
type memQueue struct {
	mu      sync.Mutex
	jobs    []dispatch.Job
	failFor int64
	err     error
}

func (q *memQueue) Enqueue(_ context.Context, job dispatch.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil && (q.failFor == 0 || q.failFor == job.SourceID) {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

type stubRunner struct {
	calls []int64
	err   error
}

func (r *stubRunner) Run(_ context.Context, src *entity.Source) (*ingest.Result, error) {
	r.calls = append(r.calls, src.ID)
	return &ingest.Result{SourceName: src.Name}, r.err
}

type stubProcessor struct {
	ids []int64
	err error
}

func (p *stubProcessor) Process(_ context.Context, id int64) error {
	p.ids = append(p.ids, id)
	return p.err
}

// memLocker is an in-process Locker.
type memLocker struct {
	held       map[string]string
	acquireErr error
	released   []string
}

func newMemLocker() *memLocker { return &memLocker{held: map[string]string{}} }

func (l *memLocker) Acquire(_ context.Context, key string, _ time.Duration) (string, bool, error) {
	if l.acquireErr != nil {
		return "", false, l.acquireErr
	}
	if _, ok := l.held[key]; ok {
		return "", false, nil
	}
	l.held[key] = "tok-" + key
	return l.held[key], true, nil
}

func (l *memLocker) Release(_ context.Context, key, token string) error {
	if l.held[key] == token {
		delete(l.held, key)
	}
	l.released = append(l.released, key)
	return nil
}
