// Package dispatch decides which sources are due, turns them into jobs and
// executes jobs under their timeout and attempt policy.
package dispatch

import (
	"context"
	"time"

	"github.com/google/uuid"

	"news-aggregator/internal/config"
	"news-aggregator/internal/resilience/retry"
)

// Kind names a job type. It is also the routing key on the broker.
type Kind string

const (
	KindScrapeSource   Kind = "scrape_source"
	KindProcessArticle Kind = "process_article"
)

// Job is one unit of queued work. Attempt starts at 1.
type Job struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	SourceID   int64     `json:"source_id,omitempty"`
	ArticleID  int64     `json:"article_id,omitempty"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

func NewScrapeJob(sourceID int64) Job {
	return Job{ID: uuid.NewString(), Kind: KindScrapeSource, SourceID: sourceID, Attempt: 1, EnqueuedAt: time.Now().UTC()}
}

func NewProcessJob(articleID int64) Job {
	return Job{ID: uuid.NewString(), Kind: KindProcessArticle, ArticleID: articleID, Attempt: 1, EnqueuedAt: time.Now().UTC()}
}

// Queue accepts jobs for asynchronous execution.
type Queue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Handler executes one job attempt.
type Handler interface {
	Handle(ctx context.Context, job Job) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) error

func (f HandlerFunc) Handle(ctx context.Context, job Job) error { return f(ctx, job) }

// Policy bounds one job kind.
type Policy struct {
	Timeout     time.Duration
	MaxAttempts int
	Backoff     retry.Config
}

// Policies maps each kind to its policy.
type Policies map[Kind]Policy

// DefaultPolicies: scrape 5m x3, post-process 2m x2.
func DefaultPolicies() Policies {
	return PoliciesFromConfig(config.DefaultNewsConfig().Scraping)
}

func PoliciesFromConfig(cfg config.ScrapingConfig) Policies {
	return Policies{
		KindScrapeSource: {
			Timeout:     cfg.RunTimeout,
			MaxAttempts: cfg.ScrapeAttempts,
			Backoff:     retry.ScrapeJobConfig(cfg.ScrapeAttempts),
		},
		KindProcessArticle: {
			Timeout:     cfg.ProcessTimeout,
			MaxAttempts: cfg.ProcessAttempts,
			Backoff:     retry.ProcessJobConfig(cfg.ProcessAttempts),
		},
	}
}

// For returns the policy of kind, or a single-attempt one-minute policy for
// kinds without an entry.
func (p Policies) For(kind Kind) Policy {
	if pol, ok := p[kind]; ok {
		return pol
	}
	return Policy{Timeout: time.Minute, MaxAttempts: 1, Backoff: retry.DefaultConfig()}
}
