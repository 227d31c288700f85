package queue

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/usecase/dispatch"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "news.jobs.scrape_source", Subject(dispatch.KindScrapeSource))
	assert.Equal(t, "news.jobs.process_article", Subject(dispatch.KindProcessArticle))
}

func TestDecodeJob(t *testing.T) {
	job, err := decodeJob([]byte(`{"id":"j1","kind":"process_article","article_id":5}`))
	require.NoError(t, err)
	assert.Equal(t, dispatch.KindProcessArticle, job.Kind)
	assert.Equal(t, int64(5), job.ArticleID)
	assert.Equal(t, 1, job.Attempt, "attempt defaults to 1")

	_, err = decodeJob([]byte(`{"id":"j2"}`))
	assert.Error(t, err)

	_, err = decodeJob([]byte(`not json`))
	assert.Error(t, err)
}

// TestNATSQueue_Integration needs a JetStream-enabled server at NATS_URL.
func TestNATSQueue_Integration(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if url == "" {
		t.Skip("NATS_URL not set")
	}
	nc, err := nats.Connect(url)
	require.NoError(t, err)
	defer nc.Close()

	policies := dispatch.Policies{dispatch.KindProcessArticle: {Timeout: 5 * time.Second, MaxAttempts: 2}}
	q, err := NewNATSQueue(nc, policies, 1)
	require.NoError(t, err)

	got := make(chan int64, 1)
	exec := dispatch.NewExecutor(dispatch.HandlerFunc(func(_ context.Context, job dispatch.Job) error {
		got <- job.ArticleID
		return nil
	}), policies)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	go func() { _ = q.Run(ctx, exec) }()

	require.NoError(t, q.Enqueue(ctx, dispatch.NewProcessJob(123)))
	select {
	case id := <-got:
		assert.Equal(t, int64(123), id)
	case <-ctx.Done():
		t.Fatal("job was not consumed")
	}
}
