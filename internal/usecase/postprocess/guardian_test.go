package postprocess_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/infra/provider"
)

// Guardian bodies are tag-stripped at fetch time; escaped markup in them has
// to survive the later cleaning pass as text.
func TestProcess_GuardianBodyWithEscapedTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response":{"status":"ok","results":[{
			"sectionId": "technology",
			"webTitle": "Escaping",
			"webUrl": "https://www.theguardian.com/technology/escaping",
			"webPublicationDate": "2024-05-31T07:30:00Z",
			"fields": {"body": "<p>Developers should escape the &lt;script&gt; tag.</p><p>The rest of this long article explains why in detail.</p>"}
		}]}}`))
	}))
	t.Cleanup(srv.Close)

	g := provider.NewGuardian(config.ProviderConfig{
		BaseURL: srv.URL, APIKey: "k3y", PageSize: 10, Timeout: 5 * time.Second, DailyQuota: 100,
	}, "")
	raws, err := g.Fetch(context.Background(), &entity.Source{Slug: "the-guardian"}, 10)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.NotContains(t, raws[0].Content, "<script>")

	repo := &stubArticleRepo{article: &entity.Article{ID: 9, URL: raws[0].URL, Content: raws[0].Content}}
	require.NoError(t, newService(repo, nil).Process(context.Background(), 9))

	got := repo.updates[0]
	assert.Equal(t, raws[0].Content, got.article.Content, "plain text content is not re-parsed away")
	assert.Equal(t, 16, got.article.WordCount)
	assert.False(t, strings.ContainsAny(got.article.Description, "<>"), "excerpt %q", got.article.Description)
	assert.True(t, strings.HasSuffix(got.article.Description, "in detail."))
}
