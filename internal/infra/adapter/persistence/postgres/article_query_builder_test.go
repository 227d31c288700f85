package postgres_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/repository"
)

/* ──────────────────────────── Count / Select ──────────────────────────── */

func TestArticleQueryBuilder_Count_NoFilters(t *testing.T) {
	sql, args, err := postgres.NewArticleQueryBuilder().Count(repository.ArticleFilter{}).ToSql()
	if err != nil {
		t.Fatal(err)
	}

	for _, frag := range []string{
		"SELECT COUNT(*) FROM articles a",
		"JOIN news_sources s ON s.id = a.news_source_id",
		"LEFT JOIN categories c ON c.id = a.category_id",
		"WHERE a.is_active = $1 AND a.published_at <= NOW()",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("sql %q missing %q", sql, frag)
		}
	}
	if diff := cmp.Diff([]any{true}, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleQueryBuilder_Select_QueryEscapesILIKE(t *testing.T) {
	sql, args, err := postgres.NewArticleQueryBuilder().
		Select(repository.ArticleFilter{Query: "100%_go"}, repository.Page{Limit: 10}).ToSql()
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(sql, "a.title ILIKE $2") ||
		!strings.Contains(sql, "COALESCE(a.description, '') ILIKE $3") ||
		!strings.Contains(sql, "COALESCE(a.author, '') ILIKE $4") {
		t.Errorf("unexpected search predicate: %s", sql)
	}
	want := []any{true, `%100\%\_go%`, `%100\%\_go%`, `%100\%\_go%`}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasSuffix(sql, "ORDER BY a.published_at DESC, a.id DESC LIMIT 10") {
		t.Errorf("unexpected tail: %s", sql)
	}
}

func TestArticleQueryBuilder_Select_Filters(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	filter := repository.ArticleFilter{
		CategorySlug: "technology",
		Author:       "smith",
		Language:     "en",
		From:         &from,
		To:           &to,
		SortBy:       repository.SortTitle,
		SortAsc:      true,
	}

	sql, args, err := postgres.NewArticleQueryBuilder().Select(filter, repository.Page{Limit: 20, Offset: 40}).ToSql()
	if err != nil {
		t.Fatal(err)
	}

	for _, frag := range []string{
		"c.slug = $2",
		"a.author ILIKE $3",
		"a.language = $4",
		"a.published_at >= $5",
		"a.published_at <= $6",
		"ORDER BY a.title ASC, a.id DESC LIMIT 20 OFFSET 40",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("sql %q missing %q", sql, frag)
		}
	}
	want := []any{true, "technology", "%smith%", "en", from, to}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleQueryBuilder_SortWhitelist(t *testing.T) {
	sql, _, err := postgres.NewArticleQueryBuilder().
		Select(repository.ArticleFilter{SortBy: "id; DROP TABLE articles"}, repository.Page{}).ToSql()
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(sql, "DROP") || !strings.Contains(sql, "ORDER BY a.published_at DESC") {
		t.Errorf("sort column not whitelisted: %s", sql)
	}
}

/* ──────────────────────────── Preferences ──────────────────────────── */

func TestArticleQueryBuilder_Preferences(t *testing.T) {
	pref := entity.DefaultPreference(1)
	pref.PreferredSources = []int64{1, 2}
	pref.PreferredCategories = []int64{5}
	pref.BlockedSources = []int64{9}
	pref.BlockedCategories = []int64{7}
	pref.BlockedKeywords = []string{"crypto", ""}

	sql, args, err := postgres.NewArticleQueryBuilder().
		Count(repository.ArticleFilter{Preferences: pref}).ToSql()
	if err != nil {
		t.Fatal(err)
	}

	for _, frag := range []string{
		"a.news_source_id IN ($2,$3)",
		"a.category_id IN ($4)",
		"a.news_source_id NOT IN ($5)",
		"a.category_id IS NULL",
		"a.category_id NOT IN ($6)",
		"a.title NOT ILIKE $7",
		"COALESCE(a.description, '') NOT ILIKE $8",
	} {
		if !strings.Contains(sql, frag) {
			t.Errorf("sql %q missing %q", sql, frag)
		}
	}
	want := []any{true, int64(1), int64(2), int64(5), int64(9), int64(7), "%crypto%", "%crypto%"}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("args mismatch (-want +got):\n%s", diff)
	}
}

func TestArticleQueryBuilder_EmptyPreferencesAddNothing(t *testing.T) {
	qb := postgres.NewArticleQueryBuilder()
	plain, _, _ := qb.Count(repository.ArticleFilter{}).ToSql()
	withPref, _, _ := qb.Count(repository.ArticleFilter{Preferences: entity.DefaultPreference(1)}).ToSql()

	if plain != withPref {
		t.Errorf("empty preferences changed query:\n%s\n%s", plain, withPref)
	}
}
