package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"news-aggregator/internal/infra/adapter/persistence/postgres"
)

var categoryCols = []string{"id", "name", "slug", "description", "color", "icon", "is_active", "sort_order", "created_at"}

func TestCategoryRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY c.sort_order ASC, c.id ASC")).
		WillReturnRows(sqlmock.NewRows(categoryCols).
			AddRow(int64(1), "Business", "business", nil, "#10B981", nil, true, 1, now).
			AddRow(int64(7), "General", "general", "Everything else", "#6B7280", "newspaper", false, 7, now))

	got, err := postgres.NewCategoryRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("List err=%v", err)
	}
	if len(got) != 2 || got[1].Slug != "general" || got[1].Active || got[0].Description != "" {
		t.Fatalf("unexpected: %+v %+v", got[0], got[1])
	}
}

func TestCategoryRepo_ListActiveWithCounts(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN articles a ON a.category_id = c.id")).
		WillReturnRows(sqlmock.NewRows(append(categoryCols, "count")).
			AddRow(int64(2), "Technology", "technology", nil, "#3B82F6", nil, true, 2, now, int64(40)))

	got, err := postgres.NewCategoryRepo(db).ListActiveWithCounts(context.Background())
	if err != nil || len(got) != 1 || got[0].ArticleCount != 40 {
		t.Fatalf("ListActiveWithCounts got=%+v err=%v", got, err)
	}
}

func TestCategoryRepo_GetBySlug(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.slug = $1 AND c.is_active = TRUE")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(categoryCols))

	got, err := postgres.NewCategoryRepo(db).GetBySlug(context.Background(), "nope")
	if err != nil || got != nil {
		t.Fatalf("GetBySlug want (nil,nil) got (%v,%v)", got, err)
	}
}
