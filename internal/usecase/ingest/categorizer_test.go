package ingest_test

import (
	"context"
	"errors"
	"testing"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/usecase/ingest"
)

func TestCategorizeByKeywords(t *testing.T) {
	tests := []struct {
		name  string
		title string
		desc  string
		want  string
	}{
		{"technology phrase", "Artificial intelligence beats humans at chess", "", "technology"},
		{"business", "Markets rally as stocks climb", "", "business"},
		{"sports", "Team wins championship", "", "sports"},
		{"health", "Hospital expands vaccine trial", "", "health"},
		{"science", "Scientists publish research", "", "science"},
		{"entertainment", "Film festival lineup revealed", "", "entertainment"},
		{"no match", "Local bakery opens on Sunday", "", "general"},
		{"description counts", "Weekly roundup", "The stock market closed higher", "business"},
		{"case insensitive", "SOFTWARE UPDATE", "", "technology"},
		// 部分一致なので "rain" の "ai" も technology に当たる
		{"substring match", "Rain expected tomorrow", "", "technology"},
		{"table order wins", "Tech company earnings", "", "technology"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ingest.CategorizeByKeywords(tt.title, tt.desc); got != tt.want {
				t.Errorf("CategorizeByKeywords(%q, %q) = %q, want %q", tt.title, tt.desc, got, tt.want)
			}
		})
	}
}

func TestCategorizeBySection(t *testing.T) {
	tests := map[string]string{
		"technology":   "technology",
		"business":     "business",
		"sport":        "sports",
		"science":      "science",
		"culture":      "entertainment",
		"lifeandstyle": "health",
		"Technology":   "technology",
		"SPORT":        "sports",
		" Culture ":    "entertainment",
		"world":        "general",
		"":             "general",
	}
	for section, want := range tests {
		if got := ingest.CategorizeBySection(section); got != want {
			t.Errorf("CategorizeBySection(%q) = %q, want %q", section, got, want)
		}
	}
}

func TestCategorize_UsesProviderTaxonomy(t *testing.T) {
	raw := ingest.RawArticle{Title: "Football final tonight", Section: "culture"}

	if got := ingest.Categorize(ingest.TaxonomyKeywords, raw); got != "sports" {
		t.Errorf("keywords: got %q, want sports", got)
	}
	if got := ingest.Categorize(ingest.TaxonomySections, raw); got != "entertainment" {
		t.Errorf("sections: got %q, want entertainment", got)
	}
}

func TestNewCategoryResolver(t *testing.T) {
	r, err := ingest.NewCategoryResolver(context.Background(), &stubCategoryRepo{cats: seededCategories()})
	if err != nil {
		t.Fatalf("NewCategoryResolver: %v", err)
	}
	if got := r.ID("technology"); got != 3 {
		t.Errorf("ID(technology) = %d, want 3", got)
	}
	if got := r.ID("does-not-exist"); got != 1 {
		t.Errorf("unknown slug should fall back to general, got %d", got)
	}
}

func TestNewCategoryResolver_GeneralMissing(t *testing.T) {
	repo := &stubCategoryRepo{cats: []*entity.Category{{ID: 2, Slug: "business"}}}
	_, err := ingest.NewCategoryResolver(context.Background(), repo)
	if !errors.Is(err, ingest.ErrGeneralCategoryMissing) {
		t.Fatalf("err = %v, want ErrGeneralCategoryMissing", err)
	}
}

func TestNewCategoryResolver_ListError(t *testing.T) {
	boom := errors.New("db down")
	_, err := ingest.NewCategoryResolver(context.Background(), &stubCategoryRepo{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped %v", err, boom)
	}
}
