package ingest

import (
	"context"
	"fmt"
	"strings"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// keywordTable is scanned in order; the first category with a substring
// hit wins.
var keywordTable = []struct {
	slug     string
	keywords []string
}{
	{"technology", []string{"tech", "ai", "software", "app", "digital", "computer", "internet", "artificial intelligence"}},
	{"business", []string{"business", "economy", "finance", "market", "stock", "company"}},
	{"sports", []string{"sport", "game", "team", "player", "match", "football", "basketball"}},
	{"health", []string{"health", "medical", "doctor", "hospital", "disease", "vaccine"}},
	{"science", []string{"science", "research", "study", "discovery", "scientist"}},
	{"entertainment", []string{"movie", "music", "celebrity", "film", "actor", "entertainment"}},
}

var sectionTable = map[string]string{
	"technology":   "technology",
	"business":     "business",
	"sport":        "sports",
	"science":      "science",
	"culture":      "entertainment",
	"lifeandstyle": "health",
}

// CategorizeByKeywords returns the category slug for the lower-cased
// title + description, or "general".
func CategorizeByKeywords(title, description string) string {
	haystack := strings.ToLower(title + " " + description)
	for _, row := range keywordTable {
		for _, kw := range row.keywords {
			if strings.Contains(haystack, kw) {
				return row.slug
			}
		}
	}
	return entity.GeneralCategorySlug
}

// CategorizeBySection maps a provider section label, ignoring case, or
// returns "general".
func CategorizeBySection(section string) string {
	if slug, ok := sectionTable[strings.ToLower(strings.TrimSpace(section))]; ok {
		return slug
	}
	return entity.GeneralCategorySlug
}

// Categorize applies the strategy selected by the provider's taxonomy.
func Categorize(tax Taxonomy, raw RawArticle) string {
	if tax == TaxonomySections {
		return CategorizeBySection(raw.Section)
	}
	return CategorizeByKeywords(raw.Title, raw.Description)
}

// CategoryResolver maps category slugs to ids. It is loaded once and is
// read-only afterwards.
type CategoryResolver struct {
	ids     map[string]int64
	general int64
}

// NewCategoryResolver loads every category. It fails with
// ErrGeneralCategoryMissing when the fallback category does not exist.
func NewCategoryResolver(ctx context.Context, repo repository.CategoryRepository) (*CategoryResolver, error) {
	cats, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewCategoryResolver: %w", err)
	}
	r := &CategoryResolver{ids: make(map[string]int64, len(cats))}
	for _, c := range cats {
		r.ids[c.Slug] = c.ID
	}
	general, ok := r.ids[entity.GeneralCategorySlug]
	if !ok {
		return nil, ErrGeneralCategoryMissing
	}
	r.general = general
	return r, nil
}

// ID returns the id for slug, falling back to the general category.
func (r *CategoryResolver) ID(slug string) int64 {
	if id, ok := r.ids[slug]; ok {
		return id
	}
	return r.general
}
