// Package article serves the article feed, search, suggestions and bookmarks.
package article

import (
	"time"

	artUC "news-aggregator/internal/usecase/article"
	"news-aggregator/internal/utils/text"
)

const excerptLength = 200

// SourceRef is the embedded source of an article.
type SourceRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CategoryRef is the embedded category of an article.
type CategoryRef struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color,omitempty"`
}

// DTO is the JSON shape of an article. Content is only set on the detail
// endpoint and IsBookmarked only for authenticated callers.
type DTO struct {
	ID           int64        `json:"id"`
	UUID         string       `json:"uuid"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Excerpt      string       `json:"excerpt"`
	Content      *string      `json:"content,omitempty"`
	URL          string       `json:"url"`
	ImageURL     *string      `json:"image_url"`
	Author       *string      `json:"author"`
	PublishedAt  time.Time    `json:"published_at"`
	ReadingTime  int          `json:"reading_time"`
	WordCount    int          `json:"word_count"`
	Language     string       `json:"language"`
	Country      string       `json:"country"`
	NewsSource   SourceRef    `json:"news_source"`
	Category     *CategoryRef `json:"category"`
	IsBookmarked *bool        `json:"is_bookmarked,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// NewDTO converts a use-case item. withUser controls is_bookmarked.
func NewDTO(item artUC.Item, withContent, withUser bool) DTO {
	a := item.Article
	summary := a.Description
	if summary == "" {
		summary = a.Content
	}
	dto := DTO{
		ID:          a.ID,
		UUID:        a.UUID,
		Title:       a.Title,
		Description: a.Description,
		Excerpt:     text.Truncate(text.CollapseWhitespace(text.StripTags(summary)), excerptLength, "..."),
		URL:         a.URL,
		ImageURL:    nullable(a.ImageURL),
		Author:      nullable(a.Author),
		PublishedAt: a.PublishedAt,
		ReadingTime: a.ReadingTimeMinutes,
		WordCount:   a.WordCount,
		Language:    a.Language,
		Country:     a.Country,
		NewsSource: SourceRef{
			ID:   a.SourceID,
			Name: item.SourceName,
			Slug: item.SourceSlug,
		},
		CreatedAt: a.CreatedAt,
	}
	if a.CategoryID != nil {
		dto.Category = &CategoryRef{
			ID:    *a.CategoryID,
			Name:  item.CategoryName,
			Slug:  item.CategorySlug,
			Color: item.CategoryColor,
		}
	}
	if withContent {
		content := a.Content
		dto.Content = &content
	}
	if withUser {
		b := item.Bookmarked
		dto.IsBookmarked = &b
	}
	return dto
}

func toDTOs(items []artUC.Item, withUser bool) []DTO {
	out := make([]DTO, 0, len(items))
	for _, it := range items {
		out = append(out, NewDTO(it, false, withUser))
	}
	return out
}

type bookmarkResponse struct {
	Message    string `json:"message"`
	Bookmarked bool   `json:"bookmarked"`
}

type suggestionsResponse struct {
	Suggestions any `json:"suggestions"`
}

type suggestionLists struct {
	Titles  []string `json:"titles"`
	Authors []string `json:"authors"`
}
