package entity

import (
	"fmt"
	"slices"
)

// Email notification frequencies.
const (
	EmailFrequencyDaily  = "daily"
	EmailFrequencyWeekly = "weekly"
	EmailFrequencyNever  = "never"
)

const (
	minArticlesPerPage     = 5
	maxArticlesPerPage     = 100
	maxBlockedKeywordLen   = 100
	maxPreferredAuthorLen  = 255
	DefaultArticlesPerPage = 20
)

// UserPreference is a per-user read-time filter over the article feed.
type UserPreference struct {
	ID                  int64
	UserID              int64
	PreferredSources    []int64
	PreferredCategories []int64
	PreferredAuthors    []string
	BlockedSources      []int64
	BlockedCategories   []int64
	BlockedKeywords     []string
	Language            string
	Country             string
	ArticlesPerPage     int
	EmailNotifications  bool
	EmailFrequency      string
}

// DefaultPreference returns the preferences created on first access.
func DefaultPreference(userID int64) *UserPreference {
	return &UserPreference{
		UserID:              userID,
		PreferredSources:    []int64{},
		PreferredCategories: []int64{},
		PreferredAuthors:    []string{},
		BlockedSources:      []int64{},
		BlockedCategories:   []int64{},
		BlockedKeywords:     []string{},
		Language:            "en",
		Country:             "us",
		ArticlesPerPage:     DefaultArticlesPerPage,
		EmailFrequency:      EmailFrequencyDaily,
	}
}

// Validate validates preference values.
func (p *UserPreference) Validate() error {
	if p.ArticlesPerPage < minArticlesPerPage || p.ArticlesPerPage > maxArticlesPerPage {
		return &ValidationError{
			Field:   "articles_per_page",
			Message: fmt.Sprintf("articles_per_page must be between %d and %d", minArticlesPerPage, maxArticlesPerPage),
		}
	}
	switch p.EmailFrequency {
	case EmailFrequencyDaily, EmailFrequencyWeekly, EmailFrequencyNever:
	default:
		return &ValidationError{Field: "email_frequency", Message: "email_frequency must be daily, weekly or never"}
	}
	if len(p.Language) != 2 {
		return &ValidationError{Field: "language", Message: "language must be a 2-letter code"}
	}
	if len(p.Country) != 2 {
		return &ValidationError{Field: "country", Message: "country must be a 2-letter code"}
	}
	for _, kw := range p.BlockedKeywords {
		if len(kw) > maxBlockedKeywordLen {
			return &ValidationError{Field: "blocked_keywords", Message: "blocked keyword is too long"}
		}
	}
	for _, a := range p.PreferredAuthors {
		if len(a) > maxPreferredAuthorLen {
			return &ValidationError{Field: "preferred_authors", Message: "preferred author is too long"}
		}
	}
	return nil
}

// AddPreferredSource adds id once; it reports whether the list changed.
func (p *UserPreference) AddPreferredSource(id int64) bool {
	if slices.Contains(p.PreferredSources, id) {
		return false
	}
	p.PreferredSources = append(p.PreferredSources, id)
	return true
}

// RemovePreferredSource removes id; it reports whether the list changed.
func (p *UserPreference) RemovePreferredSource(id int64) bool {
	i := slices.Index(p.PreferredSources, id)
	if i < 0 {
		return false
	}
	p.PreferredSources = slices.Delete(p.PreferredSources, i, i+1)
	return true
}
