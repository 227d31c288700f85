// Package article provides the read-side use cases over ingested articles:
// listing with user preferences, search, suggestions and bookmarks.
package article

import "errors"

// Sentinel errors for article use case operations.
var (
	// ErrArticleNotFound indicates that no active article has the requested UUID.
	ErrArticleNotFound = errors.New("article not found")
)
