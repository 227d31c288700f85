// Package postprocess implements the second pass over a stored article:
// HTML cleanup, excerpt, reading metrics and keyword extraction.
package postprocess

import "errors"

// ErrArticleNotFound is returned when the article to process no longer exists.
// It is never retried.
var ErrArticleNotFound = errors.New("article not found")
