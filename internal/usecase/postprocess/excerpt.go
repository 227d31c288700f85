package postprocess

import (
	"regexp"

	"news-aggregator/internal/utils/text"
)

const (
	// ExcerptLength is the rune budget of a derived description.
	ExcerptLength = 200
	excerptSuffix = "..."
)

// truncationMarker matches the "[+1234 chars]" tail NewsAPI appends to
// shortened content.
var truncationMarker = regexp.MustCompile(`\[\+\d+ chars\]\s*$`)

// Excerpt strips all tags from content and keeps the first ExcerptLength
// runes, appending "..." when it had to cut.
func Excerpt(content string) string {
	return text.Truncate(text.StripTags(content), ExcerptLength, excerptSuffix)
}

// IsTruncated reports whether content ends with a provider truncation marker.
func IsTruncated(content string) bool {
	return truncationMarker.MatchString(content)
}
