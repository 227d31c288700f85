// Package text holds the plain-text and HTML helpers shared by ingestion and
// post-processing.
package text

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CountRunes counts Unicode characters, not bytes.
//
//	CountRunes("hello")      // 5
//	CountRunes("こんにちは") // 5
func CountRunes(text string) int {
	return utf8.RuneCountInString(text)
}

// CollapseWhitespace replaces every whitespace run with one space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// WordCount counts whitespace-delimited tokens in the tag-stripped text.
func WordCount(content string) int {
	return len(strings.Fields(StripTags(content)))
}

// Truncate keeps the first max runes of s and appends ellipsis when anything
// was cut. It never splits a multi-byte character.
func Truncate(s string, max int, ellipsis string) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	i := 0
	for pos := range s {
		if i == max {
			return strings.TrimRightFunc(s[:pos], isSpace) + ellipsis
		}
		i++
	}
	return s
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
