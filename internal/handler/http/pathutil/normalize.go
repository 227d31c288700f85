// Package pathutil parses path parameters and normalizes request paths
// into bounded metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

const (
	uuidRe = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`
	slugRe = `[a-z0-9]+(?:-[a-z0-9]+)*`
)

// Evaluated in order; the first match wins.
var pathPatterns = []pathPattern{
	{regexp.MustCompile(`^/articles/` + uuidRe + `/bookmark$`), "/articles/{uuid}/bookmark"},
	{regexp.MustCompile(`^/articles/` + uuidRe + `$`), "/articles/{uuid}"},
	{regexp.MustCompile(`^/categories/` + slugRe + `$`), "/categories/{slug}"},
	{regexp.MustCompile(`^/sources/` + slugRe + `$`), "/sources/{slug}"},
	{regexp.MustCompile(`^/preferences/sources/\d+$`), "/preferences/sources/{id}"},
}

var knownPaths = map[string]bool{
	"/health":             true,
	"/metrics":            true,
	"/auth/register":      true,
	"/auth/login":         true,
	"/auth/logout":        true,
	"/auth/me":            true,
	"/articles":           true,
	"/search":             true,
	"/search/suggestions": true,
	"/categories":         true,
	"/sources":            true,
	"/preferences":        true,
	"/bookmarks":          true,
}

// Unmatched is the label used for every path outside the API surface.
const Unmatched = "unmatched"

// NormalizePath maps a request path to its route template, e.g.
// /articles/<uuid> to /articles/{uuid}. Query strings and a trailing slash
// are ignored. Unknown paths collapse to Unmatched so scanners cannot
// inflate label cardinality.
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if knownPaths[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return Unmatched
}
