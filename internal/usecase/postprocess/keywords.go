package postprocess

import (
	"regexp"
	"sort"
	"strings"

	"news-aggregator/internal/utils/text"
)

// MaxKeywords is the number of keywords kept per article.
const MaxKeywords = 10

var wordPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "is", "are", "was", "were", "be", "been", "have",
		"has", "had", "do", "does", "did", "will", "would", "could", "should",
		"this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	} {
		stopWords[w] = struct{}{}
	}
}

// ExtractKeywords returns up to limit of the most frequent words of three or
// more letters, excluding stop words. Ties keep first-occurrence order.
func ExtractKeywords(content string, limit int) []string {
	content = strings.ToLower(text.StripTags(content))
	if content == "" || limit <= 0 {
		return []string{}
	}

	counts := map[string]int{}
	var order []string
	for _, w := range wordPattern.FindAllString(content, -1) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > limit {
		order = order[:limit]
	}
	if order == nil {
		return []string{}
	}
	return order
}
