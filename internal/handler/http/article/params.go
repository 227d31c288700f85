package article

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"news-aggregator/internal/domain/entity"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDate accepts RFC 3339 or YYYY-MM-DD. A bare "to" date covers the whole day.
func parseDate(q url.Values, key string, endOfDay bool) (*time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		if endOfDay && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return &t, nil
	}
	return nil, &entity.ValidationError{Field: key, Message: key + " is not a valid date"}
}

// parseIDs reads key and key[] as repeated or comma-separated ids.
func parseIDs(q url.Values, key string) ([]int64, error) {
	var ids []int64
	for _, raw := range append(q[key], q[key+"[]"]...) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil || id <= 0 {
				return nil, &entity.ValidationError{Field: key, Message: key + " must contain positive integer ids"}
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
