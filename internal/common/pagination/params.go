package pagination

import (
	"fmt"
	"net/http"
	"strconv"

	"news-aggregator/internal/domain/entity"
)

// Params represents pagination query parameters from an HTTP request.
type Params struct {
	Page    int // 1-based page number
	PerPage int
}

// Offset returns the row offset of the first item on the page.
func (p Params) Offset() int {
	return CalculateOffset(p.Page, p.PerPage)
}

// ParseQueryParams reads page and per_page from the query string.
// Missing parameters take the config defaults; malformed or out-of-range
// values are reported as *entity.ValidationError.
func ParseQueryParams(r *http.Request, config Config) (Params, error) {
	params := Params{
		Page:    config.DefaultPage,
		PerPage: config.DefaultPerPage,
	}
	q := r.URL.Query()

	if s := q.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return params, &entity.ValidationError{Field: "page", Message: "page must be a positive integer"}
		}
		params.Page = page
	}

	if s := q.Get("per_page"); s != "" {
		perPage, err := strconv.Atoi(s)
		if err != nil || perPage < 1 {
			return params, &entity.ValidationError{Field: "per_page", Message: "per_page must be a positive integer"}
		}
		if perPage > config.MaxPerPage {
			return params, &entity.ValidationError{
				Field:   "per_page",
				Message: fmt.Sprintf("Maximum %d articles per page allowed", config.MaxPerPage),
			}
		}
		params.PerPage = perPage
	}

	return params, nil
}
