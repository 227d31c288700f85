package pagination

// Metadata contains pagination metadata included in API responses.
// From and To are 1-based item positions on the page, zero for an empty page.
type Metadata struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	LastPage    int   `json:"last_page"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// NewMetadata builds metadata for a page holding count items out of total.
func NewMetadata(params Params, total int64, count int) Metadata {
	m := Metadata{
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
		Total:       total,
		LastPage:    CalculateLastPage(total, params.PerPage),
	}
	if count > 0 {
		m.From = params.Offset() + 1
		m.To = params.Offset() + count
	}
	return m
}
