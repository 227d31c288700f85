package entity

import "time"

// GeneralCategorySlug is the fallback category every uncategorized article resolves to.
const GeneralCategorySlug = "general"

// Category is a read-mostly taxonomy entry referenced by articles.
type Category struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	Color       string
	Icon        string
	Active      bool
	SortOrder   int
	CreatedAt   time.Time
}
