package entity

import "time"

// InteractionType is the kind of user action recorded against an article.
type InteractionType string

// Interaction types. A (user, article, type) triple is unique.
const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionBookmark InteractionType = "bookmark"
	InteractionShare    InteractionType = "share"
)

// Valid reports whether t is a known interaction type.
func (t InteractionType) Valid() bool {
	switch t {
	case InteractionView, InteractionLike, InteractionBookmark, InteractionShare:
		return true
	}
	return false
}

// Interaction records that a user viewed, liked, bookmarked or shared an article.
type Interaction struct {
	ID           int64
	UserID       int64
	ArticleID    int64
	Type         InteractionType
	InteractedAt time.Time
}
