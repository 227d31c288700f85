package article

import (
	"errors"
	"net/http"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/respond"
	artUC "news-aggregator/internal/usecase/article"
)

// BookmarkHandler serves the bookmark routes. All of them require a caller.
type BookmarkHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
}

// Add handles POST /articles/{uuid}/bookmark.
func (h BookmarkHandler) Add(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.Bookmark(r.Context(), auth.UserIDFromContext(r.Context()), r.PathValue("uuid"))
	if !h.handleErr(w, err) {
		respond.JSON(w, http.StatusOK, bookmarkResponse{Message: "Article bookmarked successfully", Bookmarked: true})
	}
}

// Remove handles DELETE /articles/{uuid}/bookmark.
func (h BookmarkHandler) Remove(w http.ResponseWriter, r *http.Request) {
	err := h.Svc.RemoveBookmark(r.Context(), auth.UserIDFromContext(r.Context()), r.PathValue("uuid"))
	if !h.handleErr(w, err) {
		respond.JSON(w, http.StatusOK, bookmarkResponse{Message: "Bookmark removed successfully", Bookmarked: false})
	}
}

// List handles GET /bookmarks.
func (h BookmarkHandler) List(w http.ResponseWriter, r *http.Request) {
	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("bookmarks", "validation")
		respond.Fail(w, err)
		return
	}
	result, err := h.Svc.Bookmarks(r.Context(), auth.UserIDFromContext(r.Context()), params)
	if err != nil {
		pagination.RecordError("bookmarks", "database")
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	pagination.RecordRequest("bookmarks", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, pagination.NewResponse(toDTOs(result.Items, true), result.Pagination))
}

func (h BookmarkHandler) handleErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, artUC.ErrArticleNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	default:
		respond.SafeError(w, http.StatusInternalServerError, err)
	}
	return true
}
