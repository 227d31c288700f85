package article

import (
	"context"
	"log/slog"
	"net/http"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/handler/http/auth"
	artUC "news-aggregator/internal/usecase/article"
)

// Service is the article use case behind the handlers.
type Service interface {
	List(ctx context.Context, in artUC.ListInput) (*artUC.Result, error)
	Search(ctx context.Context, in artUC.SearchInput) (*artUC.Result, error)
	Get(ctx context.Context, uuid string, userID int64) (*artUC.Item, error)
	Suggest(ctx context.Context, query string) (*artUC.Suggestions, error)
	Bookmark(ctx context.Context, userID int64, uuid string) error
	RemoveBookmark(ctx context.Context, userID int64, uuid string) error
	Bookmarks(ctx context.Context, userID int64, params pagination.Params) (*artUC.Result, error)
}

// Register mounts the article, search and bookmark routes on mux.
func Register(mux *http.ServeMux, svc Service, cfg pagination.Config, authn auth.Authenticator, logger *slog.Logger) {
	optional := auth.Optional(authn)
	required := auth.Required(authn)

	mux.Handle("GET /articles", optional(ListHandler{Svc: svc, PaginationCfg: cfg, Logger: logger}))
	mux.Handle("GET /articles/{uuid}", optional(GetHandler{Svc: svc}))
	mux.Handle("GET /search", optional(SearchHandler{Svc: svc, PaginationCfg: cfg, Logger: logger}))
	mux.Handle("GET /search/suggestions", SuggestionsHandler{Svc: svc})

	bookmark := BookmarkHandler{Svc: svc, PaginationCfg: cfg}
	mux.Handle("POST /articles/{uuid}/bookmark", required(http.HandlerFunc(bookmark.Add)))
	mux.Handle("DELETE /articles/{uuid}/bookmark", required(http.HandlerFunc(bookmark.Remove)))
	mux.Handle("GET /bookmarks", required(http.HandlerFunc(bookmark.List)))
}
