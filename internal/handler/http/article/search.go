package article

import (
	"log/slog"
	"net/http"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/observability/logging"
	artUC "news-aggregator/internal/usecase/article"
)

// SearchHandler serves GET /search.
type SearchHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("search", "validation")
		respond.Fail(w, err)
		return
	}

	q := r.URL.Query()
	in := artUC.SearchInput{
		Query:     q.Get("q"),
		Author:    q.Get("author"),
		Language:  q.Get("language"),
		SortBy:    q.Get("sort_by"),
		SortOrder: q.Get("sort_order"),
		Params:    params,
		UserID:    auth.UserIDFromContext(ctx),
	}
	if in.From, err = parseDate(q, "from_date", false); err != nil {
		respond.Fail(w, err)
		return
	}
	if in.To, err = parseDate(q, "to_date", true); err != nil {
		respond.Fail(w, err)
		return
	}
	if in.CategoryIDs, err = parseIDs(q, "category"); err != nil {
		respond.Fail(w, err)
		return
	}
	if in.SourceIDs, err = parseIDs(q, "source"); err != nil {
		respond.Fail(w, err)
		return
	}

	result, err := h.Svc.Search(ctx, in)
	if err != nil {
		if !respond.Validation(w, err) {
			logging.WithRequestID(ctx, h.Logger).Error("search failed",
				slog.String("query", in.Query),
				slog.Any("error", err))
			pagination.RecordError("search", "database")
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	pagination.RecordRequest("search", http.StatusOK, params.Page)
	respond.JSON(w, http.StatusOK, pagination.NewResponse(toDTOs(result.Items, in.UserID > 0), result.Pagination))
}

// SuggestionsHandler serves GET /search/suggestions.
type SuggestionsHandler struct{ Svc Service }

func (h SuggestionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s, err := h.Svc.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	if s == nil {
		respond.JSON(w, http.StatusOK, suggestionsResponse{Suggestions: []string{}})
		return
	}
	respond.JSON(w, http.StatusOK, suggestionsResponse{Suggestions: suggestionLists{Titles: s.Titles, Authors: s.Authors}})
}
