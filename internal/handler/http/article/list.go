package article

import (
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/observability/logging"
	artUC "news-aggregator/internal/usecase/article"
)

// ListHandler serves GET /articles.
type ListHandler struct {
	Svc           Service
	PaginationCfg pagination.Config
	Logger        *slog.Logger
}

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	logger := logging.WithRequestID(ctx, h.Logger)

	params, err := pagination.ParseQueryParams(r, h.PaginationCfg)
	if err != nil {
		pagination.RecordError("articles", "validation")
		respond.Fail(w, err)
		return
	}

	q := r.URL.Query()
	from, err := parseDate(q, "from_date", false)
	if err != nil {
		respond.Fail(w, err)
		return
	}
	to, err := parseDate(q, "to_date", true)
	if err != nil {
		respond.Fail(w, err)
		return
	}

	userID := auth.UserIDFromContext(ctx)
	result, err := h.Svc.List(ctx, artUC.ListInput{
		CategorySlug: q.Get("category"),
		SourceSlug:   q.Get("source"),
		Search:       q.Get("search"),
		Author:       q.Get("author"),
		From:         from,
		To:           to,
		Params:       params,
		UserID:       userID,
	})
	if err != nil {
		if !respond.Validation(w, err) {
			logger.Error("failed to list articles",
				slog.Int("page", params.Page),
				slog.Any("error", err))
			pagination.RecordError("articles", "database")
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	pagination.RecordRequest("articles", http.StatusOK, params.Page)
	logger.Debug("articles listed",
		slog.Int("page", params.Page),
		slog.Int("per_page", params.PerPage),
		slog.Int("returned_count", len(result.Items)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))

	respond.JSON(w, http.StatusOK, pagination.NewResponse(toDTOs(result.Items, userID > 0), result.Pagination))
}
