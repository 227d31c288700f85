package article

import (
	"errors"
	"net/http"

	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/respond"
	artUC "news-aggregator/internal/usecase/article"
)

// GetHandler serves GET /articles/{uuid}.
type GetHandler struct{ Svc Service }

type detailResponse struct {
	Data DTO `json:"data"`
}

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	item, err := h.Svc.Get(r.Context(), r.PathValue("uuid"), userID)
	if errors.Is(err, artUC.ErrArticleNotFound) {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, detailResponse{Data: NewDTO(*item, true, userID > 0)})
}
