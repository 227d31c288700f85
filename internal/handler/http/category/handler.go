// Package category serves the category taxonomy.
package category

import (
	"context"
	"errors"
	"net/http"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/repository"
	catUC "news-aggregator/internal/usecase/category"
)

// Service is the category use case behind the handlers.
type Service interface {
	List(ctx context.Context) ([]repository.CategoryWithCount, error)
	Get(ctx context.Context, slug string) (*entity.Category, error)
}

// DTO is the JSON shape of a category. ArticlesCount is only set on the listing.
type DTO struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	Description   string `json:"description"`
	Color         string `json:"color"`
	Icon          string `json:"icon"`
	ArticlesCount *int64 `json:"articles_count,omitempty"`
}

func newDTO(c *entity.Category) DTO {
	return DTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Color:       c.Color,
		Icon:        c.Icon,
	}
}

// Register mounts GET /categories and GET /categories/{slug}.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /categories", ListHandler{svc})
	mux.Handle("GET /categories/{slug}", GetHandler{svc})
}

type ListHandler struct{ Svc Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Svc.List(r.Context())
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	out := make([]DTO, 0, len(rows))
	for _, row := range rows {
		dto := newDTO(row.Category)
		count := row.ArticleCount
		dto.ArticlesCount = &count
		out = append(out, dto)
	}
	respond.JSON(w, http.StatusOK, map[string]any{"categories": out})
}

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := h.Svc.Get(r.Context(), r.PathValue("slug"))
	if errors.Is(err, catUC.ErrCategoryNotFound) {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"category": newDTO(c)})
}
