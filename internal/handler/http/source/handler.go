// Package source serves the public catalogue of news sources.
package source

import (
	"context"
	"errors"
	"net/http"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/repository"
	srcUC "news-aggregator/internal/usecase/source"
)

// Service is the source use case behind the handlers.
type Service interface {
	List(ctx context.Context) ([]repository.SourceWithCount, error)
	Get(ctx context.Context, slug string) (*entity.Source, error)
}

// DTO is the JSON shape of a source. Provider endpoints and keys are never exposed.
type DTO struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Slug          string     `json:"slug"`
	Description   string     `json:"description"`
	URL           string     `json:"url"`
	LogoURL       *string    `json:"logo_url"`
	Language      string     `json:"language"`
	Country       string     `json:"country"`
	ArticlesCount *int64     `json:"articles_count,omitempty"`
	LastScrapedAt *time.Time `json:"last_scraped_at"`
	IsActive      bool       `json:"is_active"`
}

func newDTO(s *entity.Source) DTO {
	dto := DTO{
		ID:            s.ID,
		Name:          s.Name,
		Slug:          s.Slug,
		Description:   s.Description,
		URL:           s.URL,
		Language:      s.Language,
		Country:       s.Country,
		LastScrapedAt: s.LastScrapedAt,
		IsActive:      s.Active,
	}
	if s.LogoURL != "" {
		logo := s.LogoURL
		dto.LogoURL = &logo
	}
	return dto
}

// Register mounts GET /sources and GET /sources/{slug}.
func Register(mux *http.ServeMux, svc Service) {
	mux.Handle("GET /sources", ListHandler{svc})
	mux.Handle("GET /sources/{slug}", GetHandler{svc})
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
		dto := newDTO(row.Source)
		count := row.ArticleCount
		dto.ArticlesCount = &count
		out = append(out, dto)
	}
	respond.JSON(w, http.StatusOK, map[string]any{"sources": out})
}

type GetHandler struct{ Svc Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	src, err := h.Svc.Get(r.Context(), r.PathValue("slug"))
	if errors.Is(err, srcUC.ErrSourceNotFound) {
		respond.SafeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"source": newDTO(src)})
}
