// Package preference serves the authenticated caller's feed preferences.
package preference

import (
	"context"
	"errors"
	"net/http"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/auth"
	"news-aggregator/internal/handler/http/pathutil"
	"news-aggregator/internal/handler/http/respond"
	prefUC "news-aggregator/internal/usecase/preference"
)

// Service is the preference use case behind the handlers.
type Service interface {
	Get(ctx context.Context, userID int64) (*entity.UserPreference, error)
	Update(ctx context.Context, userID int64, in prefUC.UpdateInput) (*entity.UserPreference, error)
	AddSource(ctx context.Context, userID, sourceID int64) (*entity.UserPreference, error)
	RemoveSource(ctx context.Context, userID, sourceID int64) (*entity.UserPreference, error)
}

// DTO is the JSON shape of a user's preferences. Slices are never null.
type DTO struct {
	PreferredSources    []int64  `json:"preferred_sources"`
	PreferredCategories []int64  `json:"preferred_categories"`
	PreferredAuthors    []string `json:"preferred_authors"`
	BlockedSources      []int64  `json:"blocked_sources"`
	BlockedKeywords     []string `json:"blocked_keywords"`
	Language            string   `json:"language"`
	Country             string   `json:"country"`
	ArticlesPerPage     int      `json:"articles_per_page"`
	EmailNotifications  bool     `json:"email_notifications"`
	EmailFrequency      string   `json:"email_frequency"`
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func newDTO(p *entity.UserPreference) DTO {
	return DTO{
		PreferredSources:    orEmpty(p.PreferredSources),
		PreferredCategories: orEmpty(p.PreferredCategories),
		PreferredAuthors:    orEmpty(p.PreferredAuthors),
		BlockedSources:      orEmpty(p.BlockedSources),
		BlockedKeywords:     orEmpty(p.BlockedKeywords),
		Language:            p.Language,
		Country:             p.Country,
		ArticlesPerPage:     p.ArticlesPerPage,
		EmailNotifications:  p.EmailNotifications,
		EmailFrequency:      p.EmailFrequency,
	}
}

// updateRequest mirrors DTO with pointer fields so that absent keys are left alone.
type updateRequest struct {
	PreferredSources    *[]int64  `json:"preferred_sources"`
	PreferredCategories *[]int64  `json:"preferred_categories"`
	PreferredAuthors    *[]string `json:"preferred_authors"`
	BlockedSources      *[]int64  `json:"blocked_sources"`
	BlockedKeywords     *[]string `json:"blocked_keywords"`
	Language            *string   `json:"language"`
	Country             *string   `json:"country"`
	ArticlesPerPage     *int      `json:"articles_per_page"`
	EmailNotifications  *bool     `json:"email_notifications"`
	EmailFrequency      *string   `json:"email_frequency"`
}

type preferencesResponse struct {
	Message     string `json:"message,omitempty"`
	Preferences DTO    `json:"preferences"`
}

// Register mounts the preference routes behind the Required middleware.
func Register(mux *http.ServeMux, svc Service, authn auth.Authenticator) {
	h := Handler{Svc: svc}
	required := auth.Required(authn)
	mux.Handle("GET /preferences", required(http.HandlerFunc(h.get)))
	mux.Handle("PUT /preferences", required(http.HandlerFunc(h.update)))
	mux.Handle("POST /preferences/sources/{id}", required(http.HandlerFunc(h.addSource)))
	mux.Handle("DELETE /preferences/sources/{id}", required(http.HandlerFunc(h.removeSource)))
}

type Handler struct{ Svc Service }

func (h Handler) get(w http.ResponseWriter, r *http.Request) {
	pref, err := h.Svc.Get(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		respond.SafeError(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, preferencesResponse{Preferences: newDTO(pref)})
}

func (h Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if !respond.DecodeJSON(w, r, &req) {
		return
	}
	pref, err := h.Svc.Update(r.Context(), auth.UserIDFromContext(r.Context()), prefUC.UpdateInput{
		PreferredSources:    req.PreferredSources,
		PreferredCategories: req.PreferredCategories,
		PreferredAuthors:    req.PreferredAuthors,
		BlockedSources:      req.BlockedSources,
		BlockedKeywords:     req.BlockedKeywords,
		Language:            req.Language,
		Country:             req.Country,
		ArticlesPerPage:     req.ArticlesPerPage,
		EmailNotifications:  req.EmailNotifications,
		EmailFrequency:      req.EmailFrequency,
	})
	if err != nil {
		if !respond.Validation(w, err) {
			respond.SafeError(w, http.StatusInternalServerError, err)
		}
		return
	}
	respond.JSON(w, http.StatusOK, preferencesResponse{Message: "Preferences updated successfully", Preferences: newDTO(pref)})
}

func (h Handler) addSource(w http.ResponseWriter, r *http.Request) {
	h.changeSource(w, r, h.Svc.AddSource, "Source added to preferences")
}

func (h Handler) removeSource(w http.ResponseWriter, r *http.Request) {
	h.changeSource(w, r, h.Svc.RemoveSource, "Source removed from preferences")
}

func (h Handler) changeSource(w http.ResponseWriter, r *http.Request,
	op func(context.Context, int64, int64) (*entity.UserPreference, error), msg string) {
	sourceID, err := pathutil.ParseID(r.PathValue("id"))
	if err != nil {
		respond.Message(w, http.StatusNotFound, prefUC.ErrSourceNotFound.Error())
		return
	}
	pref, err := op(r.Context(), auth.UserIDFromContext(r.Context()), sourceID)
	switch {
	case errors.Is(err, prefUC.ErrSourceNotFound):
		respond.SafeError(w, http.StatusNotFound, err)
	case err != nil:
		respond.SafeError(w, http.StatusInternalServerError, err)
	default:
		respond.JSON(w, http.StatusOK, preferencesResponse{Message: msg, Preferences: newDTO(pref)})
	}
}
