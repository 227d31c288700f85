// Package preference manages per-user feed preferences.
package preference

import (
	"context"
	"errors"
	"fmt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// ErrSourceNotFound is returned when a referenced source does not exist.
var ErrSourceNotFound = errors.New("source not found")

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	PreferredSources    *[]int64
	PreferredCategories *[]int64
	PreferredAuthors    *[]string
	BlockedSources      *[]int64
	BlockedKeywords     *[]string
	Language            *string
	Country             *string
	ArticlesPerPage     *int
	EmailNotifications  *bool
	EmailFrequency      *string
}

// Service provides preference use cases.
type Service struct {
	Preferences repository.PreferenceRepository
	Sources     repository.SourceRepository
	Categories  repository.CategoryRepository
}

// Get returns the user's preferences, creating the defaults on first access.
func (s *Service) Get(ctx context.Context, userID int64) (*entity.UserPreference, error) {
	pref, err := s.Preferences.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get preferences: %w", err)
	}
	if pref != nil {
		return pref, nil
	}
	pref = entity.DefaultPreference(userID)
	if err := s.Preferences.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("create default preferences: %w", err)
	}
	return pref, nil
}

// Update applies in to the stored preferences after validating it.
func (s *Service) Update(ctx context.Context, userID int64, in UpdateInput) (*entity.UserPreference, error) {
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.PreferredSources != nil {
		if err := s.checkSources(ctx, "preferred_sources", *in.PreferredSources); err != nil {
			return nil, err
		}
		pref.PreferredSources = *in.PreferredSources
	}
	if in.BlockedSources != nil {
		if err := s.checkSources(ctx, "blocked_sources", *in.BlockedSources); err != nil {
			return nil, err
		}
		pref.BlockedSources = *in.BlockedSources
	}
	if in.PreferredCategories != nil {
		if err := s.checkCategories(ctx, *in.PreferredCategories); err != nil {
			return nil, err
		}
		pref.PreferredCategories = *in.PreferredCategories
	}
	if in.PreferredAuthors != nil {
		pref.PreferredAuthors = *in.PreferredAuthors
	}
	if in.BlockedKeywords != nil {
		pref.BlockedKeywords = *in.BlockedKeywords
	}
	if in.Language != nil {
		pref.Language = *in.Language
	}
	if in.Country != nil {
		pref.Country = *in.Country
	}
	if in.ArticlesPerPage != nil {
		pref.ArticlesPerPage = *in.ArticlesPerPage
	}
	if in.EmailNotifications != nil {
		pref.EmailNotifications = *in.EmailNotifications
	}
	if in.EmailFrequency != nil {
		pref.EmailFrequency = *in.EmailFrequency
	}

	if err := pref.Validate(); err != nil {
		return nil, err
	}
	if err := s.Preferences.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return pref, nil
}

// AddSource appends sourceID to the preferred sources.
func (s *Service) AddSource(ctx context.Context, userID, sourceID int64) (*entity.UserPreference, error) {
	if err := s.requireSource(ctx, sourceID); err != nil {
		return nil, err
	}
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !pref.AddPreferredSource(sourceID) {
		return pref, nil
	}
	if err := s.Preferences.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return pref, nil
}

// RemoveSource drops sourceID from the preferred sources.
func (s *Service) RemoveSource(ctx context.Context, userID, sourceID int64) (*entity.UserPreference, error) {
	if err := s.requireSource(ctx, sourceID); err != nil {
		return nil, err
	}
	pref, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !pref.RemovePreferredSource(sourceID) {
		return pref, nil
	}
	if err := s.Preferences.Upsert(ctx, pref); err != nil {
		return nil, fmt.Errorf("save preferences: %w", err)
	}
	return pref, nil
}

func (s *Service) requireSource(ctx context.Context, id int64) error {
	src, err := s.Sources.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get source: %w", err)
	}
	if src == nil {
		return ErrSourceNotFound
	}
	return nil
}

func (s *Service) checkSources(ctx context.Context, field string, ids []int64) error {
	for _, id := range ids {
		src, err := s.Sources.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("get source: %w", err)
		}
		if src == nil {
			return &entity.ValidationError{Field: field, Message: fmt.Sprintf("source %d does not exist", id)}
		}
	}
	return nil
}

func (s *Service) checkCategories(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	cats, err := s.Categories.List(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}
	known := make(map[int64]bool, len(cats))
	for _, c := range cats {
		known[c.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return &entity.ValidationError{Field: "preferred_categories", Message: fmt.Sprintf("category %d does not exist", id)}
		}
	}
	return nil
}
