package provider

import (
	"fmt"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/usecase/ingest"
)

// Kind identifies a provider implementation.
type Kind string

const (
	KindNewsAPI  Kind = "newsapi"
	KindGuardian Kind = "guardian"
	KindRSS      Kind = "rss"
)

// slugKinds binds the built-in source slugs to their provider.
var slugKinds = map[string]Kind{
	"newsapi":         KindNewsAPI,
	"newsapi-general": KindNewsAPI,
	"bbc-news":        KindNewsAPI,
	"the-guardian":    KindGuardian,
}

// KindFor returns the provider kind of src. api_config["provider"] wins over
// the slug table.
func KindFor(src *entity.Source) (Kind, error) {
	if k := Kind(src.ConfigValue("provider", "")); k != "" {
		switch k {
		case KindNewsAPI, KindGuardian, KindRSS:
			return k, nil
		}
		return "", fmt.Errorf("%w: %q", ingest.ErrUnknownProvider, k)
	}
	if k, ok := slugKinds[src.Slug]; ok {
		return k, nil
	}
	return "", fmt.Errorf("%w: no provider for source %q", ingest.ErrUnknownProvider, src.Slug)
}

// Registry resolves sources to provider clients. Clients are built once and
// shared by every run.
type Registry struct {
	providers map[Kind]ingest.Provider
}

// NewRegistry builds one client per provider from cfg.
func NewRegistry(cfg *config.NewsConfig) *Registry {
	ua := cfg.Scraping.UserAgent
	return NewRegistryWith(map[Kind]ingest.Provider{
		KindNewsAPI:  NewNewsAPI(cfg.NewsAPI, ua),
		KindGuardian: NewGuardian(cfg.Guardian, ua),
		KindRSS:      NewRSS(cfg.RSS, ua),
	})
}

// NewRegistryWith uses the given clients as-is.
func NewRegistryWith(providers map[Kind]ingest.Provider) *Registry {
	return &Registry{providers: providers}
}

func (r *Registry) Resolve(src *entity.Source) (ingest.Provider, error) {
	kind, err := KindFor(src)
	if err != nil {
		return nil, err
	}
	p, ok := r.providers[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s is not configured", ingest.ErrUnknownProvider, kind)
	}
	return p, nil
}
