package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/keepmark/keepmark/internal/domain"
	"github.com/keepmark/keepmark/internal/metrics"
	"github.com/keepmark/keepmark/internal/repository/embcache"
	"github.com/keepmark/keepmark/internal/transport/openai"
)

// Credentials are the service-side secrets for one embedding provider,
// keyed by provider name in configuration. Users select a provider and
// model; they never supply API keys themselves.
type Credentials struct {
	APIKey  string
	BaseURL string
}

// Service resolves per-user embedding providers: it joins the user's stored
// selection with the operator-configured credentials and hands back a ready
// embedder wrapped in the shared embedding cache.
type Service struct {
	selections  SelectionStore
	credentials map[string]Credentials
	cache       CacheStore
	logger      *zap.Logger
}

// New creates a provider service. cache may be nil to disable embedding caching.
func New(
	selections SelectionStore,
	credentials map[string]Credentials,
	cache CacheStore,
	logger *zap.Logger,
) *Service {
	return &Service{
		selections:  selections,
		credentials: credentials,
		cache:       cache,
		logger:      logger,
	}
}

// Resolve returns the user's embedder. ok=false means the user has no
// provider configured; callers treat that as "no semantic capability",
// not as a failure. A selection naming a provider the service holds no
// credentials for is an error: the user opted in but cannot be served.
func (s *Service) Resolve(ctx context.Context, userID string) (domain.Embedder, bool, error) {
	sel, ok, err := s.selections.Get(ctx, userID)
	if err != nil {
		return nil, false, fmt.Errorf("load provider selection: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	creds, ok := s.credentials[sel.Provider]
	if !ok {
		return nil, false, fmt.Errorf("provider %q has no configured credentials: %w",
			sel.Provider, domain.ErrProviderNotConfigured)
	}

	var embedder domain.Embedder = openai.NewEmbedder(&openai.Config{
		APIKey:     creds.APIKey,
		BaseURL:    creds.BaseURL,
		Model:      sel.Model,
		Dimensions: sel.Dimensions,
		Provider:   sel.Provider,
		Logger:     s.logger,
	})

	if s.cache != nil {
		embedder = embcache.New(embedder, sel.Model, s.cache, metrics.EmbeddingCacheTotal, s.logger)
	}
	return embedder, true, nil
}

// Select stores the user's provider choice after checking the service can
// actually serve it.
func (s *Service) Select(ctx context.Context, userID string, sel domain.ProviderSelection) error {
	if sel.Provider == "" || sel.Model == "" {
		return fmt.Errorf("provider and model are required: %w", domain.ErrInvalidRequest)
	}
	if _, ok := s.credentials[sel.Provider]; !ok {
		return fmt.Errorf("unknown provider %q: %w", sel.Provider, domain.ErrInvalidRequest)
	}
	if err := s.selections.Set(ctx, userID, sel); err != nil {
		return fmt.Errorf("store provider selection: %w", err)
	}
	return nil
}

// Selection returns the user's stored provider choice, ok=false when absent.
func (s *Service) Selection(ctx context.Context, userID string) (domain.ProviderSelection, bool, error) {
	return s.selections.Get(ctx, userID)
}

// Clear removes the user's provider choice, turning semantic search off for them.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.selections.Delete(ctx, userID); err != nil {
		return fmt.Errorf("clear provider selection: %w", err)
	}
	return nil
}
