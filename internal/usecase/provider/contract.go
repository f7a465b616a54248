package provider

import (
	"context"

	"github.com/keepmark/keepmark/internal/domain"
)

// SelectionStore persists each user's embedding provider choice.
// ok=false from Get means the user has never configured one.
type SelectionStore interface {
	Get(ctx context.Context, userID string) (sel domain.ProviderSelection, ok bool, err error)
	Set(ctx context.Context, userID string, sel domain.ProviderSelection) error
	Delete(ctx context.Context, userID string) error
}

// CacheStore is the key-value surface backing the embedding cache.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}
