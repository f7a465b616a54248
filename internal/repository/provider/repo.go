package provider

import (
	"context"
	"fmt"
	"strconv"

	"github.com/keepmark/keepmark/internal/domain"
)

// store is the consumer interface for provider selections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
}

// Repo persists each user's embedding provider selection.
type Repo struct {
	store store
}

// New creates a provider-selection repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func selectionKey(userID string) string {
	return domain.KeyPrefix + "user:" + userID + ":embedding_provider"
}

// Get returns the user's provider selection. The second return value reports
// whether a selection exists; a missing selection is a normal state.
func (r *Repo) Get(ctx context.Context, userID string) (domain.ProviderSelection, bool, error) {
	m, err := r.store.HGetAll(ctx, selectionKey(userID))
	if err != nil {
		return domain.ProviderSelection{}, false, fmt.Errorf("get provider selection: %w", err)
	}
	if len(m) == 0 {
		return domain.ProviderSelection{}, false, nil
	}

	dims, _ := strconv.Atoi(m["dimensions"])
	return domain.ProviderSelection{
		Provider:   m["provider"],
		Model:      m["model"],
		Dimensions: dims,
	}, true, nil
}

// Set stores the user's provider selection.
func (r *Repo) Set(ctx context.Context, userID string, sel domain.ProviderSelection) error {
	fields := map[string]string{
		"provider":   sel.Provider,
		"model":      sel.Model,
		"dimensions": strconv.Itoa(sel.Dimensions),
	}
	if err := r.store.HSet(ctx, selectionKey(userID), fields); err != nil {
		return fmt.Errorf("set provider selection: %w", err)
	}
	return nil
}

// Delete removes the user's provider selection.
func (r *Repo) Delete(ctx context.Context, userID string) error {
	if err := r.store.Del(ctx, selectionKey(userID)); err != nil {
		return fmt.Errorf("delete provider selection: %w", err)
	}
	return nil
}
