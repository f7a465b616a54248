package search

import (
	"context"

	"github.com/keepmark/keepmark/internal/domain"
	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/chunk"
	"github.com/keepmark/keepmark/internal/domain/search/filter"
)

// BookmarkReader defines the storage contract for candidate listing and hydration.
type BookmarkReader interface {
	// ListForSearch returns the user's bookmarks passing the filter conjunction
	// (ownership, not-archived, folder/type/platform).
	ListForSearch(ctx context.Context, userID string, f filter.Filter) ([]bookmark.Bookmark, error)

	// GetDetails hydrates bookmark ids with folder display fields, silently
	// skipping ids that no longer resolve.
	GetDetails(ctx context.Context, userID string, ids []string) (map[string]bookmark.Details, error)
}

// ChunkReader reads stored embedding chunks for semantic scoring.
type ChunkReader interface {
	ListByBookmarks(ctx context.Context, bookmarkIDs []string) ([]chunk.Chunk, error)
}

// ProviderResolver yields the user's embedding provider handle.
// ok=false means no provider is configured, a normal state rather than an error.
type ProviderResolver interface {
	Resolve(ctx context.Context, userID string) (emb domain.Embedder, ok bool, err error)
}
