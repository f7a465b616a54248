package ingest

import (
	"context"

	"github.com/keepmark/keepmark/internal/domain"
	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/chunk"
)

// BookmarkStore defines the bookmark persistence contract for ingestion.
type BookmarkStore interface {
	Save(ctx context.Context, b *bookmark.Bookmark) error
	Get(ctx context.Context, userID, id string) (bookmark.Bookmark, error)
	Delete(ctx context.Context, userID, id string) error
}

// ChunkStore replaces and deletes the embedding chunks of a bookmark.
// Replace is atomic per bookmark: old chunks go away with each reindex.
type ChunkStore interface {
	Replace(ctx context.Context, bookmarkID string, chunks []chunk.Chunk) error
	DeleteForBookmark(ctx context.Context, bookmarkID string) error
}

// ProviderResolver yields the user's embedding provider handle.
// ok=false means no provider is configured, a normal state rather than an error.
type ProviderResolver interface {
	Resolve(ctx context.Context, userID string) (emb domain.Embedder, ok bool, err error)
}
