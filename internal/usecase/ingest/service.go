package ingest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/keepmark/keepmark/internal/chunker"
	"github.com/keepmark/keepmark/internal/domain"
	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/chunk"
	"github.com/keepmark/keepmark/internal/logger"
)

// embedBatchSize caps how many chunk texts go to the provider per call.
// Batches run sequentially to keep provider rate-limit behavior predictable.
const embedBatchSize = 10

// Service maintains the bookmark rows and their embedding chunks. Writes to
// the bookmark row always succeed or fail on their own; embedding generation
// is best-effort on save and strict on explicit reindex.
type Service struct {
	bookmarks BookmarkStore
	chunks    ChunkStore
	providers ProviderResolver
}

// New creates an ingest service.
func New(bookmarks BookmarkStore, chunks ChunkStore, providers ProviderResolver) *Service {
	return &Service{bookmarks: bookmarks, chunks: chunks, providers: providers}
}

// SaveBookmark persists the bookmark row and then refreshes its embedding
// chunks best-effort: a user without a provider just skips embedding, and an
// embedding failure keeps whatever chunks were stored before. The row write
// itself is never rolled back for an embedding problem.
func (s *Service) SaveBookmark(ctx context.Context, b *bookmark.Bookmark) error {
	if err := s.bookmarks.Save(ctx, b); err != nil {
		return fmt.Errorf("save bookmark: %w", err)
	}

	embedder, ok, err := s.providers.Resolve(ctx, b.UserID())
	if err != nil || !ok {
		if err != nil {
			logger.FromContext(ctx).Warn("skipping embedding refresh: provider resolution failed",
				zap.String("bookmark_id", b.ID()), zap.Error(err))
		}
		return nil
	}

	chunks, err := s.generateChunks(ctx, embedder, b.ID(), b.Content())
	if err != nil {
		logger.FromContext(ctx).Warn("skipping embedding refresh: vectorization failed",
			zap.String("bookmark_id", b.ID()), zap.Error(err))
		return nil
	}

	if err := s.chunks.Replace(ctx, b.ID(), chunks); err != nil {
		logger.FromContext(ctx).Warn("failed to replace embedding chunks",
			zap.String("bookmark_id", b.ID()), zap.Error(err))
	}
	return nil
}

// Reindex rebuilds the embedding chunks of one bookmark from scratch. Unlike
// the save path this is strict: no provider configured is an error, and an
// embedding failure leaves the old chunks in place and propagates.
func (s *Service) Reindex(ctx context.Context, userID, bookmarkID string) error {
	b, err := s.bookmarks.Get(ctx, userID, bookmarkID)
	if err != nil {
		return fmt.Errorf("load bookmark: %w", err)
	}

	embedder, ok, err := s.providers.Resolve(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve embedding provider: %w", err)
	}
	if !ok {
		return domain.ErrProviderNotConfigured
	}

	chunks, err := s.generateChunks(ctx, embedder, b.ID(), b.Content())
	if err != nil {
		return fmt.Errorf("generate embeddings: %w", err)
	}

	if err := s.chunks.Replace(ctx, b.ID(), chunks); err != nil {
		return fmt.Errorf("replace chunks: %w", err)
	}
	return nil
}

// DeleteBookmark removes the bookmark row and all of its chunks. The chunk
// cleanup runs even though searches already drop hits whose row is gone.
func (s *Service) DeleteBookmark(ctx context.Context, userID, bookmarkID string) error {
	if err := s.bookmarks.Delete(ctx, userID, bookmarkID); err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if err := s.chunks.DeleteForBookmark(ctx, bookmarkID); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return nil
}

// generateChunks splits the content into sentences and vectorizes them in
// sequential fixed-size batches, preserving chunk order. Empty content yields
// no chunks, which clears the bookmark's index entries on Replace.
func (s *Service) generateChunks(
	ctx context.Context, embedder domain.Embedder, bookmarkID, content string,
) ([]chunk.Chunk, error) {
	texts := chunker.Split(content)
	if len(texts) == 0 {
		return nil, nil
	}

	chunks := make([]chunk.Chunk, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch := texts[start:end]

		res, err := embedBatch(ctx, embedder, batch)
		if err != nil {
			return nil, fmt.Errorf("embed batch at %d: %w", start, err)
		}
		if len(res.Embeddings) != len(batch) {
			return nil, fmt.Errorf("embed batch at %d: got %d vectors for %d texts: %w",
				start, len(res.Embeddings), len(batch), domain.ErrEmbeddingProviderError)
		}

		for i := range batch {
			chunks = append(chunks, chunk.Reconstruct(
				uuid.NewString(), bookmarkID, batch[i], res.Embeddings[i],
			))
		}
	}
	return chunks, nil
}

// embedBatch uses the provider's native batch call when it has one.
func embedBatch(
	ctx context.Context, embedder domain.Embedder, texts []string,
) (domain.BatchEmbeddingResult, error) {
	if be, ok := embedder.(domain.BatchEmbedder); ok {
		return be.BatchEmbed(ctx, texts)
	}
	return domain.BatchFallback(ctx, embedder, texts)
}
