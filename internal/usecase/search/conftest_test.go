package search

import (
	"context"
	"testing"
	"time"

	"github.com/keepmark/keepmark/internal/domain"
	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/chunk"
	"github.com/keepmark/keepmark/internal/domain/search/filter"
	"github.com/keepmark/keepmark/internal/domain/search/request"
)

// --- Mocks ---

type mockBookmarkReader struct {
	books      []bookmark.Bookmark
	listErr    error
	details    map[string]bookmark.Details
	detailsErr error
}

func (m *mockBookmarkReader) ListForSearch(
	_ context.Context, _ string, f filter.Filter,
) ([]bookmark.Bookmark, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]bookmark.Bookmark, 0, len(m.books))
	for i := range m.books {
		if f.Matches(&m.books[i]) {
			out = append(out, m.books[i])
		}
	}
	return out, nil
}

func (m *mockBookmarkReader) GetDetails(
	_ context.Context, _ string, ids []string,
) (map[string]bookmark.Details, error) {
	if m.detailsErr != nil {
		return nil, m.detailsErr
	}
	if m.details != nil {
		return m.details, nil
	}
	// Default: hydrate every listed bookmark without folder data.
	out := make(map[string]bookmark.Details, len(ids))
	for _, id := range ids {
		for i := range m.books {
			if m.books[i].ID() == id {
				out[id] = bookmark.Details{Bookmark: m.books[i]}
			}
		}
	}
	return out, nil
}

type mockChunkReader struct {
	chunks []chunk.Chunk
	err    error
}

func (m *mockChunkReader) ListByBookmarks(_ context.Context, _ []string) ([]chunk.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.chunks, nil
}

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

type mockResolver struct {
	embedder domain.Embedder
	ok       bool
	err      error
}

func (m *mockResolver) Resolve(_ context.Context, _ string) (domain.Embedder, bool, error) {
	return m.embedder, m.ok, m.err
}

// --- Fixtures ---

func makeBookmark(t *testing.T, id, title string, createdAt time.Time) bookmark.Bookmark {
	t.Helper()
	return bookmark.Reconstruct(
		id, "user-1", "article", title, "", "", "", "", "",
		nil, false, false, createdAt,
	)
}

func makeChunk(t *testing.T, id, bookmarkID string, embedding []float32) chunk.Chunk {
	t.Helper()
	return chunk.Reconstruct(id, bookmarkID, "chunk "+id, embedding)
}

func makeRequest(t *testing.T, query, rawMode string, limit, offset int) request.Request {
	t.Helper()
	req, err := request.New("user-1", query, rawMode, limit, offset, filter.Filter{})
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}
