package search

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/chunk"
	"github.com/keepmark/keepmark/internal/domain/search/reason"
)

func TestSemanticSearch_NoProviderIsSilentlyEmpty(t *testing.T) {
	books := []bookmark.Bookmark{makeBookmark(t, "bm-1", "title", time.Now())}
	svc := New(&mockBookmarkReader{books: books}, &mockChunkReader{}, &mockResolver{ok: false})
	req := makeRequest(t, "query", "semantic", 20, 0)

	hits, err := svc.semanticSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestSemanticSearch_MaxAggregationPerBookmark(t *testing.T) {
	books := []bookmark.Bookmark{makeBookmark(t, "bm-1", "title", time.Now())}
	// Query vector (1,0): similarities 0.6, ~0.35, ~0.2. Best chunk wins.
	chunks := []chunk.Chunk{
		makeChunk(t, "ch-1", "bm-1", []float32{0.6, 0.8}),
		makeChunk(t, "ch-2", "bm-1", []float32{0.35, 0.937}),
		makeChunk(t, "ch-3", "bm-1", []float32{0.2, 0.98}),
	}
	resolver := &mockResolver{embedder: &mockEmbedder{vector: []float32{1, 0}}, ok: true}
	svc := New(&mockBookmarkReader{books: books}, &mockChunkReader{chunks: chunks}, resolver)
	req := makeRequest(t, "query", "semantic", 20, 0)

	hits, err := svc.semanticSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if math.Abs(hits[0].Score()-0.6) > 1e-6 {
		t.Errorf("score = %v, want 0.6 (max over chunks)", hits[0].Score())
	}
	if !hits[0].Reasons().Has(reason.Semantic) {
		t.Error("missing semantic reason")
	}
}

func TestSemanticSearch_DiscardsBelowFloor(t *testing.T) {
	books := []bookmark.Bookmark{makeBookmark(t, "bm-1", "title", time.Now())}
	// Query vector (1,0): similarity 0.28, under the 0.3 floor.
	chunks := []chunk.Chunk{
		makeChunk(t, "ch-1", "bm-1", []float32{0.28, 0.96}),
	}
	resolver := &mockResolver{embedder: &mockEmbedder{vector: []float32{1, 0}}, ok: true}
	svc := New(&mockBookmarkReader{books: books}, &mockChunkReader{chunks: chunks}, resolver)
	req := makeRequest(t, "query", "semantic", 20, 0)

	hits, err := svc.semanticSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0 (below similarity floor)", len(hits))
	}
}

func TestSemanticSearch_EmbedErrorPropagates(t *testing.T) {
	wantErr := errors.New("provider down")
	resolver := &mockResolver{embedder: &mockEmbedder{err: wantErr}, ok: true}
	svc := New(&mockBookmarkReader{}, &mockChunkReader{}, resolver)
	req := makeRequest(t, "query", "semantic", 20, 0)

	_, err := svc.semanticSearch(context.Background(), &req)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestSemanticSearch_NoCandidates(t *testing.T) {
	resolver := &mockResolver{embedder: &mockEmbedder{vector: []float32{1, 0}}, ok: true}
	svc := New(&mockBookmarkReader{}, &mockChunkReader{}, resolver)
	req := makeRequest(t, "query", "semantic", 20, 0)

	hits, err := svc.semanticSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestCosineSimilarity(t *testing.T) {
	cases := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1}, 0},
		{"empty", nil, nil, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := cosineSimilarity(c.a, c.b); math.Abs(got-c.want) > 1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, c.want)
			}
		})
	}
}

func TestCosineSimilarity_ScaleInvariant(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{10, 20, 30}
	if got := cosineSimilarity(a, b); math.Abs(got-1) > 1e-6 {
		t.Errorf("cosineSimilarity = %v, want 1", got)
	}
}
