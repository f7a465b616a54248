package search

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/keepmark/keepmark/internal/domain/search/reason"
	"github.com/keepmark/keepmark/internal/domain/search/request"
	"github.com/keepmark/keepmark/internal/domain/search/result"
)

// SimilarityFloor is the fixed relevance threshold: chunk similarities at or
// below it are discarded before aggregation.
const SimilarityFloor = 0.3

// semanticSearch embeds the query and scores every stored chunk vector of the
// filtered bookmarks by cosine similarity, aggregating per bookmark by MAX.
// A user without a configured embedding provider gets an empty result, not an
// error; a provider failure propagates so the orchestrator can fall back.
func (s *Service) semanticSearch(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	embedder, ok, err := s.providers.Resolve(ctx, req.UserID())
	if err != nil {
		return nil, fmt.Errorf("resolve embedding provider: %w", err)
	}
	if !ok {
		return nil, nil
	}

	embRes, err := embedder.Embed(ctx, req.Query())
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	books, err := s.bookmarks.ListForSearch(ctx, req.UserID(), req.Filters())
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if len(books) == 0 {
		return nil, nil
	}

	ids := make([]string, len(books))
	for i := range books {
		ids[i] = books[i].ID()
	}

	chunks, err := s.chunks.ListByBookmarks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	// Bookmark relevance is its single best-matching passage.
	best := make(map[string]float64)
	for i := range chunks {
		sim := cosineSimilarity(embRes.Embedding, chunks[i].Embedding())
		if sim <= SimilarityFloor {
			continue
		}
		if sim > best[chunks[i].BookmarkID()] {
			best[chunks[i].BookmarkID()] = sim
		}
	}

	hits := make([]result.Hit, 0, len(best))
	for id, score := range best {
		hits = append(hits, result.NewHit(id, score, reason.NewSet(reason.Semantic), time.Time{}))
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		return hits[i].BookmarkID() < hits[j].BookmarkID()
	})

	if limit := req.CandidateLimit(); len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// cosineSimilarity returns the normalized dot product of two vectors.
// Mismatched or empty vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
