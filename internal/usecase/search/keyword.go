package search

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/search/reason"
	"github.com/keepmark/keepmark/internal/domain/search/request"
	"github.com/keepmark/keepmark/internal/domain/search/result"
)

// keywordSearch matches the query as a case-insensitive substring against the
// bookmark text fields and tag names. The score is the sum of fixed per-field
// weights; a bookmark matching nothing is excluded entirely.
func (s *Service) keywordSearch(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	books, err := s.bookmarks.ListForSearch(ctx, req.UserID(), req.Filters())
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	queryLower := strings.ToLower(req.Query())

	hits := make([]result.Hit, 0, len(books))
	for i := range books {
		reasons := keywordReasons(&books[i], queryLower)
		if len(reasons) == 0 {
			continue
		}
		hits = append(hits, result.NewHit(
			books[i].ID(), float64(reasons.Score()), reasons, books[i].CreatedAt(),
		))
	}

	// Score desc, newest first on ties, id as the final stabilizer.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score() != hits[j].Score() {
			return hits[i].Score() > hits[j].Score()
		}
		if !hits[i].CreatedAt().Equal(hits[j].CreatedAt()) {
			return hits[i].CreatedAt().After(hits[j].CreatedAt())
		}
		return hits[i].BookmarkID() < hits[j].BookmarkID()
	})

	if limit := req.CandidateLimit(); len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// keywordReasons collects the fields containing the lowercased query.
func keywordReasons(b *bookmark.Bookmark, queryLower string) reason.Set {
	reasons := reason.NewSet()

	if strings.Contains(strings.ToLower(b.Title()), queryLower) {
		reasons.Add(reason.Title)
	}
	if b.Description() != "" && strings.Contains(strings.ToLower(b.Description()), queryLower) {
		reasons.Add(reason.Description)
	}
	if b.Content() != "" && strings.Contains(strings.ToLower(b.Content()), queryLower) {
		reasons.Add(reason.Content)
	}
	if b.URL() != "" && strings.Contains(strings.ToLower(b.URL()), queryLower) {
		reasons.Add(reason.URL)
	}
	for _, tag := range b.Tags() {
		if strings.Contains(strings.ToLower(tag), queryLower) {
			reasons.Add(reason.Tag)
			break
		}
	}

	return reasons
}
