package search

import (
	"sort"
	"time"

	"github.com/keepmark/keepmark/internal/domain/search/reason"
	"github.com/keepmark/keepmark/internal/domain/search/result"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fused accumulates a bookmark's contributions across input lists.
type fused struct {
	score     float64
	reasons   reason.Set
	createdAt time.Time
}

// fuseRRF merges rank-ordered hit lists via Reciprocal Rank Fusion.
// Each hit at 1-based rank r contributes 1/(k + r) to its bookmark's fused
// score; match reasons are unioned across lists. This is the single place
// where weighted integer sums and cosine similarities become comparable.
// Ordering is deterministic: fused score descending, then
// bookmark id ascending. The result is truncated to limit.
func fuseRRF(hitLists [][]result.Hit, limit int) []result.Hit {
	merged := make(map[string]*fused)

	for _, hits := range hitLists {
		for i := range hits {
			rank := i + 1
			contribution := 1.0 / float64(rrfK+rank)

			entry, ok := merged[hits[i].BookmarkID()]
			if !ok {
				entry = &fused{reasons: reason.NewSet()}
				merged[hits[i].BookmarkID()] = entry
			}
			entry.score += contribution
			entry.reasons = entry.reasons.Union(hits[i].Reasons())
			if entry.createdAt.IsZero() {
				entry.createdAt = hits[i].CreatedAt()
			}
		}
	}

	out := make([]result.Hit, 0, len(merged))
	for id, entry := range merged {
		out = append(out, result.NewHit(id, entry.score, entry.reasons, entry.createdAt))
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score() != out[j].Score() {
			return out[i].Score() > out[j].Score()
		}
		return out[i].BookmarkID() < out[j].BookmarkID()
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
