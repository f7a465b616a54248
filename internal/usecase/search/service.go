package search

import (
	"context"
	"fmt"
	"sort"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/keepmark/keepmark/internal/domain/search/filter"
	"github.com/keepmark/keepmark/internal/domain/search/mode"
	"github.com/keepmark/keepmark/internal/domain/search/request"
	"github.com/keepmark/keepmark/internal/domain/search/result"
	"github.com/keepmark/keepmark/internal/logger"
	"github.com/keepmark/keepmark/internal/metrics"

	"go.uber.org/zap"
)

// minSemanticQueryLength is the shortest query worth vectorizing. Shorter
// queries are not semantically meaningful and make vector search noisy, so
// semantic and hybrid requests below it are forced to keyword mode.
const minSemanticQueryLength = 2

// relevantContentLimit caps chunk-level results fed into an LLM context window.
const relevantContentLimit = 6

// Service orchestrates bookmark retrieval across keyword, semantic, and
// hybrid modes with keyword fallback when the vector path is degraded.
type Service struct {
	bookmarks BookmarkReader
	chunks    ChunkReader
	providers ProviderResolver
}

// New creates a search service.
func New(bookmarks BookmarkReader, chunks ChunkReader, providers ProviderResolver) *Service {
	return &Service{bookmarks: bookmarks, chunks: chunks, providers: providers}
}

// Search executes an orchestrated, paginated bookmark search.
//
// Mode selection: an empty query returns an empty page immediately (reporting
// the requested mode); a too-short query forces semantic/hybrid down to
// keyword; any embedding failure inside semantic or hybrid execution demotes
// the whole request to keyword rather than failing it. Only a failure of the
// keyword path itself, the universal fallback, surfaces as an error.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Page, error) {
	if req.Query() == "" {
		return result.EmptyPage(req.Mode()), nil
	}

	start := time.Now()
	modeUsed := req.Mode()
	fallbackReason := ""

	if utf8.RuneCountInString(req.Query()) < minSemanticQueryLength &&
		(modeUsed == mode.Semantic || modeUsed == mode.Hybrid) {
		modeUsed = mode.Keyword
		fallbackReason = result.FallbackQueryTooShort
	}

	var hits []result.Hit
	var err error

	switch modeUsed {
	case mode.Keyword:
		hits, err = s.keywordSearch(ctx, req)

	case mode.Semantic:
		hits, err = s.semanticSearch(ctx, req)
		if err != nil {
			logger.FromContext(ctx).Warn("semantic search failed, falling back to keyword",
				zap.Error(err))
			modeUsed = mode.Keyword
			fallbackReason = result.FallbackSemanticFailed
			hits, err = s.keywordSearch(ctx, req)
		}

	case mode.Hybrid:
		hits, err = s.hybridSearch(ctx, req)
		if err != nil {
			logger.FromContext(ctx).Warn("hybrid search failed, falling back to keyword",
				zap.Error(err))
			modeUsed = mode.Keyword
			fallbackReason = result.FallbackSemanticFailed
			hits, err = s.keywordSearch(ctx, req)
		}
	}
	if err != nil {
		return result.Page{}, fmt.Errorf("search (%s): %w", modeUsed, err)
	}

	metrics.SearchRequestsTotal.WithLabelValues(string(modeUsed), fallbackLabel(fallbackReason)).Inc()
	metrics.SearchDuration.WithLabelValues(string(modeUsed)).Observe(time.Since(start).Seconds())

	total := len(hits)
	pageHits := paginate(hits, req.Offset(), req.Limit())

	items, err := s.hydrate(ctx, req.UserID(), pageHits)
	if err != nil {
		return result.Page{}, fmt.Errorf("hydrate results: %w", err)
	}

	return result.Page{
		Items:          items,
		ModeUsed:       modeUsed,
		FallbackReason: fallbackReason,
		Total:          total,
		HasMore:        req.Offset()+req.Limit() < total,
	}, nil
}

// hybridSearch runs the keyword and semantic matchers concurrently and fuses
// their candidate lists. Both branches must settle before fusion: a join, not
// a race; context cancellation aborts both. Any branch error (not an empty
// result) fails the whole hybrid attempt so the caller can demote to keyword.
func (s *Service) hybridSearch(ctx context.Context, req *request.Request) ([]result.Hit, error) {
	var keywordHits, semanticHits []result.Hit

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		keywordHits, err = s.keywordSearch(gctx, req)
		return err
	})
	g.Go(func() error {
		var err error
		semanticHits, err = s.semanticSearch(gctx, req)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return fuseRRF([][]result.Hit{keywordHits, semanticHits}, req.CandidateLimit()), nil
}

// RelevantContent returns the chunks most similar to the query across the
// user's whole corpus, for LLM context assembly. Unlike Search this is
// chunk-level and unfused; a user without an embedding provider gets an
// empty result.
func (s *Service) RelevantContent(
	ctx context.Context, userID, query string,
) ([]result.RelevantChunk, error) {
	embedder, ok, err := s.providers.Resolve(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve embedding provider: %w", err)
	}
	if !ok {
		return []result.RelevantChunk{}, nil
	}

	embRes, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	books, err := s.bookmarks.ListForSearch(ctx, userID, filter.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	if len(books) == 0 {
		return []result.RelevantChunk{}, nil
	}

	ids := make([]string, len(books))
	for i := range books {
		ids[i] = books[i].ID()
	}
	chunks, err := s.chunks.ListByBookmarks(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list chunks: %w", err)
	}

	out := make([]result.RelevantChunk, 0, len(chunks))
	for i := range chunks {
		sim := cosineSimilarity(embRes.Embedding, chunks[i].Embedding())
		if sim <= SimilarityFloor {
			continue
		}
		out = append(out, result.RelevantChunk{
			Content:    chunks[i].Content(),
			BookmarkID: chunks[i].BookmarkID(),
			Similarity: sim,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		if out[i].BookmarkID != out[j].BookmarkID {
			return out[i].BookmarkID < out[j].BookmarkID
		}
		return out[i].Content < out[j].Content
	})

	if len(out) > relevantContentLimit {
		out = out[:relevantContentLimit]
	}
	return out, nil
}

// hydrate joins the page of hits with full bookmark rows. Hits whose bookmark
// no longer resolves (deleted between scoring and hydration) are dropped
// silently rather than erroring.
func (s *Service) hydrate(
	ctx context.Context, userID string, hits []result.Hit,
) ([]result.Item, error) {
	ids := make([]string, len(hits))
	for i := range hits {
		ids[i] = hits[i].BookmarkID()
	}

	details, err := s.bookmarks.GetDetails(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	items := make([]result.Item, 0, len(hits))
	for i := range hits {
		d, ok := details[hits[i].BookmarkID()]
		if !ok {
			continue
		}
		items = append(items, result.Item{
			ID:           d.ID(),
			Type:         d.Kind(),
			Title:        d.Title(),
			Description:  d.Description(),
			URL:          d.URL(),
			Platform:     d.Platform(),
			FolderID:     d.FolderID(),
			FolderName:   d.FolderName,
			FolderEmoji:  d.FolderEmoji,
			IsFavorite:   d.IsFavorite(),
			CreatedAt:    d.CreatedAt(),
			Score:        hits[i].Score(),
			MatchReasons: hits[i].Reasons().Sorted(),
		})
	}
	return items, nil
}

func paginate(hits []result.Hit, offset, limit int) []result.Hit {
	if offset >= len(hits) {
		return nil
	}
	end := offset + limit
	if end > len(hits) {
		end = len(hits)
	}
	return hits[offset:end]
}

func fallbackLabel(reason string) string {
	if reason == "" {
		return "none"
	}
	return reason
}
