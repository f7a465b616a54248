package result

import (
	"time"

	"github.com/keepmark/keepmark/internal/domain/search/mode"
	"github.com/keepmark/keepmark/internal/domain/search/reason"
)

// Fallback reasons reported alongside a degraded search result.
const (
	// FallbackQueryTooShort: the query was too short to be semantically
	// meaningful, so a semantic/hybrid request was forced to keyword mode.
	FallbackQueryTooShort = "query_too_short_for_semantic"
	// FallbackSemanticFailed: the semantic branch failed and the whole request
	// was demoted to keyword mode.
	FallbackSemanticFailed = "semantic_failed_fallback_to_keyword"
)

// Hit is a scored candidate from a single strategy. Scores from different
// strategies live on incomparable scales until rank fusion.
type Hit struct {
	bookmarkID string
	score      float64
	reasons    reason.Set
	createdAt  time.Time
}

// NewHit creates a search hit.
func NewHit(bookmarkID string, score float64, reasons reason.Set, createdAt time.Time) Hit {
	return Hit{bookmarkID: bookmarkID, score: score, reasons: reasons, createdAt: createdAt}
}

// BookmarkID returns the matched bookmark's identifier.
func (h *Hit) BookmarkID() string { return h.bookmarkID }

// Score returns the strategy-scoped relevance score.
func (h *Hit) Score() float64 { return h.score }

// Reasons returns the match reasons.
func (h *Hit) Reasons() reason.Set { return h.reasons }

// CreatedAt returns the bookmark's creation time (keyword tie-break).
func (h *Hit) CreatedAt() time.Time { return h.createdAt }

// Item is a hit hydrated with its bookmark row and denormalized folder fields.
type Item struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	URL          string          `json:"url,omitempty"`
	Platform     string          `json:"platform,omitempty"`
	FolderID     string          `json:"folderId,omitempty"`
	FolderName   string          `json:"folderName,omitempty"`
	FolderEmoji  string          `json:"folderEmoji,omitempty"`
	IsFavorite   bool            `json:"isFavorite"`
	CreatedAt    time.Time       `json:"createdAt"`
	Score        float64         `json:"score"`
	MatchReasons []reason.Reason `json:"matchReasons"`
}

// Page is the full paginated search response.
type Page struct {
	Items          []Item    `json:"items"`
	ModeUsed       mode.Mode `json:"modeUsed"`
	FallbackReason string    `json:"fallbackReason,omitempty"`
	Total          int       `json:"total"`
	HasMore        bool      `json:"hasMore"`
}

// EmptyPage returns a page with no items for the given mode.
func EmptyPage(m mode.Mode) Page {
	return Page{Items: []Item{}, ModeUsed: m, Total: 0, HasMore: false}
}

// RelevantChunk is a chunk-level semantic hit for LLM context assembly.
type RelevantChunk struct {
	Content    string  `json:"content"`
	BookmarkID string  `json:"bookmarkId"`
	Similarity float64 `json:"similarity"`
}
