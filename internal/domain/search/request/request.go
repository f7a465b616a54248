package request

import (
	"fmt"
	"strings"

	"github.com/keepmark/keepmark/internal/domain/search/filter"
	"github.com/keepmark/keepmark/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 2048
	DefaultLimit   = 20
	MaxLimit       = 100

	// MaxCandidates caps the internal over-fetch per matcher regardless of the
	// requested page size. Fusion and pagination happen after scoring, so each
	// matcher only ever needs enough candidates to fill the deepest page.
	MaxCandidates = 50
)

// Request is a validated, normalized search query for one user.
type Request struct {
	userID     string
	query      string
	searchMode mode.Mode
	filters    filter.Filter
	limit      int
	offset     int
}

// New validates and normalizes search parameters.
// The query is trimmed and may be empty (an empty query yields an empty result,
// not an error). Unknown mode strings fold to hybrid.
func New(userID, query, rawMode string, limit, offset int, filters filter.Filter) (Request, error) {
	if userID == "" {
		return Request{}, fmt.Errorf("user ID is required")
	}
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d chars)", MaxQueryLength)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	return Request{
		userID:     userID,
		query:      query,
		searchMode: mode.Parse(rawMode, mode.Hybrid),
		filters:    filters,
		limit:      limit,
		offset:     offset,
	}, nil
}

// UserID returns the requesting user's identifier.
func (r *Request) UserID() string { return r.userID }

// Query returns the trimmed search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the requested search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// Filters returns the conjunctive pre-filter.
func (r *Request) Filters() filter.Filter { return r.filters }

// Limit returns the page size.
func (r *Request) Limit() int { return r.limit }

// Offset returns the page offset.
func (r *Request) Offset() int { return r.offset }

// CandidateLimit returns how many candidates each matcher should produce:
// min(MaxCandidates, max(limit+offset, limit, 20)).
func (r *Request) CandidateLimit() int {
	n := r.limit + r.offset
	if r.limit > n {
		n = r.limit
	}
	if n < 20 {
		n = 20
	}
	if n > MaxCandidates {
		n = MaxCandidates
	}
	return n
}
