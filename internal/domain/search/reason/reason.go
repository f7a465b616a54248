package reason

import "sort"

// Reason names the bookmark field (or strategy) that produced a match.
type Reason string

// Match reason constants.
const (
	Title       Reason = "title"
	Description Reason = "description"
	Content     Reason = "content"
	URL         Reason = "url"
	Tag         Reason = "tag"
	Semantic    Reason = "semantic"
)

// keywordWeights are the fixed per-field scoring weights of keyword search.
// They are a design constant, not learned.
var keywordWeights = map[Reason]int{
	Title:       5,
	Tag:         4,
	Description: 3,
	Content:     2,
	URL:         1,
}

// Weight returns the keyword scoring weight for the reason (0 for semantic).
func (r Reason) Weight() int { return keywordWeights[r] }

// Set is an unordered collection of match reasons.
type Set map[Reason]struct{}

// NewSet creates a Set from the given reasons.
func NewSet(reasons ...Reason) Set {
	s := make(Set, len(reasons))
	for _, r := range reasons {
		s[r] = struct{}{}
	}
	return s
}

// Add inserts a reason into the set.
func (s Set) Add(r Reason) { s[r] = struct{}{} }

// Has reports whether the set contains the reason.
func (s Set) Has(r Reason) bool {
	_, ok := s[r]
	return ok
}

// Union returns a new set containing the reasons of both sets.
func (s Set) Union(other Set) Set {
	out := make(Set, len(s)+len(other))
	for r := range s {
		out[r] = struct{}{}
	}
	for r := range other {
		out[r] = struct{}{}
	}
	return out
}

// Score sums the keyword weights of every reason in the set.
func (s Set) Score() int {
	total := 0
	for r := range s {
		total += r.Weight()
	}
	return total
}

// Sorted returns the reasons in lexicographic order for stable serialization.
func (s Set) Sorted() []Reason {
	out := make([]Reason, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
