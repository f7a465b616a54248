package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Hybrid combines keyword and semantic search via rank fusion.
	Hybrid   Mode = "hybrid"
	Keyword  Mode = "keyword"
	Semantic Mode = "semantic"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Keyword || m == Semantic
}

// Parse maps a raw mode string to a Mode.
// Unrecognized or empty input folds to the fallback rather than erroring,
// so stale clients sending unknown modes still get results.
func Parse(raw string, fallback Mode) Mode {
	m := Mode(raw)
	if !m.IsValid() {
		return fallback
	}
	return m
}
