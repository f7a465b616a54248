// Package chunker splits bookmark content into retrievable passages.
package chunker

import (
	"regexp"
	"strings"
)

// splitRegex treats a run of sentence-ending punctuation as one delimiter.
// It covers both CJK and Latin sentence endings (。 . ! and newlines); existing
// corpora rely on both conventions, so neither may be dropped.
var splitRegex = regexp.MustCompile(`[。.!\n]+`)

// Split divides text into non-empty trimmed passages on sentence boundaries.
// Chunks never overlap; segmentation is purely syntactic.
func Split(text string) []string {
	segments := splitRegex.Split(strings.TrimSpace(text), -1)
	chunks := make([]string, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		chunks = append(chunks, seg)
	}
	return chunks
}
