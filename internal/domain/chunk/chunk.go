package chunk

import "fmt"

// Chunk is one retrievable passage of a bookmark's content, embedded independently.
// A bookmark may own zero chunks; such a bookmark simply cannot be found semantically.
type Chunk struct {
	id         string
	bookmarkID string
	content    string
	embedding  []float32
}

// New validates and creates a Chunk.
func New(id, bookmarkID, content string, embedding []float32) (Chunk, error) {
	if id == "" {
		return Chunk{}, fmt.Errorf("chunk ID is required")
	}
	if bookmarkID == "" {
		return Chunk{}, fmt.Errorf("bookmark ID is required")
	}
	if content == "" {
		return Chunk{}, fmt.Errorf("content is required")
	}
	if len(embedding) == 0 {
		return Chunk{}, fmt.Errorf("embedding is required")
	}
	return Reconstruct(id, bookmarkID, content, embedding), nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(id, bookmarkID, content string, embedding []float32) Chunk {
	return Chunk{id: id, bookmarkID: bookmarkID, content: content, embedding: embedding}
}

// ID returns the chunk identifier.
func (c *Chunk) ID() string { return c.id }

// BookmarkID returns the owning bookmark's identifier.
func (c *Chunk) BookmarkID() string { return c.bookmarkID }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// Embedding returns the chunk's embedding vector.
func (c *Chunk) Embedding() []float32 { return c.embedding }
