package chunk

import (
	"encoding/binary"
	"math"

	domchunk "github.com/keepmark/keepmark/internal/domain/chunk"
)

// buildHashFields converts a domain Chunk into a flat map[string]string for HSET.
func buildHashFields(c *domchunk.Chunk) map[string]string {
	return map[string]string{
		"bookmark_id": c.BookmarkID(),
		"content":     c.Content(),
		"embedding":   vectorToBytes(c.Embedding()),
	}
}

// parseHashFields converts a flat hash map back into a domain Chunk.
func parseHashFields(id string, m map[string]string) domchunk.Chunk {
	return domchunk.Reconstruct(id, m["bookmark_id"], m["content"], bytesToVector(m["embedding"]))
}

// vectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// bytesToVector deserializes a binary string back to []float32.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
