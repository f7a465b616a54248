package embcache

import (
	"context"

	"github.com/keepmark/keepmark/internal/db"
	"github.com/keepmark/keepmark/internal/domain"
)

// memStore is an in-memory key-value store for tests.
type memStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

// countingEmbedder counts inner calls.
type countingEmbedder struct {
	calls  int
	vector []float32
	err    error
}

func (e *countingEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	e.calls++
	if e.err != nil {
		return domain.EmbeddingResult{}, e.err
	}
	return domain.EmbeddingResult{Embedding: e.vector, TotalTokens: 7}, nil
}

// countingBatchEmbedder adds a native batch call.
type countingBatchEmbedder struct {
	countingEmbedder
	batchCalls int
}

func (e *countingBatchEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	e.batchCalls++
	if e.err != nil {
		return domain.BatchEmbeddingResult{}, e.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vector
	}
	return domain.BatchEmbeddingResult{Embeddings: out, TotalTokens: 7 * len(texts)}, nil
}
