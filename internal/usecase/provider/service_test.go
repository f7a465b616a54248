package provider

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/keepmark/keepmark/internal/domain"
	"github.com/keepmark/keepmark/internal/repository/embcache"
)

// --- Mocks ---

type mockSelectionStore struct {
	sel     domain.ProviderSelection
	ok      bool
	getErr  error
	stored  map[string]domain.ProviderSelection
	setErr  error
	deleted []string
	delErr  error
}

func (m *mockSelectionStore) Get(_ context.Context, _ string) (domain.ProviderSelection, bool, error) {
	return m.sel, m.ok, m.getErr
}

func (m *mockSelectionStore) Set(_ context.Context, userID string, sel domain.ProviderSelection) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.stored == nil {
		m.stored = make(map[string]domain.ProviderSelection)
	}
	m.stored[userID] = sel
	return nil
}

func (m *mockSelectionStore) Delete(_ context.Context, userID string) error {
	if m.delErr != nil {
		return m.delErr
	}
	m.deleted = append(m.deleted, userID)
	return nil
}

type mockCache struct{}

func (m *mockCache) Get(_ context.Context, _ string) ([]byte, error) { return nil, errors.New("miss") }
func (m *mockCache) Set(_ context.Context, _ string, _ []byte) error { return nil }

var testCredentials = map[string]Credentials{
	"openai": {APIKey: "sk-test"},
	"ollama": {APIKey: "ollama", BaseURL: "http://127.0.0.1:11434/v1"},
}

// --- Tests ---

func TestResolve_NoSelection(t *testing.T) {
	svc := New(&mockSelectionStore{ok: false}, testCredentials, nil, zap.NewNop())

	emb, ok, err := svc.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok || emb != nil {
		t.Errorf("Resolve = (%v, %v), want (nil, false)", emb, ok)
	}
}

func TestResolve_WithCacheWrapsEmbedder(t *testing.T) {
	store := &mockSelectionStore{
		sel: domain.ProviderSelection{Provider: "openai", Model: "text-embedding-3-small"},
		ok:  true,
	}
	svc := New(store, testCredentials, &mockCache{}, zap.NewNop())

	emb, ok, err := svc.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("ok = false")
	}
	if _, isCached := emb.(*embcache.CachedEmbedder); !isCached {
		t.Errorf("embedder type = %T, want *embcache.CachedEmbedder", emb)
	}
}

func TestResolve_WithoutCache(t *testing.T) {
	store := &mockSelectionStore{
		sel: domain.ProviderSelection{Provider: "ollama", Model: "nomic-embed-text"},
		ok:  true,
	}
	svc := New(store, testCredentials, nil, zap.NewNop())

	emb, ok, err := svc.Resolve(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok || emb == nil {
		t.Fatalf("Resolve = (%v, %v)", emb, ok)
	}
	if _, isCached := emb.(*embcache.CachedEmbedder); isCached {
		t.Error("embedder cached despite nil cache store")
	}
}

func TestResolve_SelectionWithoutCredentials(t *testing.T) {
	store := &mockSelectionStore{
		sel: domain.ProviderSelection{Provider: "mystery", Model: "m"},
		ok:  true,
	}
	svc := New(store, testCredentials, nil, zap.NewNop())

	_, _, err := svc.Resolve(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrProviderNotConfigured) {
		t.Errorf("err = %v, want ErrProviderNotConfigured", err)
	}
}

func TestResolve_StoreErrorPropagates(t *testing.T) {
	wantErr := errors.New("store down")
	svc := New(&mockSelectionStore{getErr: wantErr}, testCredentials, nil, zap.NewNop())

	_, _, err := svc.Resolve(context.Background(), "user-1")
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}

func TestSelect_Valid(t *testing.T) {
	store := &mockSelectionStore{}
	svc := New(store, testCredentials, nil, zap.NewNop())

	sel := domain.ProviderSelection{Provider: "openai", Model: "text-embedding-3-small", Dimensions: 512}
	if err := svc.Select(context.Background(), "user-1", sel); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.stored["user-1"] != sel {
		t.Errorf("stored = %+v, want %+v", store.stored["user-1"], sel)
	}
}

func TestSelect_Invalid(t *testing.T) {
	svc := New(&mockSelectionStore{}, testCredentials, nil, zap.NewNop())

	cases := []struct {
		name string
		sel  domain.ProviderSelection
	}{
		{"missing provider", domain.ProviderSelection{Model: "m"}},
		{"missing model", domain.ProviderSelection{Provider: "openai"}},
		{"unknown provider", domain.ProviderSelection{Provider: "mystery", Model: "m"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := svc.Select(context.Background(), "user-1", c.sel)
			if !errors.Is(err, domain.ErrInvalidRequest) {
				t.Errorf("err = %v, want ErrInvalidRequest", err)
			}
		})
	}
}

func TestClear(t *testing.T) {
	store := &mockSelectionStore{}
	svc := New(store, testCredentials, nil, zap.NewNop())

	if err := svc.Clear(context.Background(), "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "user-1" {
		t.Errorf("deleted = %v", store.deleted)
	}
}
