package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/search/reason"
)

func TestKeywordSearch_FieldWeights(t *testing.T) {
	// "rust" appears in A's title (weight 5) and in B's tag (weight 4).
	a := bookmark.Reconstruct("bm-a", "user-1", "article", "Learning Rust", "", "", "", "", "",
		nil, false, false, time.Now())
	b := bookmark.Reconstruct("bm-b", "user-1", "article", "Systems languages", "", "", "", "", "",
		[]string{"rust", "c"}, false, false, time.Now())

	svc := New(&mockBookmarkReader{books: []bookmark.Bookmark{a, b}}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "rust", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("got %d hits, want 2", len(hits))
	}
	if hits[0].BookmarkID() != "bm-a" || hits[0].Score() != 5 {
		t.Errorf("hits[0] = (%q, %v), want (bm-a, 5)", hits[0].BookmarkID(), hits[0].Score())
	}
	if hits[1].BookmarkID() != "bm-b" || hits[1].Score() != 4 {
		t.Errorf("hits[1] = (%q, %v), want (bm-b, 4)", hits[1].BookmarkID(), hits[1].Score())
	}
}

func TestKeywordSearch_CaseInsensitive(t *testing.T) {
	b := bookmark.Reconstruct("bm-1", "user-1", "article", "PostgreSQL Tips", "", "", "", "", "",
		nil, false, false, time.Now())

	svc := New(&mockBookmarkReader{books: []bookmark.Bookmark{b}}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "POSTGRES", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("got %d hits, want 1", len(hits))
	}
	if !hits[0].Reasons().Has(reason.Title) {
		t.Error("missing title reason")
	}
}

func TestKeywordSearch_SummedWeights(t *testing.T) {
	// Query in title (5), description (3), and url (1) => 9.
	b := bookmark.Reconstruct("bm-1", "user-1", "article",
		"The redis handbook", "all about redis", "", "https://redis.io/docs", "", "",
		nil, false, false, time.Now())

	svc := New(&mockBookmarkReader{books: []bookmark.Bookmark{b}}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "redis", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits[0].Score() != 9 {
		t.Errorf("score = %v, want 9", hits[0].Score())
	}
	rs := hits[0].Reasons()
	for _, r := range []reason.Reason{reason.Title, reason.Description, reason.URL} {
		if !rs.Has(r) {
			t.Errorf("missing reason %q", r)
		}
	}
}

func TestKeywordSearch_MultipleTagsCountOnce(t *testing.T) {
	b := bookmark.Reconstruct("bm-1", "user-1", "article", "irrelevant", "", "", "", "", "",
		[]string{"golang", "go-tools", "going"}, false, false, time.Now())

	svc := New(&mockBookmarkReader{books: []bookmark.Bookmark{b}}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "go", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits[0].Score() != 4 {
		t.Errorf("score = %v, want 4 (tag weight once)", hits[0].Score())
	}
}

func TestKeywordSearch_ExcludesNonMatching(t *testing.T) {
	b := bookmark.Reconstruct("bm-1", "user-1", "article", "unrelated", "", "", "", "", "",
		nil, false, false, time.Now())

	svc := New(&mockBookmarkReader{books: []bookmark.Bookmark{b}}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "kubernetes", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("got %d hits, want 0", len(hits))
	}
}

func TestKeywordSearch_TieBreakNewestFirst(t *testing.T) {
	older := makeBookmark(t, "bm-old", "same title", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := makeBookmark(t, "bm-new", "same title", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	svc := New(&mockBookmarkReader{books: []bookmark.Bookmark{older, newer}}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "same", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits[0].BookmarkID() != "bm-new" {
		t.Errorf("hits[0] = %q, want bm-new", hits[0].BookmarkID())
	}
}

func TestKeywordSearch_CapsAtCandidateLimit(t *testing.T) {
	books := make([]bookmark.Bookmark, 60)
	for i := range books {
		books[i] = makeBookmark(t, fmt.Sprintf("bm-%02d", i), "match me", time.Now())
	}

	svc := New(&mockBookmarkReader{books: books}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "match", "keyword", 20, 0)

	hits, err := svc.keywordSearch(context.Background(), &req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != req.CandidateLimit() {
		t.Errorf("got %d hits, want %d", len(hits), req.CandidateLimit())
	}
}

func TestKeywordSearch_RepoError(t *testing.T) {
	wantErr := errors.New("store down")
	svc := New(&mockBookmarkReader{listErr: wantErr}, &mockChunkReader{}, &mockResolver{})
	req := makeRequest(t, "q", "keyword", 20, 0)

	_, err := svc.keywordSearch(context.Background(), &req)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapped %v", err, wantErr)
	}
}
