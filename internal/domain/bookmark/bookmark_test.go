package bookmark

import (
	"strings"
	"testing"
	"time"
)

func TestNew_Valid(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	b, err := New(
		"bm-1", "user-1", "article", "Go Generics", "a primer", "body text",
		"https://example.com/post", "web", "folder-1",
		[]string{"go", "generics"}, true, false, created,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.ID() != "bm-1" || b.UserID() != "user-1" {
		t.Errorf("identity = (%q, %q)", b.ID(), b.UserID())
	}
	if b.Kind() != "article" || b.Title() != "Go Generics" {
		t.Errorf("kind/title = (%q, %q)", b.Kind(), b.Title())
	}
	if !b.IsFavorite() || b.IsArchived() {
		t.Errorf("flags = (%v, %v)", b.IsFavorite(), b.IsArchived())
	}
	if !b.CreatedAt().Equal(created) {
		t.Errorf("CreatedAt() = %v", b.CreatedAt())
	}
	if len(b.Tags()) != 2 {
		t.Errorf("Tags() = %v", b.Tags())
	}
}

func TestNew_RequiredFields(t *testing.T) {
	cases := []struct {
		name              string
		id, userID, title string
	}{
		{"missing id", "", "user-1", "title"},
		{"missing user", "bm-1", "", "title"},
		{"missing title", "bm-1", "user-1", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := New(c.id, c.userID, "article", c.title, "", "", "", "", "",
				nil, false, false, time.Time{})
			if err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNew_TitleTooLong(t *testing.T) {
	_, err := New("bm-1", "user-1", "article", strings.Repeat("x", MaxTitleLength+1),
		"", "", "", "", "", nil, false, false, time.Time{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNew_DefaultsCreatedAt(t *testing.T) {
	b, err := New("bm-1", "user-1", "article", "title", "", "", "", "", "",
		nil, false, false, time.Time{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.CreatedAt().IsZero() {
		t.Error("CreatedAt() is zero, want defaulted to now")
	}
}

func TestNewFolder_Valid(t *testing.T) {
	f, err := NewFolder("folder-1", "Reading List", "📚")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.ID() != "folder-1" || f.Name() != "Reading List" || f.Emoji() != "📚" {
		t.Errorf("folder = (%q, %q, %q)", f.ID(), f.Name(), f.Emoji())
	}
}

func TestNewFolder_RequiresIDAndName(t *testing.T) {
	if _, err := NewFolder("", "name", ""); err == nil {
		t.Error("expected error for missing id")
	}
	if _, err := NewFolder("folder-1", "", ""); err == nil {
		t.Error("expected error for missing name")
	}
}
