package filter

import "github.com/keepmark/keepmark/internal/domain/bookmark"

// Wildcard disables a filter dimension when passed as its value.
const Wildcard = "all"

// Filter is the conjunctive bookmark pre-condition applied before any text
// or vector matching. The zero value matches every non-archived bookmark.
type Filter struct {
	folderID string
	kind     string
	platform string
}

// New creates a Filter. The literal "all" is treated the same as empty.
func New(folderID, kind, platform string) Filter {
	if kind == Wildcard {
		kind = ""
	}
	if platform == Wildcard {
		platform = ""
	}
	return Filter{folderID: folderID, kind: kind, platform: platform}
}

// FolderID returns the folder condition (empty = any).
func (f Filter) FolderID() string { return f.folderID }

// Kind returns the bookmark type condition (empty = any).
func (f Filter) Kind() string { return f.kind }

// Platform returns the platform condition (empty = any).
func (f Filter) Platform() string { return f.platform }

// IsEmpty reports whether no optional condition is set.
func (f Filter) IsEmpty() bool {
	return f.folderID == "" && f.kind == "" && f.platform == ""
}

// Matches reports whether the bookmark passes the conjunction.
// Archived bookmarks never match regardless of the other conditions.
func (f Filter) Matches(b *bookmark.Bookmark) bool {
	if b.IsArchived() {
		return false
	}
	if f.folderID != "" && b.FolderID() != f.folderID {
		return false
	}
	if f.kind != "" && b.Kind() != f.kind {
		return false
	}
	if f.platform != "" && b.Platform() != f.platform {
		return false
	}
	return true
}
