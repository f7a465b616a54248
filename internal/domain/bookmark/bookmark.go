package bookmark

import (
	"fmt"
	"time"
)

// MaxTitleLength bounds bookmark titles.
const MaxTitleLength = 512

// Bookmark is a saved item owned by exactly one user (immutable value object).
// Archived bookmarks are invisible to every retrieval path.
type Bookmark struct {
	id          string
	userID      string
	kind        string
	title       string
	description string
	content     string
	url         string
	platform    string
	folderID    string
	tags        []string
	isFavorite  bool
	isArchived  bool
	createdAt   time.Time
}

// New validates and creates a Bookmark.
func New(
	id, userID, kind, title, description, content, url, platform, folderID string,
	tags []string, isFavorite, isArchived bool, createdAt time.Time,
) (Bookmark, error) {
	if id == "" {
		return Bookmark{}, fmt.Errorf("bookmark ID is required")
	}
	if userID == "" {
		return Bookmark{}, fmt.Errorf("user ID is required")
	}
	if title == "" {
		return Bookmark{}, fmt.Errorf("title is required")
	}
	if len(title) > MaxTitleLength {
		return Bookmark{}, fmt.Errorf("title too long (max %d)", MaxTitleLength)
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	return Reconstruct(
		id, userID, kind, title, description, content, url, platform, folderID,
		tags, isFavorite, isArchived, createdAt,
	), nil
}

// Reconstruct creates a Bookmark without validation (storage hydration).
func Reconstruct(
	id, userID, kind, title, description, content, url, platform, folderID string,
	tags []string, isFavorite, isArchived bool, createdAt time.Time,
) Bookmark {
	return Bookmark{
		id: id, userID: userID, kind: kind, title: title, description: description,
		content: content, url: url, platform: platform, folderID: folderID,
		tags: tags, isFavorite: isFavorite, isArchived: isArchived, createdAt: createdAt,
	}
}

// ID returns the bookmark identifier.
func (b *Bookmark) ID() string { return b.id }

// UserID returns the owning user's identifier.
func (b *Bookmark) UserID() string { return b.userID }

// Kind returns the bookmark type (article, video, note, ...).
func (b *Bookmark) Kind() string { return b.kind }

// Title returns the bookmark title.
func (b *Bookmark) Title() string { return b.title }

// Description returns the bookmark description (may be empty).
func (b *Bookmark) Description() string { return b.description }

// Content returns the full text content (may be empty).
func (b *Bookmark) Content() string { return b.content }

// URL returns the bookmark URL (may be empty).
func (b *Bookmark) URL() string { return b.url }

// Platform returns the source platform tag (may be empty).
func (b *Bookmark) Platform() string { return b.platform }

// FolderID returns the containing folder's identifier (empty when unfiled).
func (b *Bookmark) FolderID() string { return b.folderID }

// Tags returns the tag names attached to the bookmark.
func (b *Bookmark) Tags() []string { return b.tags }

// IsFavorite reports whether the bookmark is starred.
func (b *Bookmark) IsFavorite() bool { return b.isFavorite }

// IsArchived reports whether the bookmark is archived.
func (b *Bookmark) IsArchived() bool { return b.isArchived }

// CreatedAt returns the creation timestamp.
func (b *Bookmark) CreatedAt() time.Time { return b.createdAt }

// Details is a bookmark joined with its folder's display fields, as returned
// by the hydration lookup.
type Details struct {
	Bookmark
	FolderName  string
	FolderEmoji string
}

// Folder groups bookmarks for display; search denormalizes its name and emoji.
type Folder struct {
	id    string
	name  string
	emoji string
}

// NewFolder creates a Folder.
func NewFolder(id, name, emoji string) (Folder, error) {
	if id == "" {
		return Folder{}, fmt.Errorf("folder ID is required")
	}
	if name == "" {
		return Folder{}, fmt.Errorf("folder name is required")
	}
	return Folder{id: id, name: name, emoji: emoji}, nil
}

// ReconstructFolder creates a Folder without validation (storage hydration).
func ReconstructFolder(id, name, emoji string) Folder {
	return Folder{id: id, name: name, emoji: emoji}
}

// ID returns the folder identifier.
func (f *Folder) ID() string { return f.id }

// Name returns the folder name.
func (f *Folder) Name() string { return f.name }

// Emoji returns the folder emoji (may be empty).
func (f *Folder) Emoji() string { return f.emoji }
