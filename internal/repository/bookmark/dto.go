package bookmark

import (
	"strconv"
	"strings"
	"time"

	dombm "github.com/keepmark/keepmark/internal/domain/bookmark"
)

// tagSeparator joins tag names into a single hash field. The unit separator
// never appears in user-entered tag names.
const tagSeparator = "\x1f"

// buildHashFields converts a domain Bookmark into a flat map[string]string for HSET.
func buildHashFields(b *dombm.Bookmark) map[string]string {
	return map[string]string{
		"user_id":     b.UserID(),
		"type":        b.Kind(),
		"title":       b.Title(),
		"description": b.Description(),
		"content":     b.Content(),
		"url":         b.URL(),
		"platform":    b.Platform(),
		"folder_id":   b.FolderID(),
		"tags":        strings.Join(b.Tags(), tagSeparator),
		"is_favorite": strconv.FormatBool(b.IsFavorite()),
		"is_archived": strconv.FormatBool(b.IsArchived()),
		"created_at":  b.CreatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// parseHashFields converts a flat hash map back into a domain Bookmark.
func parseHashFields(id string, m map[string]string) dombm.Bookmark {
	var tags []string
	if raw := m["tags"]; raw != "" {
		tags = strings.Split(raw, tagSeparator)
	}

	isFavorite, _ := strconv.ParseBool(m["is_favorite"])
	isArchived, _ := strconv.ParseBool(m["is_archived"])
	createdAt, _ := time.Parse(time.RFC3339Nano, m["created_at"])

	return dombm.Reconstruct(
		id, m["user_id"], m["type"], m["title"], m["description"],
		m["content"], m["url"], m["platform"], m["folder_id"],
		tags, isFavorite, isArchived, createdAt,
	)
}
