package chunk

import (
	"context"
	"fmt"

	"github.com/keepmark/keepmark/internal/db"
	"github.com/keepmark/keepmark/internal/domain"
	domchunk "github.com/keepmark/keepmark/internal/domain/chunk"
)

// store is the consumer interface for chunks (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	DelMulti(ctx context.Context, keys []string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	Del(ctx context.Context, key string) error
}

// Repo persists embedding chunks as hashes plus a per-bookmark membership set.
type Repo struct {
	store store
}

// New creates a chunk repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func chunkKey(id string) string { return domain.KeyPrefix + "chunk:" + id }
func bookmarkSetKey(bookmarkID string) string {
	return domain.KeyPrefix + "bookmark:" + bookmarkID + ":chunks"
}

// Replace swaps a bookmark's chunk set for the given chunks (replace-on-update).
// Old chunks are removed first so a stale embedding never outlives its source.
func (r *Repo) Replace(ctx context.Context, bookmarkID string, chunks []domchunk.Chunk) error {
	if err := r.DeleteForBookmark(ctx, bookmarkID); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(chunks))
	ids := make([]string, len(chunks))
	for i := range chunks {
		items[i] = db.HashSetItem{Key: chunkKey(chunks[i].ID()), Fields: buildHashFields(&chunks[i])}
		ids[i] = chunks[i].ID()
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("save chunks for %s: %w", bookmarkID, err)
	}
	if err := r.store.SAdd(ctx, bookmarkSetKey(bookmarkID), ids...); err != nil {
		return fmt.Errorf("register chunks for %s: %w", bookmarkID, err)
	}
	return nil
}

// DeleteForBookmark removes every chunk owned by the bookmark.
func (r *Repo) DeleteForBookmark(ctx context.Context, bookmarkID string) error {
	ids, err := r.store.SMembers(ctx, bookmarkSetKey(bookmarkID))
	if err != nil {
		return fmt.Errorf("list chunk ids for %s: %w", bookmarkID, err)
	}
	if len(ids) > 0 {
		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = chunkKey(id)
		}
		if err := r.store.DelMulti(ctx, keys); err != nil {
			return fmt.Errorf("delete chunks for %s: %w", bookmarkID, err)
		}
	}
	if err := r.store.Del(ctx, bookmarkSetKey(bookmarkID)); err != nil {
		return fmt.Errorf("delete chunk set for %s: %w", bookmarkID, err)
	}
	return nil
}

// ListByBookmarks returns every chunk owned by the given bookmarks.
// Bookmarks with no chunks contribute nothing; that is a valid state.
func (r *Repo) ListByBookmarks(
	ctx context.Context, bookmarkIDs []string,
) ([]domchunk.Chunk, error) {
	var ids []string
	for _, bid := range bookmarkIDs {
		members, err := r.store.SMembers(ctx, bookmarkSetKey(bid))
		if err != nil {
			return nil, fmt.Errorf("list chunk ids for %s: %w", bid, err)
		}
		ids = append(ids, members...)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = chunkKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}

	out := make([]domchunk.Chunk, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		out = append(out, parseHashFields(ids[i], m))
	}
	return out, nil
}
