package bookmark

import (
	"context"
	"fmt"

	"github.com/keepmark/keepmark/internal/domain"
	dombm "github.com/keepmark/keepmark/internal/domain/bookmark"
	"github.com/keepmark/keepmark/internal/domain/search/filter"
)

// store is the consumer interface for bookmarks (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
}

// Repo persists bookmarks and folders as hashes plus a per-user membership set.
type Repo struct {
	store store
}

// New creates a bookmark repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

func bookmarkKey(id string) string { return domain.KeyPrefix + "bookmark:" + id }
func folderKey(id string) string   { return domain.KeyPrefix + "folder:" + id }
func userSetKey(userID string) string {
	return domain.KeyPrefix + "user:" + userID + ":bookmarks"
}

// Save upserts a bookmark and registers it in the owner's membership set.
func (r *Repo) Save(ctx context.Context, b *dombm.Bookmark) error {
	if err := r.store.HSet(ctx, bookmarkKey(b.ID()), buildHashFields(b)); err != nil {
		return fmt.Errorf("save bookmark %s: %w", b.ID(), err)
	}
	if err := r.store.SAdd(ctx, userSetKey(b.UserID()), b.ID()); err != nil {
		return fmt.Errorf("register bookmark %s: %w", b.ID(), err)
	}
	return nil
}

// Get returns one bookmark, enforcing ownership.
func (r *Repo) Get(ctx context.Context, userID, id string) (dombm.Bookmark, error) {
	m, err := r.store.HGetAll(ctx, bookmarkKey(id))
	if err != nil {
		return dombm.Bookmark{}, fmt.Errorf("get bookmark %s: %w", id, err)
	}
	if len(m) == 0 || m["user_id"] != userID {
		return dombm.Bookmark{}, domain.ErrBookmarkNotFound
	}
	return parseHashFields(id, m), nil
}

// Delete removes a bookmark row and its membership entry.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, bookmarkKey(id)); err != nil {
		return fmt.Errorf("delete bookmark %s: %w", id, err)
	}
	if err := r.store.SRem(ctx, userSetKey(userID), id); err != nil {
		return fmt.Errorf("unregister bookmark %s: %w", id, err)
	}
	return nil
}

// ListForSearch returns the user's bookmarks passing the filter conjunction
// (ownership, not-archived, plus any folder/type/platform condition). The
// corpus is one user's personal bookmarks, so an exhaustive pipelined read
// is the intended design point.
func (r *Repo) ListForSearch(
	ctx context.Context, userID string, f filter.Filter,
) ([]dombm.Bookmark, error) {
	ids, err := r.store.SMembers(ctx, userSetKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list bookmark ids: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bookmarkKey(id)
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}

	out := make([]dombm.Bookmark, 0, len(rows))
	for i, m := range rows {
		if len(m) == 0 || m["user_id"] != userID {
			continue
		}
		b := parseHashFields(ids[i], m)
		if !f.Matches(&b) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// GetDetails hydrates the given bookmark ids with their folder display fields.
// Ids that no longer resolve to a live, owned, non-archived row are silently
// skipped; the caller treats those as hydration gaps, not errors.
func (r *Repo) GetDetails(
	ctx context.Context, userID string, ids []string,
) (map[string]dombm.Details, error) {
	if len(ids) == 0 {
		return map[string]dombm.Details{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = bookmarkKey(id)
	}
	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hydrate bookmarks: %w", err)
	}

	found := make([]dombm.Bookmark, 0, len(rows))
	folderIDs := make(map[string]struct{})
	for i, m := range rows {
		if len(m) == 0 || m["user_id"] != userID {
			continue
		}
		b := parseHashFields(ids[i], m)
		if b.IsArchived() {
			continue
		}
		found = append(found, b)
		if b.FolderID() != "" {
			folderIDs[b.FolderID()] = struct{}{}
		}
	}

	folders, err := r.loadFolders(ctx, folderIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]dombm.Details, len(found))
	for _, b := range found {
		d := dombm.Details{Bookmark: b}
		if f, ok := folders[b.FolderID()]; ok {
			d.FolderName = f.Name()
			d.FolderEmoji = f.Emoji()
		}
		out[b.ID()] = d
	}
	return out, nil
}

// SaveFolder upserts a folder row.
func (r *Repo) SaveFolder(ctx context.Context, f *dombm.Folder) error {
	fields := map[string]string{"name": f.Name(), "emoji": f.Emoji()}
	if err := r.store.HSet(ctx, folderKey(f.ID()), fields); err != nil {
		return fmt.Errorf("save folder %s: %w", f.ID(), err)
	}
	return nil
}

func (r *Repo) loadFolders(
	ctx context.Context, ids map[string]struct{},
) (map[string]dombm.Folder, error) {
	if len(ids) == 0 {
		return map[string]dombm.Folder{}, nil
	}

	ordered := make([]string, 0, len(ids))
	keys := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
		keys = append(keys, folderKey(id))
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}

	out := make(map[string]dombm.Folder, len(rows))
	for i, m := range rows {
		if len(m) == 0 {
			continue
		}
		out[ordered[i]] = dombm.ReconstructFolder(ordered[i], m["name"], m["emoji"])
	}
	return out, nil
}
