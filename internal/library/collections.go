package library

import (
	"context"
	"fmt"
	"time"
)

// ToggleFavorite adds the item to favorites, or removes it when already
// present. Returns true when the item is a favorite after the call.
func (s *Store) ToggleFavorite(ctx context.Context, item Item) (bool, error) {
	return s.toggleMembership(ctx, "favorites", item)
}

// Favorites lists the favorite items, oldest first.
func (s *Store) Favorites(ctx context.Context) ([]Item, error) {
	return s.listMembership(ctx, "favorites")
}

// ToggleWatchLater adds the item to the watch-later list, or removes it
// when already present. Returns true when present after the call.
func (s *Store) ToggleWatchLater(ctx context.Context, item Item) (bool, error) {
	return s.toggleMembership(ctx, "watch_later", item)
}

// WatchLater lists the watch-later items, oldest first.
func (s *Store) WatchLater(ctx context.Context) ([]Item, error) {
	return s.listMembership(ctx, "watch_later")
}

func (s *Store) toggleMembership(ctx context.Context, table string, item Item) (bool, error) {
	if item.Path == "" {
		return false, fmt.Errorf("toggle %s: empty path", table)
	}
	if item.Name == "" {
		item.Name = DisplayName(item.Path)
	}

	res, err := s.db.ExecContext(ctx,
		"DELETE FROM "+table+" WHERE path = ?", item.Path)
	if err != nil {
		return false, fmt.Errorf("toggle %s %s: %w", table, item.Path, err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("toggle %s rows affected: %w", table, err)
	}
	if removed > 0 {
		return false, nil
	}

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO "+table+" (path, name, added_at) VALUES (?, ?, ?)",
		item.Path, item.Name, timestamp(time.Now()),
	); err != nil {
		return false, fmt.Errorf("insert %s %s: %w", table, item.Path, err)
	}
	return true, nil
}

func (s *Store) listMembership(ctx context.Context, table string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, name, added_at FROM "+table+" ORDER BY added_at ASC, path ASC")
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item    Item
			addedAt string
		)
		if err := rows.Scan(&item.Path, &item.Name, &addedAt); err != nil {
			return nil, fmt.Errorf("scan %s item: %w", table, err)
		}
		item.AddedAt = parseTimestamp(addedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}
