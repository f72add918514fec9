package library

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// AddToCatalog inserts items not yet present. Existing paths keep their
// original name and added-at time.
func (s *Store) AddToCatalog(ctx context.Context, items ...Item) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())
	for _, item := range items {
		if item.Path == "" {
			continue
		}
		name := item.Name
		if name == "" {
			name = DisplayName(item.Path)
		}
		addedAt := now
		if !item.AddedAt.IsZero() {
			addedAt = timestamp(item.AddedAt)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO catalog (path, name, added_at) VALUES (?, ?, ?)
             ON CONFLICT(path) DO NOTHING`,
			item.Path, name, addedAt,
		); err != nil {
			return fmt.Errorf("insert catalog item %s: %w", item.Path, err)
		}
	}
	return tx.Commit()
}

// RemoveFromCatalog deletes one item by path. Removing an unknown path is
// a no-op.
func (s *Store) RemoveFromCatalog(ctx context.Context, path string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM catalog WHERE path = ?", path); err != nil {
		return fmt.Errorf("remove catalog item %s: %w", path, err)
	}
	return nil
}

// Catalog lists the known items, filtered and ordered per the query.
func (s *Store) Catalog(ctx context.Context, query CatalogQuery) ([]Item, error) {
	order := "added_at ASC, path ASC"
	if query.Sort == SortByName {
		order = "name COLLATE NOCASE ASC, path ASC"
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, name, added_at, played_at FROM catalog ORDER BY "+order)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	defer rows.Close()

	needle := strings.ToLower(strings.TrimSpace(query.Filter))
	var items []Item
	for rows.Next() {
		var (
			item     Item
			addedAt  string
			playedAt sql.NullString
		)
		if err := rows.Scan(&item.Path, &item.Name, &addedAt, &playedAt); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		if needle != "" && !strings.Contains(strings.ToLower(item.Name), needle) {
			continue
		}
		item.AddedAt = parseTimestamp(addedAt)
		item.PlayedAt = nullableTimestamp(playedAt)
		items = append(items, item)
	}
	return items, rows.Err()
}
