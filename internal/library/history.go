package library

import (
	"context"
	"fmt"
	"time"
)

// RecordPlay upserts the item into history (move-to-front, capped) and
// stamps it as played in the catalog, inserting it there first if new.
func (s *Store) RecordPlay(ctx context.Context, item Item) error {
	if item.Path == "" {
		return fmt.Errorf("record play: empty path")
	}
	if item.Name == "" {
		item.Name = DisplayName(item.Path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := timestamp(time.Now())
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO history (path, name, played_at, seq)
         VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM history))
         ON CONFLICT(path) DO UPDATE SET
             played_at = excluded.played_at,
             seq = excluded.seq`,
		item.Path, item.Name, now,
	); err != nil {
		return fmt.Errorf("upsert history %s: %w", item.Path, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM history WHERE seq NOT IN
             (SELECT seq FROM history ORDER BY seq DESC LIMIT ?)`,
		historyCap,
	); err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO catalog (path, name, added_at, played_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET played_at = excluded.played_at`,
		item.Path, item.Name, now, now,
	); err != nil {
		return fmt.Errorf("stamp catalog %s: %w", item.Path, err)
	}

	return tx.Commit()
}

// History lists the played items, most recent first.
func (s *Store) History(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, name, played_at FROM history ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item     Item
			playedAt string
		)
		if err := rows.Scan(&item.Path, &item.Name, &playedAt); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		t := parseTimestamp(playedAt)
		item.PlayedAt = &t
		items = append(items, item)
	}
	return items, rows.Err()
}

// RecordRecent upserts the item into the recent-files list shown by the
// shell (move-to-front, capped).
func (s *Store) RecordRecent(ctx context.Context, item Item) error {
	if item.Path == "" {
		return fmt.Errorf("record recent: empty path")
	}
	if item.Name == "" {
		item.Name = DisplayName(item.Path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recent tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recent_files (path, name, opened_at, seq)
         VALUES (?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM recent_files))
         ON CONFLICT(path) DO UPDATE SET
             opened_at = excluded.opened_at,
             seq = excluded.seq`,
		item.Path, item.Name, timestamp(time.Now()),
	); err != nil {
		return fmt.Errorf("upsert recent %s: %w", item.Path, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM recent_files WHERE seq NOT IN
             (SELECT seq FROM recent_files ORDER BY seq DESC LIMIT ?)`,
		recentFilesCap,
	); err != nil {
		return fmt.Errorf("trim recent files: %w", err)
	}

	return tx.Commit()
}

// RecentFiles lists recently opened items, most recent first.
func (s *Store) RecentFiles(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT path, name FROM recent_files ORDER BY seq DESC")
	if err != nil {
		return nil, fmt.Errorf("query recent files: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Path, &item.Name); err != nil {
			return nil, fmt.Errorf("scan recent item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
