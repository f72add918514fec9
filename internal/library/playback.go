package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// The playback persistence surface carries no context parameter; it
// matches the player's PersistenceStore port.

// SavedPosition returns the persisted resume position for a media path.
func (s *Store) SavedPosition(path string) (float64, bool, error) {
	var position float64
	err := s.db.QueryRow(
		"SELECT position FROM playback_positions WHERE path = ?", path,
	).Scan(&position)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("query position %s: %w", path, err)
	}
	return position, true, nil
}

// SavePosition upserts the resume position for a media path.
func (s *Store) SavePosition(path string, position float64) error {
	if _, err := s.db.Exec(
		`INSERT INTO playback_positions (path, position, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(path) DO UPDATE SET
             position = excluded.position,
             updated_at = excluded.updated_at`,
		path, position, timestamp(time.Now()),
	); err != nil {
		return fmt.Errorf("save position %s: %w", path, err)
	}
	return nil
}

// SavedBookmarks returns the persisted bookmarks for a media path,
// ascending.
func (s *Store) SavedBookmarks(path string) ([]float64, error) {
	rows, err := s.db.Query(
		"SELECT seconds FROM bookmarks WHERE path = ? ORDER BY seconds ASC", path)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks %s: %w", path, err)
	}
	defer rows.Close()

	var marks []float64
	for rows.Next() {
		var seconds float64
		if err := rows.Scan(&seconds); err != nil {
			return nil, fmt.Errorf("scan bookmark: %w", err)
		}
		marks = append(marks, seconds)
	}
	return marks, rows.Err()
}

// SaveBookmarks replaces the bookmark set for a media path.
func (s *Store) SaveBookmarks(path string, marks []float64) error {
	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bookmarks tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM bookmarks WHERE path = ?", path); err != nil {
		return fmt.Errorf("clear bookmarks %s: %w", path, err)
	}
	for _, seconds := range marks {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO bookmarks (path, seconds) VALUES (?, ?)",
			path, seconds,
		); err != nil {
			return fmt.Errorf("insert bookmark %s: %w", path, err)
		}
	}
	return tx.Commit()
}
