package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmptyPlaylistName rejects playlist creation with a blank name.
var ErrEmptyPlaylistName = errors.New("playlist name must not be empty")

// ErrPlaylistNotFound reports an unknown playlist id.
var ErrPlaylistNotFound = errors.New("playlist not found")

// CreatePlaylist creates an empty playlist. The name is trimmed and must
// be non-empty.
func (s *Store) CreatePlaylist(ctx context.Context, name string) (*Playlist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyPlaylistName
	}

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO playlists (name, created_at) VALUES (?, ?)",
		name, timestamp(now))
	if err != nil {
		return nil, fmt.Errorf("insert playlist: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("playlist insert id: %w", err)
	}
	return &Playlist{ID: id, Name: name, CreatedAt: now.UTC()}, nil
}

// DeletePlaylist removes a playlist and its items.
func (s *Store) DeletePlaylist(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete playlist %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete playlist rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// AddToPlaylist appends the item. Adding a path already in the playlist
// is a no-op, not an error.
func (s *Store) AddToPlaylist(ctx context.Context, id int64, item Item) error {
	if item.Path == "" {
		return fmt.Errorf("add to playlist: empty path")
	}
	if item.Name == "" {
		item.Name = DisplayName(item.Path)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin playlist tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM playlists WHERE id = ?", id).Scan(&exists); err != nil {
		return fmt.Errorf("check playlist %d: %w", id, err)
	}
	if exists == 0 {
		return ErrPlaylistNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO playlist_items (playlist_id, position, path, name)
         VALUES (?, (SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_items WHERE playlist_id = ?), ?, ?)
         ON CONFLICT(playlist_id, path) DO NOTHING`,
		id, id, item.Path, item.Name,
	); err != nil {
		return fmt.Errorf("insert playlist item %s: %w", item.Path, err)
	}
	return tx.Commit()
}

// RemoveFromPlaylist removes one item by path. Unknown paths are a no-op.
func (s *Store) RemoveFromPlaylist(ctx context.Context, id int64, path string) error {
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM playlist_items WHERE playlist_id = ? AND path = ?", id, path); err != nil {
		return fmt.Errorf("remove playlist item %s: %w", path, err)
	}
	return nil
}

// Playlist loads one playlist with its items in sequence order.
func (s *Store) Playlist(ctx context.Context, id int64) (*Playlist, error) {
	var (
		pl        Playlist
		createdAt string
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM playlists WHERE id = ?", id,
	).Scan(&pl.ID, &pl.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query playlist %d: %w", id, err)
	}
	pl.CreatedAt = parseTimestamp(createdAt)

	rows, err := s.db.QueryContext(ctx,
		"SELECT path, name FROM playlist_items WHERE playlist_id = ? ORDER BY position ASC", id)
	if err != nil {
		return nil, fmt.Errorf("query playlist items %d: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.Path, &item.Name); err != nil {
			return nil, fmt.Errorf("scan playlist item: %w", err)
		}
		pl.Items = append(pl.Items, item)
	}
	return &pl, rows.Err()
}

// Playlists lists every playlist with its items, oldest playlist first.
func (s *Store) Playlists(ctx context.Context) ([]Playlist, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id FROM playlists ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("query playlists: %w", err)
	}
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan playlist id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	playlists := make([]Playlist, 0, len(ids))
	for _, id := range ids {
		pl, err := s.Playlist(ctx, id)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *pl)
	}
	return playlists, nil
}
