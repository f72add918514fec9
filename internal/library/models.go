package library

import (
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Item is one known media file.
type Item struct {
	Path     string     `json:"path"`
	Name     string     `json:"name"`
	AddedAt  time.Time  `json:"added_at"`
	PlayedAt *time.Time `json:"played_at,omitempty"`
}

// Playlist is an ordered, path-unique sequence of items.
type Playlist struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Items     []Item    `json:"items"`
}

// SortOrder selects the catalog ordering.
type SortOrder string

const (
	SortByName      SortOrder = "name"
	SortByDateAdded SortOrder = "date_added"
)

// CatalogQuery narrows and orders a catalog listing. An empty Filter
// matches everything; matching is a case-insensitive substring test on
// the display name.
type CatalogQuery struct {
	Sort   SortOrder
	Filter string
}

var titleCaser = cases.Title(language.English)

// DisplayName derives a human-readable name from a media path: the base
// name without extension, separators replaced by spaces, title-cased.
func DisplayName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", ".", " ", "-", " ").Replace(base)
	base = strings.Join(strings.Fields(base), " ")
	if base == "" {
		return filepath.Base(path)
	}
	return titleCaser.String(base)
}

// NewItem builds an Item for a path with a derived display name.
func NewItem(path string) Item {
	return Item{Path: path, Name: DisplayName(path)}
}
