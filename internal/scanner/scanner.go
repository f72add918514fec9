// Package scanner discovers video files under a directory tree.
package scanner

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"neuralplay/internal/logging"
)

// Scanner walks directories recursively for files matching a fixed
// extension set. Unreadable subdirectories are skipped, never fatal.
type Scanner struct {
	logger     *slog.Logger
	extensions map[string]struct{}
}

// New builds a scanner over the given extension set. Extensions are
// matched case-insensitively and must carry their leading dot.
func New(logger *slog.Logger, extensions []string) *Scanner {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return &Scanner{
		logger:     logging.NewComponentLogger(logger, "scanner"),
		extensions: set,
	}
}

// Scan returns the video files under root, sorted by path. Walk errors on
// individual entries are logged and skipped.
func (s *Scanner) Scan(root string) ([]string, error) {
	var found []string
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Warn("skipping unreadable entry", logging.String("path", path), logging.Error(err))
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if _, ok := s.extensions[strings.ToLower(filepath.Ext(path))]; ok {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}
