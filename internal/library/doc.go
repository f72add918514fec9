// Package library persists the media collections: catalog, history,
// favorites, watch-later, recent files, playlists, and the per-item
// playback position and bookmark state. Every mutating operation writes
// through to SQLite before returning. The store is the single writer for
// all of these keys.
package library
