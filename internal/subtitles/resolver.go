package subtitles

import "sync"

// Resolver selects the caption visible at a playback instant from the two
// competing sources. External content is parsed once and cached; setting
// either source replaces it wholesale.
type Resolver struct {
	mu       sync.RWMutex
	internal []Segment
	external []Segment
	hasExt   bool
}

// NewResolver returns an empty resolver with no sources loaded.
func NewResolver() *Resolver {
	return &Resolver{}
}

// SetInternal replaces the internal transcript segments.
func (r *Resolver) SetInternal(segments []Segment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.internal = append([]Segment(nil), segments...)
}

// SetExternal parses and caches external subtitle file content. Passing
// raw text installs the external source even if no block parses, so a
// wholly malformed file yields no captions rather than falling back to
// the internal transcript.
func (r *Resolver) SetExternal(raw string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.external = ParseSRT(raw)
	r.hasExt = true
}

// ClearExternal removes the external source, re-exposing the internal one.
func (r *Resolver) ClearExternal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.external = nil
	r.hasExt = false
}

// Reset drops both sources. Called when a new media item is loaded.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.internal = nil
	r.external = nil
	r.hasExt = false
}

// Internal returns a copy of the internal transcript segments.
func (r *Resolver) Internal() []Segment {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Segment(nil), r.internal...)
}

// ExternalCount reports how many external segments parsed.
func (r *Resolver) ExternalCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.external)
}

// Resolve returns the active caption at currentTime+offset, or nil when no
// source is loaded or no segment covers the effective time. The first
// matching segment in source order wins; sources are assumed
// non-overlapping so at most one segment is ever active.
func (r *Resolver) Resolve(currentTime, offset float64) *Segment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	source := r.internal
	if r.hasExt {
		source = r.external
	}
	effective := currentTime + offset
	for i := range source {
		if source[i].ActiveAt(effective) {
			seg := source[i]
			return &seg
		}
	}
	return nil
}
