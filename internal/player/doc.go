// Package player owns the transport state for the active media item:
// position, rate, volume, loop window, and bookmarks. Commands are
// idempotent and clamp rather than error on out-of-range input. The
// shell drives the clock by reporting elapsed wall time through Advance;
// loop enforcement and throttled position persistence ride on that tick.
package player
