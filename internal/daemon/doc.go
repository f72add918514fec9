// Package daemon wires the player core together: the playback
// controller, the analysis stream consumer, the subtitle resolver, the
// library store, and the command router. It enforces single-instance
// execution with a lock file and drives the playback clock.
package daemon
