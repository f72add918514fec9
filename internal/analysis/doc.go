// Package analysis ingests the backend's streaming detection results for
// the active media item.
//
// One stream session exists per loaded item. Events arrive as
// server-sent data frames, are classified by kind, and land in
// per-category append-only buffers that the UI reads as chapter markers
// and tag clouds. Category toggles gate ingestion at the stream boundary:
// events for a disabled category are dropped, not buffered, so enabling a
// category mid-stream never backfills past detections.
package analysis
