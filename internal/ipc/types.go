package ipc

import (
	"neuralplay/internal/analysis"
	"neuralplay/internal/daemon"
	"neuralplay/internal/library"
	"neuralplay/internal/player"
	"neuralplay/internal/services/backend"
)

// StatusRequest fetches daemon status.
type StatusRequest struct{}

// AnalysisStatus summarizes the stream consumer for one media item.
type AnalysisStatus struct {
	State        analysis.State `json:"state"`
	Detail       string         `json:"detail,omitempty"`
	SceneCount   int            `json:"scene_count"`
	ObjectCount  int            `json:"object_count"`
	EmotionCount int            `json:"emotion_count"`
}

// StatusResponse represents combined daemon status information.
type StatusResponse struct {
	Running       bool               `json:"running"`
	PID           int                `json:"pid"`
	LockPath      string             `json:"lock_path"`
	LibraryDBPath string             `json:"library_db_path"`
	Player        player.Snapshot    `json:"player"`
	Analysis      AnalysisStatus     `json:"analysis"`
	Queue         daemon.QueueStatus `json:"queue"`
}

// LoadRequest loads a media file as the active item.
type LoadRequest struct {
	Path string `json:"path"`
}

// LoadResponse reports the post-load transport state.
type LoadResponse struct {
	Player player.Snapshot `json:"player"`
}

// CommandRequest dispatches one named command through the router.
type CommandRequest struct {
	Command string `json:"command"`
	Origin  string `json:"origin"`
}

// CommandResponse is the empty acknowledgement for a dispatch.
type CommandResponse struct{}

// KeyRequest dispatches one keyboard shortcut.
type KeyRequest struct {
	Key string `json:"key"`
}

// SeekRequest moves to an absolute position.
type SeekRequest struct {
	Seconds float64 `json:"seconds"`
}

// SkipRequest moves by a relative number of seconds.
type SkipRequest struct {
	Delta float64 `json:"delta"`
}

// RateRequest selects a playback rate from the speed ladder.
type RateRequest struct {
	Rate float64 `json:"rate"`
}

// VolumeRequest sets the volume in [0, 1].
type VolumeRequest struct {
	Volume float64 `json:"volume"`
}

// DurationRequest reports the media duration learned by the shell.
type DurationRequest struct {
	Seconds float64 `json:"seconds"`
}

// PlayerResponse returns the transport state after a command.
type PlayerResponse struct {
	Player player.Snapshot `json:"player"`
}

// ClipRequest exports the armed loop window.
type ClipRequest struct{}

// ClipResponse reports the clip request state.
type ClipResponse struct {
	Result player.ClipResult `json:"result"`
}

// ChaptersRequest lists derived chapters.
type ChaptersRequest struct{}

// ChaptersResponse carries the chapter list.
type ChaptersResponse struct {
	Chapters []analysis.Chapter `json:"chapters"`
}

// HighlightsRequest lists the longest scenes.
type HighlightsRequest struct {
	Count int `json:"count"`
}

// HighlightsResponse carries the highlight scenes, longest first.
type HighlightsResponse struct {
	Scenes []analysis.SceneEvent `json:"scenes"`
}

// LabelsRequest lists detections for one labeled category.
type LabelsRequest struct {
	// Category is "objects" or "emotions".
	Category string `json:"category"`
}

// LabelsResponse carries one hit per observation, ordered by label and
// then by time.
type LabelsResponse struct {
	Hits []analysis.LabelHit `json:"hits"`
}

// SkipShortcutRequest seeks to a derived chapter target.
type SkipShortcutRequest struct {
	// Target is "intro" or "near_end".
	Target string `json:"target"`
}

// SkipShortcutResponse reports the position that was seeked to.
type SkipShortcutResponse struct {
	Position float64 `json:"position"`
}

// CaptionRequest resolves the active caption at the current position.
type CaptionRequest struct {
	Offset float64 `json:"offset"`
}

// CaptionResponse carries the active caption, if any.
type CaptionResponse struct {
	Active bool    `json:"active"`
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Text   string  `json:"text"`
}

// SubtitlesRequest installs an external subtitle file.
type SubtitlesRequest struct {
	Path string `json:"path"`
	// Clear removes the external source instead of loading one.
	Clear bool `json:"clear"`
}

// SubtitlesResponse reports the external segment count.
type SubtitlesResponse struct {
	Segments int `json:"segments"`
}

// ExportTranscriptRequest writes the transcript to disk.
type ExportTranscriptRequest struct {
	Format string `json:"format"`
}

// ExportTranscriptResponse carries the written file path.
type ExportTranscriptResponse struct {
	Path string `json:"path"`
}

// SearchRequest queries the stored transcript.
type SearchRequest struct {
	Query string `json:"query"`
}

// SearchResponse carries the ordered matches.
type SearchResponse struct {
	Matches []backend.SearchMatch `json:"matches"`
}

// AskRequest poses a question about the active media item.
type AskRequest struct {
	Query string `json:"query"`
	// Summarize asks the canned summary question instead of Query.
	Summarize bool `json:"summarize"`
}

// AskResponse carries the backend's answer.
type AskResponse struct {
	Answer string `json:"answer"`
}

// CatalogRequest lists the catalog.
type CatalogRequest struct {
	Sort   string `json:"sort"`
	Filter string `json:"filter"`
}

// ItemsResponse carries a collection listing.
type ItemsResponse struct {
	Items []library.Item `json:"items"`
}

// CollectionRequest names one persisted collection: history, favorites,
// watch_later, or recent.
type CollectionRequest struct {
	Collection string `json:"collection"`
}

// ToggleRequest flips membership of a path in favorites or watch_later.
type ToggleRequest struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
}

// ToggleResponse reports membership after the call.
type ToggleResponse struct {
	Present bool `json:"present"`
}

// RemoveRequest removes a path from the catalog.
type RemoveRequest struct {
	Path string `json:"path"`
}

// RemoveResponse is the empty acknowledgement for a removal.
type RemoveResponse struct{}

// ScanRequest discovers video files under a directory.
type ScanRequest struct {
	Root string `json:"root"`
}

// ScanResponse carries the discovered paths.
type ScanResponse struct {
	Paths []string `json:"paths"`
}

// PlaylistCreateRequest creates an empty playlist.
type PlaylistCreateRequest struct {
	Name string `json:"name"`
}

// PlaylistCreateResponse carries the new playlist.
type PlaylistCreateResponse struct {
	Playlist library.Playlist `json:"playlist"`
}

// PlaylistEditRequest adds or removes one item.
type PlaylistEditRequest struct {
	ID     int64  `json:"id"`
	Path   string `json:"path"`
	Remove bool   `json:"remove"`
}

// PlaylistEditResponse is the empty acknowledgement for an edit.
type PlaylistEditResponse struct{}

// PlaylistListRequest lists every playlist.
type PlaylistListRequest struct{}

// PlaylistListResponse carries the playlists with their items.
type PlaylistListResponse struct {
	Playlists []library.Playlist `json:"playlists"`
}

// PlaylistPlayRequest starts a queue over a playlist.
type PlaylistPlayRequest struct {
	ID         int64 `json:"id"`
	StartIndex int   `json:"start_index"`
}

// QueueRequest navigates or reconfigures the active queue.
type QueueRequest struct {
	// Action is one of next, previous, shuffle, repeat, clear, status.
	Action  string `json:"action"`
	Shuffle bool   `json:"shuffle"`
	Repeat  string `json:"repeat"`
}

// QueueResponse reports the queue state after the action.
type QueueResponse struct {
	Queue daemon.QueueStatus `json:"queue"`
}

// VoiceRequest toggles the voice listener.
type VoiceRequest struct {
	Enabled bool `json:"enabled"`
}

// VoiceResponse is the empty acknowledgement for a voice toggle.
type VoiceResponse struct{}

// ShellEventsRequest drains pending UI events for the shell.
type ShellEventsRequest struct{}

// ShellEventsResponse carries the drained events in arrival order.
type ShellEventsResponse struct {
	Events []string `json:"events"`
}

// TestNotificationRequest triggers a notification test.
type TestNotificationRequest struct{}

// TestNotificationResponse reports notification test outcome.
type TestNotificationResponse struct {
	Sent bool `json:"sent"`
}

// FeatureRequest flips one analysis category toggle. Disabling drops
// future events; re-enabling does not backfill ones already dropped.
type FeatureRequest struct {
	Category string `json:"category"`
	Enabled  bool   `json:"enabled"`
}

// FeatureResponse reports the toggle after the call.
type FeatureResponse struct {
	Enabled bool `json:"enabled"`
}

// LogTailRequest reads daemon log lines. A negative offset returns the
// last Limit lines; otherwise lines appended past Offset are returned.
type LogTailRequest struct {
	Offset int64 `json:"offset"`
	Limit  int   `json:"limit"`
}

// LogTailResponse carries log lines and the offset to resume from.
type LogTailResponse struct {
	Lines  []string `json:"lines"`
	Offset int64    `json:"offset"`
}

// ShutdownRequest asks the daemon process to exit.
type ShutdownRequest struct{}

// ShutdownResponse acknowledges the shutdown.
type ShutdownResponse struct {
	Stopping bool `json:"stopping"`
}
