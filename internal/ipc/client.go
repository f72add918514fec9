package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("NeuralPlay.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Load makes the file at path the active media item.
func (c *Client) Load(path string) (*LoadResponse, error) {
	var resp LoadResponse
	if err := c.client.Call("NeuralPlay.Load", LoadRequest{Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Command dispatches a named player command.
func (c *Client) Command(command, origin string) error {
	var resp CommandResponse
	return c.client.Call("NeuralPlay.Command", CommandRequest{Command: command, Origin: origin}, &resp)
}

// Key routes a keyboard shortcut through the daemon key map.
func (c *Client) Key(key string) error {
	var resp CommandResponse
	return c.client.Call("NeuralPlay.Key", KeyRequest{Key: key}, &resp)
}

// Seek moves playback to an absolute position.
func (c *Client) Seek(seconds float64) (*PlayerResponse, error) {
	var resp PlayerResponse
	if err := c.client.Call("NeuralPlay.Seek", SeekRequest{Seconds: seconds}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Skip moves playback relative to the current position.
func (c *Client) Skip(delta float64) (*PlayerResponse, error) {
	var resp PlayerResponse
	if err := c.client.Call("NeuralPlay.Skip", SkipRequest{Delta: delta}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetRate selects a playback speed.
func (c *Client) SetRate(rate float64) (*PlayerResponse, error) {
	var resp PlayerResponse
	if err := c.client.Call("NeuralPlay.SetRate", RateRequest{Rate: rate}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetVolume sets the playback volume.
func (c *Client) SetVolume(volume float64) (*PlayerResponse, error) {
	var resp PlayerResponse
	if err := c.client.Call("NeuralPlay.SetVolume", VolumeRequest{Volume: volume}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetDuration reports the media duration discovered by the shell.
func (c *Client) SetDuration(seconds float64) (*PlayerResponse, error) {
	var resp PlayerResponse
	if err := c.client.Call("NeuralPlay.SetDuration", DurationRequest{Seconds: seconds}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestClip exports the armed loop window.
func (c *Client) RequestClip() (*ClipResponse, error) {
	var resp ClipResponse
	if err := c.client.Call("NeuralPlay.RequestClip", ClipRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClipStatus reports the most recent clip request.
func (c *Client) ClipStatus() (*ClipResponse, error) {
	var resp ClipResponse
	if err := c.client.Call("NeuralPlay.ClipStatus", ClipRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Chapters lists chapters derived from scene analysis.
func (c *Client) Chapters() (*ChaptersResponse, error) {
	var resp ChaptersResponse
	if err := c.client.Call("NeuralPlay.Chapters", ChaptersRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Highlights lists the longest scenes.
func (c *Client) Highlights(count int) (*HighlightsResponse, error) {
	var resp HighlightsResponse
	if err := c.client.Call("NeuralPlay.Highlights", HighlightsRequest{Count: count}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Labels lists detections for one labeled analysis category.
func (c *Client) Labels(category string) (*LabelsResponse, error) {
	var resp LabelsResponse
	if err := c.client.Call("NeuralPlay.Labels", LabelsRequest{Category: category}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SkipShortcut jumps to an analysis-derived position.
func (c *Client) SkipShortcut(target string) (*SkipShortcutResponse, error) {
	var resp SkipShortcutResponse
	if err := c.client.Call("NeuralPlay.SkipShortcut", SkipShortcutRequest{Target: target}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Caption resolves the caption at the current position.
func (c *Client) Caption(offset float64) (*CaptionResponse, error) {
	var resp CaptionResponse
	if err := c.client.Call("NeuralPlay.Caption", CaptionRequest{Offset: offset}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Subtitles installs or clears an external subtitle file.
func (c *Client) Subtitles(req SubtitlesRequest) (*SubtitlesResponse, error) {
	var resp SubtitlesResponse
	if err := c.client.Call("NeuralPlay.Subtitles", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExportTranscript writes the loaded transcript to disk.
func (c *Client) ExportTranscript(format string) (*ExportTranscriptResponse, error) {
	var resp ExportTranscriptResponse
	if err := c.client.Call("NeuralPlay.ExportTranscript", ExportTranscriptRequest{Format: format}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchTranscript runs a transcript search against the backend.
func (c *Client) SearchTranscript(query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.client.Call("NeuralPlay.SearchTranscript", SearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ask poses a question about the active media item.
func (c *Client) Ask(req AskRequest) (*AskResponse, error) {
	var resp AskResponse
	if err := c.client.Call("NeuralPlay.Ask", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Catalog lists the library catalog.
func (c *Client) Catalog(req CatalogRequest) (*ItemsResponse, error) {
	var resp ItemsResponse
	if err := c.client.Call("NeuralPlay.Catalog", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Collection lists a named library collection.
func (c *Client) Collection(name string) (*ItemsResponse, error) {
	var resp ItemsResponse
	if err := c.client.Call("NeuralPlay.Collection", CollectionRequest{Collection: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Toggle flips membership of a path in a collection.
func (c *Client) Toggle(collection, path string) (*ToggleResponse, error) {
	var resp ToggleResponse
	if err := c.client.Call("NeuralPlay.Toggle", ToggleRequest{Collection: collection, Path: path}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Remove deletes a path from the catalog.
func (c *Client) Remove(path string) error {
	var resp RemoveResponse
	return c.client.Call("NeuralPlay.Remove", RemoveRequest{Path: path}, &resp)
}

// Scan imports media files under root into the catalog.
func (c *Client) Scan(root string) (*ScanResponse, error) {
	var resp ScanResponse
	if err := c.client.Call("NeuralPlay.Scan", ScanRequest{Root: root}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaylistCreate creates a named playlist.
func (c *Client) PlaylistCreate(name string) (*PlaylistCreateResponse, error) {
	var resp PlaylistCreateResponse
	if err := c.client.Call("NeuralPlay.PlaylistCreate", PlaylistCreateRequest{Name: name}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaylistEdit adds or removes a playlist entry.
func (c *Client) PlaylistEdit(req PlaylistEditRequest) error {
	var resp PlaylistEditResponse
	return c.client.Call("NeuralPlay.PlaylistEdit", req, &resp)
}

// PlaylistList lists all playlists with their items.
func (c *Client) PlaylistList() (*PlaylistListResponse, error) {
	var resp PlaylistListResponse
	if err := c.client.Call("NeuralPlay.PlaylistList", PlaylistListRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PlaylistPlay starts queue playback from a playlist.
func (c *Client) PlaylistPlay(id int64, startIndex int) (*QueueResponse, error) {
	var resp QueueResponse
	if err := c.client.Call("NeuralPlay.PlaylistPlay", PlaylistPlayRequest{ID: id, StartIndex: startIndex}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Queue navigates or reconfigures the active queue.
func (c *Client) Queue(req QueueRequest) (*QueueResponse, error) {
	var resp QueueResponse
	if err := c.client.Call("NeuralPlay.Queue", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Voice enables or disables the speech listener.
func (c *Client) Voice(enabled bool) error {
	var resp VoiceResponse
	return c.client.Call("NeuralPlay.Voice", VoiceRequest{Enabled: enabled}, &resp)
}

// ShellEvents drains pending shell-facing events.
func (c *Client) ShellEvents() (*ShellEventsResponse, error) {
	var resp ShellEventsResponse
	if err := c.client.Call("NeuralPlay.ShellEvents", ShellEventsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification sends a test notification.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("NeuralPlay.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Feature flips one analysis category toggle.
func (c *Client) Feature(category string, enabled bool) (*FeatureResponse, error) {
	var resp FeatureResponse
	if err := c.client.Call("NeuralPlay.Feature", FeatureRequest{Category: category, Enabled: enabled}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LogTail reads daemon log lines.
func (c *Client) LogTail(req LogTailRequest) (*LogTailResponse, error) {
	var resp LogTailResponse
	if err := c.client.Call("NeuralPlay.LogTail", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Shutdown asks the daemon to stop.
func (c *Client) Shutdown() (*ShutdownResponse, error) {
	var resp ShutdownResponse
	if err := c.client.Call("NeuralPlay.Shutdown", ShutdownRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
