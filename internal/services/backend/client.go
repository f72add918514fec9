package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"neuralplay/internal/subtitles"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	summarizeQuery     = "Summarize this video."
)

// Config captures the runtime settings required to talk to the backend.
type Config struct {
	BaseURL        string
	TimeoutSeconds int
}

// Client wraps the analysis backend HTTP API.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a backend client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			BaseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
			TimeoutSeconds: cfg.TimeoutSeconds,
		},
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SearchMatch is one transcript hit, in backend order.
type SearchMatch struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// Transcribe requests a transcript for the media file and returns its
// ordered segments.
func (c *Client) Transcribe(ctx context.Context, path string) ([]subtitles.Segment, error) {
	var resp struct {
		Segments []subtitles.Segment `json:"segments"`
		Error    string              `json:"error"`
	}
	if err := c.postJSON(ctx, "/transcribe", map[string]string{"path": path}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("transcribe: %s", resp.Error)
	}
	return resp.Segments, nil
}

// StoreTranscript uploads a transcript so the backend can answer
// questions and searches against it.
func (c *Client) StoreTranscript(ctx context.Context, path string, segments []subtitles.Segment) error {
	payload := map[string]any{"path": path, "segments": segments}
	var resp struct {
		Error string `json:"error"`
	}
	if err := c.postJSON(ctx, "/store_transcript", payload, &resp); err != nil {
		return err
	}
	if resp.Error != "" {
		return fmt.Errorf("store transcript: %s", resp.Error)
	}
	return nil
}

// SearchTranscript returns the ordered transcript matches for a query.
func (c *Client) SearchTranscript(ctx context.Context, query string) ([]SearchMatch, error) {
	var resp struct {
		Results []SearchMatch `json:"results"`
		Error   string        `json:"error"`
	}
	if err := c.postJSON(ctx, "/search_transcript", map[string]string{"query": query}, &resp); err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("search transcript: %s", resp.Error)
	}
	return resp.Results, nil
}

// AskQuestion answers a free-form question about the media file.
func (c *Client) AskQuestion(ctx context.Context, query, path string) (string, error) {
	var resp struct {
		Answer string `json:"answer"`
		Error  string `json:"error"`
	}
	payload := map[string]string{"query": query, "path": path}
	if err := c.postJSON(ctx, "/ask_question", payload, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", fmt.Errorf("ask question: %s", resp.Error)
	}
	return resp.Answer, nil
}

// Summarize asks the canned summary question about the media file.
func (c *Client) Summarize(ctx context.Context, path string) (string, error) {
	return c.AskQuestion(ctx, summarizeQuery, path)
}

// TrimVideo exports the [start, end] window of the media file and returns
// the output path.
func (c *Client) TrimVideo(ctx context.Context, path string, start, end float64) (string, error) {
	payload := map[string]any{"path": path, "start": start, "end": end}
	var resp struct {
		Status     string `json:"status"`
		OutputPath string `json:"output_path"`
		Error      string `json:"error"`
	}
	if err := c.postJSON(ctx, "/trim_video", payload, &resp); err != nil {
		return "", err
	}
	if resp.Status != "success" {
		detail := resp.Error
		if detail == "" {
			detail = "status " + resp.Status
		}
		return "", fmt.Errorf("trim video: %s", detail)
	}
	return resp.OutputPath, nil
}

// OpenAnalysisStream opens the live event stream for one media item. The
// caller owns the returned body and must close it. No client timeout is
// applied; the backend terminates the stream with a complete or error
// event.
func (c *Client) OpenAnalysisStream(ctx context.Context, path string) (io.ReadCloser, error) {
	endpoint := c.cfg.BaseURL + "/analyze_stream?path=" + url.QueryEscape(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// Streams outlive the request timeout, so bypass the shared client's
	// Timeout and rely on the context for cancellation.
	streamClient := &http.Client{Transport: c.httpClient.Transport}
	resp, err := streamClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open analysis stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("open analysis stream: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return resp.Body, nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", endpoint, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s request: http %d: %s", endpoint, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
