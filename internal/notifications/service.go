package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"neuralplay/internal/config"
)

const userAgent = "NeuralPlay-Go/0.1.0"

// Service defines the notification surface exposed to the daemon.
type Service interface {
	NotifyClipCompleted(ctx context.Context, mediaName, outputPath string) error
	NotifyClipFailed(ctx context.Context, mediaName, detail string) error
	NotifyAnalysisCompleted(ctx context.Context, mediaName string, sceneCount int) error
	NotifyAnalysisFailed(ctx context.Context, mediaName, detail string) error
	NotifyTranscriptReady(ctx context.Context, mediaName string, segmentCount int) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyClipCompleted(ctx context.Context, mediaName, outputPath string) error {
	mediaName = strings.TrimSpace(mediaName)
	message := fmt.Sprintf("Clip ready: %s", mediaName)
	if outputPath = strings.TrimSpace(outputPath); outputPath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, outputPath)
	}
	return n.send(ctx, payload{
		title:   "NeuralPlay - Clip Ready",
		message: message,
		tags:    []string{"neuralplay", "clip", "completed"},
	})
}

func (n *ntfyService) NotifyClipFailed(ctx context.Context, mediaName, detail string) error {
	return n.send(ctx, payload{
		title:    "NeuralPlay - Clip Failed",
		message:  fmt.Sprintf("Clip export failed: %s\n%s", strings.TrimSpace(mediaName), strings.TrimSpace(detail)),
		tags:     []string{"neuralplay", "clip", "error"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyAnalysisCompleted(ctx context.Context, mediaName string, sceneCount int) error {
	return n.send(ctx, payload{
		title:   "NeuralPlay - Analysis Complete",
		message: fmt.Sprintf("Analysis finished: %s (%d scenes)", strings.TrimSpace(mediaName), sceneCount),
		tags:    []string{"neuralplay", "analysis", "completed"},
	})
}

func (n *ntfyService) NotifyAnalysisFailed(ctx context.Context, mediaName, detail string) error {
	return n.send(ctx, payload{
		title:    "NeuralPlay - Analysis Failed",
		message:  fmt.Sprintf("Analysis failed: %s\n%s", strings.TrimSpace(mediaName), strings.TrimSpace(detail)),
		tags:     []string{"neuralplay", "analysis", "error"},
		priority: "high",
	})
}

func (n *ntfyService) NotifyTranscriptReady(ctx context.Context, mediaName string, segmentCount int) error {
	return n.send(ctx, payload{
		title:   "NeuralPlay - Transcript Ready",
		message: fmt.Sprintf("Transcript ready: %s (%d segments)", strings.TrimSpace(mediaName), segmentCount),
		tags:    []string{"neuralplay", "transcript", "completed"},
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "NeuralPlay - Test",
		message:  "Notification system test",
		tags:     []string{"neuralplay", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyClipCompleted(context.Context, string, string) error      { return nil }
func (noopService) NotifyClipFailed(context.Context, string, string) error         { return nil }
func (noopService) NotifyAnalysisCompleted(context.Context, string, int) error     { return nil }
func (noopService) NotifyAnalysisFailed(context.Context, string, string) error     { return nil }
func (noopService) NotifyTranscriptReady(context.Context, string, int) error       { return nil }
func (noopService) TestNotification(context.Context) error                         { return nil }
