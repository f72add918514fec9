package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"neuralplay/internal/analysis"
	"neuralplay/internal/config"
	"neuralplay/internal/library"
	"neuralplay/internal/logging"
	"neuralplay/internal/subtitles"
)

func testConfig(t *testing.T, backendURL string) *config.Config {
	t.Helper()
	cfg := config.Default()
	base := t.TempDir()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.ClipDir = filepath.Join(base, "clips")
	cfg.Backend.BaseURL = backendURL
	cfg.Playback.TickIntervalMs = 10
	return &cfg
}

func quietBackend(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analyze_stream":
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte("data: {\"type\":\"complete\"}\n\n"))
		case "/transcribe":
			_ = json.NewEncoder(w).Encode(map[string]any{"segments": []subtitles.Segment{}})
		default:
			_ = json.NewEncoder(w).Encode(map[string]string{})
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func startedDaemon(t *testing.T, cfg *config.Config) *Daemon {
	t.Helper()
	d, err := New(cfg, logging.NewNop(), Options{})
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(d.Stop)
	return d
}

func TestStartEnforcesSingleInstance(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	first := startedDaemon(t, cfg)
	if !first.Running() {
		t.Fatal("first daemon not running")
	}

	second, err := New(cfg, logging.NewNop(), Options{})
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	defer second.Stop()
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("second daemon acquired the lock")
	}
}

func TestLoadRecordsHistoryAndRunsAnalysis(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/analyze_stream":
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = w.Write([]byte("data: {\"type\":\"scene\",\"start\":0,\"duration\":30}\n\n"))
			_, _ = w.Write([]byte("data: {\"type\":\"complete\"}\n\n"))
		case "/transcribe":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"segments": []subtitles.Segment{{Start: 0, End: 2, Text: "hello"}},
			})
		case "/store_transcript":
			_ = json.NewEncoder(w).Encode(map[string]string{})
		default:
			t.Errorf("unexpected backend call %s", r.URL.Path)
		}
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	d := startedDaemon(t, cfg)

	if err := d.Load(context.Background(), "/media/alpine_hike.mp4"); err != nil {
		t.Fatalf("load: %v", err)
	}

	waitFor(t, func() bool { return d.Consumer().State() == analysis.StateComplete })
	waitFor(t, func() bool { return len(d.Resolver().Internal()) == 1 })

	history, err := d.Library().History(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 || history[0].Path != "/media/alpine_hike.mp4" {
		t.Fatalf("history = %+v", history)
	}
	if len(d.Consumer().Scenes()) != 1 {
		t.Fatalf("scenes = %+v", d.Consumer().Scenes())
	}
}

func TestLoadResetsAnalysisBetweenItems(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	cfg.Features.Transcription = false
	d := startedDaemon(t, cfg)

	if err := d.Load(context.Background(), "/media/a.mp4"); err != nil {
		t.Fatalf("load a: %v", err)
	}
	waitFor(t, func() bool { return d.Consumer().State() == analysis.StateComplete })

	if err := d.Load(context.Background(), "/media/b.mp4"); err != nil {
		t.Fatalf("load b: %v", err)
	}
	if state := d.Controller().State(); state.Source.ID != "/media/b.mp4" {
		t.Fatalf("source = %+v", state.Source)
	}
}

func TestQueueNavigationRepeatNoneExhausts(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	cfg.Features.Transcription = false
	d := startedDaemon(t, cfg)

	ctx := context.Background()
	pl, err := d.Library().CreatePlaylist(ctx, "Trip")
	if err != nil {
		t.Fatalf("create playlist: %v", err)
	}
	for _, path := range []string{"/media/a.mp4", "/media/b.mp4"} {
		if err := d.Library().AddToPlaylist(ctx, pl.ID, library.NewItem(path)); err != nil {
			t.Fatalf("add %s: %v", path, err)
		}
	}

	if err := d.PlayPlaylist(ctx, pl.ID, 0); err != nil {
		t.Fatalf("play playlist: %v", err)
	}
	if got := d.Controller().State().Source.ID; got != "/media/a.mp4" {
		t.Fatalf("source = %s", got)
	}

	if err := d.QueueNext(); err != nil {
		t.Fatalf("next: %v", err)
	}
	if got := d.Controller().State().Source.ID; got != "/media/b.mp4" {
		t.Fatalf("source after next = %s", got)
	}

	// At the last index with repeat off the queue exhausts silently.
	if err := d.QueueNext(); err != nil {
		t.Fatalf("next at end: %v", err)
	}
	status := d.Queue()
	if status.Index != 1 || d.Controller().State().Source.ID != "/media/b.mp4" {
		t.Fatalf("queue advanced past end: %+v", status)
	}
	if status.Current.Path != "/media/b.mp4" || status.Current.Name == "" {
		t.Fatalf("queue current = %+v", status.Current)
	}
}

func TestQueueNavigationWithoutQueue(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	d := startedDaemon(t, cfg)
	if err := d.QueueNext(); !errors.Is(err, ErrNoQueue) {
		t.Fatalf("err = %v, want ErrNoQueue", err)
	}
}

func TestExportTranscriptWritesFile(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	cfg.Features.Transcription = false
	d := startedDaemon(t, cfg)

	if err := d.Load(context.Background(), "/media/talk.mp4"); err != nil {
		t.Fatalf("load: %v", err)
	}
	d.Resolver().SetInternal([]subtitles.Segment{
		{Start: 0, End: 2, Text: "hello"},
		{Start: 2, End: 4, Text: "world"},
	})

	path, err := d.ExportTranscript("txt")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(raw), "[0s] hello") {
		t.Fatalf("export content = %q", string(raw))
	}
}

func TestHandleKeyDispatchesShortcut(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	cfg.Features.Transcription = false
	d := startedDaemon(t, cfg)

	if err := d.Load(context.Background(), "/media/a.mp4"); err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := d.HandleKey("space"); err != nil {
		t.Fatalf("handle key: %v", err)
	}
	if !d.Controller().State().Playing {
		t.Fatal("space did not toggle playback on")
	}
	if err := d.HandleKey("unmapped-key"); err != nil {
		t.Fatalf("unmapped key: %v", err)
	}
}

func TestShellEventsDrain(t *testing.T) {
	cfg := testConfig(t, quietBackend(t).URL)
	d := startedDaemon(t, cfg)

	if err := d.HandleKey("f"); err != nil {
		t.Fatalf("handle key: %v", err)
	}
	events := d.DrainShellEvents()
	if len(events) != 1 || events[0] != "fullscreen" {
		t.Fatalf("events = %v", events)
	}
	if len(d.DrainShellEvents()) != 0 {
		t.Fatal("drain did not clear events")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition never met")
}
