package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"neuralplay/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Backend.BaseURL != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected backend url: %q", cfg.Backend.BaseURL)
	}
	if !cfg.Features.Scenes || cfg.Features.Objects {
		t.Fatalf("unexpected feature defaults: %+v", cfg.Features)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[backend]
base_url = "http://localhost:9000/"

[library]
video_extensions = ["MP4", ".mkv", " webm "]

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected config to resolve, exists=%v path=%q", exists, resolved)
	}
	if cfg.Backend.BaseURL != "http://localhost:9000" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.BaseURL)
	}
	want := []string{".mp4", ".mkv", ".webm"}
	if len(cfg.Library.VideoExtensions) != len(want) {
		t.Fatalf("unexpected extensions: %v", cfg.Library.VideoExtensions)
	}
	for i, ext := range want {
		if cfg.Library.VideoExtensions[i] != ext {
			t.Fatalf("extension %d: got %q want %q", i, cfg.Library.VideoExtensions[i], ext)
		}
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level lowercased, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsBadBackendURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[backend]\nbase_url = \"not a url\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for malformed backend url")
	}
}

func TestEnvOverridesBackendURL(t *testing.T) {
	t.Setenv("NEURALPLAY_BACKEND_URL", "http://10.0.0.5:8000")
	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "http://10.0.0.5:8000" {
		t.Fatalf("expected env override, got %q", cfg.Backend.BaseURL)
	}
}

func TestSocketPathDefaultsUnderDataDir(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = "/tmp/npdata"
	cfg.Paths.SocketPath = ""
	if got := cfg.SocketPath(); got != filepath.Join("/tmp/npdata", "neuralplayd.sock") {
		t.Fatalf("unexpected socket path: %q", got)
	}
}

func TestSampleConfigMentionsEverySection(t *testing.T) {
	sample := config.SampleConfig()
	for _, section := range []string{"[paths]", "[backend]", "[features]", "[playback]", "[library]", "[voice]", "[notifications]", "[logging]"} {
		if !strings.Contains(sample, section) {
			t.Fatalf("sample config missing section %s", section)
		}
	}
}
