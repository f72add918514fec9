package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and socket configuration.
type Paths struct {
	DataDir    string `toml:"data_dir"`
	LogDir     string `toml:"log_dir"`
	ClipDir    string `toml:"clip_dir"`
	SocketPath string `toml:"socket_path"`
}

// Backend contains configuration for the analysis backend process.
type Backend struct {
	BaseURL        string `toml:"base_url"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Features holds the opt-in toggles for AI analysis categories.
// Disabled categories are dropped at the stream boundary, not buffered.
type Features struct {
	Transcription bool `toml:"transcription"`
	Scenes        bool `toml:"scenes"`
	Objects       bool `toml:"objects"`
	Emotions      bool `toml:"emotions"`
}

// Playback contains transport tuning knobs.
type Playback struct {
	SkipSeconds       int `toml:"skip_seconds"`
	VoiceSkipSeconds  int `toml:"voice_skip_seconds"`
	TickIntervalMs    int `toml:"tick_interval_ms"`
	SaveIntervalSecs  int `toml:"save_interval_seconds"`
	ResumeTailSeconds int `toml:"resume_tail_seconds"`
}

// Library contains media discovery configuration.
type Library struct {
	VideoExtensions []string `toml:"video_extensions"`
}

// Voice contains voice-control configuration.
type Voice struct {
	Enabled  bool   `toml:"enabled"`
	Language string `toml:"language"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for NeuralPlay.
//
// Configuration sections by subsystem:
//   - Paths: data/log/clip directories and the daemon control socket
//   - Backend: analysis backend HTTP endpoint
//   - Features: opt-in AI analysis categories
//   - Playback: transport tuning (skip step, tick cadence, resume window)
//   - Library: folder-scan extensions
//   - Voice: voice control toggle
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Backend       Backend       `toml:"backend"`
	Features      Features      `toml:"features"`
	Playback      Playback      `toml:"playback"`
	Library       Library       `toml:"library"`
	Voice         Voice         `toml:"voice"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/neuralplay/config.toml")
}

// SampleConfig returns the embedded annotated sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. An optional
// .env file next to the config (or in the working directory) is applied
// first so NEURALPLAY_* variables can override file values. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	loadEnvFile()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func loadEnvFile() {
	// Missing .env files are the normal case and not an error.
	_ = godotenv.Load()
	if configDir, err := expandPath("~/.config/neuralplay/.env"); err == nil {
		_ = godotenv.Load(configDir)
	}
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon needs at runtime.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.ClipDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// SocketPath returns the daemon control socket location.
func (c *Config) SocketPath() string {
	if strings.TrimSpace(c.Paths.SocketPath) != "" {
		return c.Paths.SocketPath
	}
	return filepath.Join(c.Paths.DataDir, "neuralplayd.sock")
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}
