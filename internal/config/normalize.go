package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeBackend()
	c.normalizePlayback()
	c.normalizeLibrary()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ClipDir) == "" {
		c.Paths.ClipDir = defaultClipDir
	}
	if c.Paths.ClipDir, err = expandPath(c.Paths.ClipDir); err != nil {
		return fmt.Errorf("paths.clip_dir: %w", err)
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeBackend() {
	if value, ok := os.LookupEnv("NEURALPLAY_BACKEND_URL"); ok && strings.TrimSpace(value) != "" {
		c.Backend.BaseURL = value
	}
	c.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(c.Backend.BaseURL), "/")
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = defaultBackendBaseURL
	}
	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultBackendTimeout
	}
}

func (c *Config) normalizePlayback() {
	if c.Playback.SkipSeconds <= 0 {
		c.Playback.SkipSeconds = defaultSkipSeconds
	}
	if c.Playback.VoiceSkipSeconds <= 0 {
		c.Playback.VoiceSkipSeconds = defaultVoiceSkipSeconds
	}
	if c.Playback.TickIntervalMs <= 0 {
		c.Playback.TickIntervalMs = defaultTickIntervalMs
	}
	if c.Playback.SaveIntervalSecs <= 0 {
		c.Playback.SaveIntervalSecs = defaultSaveIntervalSecs
	}
	if c.Playback.ResumeTailSeconds <= 0 {
		c.Playback.ResumeTailSeconds = defaultResumeTailSeconds
	}
}

func (c *Config) normalizeLibrary() {
	if len(c.Library.VideoExtensions) == 0 {
		c.Library.VideoExtensions = append([]string{}, defaultVideoExtensions...)
		return
	}
	normalized := make([]string, 0, len(c.Library.VideoExtensions))
	for _, ext := range c.Library.VideoExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized = append(normalized, ext)
	}
	c.Library.VideoExtensions = normalized
}

func (c *Config) normalizeNotifications() {
	if value, ok := os.LookupEnv("NEURALPLAY_NTFY_TOPIC"); ok {
		c.Notifications.NtfyTopic = strings.TrimSpace(value)
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNtfyRequestTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Voice.Language == "" {
		c.Voice.Language = defaultVoiceLanguage
	}
}
