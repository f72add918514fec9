package config

const (
	defaultDataDir            = "~/.local/share/neuralplay"
	defaultLogDir             = "~/.local/share/neuralplay/logs"
	defaultClipDir            = "~/.local/share/neuralplay/clips"
	defaultBackendBaseURL     = "http://127.0.0.1:8000"
	defaultBackendTimeout     = 120
	defaultSkipSeconds        = 5
	defaultVoiceSkipSeconds   = 10
	defaultTickIntervalMs     = 250
	defaultSaveIntervalSecs   = 1
	defaultResumeTailSeconds  = 5
	defaultVoiceLanguage      = "en-US"
	defaultNtfyRequestTimeout = 10
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

var defaultVideoExtensions = []string{".mp4", ".mkv", ".avi", ".mov", ".webm", ".wmv", ".flv"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			ClipDir: defaultClipDir,
		},
		Backend: Backend{
			BaseURL:        defaultBackendBaseURL,
			RequestTimeout: defaultBackendTimeout,
		},
		Features: Features{
			Transcription: true,
			Scenes:        true,
			Objects:       false,
			Emotions:      false,
		},
		Playback: Playback{
			SkipSeconds:       defaultSkipSeconds,
			VoiceSkipSeconds:  defaultVoiceSkipSeconds,
			TickIntervalMs:    defaultTickIntervalMs,
			SaveIntervalSecs:  defaultSaveIntervalSecs,
			ResumeTailSeconds: defaultResumeTailSeconds,
		},
		Library: Library{
			VideoExtensions: append([]string{}, defaultVideoExtensions...),
		},
		Voice: Voice{
			Enabled:  false,
			Language: defaultVoiceLanguage,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNtfyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
