package commands

import (
	"fmt"
	"log/slog"
	"sync"

	"neuralplay/internal/logging"
)

// Command is one entry in the shared input vocabulary.
type Command string

const (
	CmdPlay             Command = "play"
	CmdPause            Command = "pause"
	CmdTogglePlay       Command = "toggle_play"
	CmdStop             Command = "stop"
	CmdSeekForward      Command = "seek_forward"
	CmdSeekBack         Command = "seek_back"
	CmdVolumeUp         Command = "volume_up"
	CmdVolumeDown       Command = "volume_down"
	CmdMute             Command = "mute"
	CmdUnmute           Command = "unmute"
	CmdToggleMute       Command = "toggle_mute"
	CmdFrameForward     Command = "frame_forward"
	CmdFrameBack        Command = "frame_back"
	CmdCycleSpeed       Command = "cycle_speed"
	CmdLoopStart        Command = "loop_start"
	CmdLoopEnd          Command = "loop_end"
	CmdLoopClear        Command = "loop_clear"
	CmdAddBookmark      Command = "add_bookmark"
	CmdQueueNext        Command = "queue_next"
	CmdQueuePrevious    Command = "queue_previous"
	CmdFullscreen       Command = "fullscreen"
	CmdToggleLibrary    Command = "toggle_library"
	CmdToggleSettings   Command = "toggle_settings"
	CmdExportTranscript Command = "export_transcript"
)

// Origin identifies which frontend produced a command.
type Origin string

const (
	OriginKeyboard Origin = "keyboard"
	OriginVoice    Origin = "voice"
	OriginMenu     Origin = "menu"
)

// Transport is the playback surface the router drives.
type Transport interface {
	Play()
	Pause()
	Toggle()
	Stop()
	Skip(delta float64)
	StepVolume(delta float64)
	ToggleMute()
	SetMuted(muted bool)
	FrameStep(forward bool)
	CycleRate() float64
	SetLoopStart()
	SetLoopEnd()
	ClearLoop()
	AddBookmark()
}

// QueueNavigator advances the active play queue.
type QueueNavigator interface {
	QueueNext() error
	QueuePrevious() error
}

// Options configure a Router.
type Options struct {
	Transport Transport
	Queue     QueueNavigator

	// SkipSeconds is the seek delta for keyboard and menu input;
	// VoiceSkipSeconds for spoken commands.
	SkipSeconds      float64
	VoiceSkipSeconds float64
	VolumeStep       float64

	// ShellEvent forwards UI-only commands (fullscreen, panel toggles)
	// back to the shell. Nil drops them.
	ShellEvent func(name string)
	// ExportTranscript writes the current transcript to disk.
	ExportTranscript func() error
}

// Router serializes command dispatch into the transport.
type Router struct {
	logger *slog.Logger
	opts   Options
	mu     sync.Mutex
}

// NewRouter builds a router. Transport must be non-nil.
func NewRouter(logger *slog.Logger, opts Options) (*Router, error) {
	if opts.Transport == nil {
		return nil, fmt.Errorf("command router requires a transport")
	}
	if opts.SkipSeconds <= 0 {
		opts.SkipSeconds = 5
	}
	if opts.VoiceSkipSeconds <= 0 {
		opts.VoiceSkipSeconds = 10
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = 0.1
	}
	return &Router{
		logger: logging.NewComponentLogger(logger, "commands"),
		opts:   opts,
	}, nil
}

// Dispatch executes one command. Unknown commands return an error;
// commands whose collaborator is absent are dropped with a log line.
func (r *Router) Dispatch(cmd Command, origin Origin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.opts.Transport
	skip := r.opts.SkipSeconds
	if origin == OriginVoice {
		skip = r.opts.VoiceSkipSeconds
	}

	switch cmd {
	case CmdPlay:
		t.Play()
	case CmdPause:
		t.Pause()
	case CmdTogglePlay:
		t.Toggle()
	case CmdStop:
		t.Stop()
	case CmdSeekForward:
		t.Skip(skip)
	case CmdSeekBack:
		t.Skip(-skip)
	case CmdVolumeUp:
		t.StepVolume(r.opts.VolumeStep)
	case CmdVolumeDown:
		t.StepVolume(-r.opts.VolumeStep)
	case CmdMute:
		t.SetMuted(true)
	case CmdUnmute:
		t.SetMuted(false)
	case CmdToggleMute:
		t.ToggleMute()
	case CmdFrameForward:
		t.FrameStep(true)
	case CmdFrameBack:
		t.FrameStep(false)
	case CmdCycleSpeed:
		t.CycleRate()
	case CmdLoopStart:
		t.SetLoopStart()
	case CmdLoopEnd:
		t.SetLoopEnd()
	case CmdLoopClear:
		t.ClearLoop()
	case CmdAddBookmark:
		t.AddBookmark()
	case CmdQueueNext:
		if r.opts.Queue == nil {
			r.logger.Debug("queue navigation without an active queue")
			return nil
		}
		return r.opts.Queue.QueueNext()
	case CmdQueuePrevious:
		if r.opts.Queue == nil {
			r.logger.Debug("queue navigation without an active queue")
			return nil
		}
		return r.opts.Queue.QueuePrevious()
	case CmdFullscreen, CmdToggleLibrary, CmdToggleSettings:
		if r.opts.ShellEvent != nil {
			r.opts.ShellEvent(string(cmd))
		}
	case CmdExportTranscript:
		if r.opts.ExportTranscript == nil {
			return fmt.Errorf("transcript export is not available")
		}
		return r.opts.ExportTranscript()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	r.logger.Debug("dispatched command",
		logging.String("command", string(cmd)),
		logging.String("origin", string(origin)))
	return nil
}
