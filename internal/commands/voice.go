package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"neuralplay/internal/logging"
)

// ClassifyUtterance maps a spoken phrase to a command by substring
// matching. "unmute" is checked before "mute" so the longer phrase wins.
func ClassifyUtterance(utterance string) (Command, bool) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	switch {
	case text == "":
		return "", false
	case strings.Contains(text, "unmute"):
		return CmdUnmute, true
	case strings.Contains(text, "mute"):
		return CmdMute, true
	case strings.Contains(text, "volume up"):
		return CmdVolumeUp, true
	case strings.Contains(text, "volume down"):
		return CmdVolumeDown, true
	case strings.Contains(text, "fullscreen") || strings.Contains(text, "full screen"):
		return CmdFullscreen, true
	case strings.Contains(text, "pause") || strings.Contains(text, "stop"):
		return CmdPause, true
	case strings.Contains(text, "play"):
		return CmdPlay, true
	case strings.Contains(text, "forward") || strings.Contains(text, "skip ahead"):
		return CmdSeekForward, true
	case strings.Contains(text, "back") || strings.Contains(text, "rewind"):
		return CmdSeekBack, true
	}
	return "", false
}

// Recognizer yields one recognized utterance per call, blocking until
// speech arrives, the session ends, or the context is cancelled.
type Recognizer interface {
	Listen(ctx context.Context) (string, error)
}

// Listener supervises a recognizer: while enabled, recognition sessions
// restart whenever they end, and classified utterances are dispatched
// through the router.
type Listener struct {
	logger     *slog.Logger
	recognizer Recognizer
	router     *Router

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewListener builds a stopped voice listener.
func NewListener(logger *slog.Logger, recognizer Recognizer, router *Router) *Listener {
	return &Listener{
		logger:     logging.NewComponentLogger(logger, "voice"),
		recognizer: recognizer,
		router:     router,
	}
}

// Start begins the supervised recognition loop. Starting a running
// listener is a no-op.
func (l *Listener) Start(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})
	go l.run(runCtx, l.done)
}

// Stop ends the loop and waits for it to exit. Stopping a stopped
// listener is a no-op.
func (l *Listener) Stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.done = nil
	l.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// Running reports whether the loop is active.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

func (l *Listener) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		utterance, err := l.recognizer.Listen(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			// Recognition sessions end on their own; restart while the
			// toggle stays on.
			l.logger.Debug("recognizer session ended", logging.Error(err))
			continue
		}

		cmd, ok := ClassifyUtterance(utterance)
		if !ok {
			l.logger.Debug("unrecognized utterance", logging.String("text", utterance))
			continue
		}
		if err := l.router.Dispatch(cmd, OriginVoice); err != nil {
			l.logger.Warn("voice command failed",
				logging.String("command", string(cmd)),
				logging.Error(err))
		}
	}
}
