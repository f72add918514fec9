package analysis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"neuralplay/internal/config"
	"neuralplay/internal/logging"
)

// State is the lifecycle of one stream session.
type State string

const (
	StateIdle      State = "idle"
	StateConnecting State = "connecting"
	StateStreaming State = "streaming"
	StateComplete  State = "complete"
	StateErrored   State = "errored"
	StateClosed    State = "closed"
)

// ErrStreamClosed reports that the session ended before a terminal event.
var ErrStreamClosed = errors.New("analysis stream closed")

const connectionLostDetail = "connection lost"

// Consumer classifies and buffers incoming detections for the active
// media item. Buffers are append-only for the lifetime of one session and
// cleared by Reset when a new item is loaded.
type Consumer struct {
	logger *slog.Logger

	mu        sync.RWMutex
	state     State
	sessionID string
	detail    string
	enabled   map[Category]bool
	scenes    []SceneEvent
	objects   []ObjectEvent
	emotions  []EmotionEvent
}

// NewConsumer builds a consumer with category toggles seeded from config.
func NewConsumer(logger *slog.Logger, features config.Features) *Consumer {
	return &Consumer{
		logger: logging.NewComponentLogger(logger, "analysis"),
		state:  StateIdle,
		enabled: map[Category]bool{
			CategoryScenes:   features.Scenes,
			CategoryObjects:  features.Objects,
			CategoryEmotions: features.Emotions,
		},
	}
}

// Reset returns the consumer to idle and clears every buffer. Must be
// called before reconnecting for a newly loaded item.
func (c *Consumer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.sessionID = ""
	c.detail = ""
	c.scenes = nil
	c.objects = nil
	c.emotions = nil
}

// SetCategoryEnabled flips one category toggle. Disabling drops future
// events; re-enabling does not backfill events that arrived while the
// category was off.
func (c *Consumer) SetCategoryEnabled(cat Category, enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled[cat] = enabled
}

// CategoryEnabled reports the current toggle for one category.
func (c *Consumer) CategoryEnabled(cat Category) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled[cat]
}

// AnyCategoryEnabled reports whether a stream session is worth opening.
func (c *Consumer) AnyCategoryEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.enabled[CategoryScenes] || c.enabled[CategoryObjects] || c.enabled[CategoryEmotions]
}

// Run consumes one stream session until a terminal event or disconnect.
// The reader is closed by the caller; Run processes frames in arrival
// order and never reorders or dedupes within a category.
func (c *Consumer) Run(ctx context.Context, stream io.Reader) error {
	session := uuid.NewString()
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return errors.New("analysis consumer requires Reset before a new session")
	}
	c.state = StateConnecting
	c.sessionID = session
	c.mu.Unlock()

	c.logger.Info("analysis stream connecting", logging.String("session", session))

	frames := newSSEScanner(stream)
	for {
		if err := ctx.Err(); err != nil {
			c.transition(session, StateClosed, "")
			return err
		}

		payload, err := frames.Next()
		if err != nil {
			// EOF or transport failure before a terminal event is a
			// connection-level failure, distinct from a server-reported
			// error event.
			c.transition(session, StateErrored, connectionLostDetail)
			c.logger.Warn("analysis stream dropped", logging.String("session", session), logging.Error(err))
			return ErrStreamClosed
		}

		evt, err := decodeEvent(payload)
		if err != nil {
			c.logger.Warn("skipping malformed analysis event", logging.String("session", session), logging.Error(err))
			continue
		}

		if terminal := c.dispatch(session, evt); terminal {
			return nil
		}
	}
}

// dispatch applies one event, returning true when the session reached a
// terminal state. Events carried by a superseded session are dropped:
// only the goroutine whose id matches the current session may mutate
// state or buffers.
func (c *Consumer) dispatch(session string, evt wireEvent) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionID != session {
		return true
	}

	if c.state == StateConnecting {
		c.state = StateStreaming
	}

	switch evt.Type {
	case eventTypeScene:
		if c.enabled[CategoryScenes] {
			c.scenes = append(c.scenes, SceneEvent{Start: evt.Start, Duration: evt.Duration})
		}
	case eventTypeObject:
		if c.enabled[CategoryObjects] {
			c.objects = append(c.objects, ObjectEvent{Time: evt.Time, Objects: evt.Objects})
		}
	case eventTypeEmotion:
		if c.enabled[CategoryEmotions] {
			c.emotions = append(c.emotions, EmotionEvent{Time: evt.Time, Emotions: evt.Emotions})
		}
	case eventTypeDone:
		// One category finished; informational only.
	case eventTypeComplete:
		c.state = StateComplete
		return true
	case eventTypeError:
		c.state = StateErrored
		c.detail = evt.Error
		if c.detail == "" {
			c.detail = evt.Message
		}
		return true
	default:
		c.logger.Debug("ignoring unknown analysis event type", logging.String("type", evt.Type))
	}
	return false
}

func (c *Consumer) transition(session string, state State, detail string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != session {
		return
	}
	if c.state == StateComplete || c.state == StateErrored {
		return
	}
	c.state = state
	if detail != "" {
		c.detail = detail
	}
}

// State returns the current session state.
func (c *Consumer) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// ErrorDetail returns the user-visible failure description, if any.
func (c *Consumer) ErrorDetail() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.detail
}

// SessionID identifies the current session for log correlation.
func (c *Consumer) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Scenes returns a copy of the buffered scene events in arrival order.
func (c *Consumer) Scenes() []SceneEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]SceneEvent(nil), c.scenes...)
}

// Objects returns a copy of the buffered object events in arrival order.
func (c *Consumer) Objects() []ObjectEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]ObjectEvent(nil), c.objects...)
}

// Emotions returns a copy of the buffered emotion events in arrival order.
func (c *Consumer) Emotions() []EmotionEvent {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]EmotionEvent(nil), c.emotions...)
}
