package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category identifies one detection stream within a session.
type Category string

const (
	CategoryScenes   Category = "scenes"
	CategoryObjects  Category = "objects"
	CategoryEmotions Category = "emotions"
)

// SceneEvent marks one detected scene boundary.
type SceneEvent struct {
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// ObjectEvent records the labels visible at one sampled instant.
type ObjectEvent struct {
	Time    float64  `json:"time"`
	Objects []string `json:"objects"`
}

// EmotionEvent records the emotions detected at one sampled instant.
type EmotionEvent struct {
	Time     float64  `json:"time"`
	Emotions []string `json:"emotions"`
}

// wireEvent is the on-the-wire shape shared by every event kind. The
// type field selects which payload fields are meaningful.
type wireEvent struct {
	Type     string   `json:"type"`
	Start    float64  `json:"start"`
	Duration float64  `json:"duration"`
	Time     float64  `json:"time"`
	Objects  []string `json:"objects"`
	Emotions []string `json:"emotions"`
	Message  string   `json:"message"`
	Error    string   `json:"error"`
}

const (
	eventTypeScene    = "scene"
	eventTypeObject   = "object"
	eventTypeEmotion  = "emotion"
	eventTypeDone     = "done"
	eventTypeComplete = "complete"
	eventTypeError    = "error"
)

func decodeEvent(data []byte) (wireEvent, error) {
	var evt wireEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return wireEvent{}, fmt.Errorf("decode analysis event: %w", err)
	}
	if strings.TrimSpace(evt.Type) == "" {
		return wireEvent{}, fmt.Errorf("analysis event missing type")
	}
	return evt, nil
}
