package analysis

import "sort"

// Chapter is a navigable span derived from one scene event.
type Chapter struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

const defaultSkipIntroTarget = 30

// Chapters derives the chapter list from the buffered scenes, in arrival
// order. Each chapter ends where its scene's duration runs out.
func (c *Consumer) Chapters() []Chapter {
	scenes := c.Scenes()
	chapters := make([]Chapter, 0, len(scenes))
	for i, s := range scenes {
		chapters = append(chapters, Chapter{Index: i + 1, Start: s.Start, End: s.Start + s.Duration})
	}
	return chapters
}

// SkipIntroTarget returns the seek position for skipping the opening
// scene: the start of the second scene when at least two exist, otherwise
// a fixed fallback.
func (c *Consumer) SkipIntroTarget() float64 {
	scenes := c.Scenes()
	if len(scenes) >= 2 {
		return scenes[1].Start
	}
	return defaultSkipIntroTarget
}

// NearEndTarget returns the seek position for jumping near the end: the
// start of the second-to-last scene when at least two exist, otherwise
// zero.
func (c *Consumer) NearEndTarget() float64 {
	scenes := c.Scenes()
	if len(scenes) >= 2 {
		return scenes[len(scenes)-2].Start
	}
	return 0
}

// Highlights returns the n longest scenes, longest first. Ties keep the
// earlier scene first. Fewer than n scenes yields all of them.
func (c *Consumer) Highlights(n int) []SceneEvent {
	scenes := c.Scenes()
	sort.SliceStable(scenes, func(i, j int) bool {
		if scenes[i].Duration != scenes[j].Duration {
			return scenes[i].Duration > scenes[j].Duration
		}
		return scenes[i].Start < scenes[j].Start
	})
	if n >= 0 && n < len(scenes) {
		scenes = scenes[:n]
	}
	return scenes
}

// LabelHit records one timestamp at which a label was observed.
type LabelHit struct {
	Label string  `json:"label"`
	Time  float64 `json:"time"`
}

// ObjectsByLabel groups the buffered object events by label, each label
// mapping to its observation times in arrival order.
func (c *Consumer) ObjectsByLabel() map[string][]float64 {
	groups := make(map[string][]float64)
	for _, evt := range c.Objects() {
		for _, label := range evt.Objects {
			groups[label] = append(groups[label], evt.Time)
		}
	}
	return groups
}

// EmotionsByLabel groups the buffered emotion events by label, each label
// mapping to its observation times in arrival order.
func (c *Consumer) EmotionsByLabel() map[string][]float64 {
	groups := make(map[string][]float64)
	for _, evt := range c.Emotions() {
		for _, label := range evt.Emotions {
			groups[label] = append(groups[label], evt.Time)
		}
	}
	return groups
}

// LabelHits flattens the grouped detections for a category into one hit
// per observation, ordered by label and then by time. Only the objects
// and emotions categories carry labels; any other category yields nil.
func (c *Consumer) LabelHits(category Category) []LabelHit {
	var groups map[string][]float64
	switch category {
	case CategoryObjects:
		groups = c.ObjectsByLabel()
	case CategoryEmotions:
		groups = c.EmotionsByLabel()
	default:
		return nil
	}

	labels := make([]string, 0, len(groups))
	for label := range groups {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var hits []LabelHit
	for _, label := range labels {
		for _, at := range groups[label] {
			hits = append(hits, LabelHit{Label: label, Time: at})
		}
	}
	return hits
}
