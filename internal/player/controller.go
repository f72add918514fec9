package player

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"neuralplay/internal/logging"
)

// SpeedLadder is the full set of accepted playback rates, slowest first.
var SpeedLadder = []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 4}

const (
	assumedFrameRate = 30.0

	defaultResumeTailWindow = 5.0
	defaultPersistInterval  = 1.0
)

// Tuning carries the timing knobs exposed through configuration. Zero
// or negative values fall back to the defaults.
type Tuning struct {
	// PersistInterval is the minimum played time, in seconds, between
	// throttled position saves during playback.
	PersistInterval float64
	// ResumeTailWindow is the span, in seconds, before the end of a
	// source inside which a saved position is not restored.
	ResumeTailWindow float64
}

func (t Tuning) withDefaults() Tuning {
	if t.PersistInterval <= 0 {
		t.PersistInterval = defaultPersistInterval
	}
	if t.ResumeTailWindow <= 0 {
		t.ResumeTailWindow = defaultResumeTailWindow
	}
	return t
}

// MediaSource identifies the currently loaded item. Replaced wholesale on
// every load, never mutated.
type MediaSource struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// LoopWindow is the A-B repeat region. Active only when End > Start.
type LoopWindow struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	Active bool    `json:"active"`
}

// Snapshot is a point-in-time copy of the transport state for readers.
type Snapshot struct {
	Source    MediaSource `json:"source"`
	Loaded    bool        `json:"loaded"`
	Playing   bool        `json:"playing"`
	Position  float64     `json:"position"`
	Duration  float64     `json:"duration"`
	Rate      float64     `json:"rate"`
	Volume    float64     `json:"volume"`
	Muted     bool        `json:"muted"`
	Loop      LoopWindow  `json:"loop"`
	Bookmarks []float64   `json:"bookmarks"`
}

// PersistenceStore saves and restores per-item transport state across
// sessions. The controller is the only writer for these keys.
type PersistenceStore interface {
	SavedPosition(path string) (float64, bool, error)
	SavePosition(path string, position float64) error
	SavedBookmarks(path string) ([]float64, error)
	SaveBookmarks(path string, marks []float64) error
}

// Controller serializes every transport command behind one mutex and is
// the synchronization point the rest of the daemon reads from.
type Controller struct {
	logger *slog.Logger
	store  PersistenceStore
	tuning Tuning

	mu         sync.Mutex
	generation uint64
	source     MediaSource
	loaded     bool
	playing    bool
	position   float64
	duration   float64
	rate       float64
	volume     float64
	muted      bool
	loop       LoopWindow
	bookmarks  []float64
	clip       *ClipResult

	playedSincePersist float64
}

// NewController builds an idle controller. The store may not be nil.
func NewController(logger *slog.Logger, store PersistenceStore, tuning Tuning) *Controller {
	return &Controller{
		logger: logging.NewComponentLogger(logger, "player"),
		store:  store,
		tuning: tuning.withDefaults(),
		rate:   1,
		volume: 1,
	}
}

// Load replaces the active source. Any persisted position inside the
// resume window is restored; bookmarks are loaded from storage; the loop
// window is cleared. Duration of 0 means unknown. Returns the new load
// generation used to fence async completions from the previous source.
func (c *Controller) Load(source MediaSource, duration float64) (uint64, error) {
	if source.ID == "" {
		return 0, fmt.Errorf("load: empty source id")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.generation++
	c.source = source
	c.loaded = true
	c.playing = false
	c.duration = duration
	c.loop = LoopWindow{}
	c.clip = nil
	c.playedSincePersist = 0

	c.position = 0
	saved, ok, err := c.store.SavedPosition(source.ID)
	if err != nil {
		c.logger.Warn("reading saved position failed", logging.String("path", source.ID), logging.Error(err))
	} else if ok && saved > 0 && (duration <= 0 || saved < duration-c.tuning.ResumeTailWindow) {
		c.position = saved
	}

	marks, err := c.store.SavedBookmarks(source.ID)
	if err != nil {
		c.logger.Warn("reading bookmarks failed", logging.String("path", source.ID), logging.Error(err))
		marks = nil
	}
	c.bookmarks = normalizeBookmarks(marks)

	c.logger.Info("loaded media source",
		logging.String("path", source.ID),
		logging.Float64("resume_position", c.position))
	return c.generation, nil
}

// Generation returns the current load generation.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generation
}

// SetDuration updates the duration once the media engine reports it and
// reclamps the position into the new range.
func (c *Controller) SetDuration(duration float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if duration < 0 {
		duration = 0
	}
	c.duration = duration
	c.position = c.clamp(c.position)
}

// Play starts playback. No-op without a loaded source.
func (c *Controller) Play() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		c.playing = true
	}
}

// Pause halts playback and persists the current position immediately.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	c.persistPositionLocked()
}

// Toggle flips between play and pause.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	c.playing = !c.playing
	if !c.playing {
		c.persistPositionLocked()
	}
}

// Stop pauses and rewinds to the start.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	c.position = 0
	c.persistPositionLocked()
}

// Seek moves to an absolute position, clamped to [0, duration].
func (c *Controller) Seek(seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.clamp(seconds)
	c.persistPositionLocked()
}

// Skip moves by a relative number of seconds, clamped.
func (c *Controller) Skip(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = c.clamp(c.position + delta)
	c.persistPositionLocked()
}

// SetRate selects a playback rate. Values off the ladder are ignored.
func (c *Controller) SetRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, step := range SpeedLadder {
		if step == rate {
			c.rate = rate
			return
		}
	}
}

// CycleRate advances to the next ladder step, wrapping after the fastest.
func (c *Controller) CycleRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, step := range SpeedLadder {
		if step == c.rate {
			c.rate = SpeedLadder[(i+1)%len(SpeedLadder)]
			return c.rate
		}
	}
	c.rate = SpeedLadder[0]
	return c.rate
}

// SetVolume sets the volume, clamped to [0, 1].
func (c *Controller) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = clampUnit(v)
}

// StepVolume nudges the volume by delta, clamped to [0, 1].
func (c *Controller) StepVolume(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.volume = clampUnit(c.volume + delta)
}

// ToggleMute flips the mute flag without touching the stored volume.
func (c *Controller) ToggleMute() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = !c.muted
}

// SetMuted sets the mute flag directly.
func (c *Controller) SetMuted(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
}

// FrameStep pauses and offsets the position by one frame at an assumed
// 30fps. The frame rate is an approximation, not detected per source.
func (c *Controller) FrameStep(forward bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	step := 1.0 / assumedFrameRate
	if !forward {
		step = -step
	}
	c.position = c.clamp(c.position + step)
	c.persistPositionLocked()
}

// SetLoopStart marks the loop start at the current position. A start at
// or past the existing end clears the end and disarms the loop.
func (c *Controller) SetLoopStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop.Start = c.position
	if c.loop.Start >= c.loop.End {
		c.loop.End = 0
		c.loop.Active = false
	}
}

// SetLoopEnd arms the loop at the current position, but only when the
// position is past the loop start. Otherwise the call is a no-op.
func (c *Controller) SetLoopEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.position <= c.loop.Start {
		return
	}
	c.loop.End = c.position
	c.loop.Active = true
}

// ClearLoop drops the loop window entirely.
func (c *Controller) ClearLoop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loop = LoopWindow{}
}

// AddBookmark records the current position in the ascending deduped
// bookmark set and persists the set immediately.
func (c *Controller) AddBookmark() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}
	for _, mark := range c.bookmarks {
		if mark == c.position {
			return
		}
	}
	c.bookmarks = append(c.bookmarks, c.position)
	sort.Float64s(c.bookmarks)
	if err := c.store.SaveBookmarks(c.source.ID, c.bookmarks); err != nil {
		c.logger.Warn("persisting bookmarks failed", logging.String("path", c.source.ID), logging.Error(err))
	}
}

// Advance moves the clock forward by elapsed wall seconds of playback.
// Loop enforcement and throttled position persistence happen here. The
// position scales by the active rate and clamps at the duration.
func (c *Controller) Advance(elapsed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.playing || elapsed <= 0 {
		return
	}

	c.position = c.clamp(c.position + elapsed*c.rate)

	if c.loop.Active && c.position >= c.loop.End {
		c.position = c.loop.Start
	}

	c.playedSincePersist += elapsed
	if c.playedSincePersist >= c.tuning.PersistInterval {
		c.playedSincePersist = 0
		c.persistPositionLocked()
	}
}

// State returns a copy of the full transport state.
func (c *Controller) State() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Source:    c.source,
		Loaded:    c.loaded,
		Playing:   c.playing,
		Position:  c.position,
		Duration:  c.duration,
		Rate:      c.rate,
		Volume:    c.volume,
		Muted:     c.muted,
		Loop:      c.loop,
		Bookmarks: append([]float64(nil), c.bookmarks...),
	}
}

func (c *Controller) clamp(position float64) float64 {
	if position < 0 {
		return 0
	}
	if c.duration > 0 && position > c.duration {
		return c.duration
	}
	return position
}

func (c *Controller) persistPositionLocked() {
	if !c.loaded {
		return
	}
	if err := c.store.SavePosition(c.source.ID, c.position); err != nil {
		c.logger.Warn("persisting position failed", logging.String("path", c.source.ID), logging.Error(err))
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func normalizeBookmarks(marks []float64) []float64 {
	if len(marks) == 0 {
		return nil
	}
	sort.Float64s(marks)
	out := marks[:0]
	var last float64
	for i, mark := range marks {
		if i > 0 && mark == last {
			continue
		}
		out = append(out, mark)
		last = mark
	}
	return out
}
