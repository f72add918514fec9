package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"neuralplay/internal/logging"
)

type memoryStore struct {
	mu            sync.Mutex
	positions     map[string]float64
	bookmarks     map[string][]float64
	positionSaves int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		positions: make(map[string]float64),
		bookmarks: make(map[string][]float64),
	}
}

func (s *memoryStore) SavedPosition(path string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.positions[path]
	return pos, ok, nil
}

func (s *memoryStore) SavePosition(path string, position float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions[path] = position
	s.positionSaves++
	return nil
}

func (s *memoryStore) SavedBookmarks(path string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.bookmarks[path]...), nil
}

func (s *memoryStore) SaveBookmarks(path string, marks []float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks[path] = append([]float64(nil), marks...)
	return nil
}

func (s *memoryStore) saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positionSaves
}

func loadedController(t *testing.T, store *memoryStore, duration float64) *Controller {
	t.Helper()
	c := NewController(logging.NewNop(), store, Tuning{})
	if _, err := c.Load(MediaSource{ID: "/media/test.mp4", DisplayName: "Test"}, duration); err != nil {
		t.Fatalf("load: %v", err)
	}
	return c
}

func TestSeekClampsToDuration(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	cases := []struct {
		in   float64
		want float64
	}{
		{-10, 0},
		{0, 0},
		{60, 60},
		{120, 120},
		{500, 120},
	}
	for _, tc := range cases {
		c.Seek(tc.in)
		if got := c.State().Position; got != tc.want {
			t.Fatalf("seek(%v): position = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestLoopForcesPositionBackToStart(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(10)
	c.SetLoopStart()
	c.Seek(20)
	c.SetLoopEnd()
	c.Play()

	c.Seek(19.5)
	c.Advance(1)
	if got := c.State().Position; got != 10 {
		t.Fatalf("position after crossing loop end = %v, want 10", got)
	}
	if !c.State().Playing {
		t.Fatal("loop enforcement paused playback")
	}
}

func TestSetLoopEndBeforeStartIsNoOp(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(30)
	c.SetLoopStart()
	c.Seek(20)
	c.SetLoopEnd()
	if loop := c.State().Loop; loop.Active {
		t.Fatalf("loop armed with end before start: %+v", loop)
	}
}

func TestSetLoopStartPastEndClearsEnd(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(10)
	c.SetLoopStart()
	c.Seek(20)
	c.SetLoopEnd()
	c.Seek(50)
	c.SetLoopStart()
	loop := c.State().Loop
	if loop.Active || loop.End != 0 {
		t.Fatalf("stale loop end survived new start: %+v", loop)
	}
}

func TestLoadResumesInsideWindow(t *testing.T) {
	store := newMemoryStore()
	store.positions["/media/test.mp4"] = 42
	c := loadedController(t, store, 120)
	if got := c.State().Position; got != 42 {
		t.Fatalf("resume position = %v, want 42", got)
	}
}

func TestLoadSkipsResumeNearEnd(t *testing.T) {
	store := newMemoryStore()
	store.positions["/media/test.mp4"] = 117
	c := loadedController(t, store, 120)
	if got := c.State().Position; got != 0 {
		t.Fatalf("resume position = %v, want 0 for tail window", got)
	}
}

func TestLoadClearsLoopAndRestoresBookmarks(t *testing.T) {
	store := newMemoryStore()
	store.bookmarks["/media/test.mp4"] = []float64{30, 10, 30}
	c := loadedController(t, store, 120)
	c.Seek(10)
	c.SetLoopStart()
	c.Seek(20)
	c.SetLoopEnd()

	if _, err := c.Load(MediaSource{ID: "/media/test.mp4"}, 120); err != nil {
		t.Fatalf("reload: %v", err)
	}
	state := c.State()
	if state.Loop.Active || state.Loop.End != 0 {
		t.Fatalf("loop survived reload: %+v", state.Loop)
	}
	if len(state.Bookmarks) != 2 || state.Bookmarks[0] != 10 || state.Bookmarks[1] != 30 {
		t.Fatalf("bookmarks = %v, want sorted dedupe [10 30]", state.Bookmarks)
	}
}

func TestFrameStepPausesAndOffsets(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(10)
	c.Play()
	c.FrameStep(true)
	state := c.State()
	if state.Playing {
		t.Fatal("frame step left playback running")
	}
	want := 10 + 1.0/30
	if diff := state.Position - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("position = %v, want %v", state.Position, want)
	}
	c.FrameStep(false)
	c.FrameStep(false)
	want = 10 - 1.0/30
	if diff := c.State().Position - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("position after back steps = %v, want %v", c.State().Position, want)
	}
}

func TestAdvanceScalesByRate(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.SetRate(2)
	c.Play()
	c.Advance(5)
	if got := c.State().Position; got != 10 {
		t.Fatalf("position = %v, want 10 at 2x", got)
	}
}

func TestSetRateRejectsOffLadderValues(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.SetRate(3)
	if got := c.State().Rate; got != 1 {
		t.Fatalf("rate = %v, want 1 after off-ladder set", got)
	}
}

func TestCycleRateWraps(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.SetRate(4)
	if got := c.CycleRate(); got != 0.25 {
		t.Fatalf("cycle after fastest = %v, want 0.25", got)
	}
}

func TestAdvancePersistsAtMostOncePerSecond(t *testing.T) {
	store := newMemoryStore()
	c := loadedController(t, store, 120)
	c.Play()
	before := store.saves()
	for i := 0; i < 10; i++ {
		c.Advance(0.25)
	}
	if got := store.saves() - before; got != 2 {
		t.Fatalf("position saves during 2.5s of ticks = %d, want 2", got)
	}
}

func TestTuningWidensPersistInterval(t *testing.T) {
	store := newMemoryStore()
	c := NewController(logging.NewNop(), store, Tuning{PersistInterval: 5})
	if _, err := c.Load(MediaSource{ID: "/media/test.mp4"}, 120); err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Play()
	before := store.saves()
	for i := 0; i < 10; i++ {
		c.Advance(0.25)
	}
	if got := store.saves() - before; got != 0 {
		t.Fatalf("position saves during 2.5s with 5s interval = %d, want 0", got)
	}
	for i := 0; i < 10; i++ {
		c.Advance(0.25)
	}
	if got := store.saves() - before; got != 1 {
		t.Fatalf("position saves during 5s with 5s interval = %d, want 1", got)
	}
}

func TestTuningWidensResumeTailWindow(t *testing.T) {
	store := newMemoryStore()
	store.positions["/media/test.mp4"] = 100
	c := NewController(logging.NewNop(), store, Tuning{ResumeTailWindow: 30})
	if _, err := c.Load(MediaSource{ID: "/media/test.mp4"}, 120); err != nil {
		t.Fatalf("load: %v", err)
	}
	// 100 clears the default 5s window but sits inside the configured 30s.
	if got := c.State().Position; got != 0 {
		t.Fatalf("resume position = %v, want 0 inside 30s tail window", got)
	}
}

func TestStopRewindsAndPauses(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(40)
	c.Play()
	c.Stop()
	state := c.State()
	if state.Playing || state.Position != 0 {
		t.Fatalf("state after stop = %+v", state)
	}
}

func TestVolumeClampAndMute(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.SetVolume(1.4)
	if got := c.State().Volume; got != 1 {
		t.Fatalf("volume = %v, want 1", got)
	}
	c.StepVolume(-0.3)
	c.StepVolume(-0.9)
	if got := c.State().Volume; got != 0 {
		t.Fatalf("volume = %v, want 0", got)
	}
	c.ToggleMute()
	if !c.State().Muted {
		t.Fatal("mute toggle did not engage")
	}
}

type blockingExporter struct {
	release chan struct{}
	output  string
	err     error
}

func (e *blockingExporter) TrimVideo(ctx context.Context, path string, start, end float64) (string, error) {
	if e.release != nil {
		<-e.release
	}
	return e.output, e.err
}

func TestRequestClipRequiresArmedLoop(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	if _, err := c.RequestClip(context.Background(), &blockingExporter{}); !errors.Is(err, ErrLoopWindowIncomplete) {
		t.Fatalf("err = %v, want ErrLoopWindowIncomplete", err)
	}
}

func TestRequestClipDoesNotBlockTransport(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(10)
	c.SetLoopStart()
	c.Seek(20)
	c.SetLoopEnd()

	exporter := &blockingExporter{release: make(chan struct{}), output: "/clips/out.mp4"}
	pending, err := c.RequestClip(context.Background(), exporter)
	if err != nil {
		t.Fatalf("request clip: %v", err)
	}
	if pending.Status != ClipStatusPending {
		t.Fatalf("status = %s, want pending", pending.Status)
	}

	// Transport stays responsive while the export is in flight.
	c.Seek(15)
	if got := c.State().Position; got != 15 {
		t.Fatalf("seek during export = %v, want 15", got)
	}

	close(exporter.release)
	waitForClipStatus(t, c, ClipStatusSuccess)
	result, ok := c.ClipResult()
	if !ok || result.OutputPath != "/clips/out.mp4" {
		t.Fatalf("result = %+v", result)
	}
}

func TestLoadDiscardsStaleClipResult(t *testing.T) {
	c := loadedController(t, newMemoryStore(), 120)
	c.Seek(10)
	c.SetLoopStart()
	c.Seek(20)
	c.SetLoopEnd()

	exporter := &blockingExporter{release: make(chan struct{}), output: "/clips/out.mp4"}
	if _, err := c.RequestClip(context.Background(), exporter); err != nil {
		t.Fatalf("request clip: %v", err)
	}

	if _, err := c.Load(MediaSource{ID: "/media/next.mp4"}, 90); err != nil {
		t.Fatalf("load: %v", err)
	}
	close(exporter.release)

	time.Sleep(50 * time.Millisecond)
	if _, ok := c.ClipResult(); ok {
		t.Fatal("clip result from replaced source survived load")
	}
}

func waitForClipStatus(t *testing.T, c *Controller, want ClipStatus) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if result, ok := c.ClipResult(); ok && result.Status == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("clip never reached status %s", want)
}
