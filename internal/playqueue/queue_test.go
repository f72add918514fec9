package playqueue

import (
	"errors"
	"math/rand"
	"testing"

	"neuralplay/internal/library"
)

func testItems(n int) []library.Item {
	items := make([]library.Item, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, library.Item{Path: string(rune('a'+i)) + ".mp4"})
	}
	return items
}

func TestNewRejectsEmptyPlaylist(t *testing.T) {
	if _, err := New(nil, 0, nil); !errors.Is(err, ErrEmptyPlaylist) {
		t.Fatalf("err = %v, want ErrEmptyPlaylist", err)
	}
}

func TestNextAdjacency(t *testing.T) {
	q, err := New(testItems(3), 0, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	adv := q.Next()
	if !adv.Move || q.Index() != 1 {
		t.Fatalf("advance = %+v index = %d", adv, q.Index())
	}
	adv = q.Previous()
	if !adv.Move || q.Index() != 0 {
		t.Fatalf("previous = %+v index = %d", adv, q.Index())
	}
}

func TestNextRepeatNoneExhaustsSilently(t *testing.T) {
	q, err := New(testItems(3), 2, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	adv := q.Next()
	if adv.Move || adv.Restart {
		t.Fatalf("advance past end = %+v, want silent exhaustion", adv)
	}
	if q.Index() != 2 {
		t.Fatalf("index moved to %d", q.Index())
	}
}

func TestNextRepeatAllWraps(t *testing.T) {
	q, err := New(testItems(3), 2, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	q.SetRepeat(RepeatAll)
	adv := q.Next()
	if !adv.Move || q.Index() != 0 {
		t.Fatalf("wrap = %+v index = %d", adv, q.Index())
	}
	adv = q.Previous()
	if !adv.Move || q.Index() != 2 {
		t.Fatalf("reverse wrap = %+v index = %d", adv, q.Index())
	}
}

func TestNextRepeatOneRestartsWithoutMoving(t *testing.T) {
	q, err := New(testItems(3), 1, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	q.SetRepeat(RepeatOne)
	adv := q.Next()
	if !adv.Restart || adv.Move {
		t.Fatalf("advance = %+v, want restart only", adv)
	}
	if q.Index() != 1 {
		t.Fatalf("index moved to %d", q.Index())
	}
}

func TestShufflePicksUniformlyAndMayRepeatCurrent(t *testing.T) {
	q, err := New(testItems(4), 0, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	q.SetShuffled(true)

	seen := make(map[int]int)
	repeated := false
	for i := 0; i < 200; i++ {
		before := q.Index()
		adv := q.Next()
		if !adv.Move {
			t.Fatalf("shuffle advance %d did not move", i)
		}
		if q.Index() == before {
			repeated = true
		}
		seen[q.Index()]++
	}
	if len(seen) != 4 {
		t.Fatalf("shuffle only visited %d of 4 indexes", len(seen))
	}
	if !repeated {
		t.Fatal("shuffle never re-selected the current index in 200 draws")
	}
}

func TestStartIndexOutOfRangeFallsBackToZero(t *testing.T) {
	q, err := New(testItems(3), 7, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if q.Index() != 0 {
		t.Fatalf("index = %d, want 0", q.Index())
	}
}
