// Package playqueue derives a transient playback order over one
// playlist. Nothing here is persisted; a queue lives only while its
// playlist is being played.
package playqueue

import (
	"errors"
	"math/rand"

	"neuralplay/internal/library"
)

// RepeatMode controls wraparound at the queue edges.
type RepeatMode string

const (
	RepeatNone RepeatMode = "none"
	RepeatOne  RepeatMode = "one"
	RepeatAll  RepeatMode = "all"
)

// Advance is the outcome of a next/previous call.
type Advance struct {
	// Load is the item the controller should load, when Move is true.
	Load library.Item
	// Move reports whether the queue selected a new (or re-selected)
	// item to load.
	Move bool
	// Restart reports that the current item should seek to 0 instead of
	// advancing (repeat-one).
	Restart bool
}

// ErrEmptyPlaylist rejects starting a queue over a playlist with no items.
var ErrEmptyPlaylist = errors.New("playlist has no items")

// Queue walks one playlist. The index stays inside [0, len(items)) for
// the queue's whole lifetime.
type Queue struct {
	items    []library.Item
	index    int
	shuffled bool
	repeat   RepeatMode
	rng      *rand.Rand
}

// New starts a queue at startIndex. The rng is used only for shuffle
// selection; pass a seeded source for deterministic tests.
func New(items []library.Item, startIndex int, rng *rand.Rand) (*Queue, error) {
	if len(items) == 0 {
		return nil, ErrEmptyPlaylist
	}
	if startIndex < 0 || startIndex >= len(items) {
		startIndex = 0
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Queue{items: append([]library.Item(nil), items...), index: startIndex, repeat: RepeatNone, rng: rng}, nil
}

// Current returns the item at the queue position.
func (q *Queue) Current() library.Item {
	return q.items[q.index]
}

// Index returns the queue position.
func (q *Queue) Index() int {
	return q.index
}

// Len returns the number of items in the queue.
func (q *Queue) Len() int {
	return len(q.items)
}

// SetShuffled toggles shuffle selection for subsequent moves.
func (q *Queue) SetShuffled(shuffled bool) {
	q.shuffled = shuffled
}

// Shuffled reports whether shuffle selection is on.
func (q *Queue) Shuffled() bool {
	return q.shuffled
}

// SetRepeat selects the wraparound mode.
func (q *Queue) SetRepeat(mode RepeatMode) {
	q.repeat = mode
}

// Repeat returns the wraparound mode.
func (q *Queue) Repeat() RepeatMode {
	return q.repeat
}

// Next advances the queue. Shuffle picks a uniformly random index and may
// re-select the current one. Repeat-one restarts the current item without
// moving. Repeat-none at the last index exhausts silently: the index
// stays put and nothing loads.
func (q *Queue) Next() Advance {
	return q.step(1)
}

// Previous moves the queue backwards with the same edge rules as Next.
func (q *Queue) Previous() Advance {
	return q.step(-1)
}

func (q *Queue) step(direction int) Advance {
	if q.repeat == RepeatOne {
		return Advance{Restart: true}
	}
	if q.shuffled {
		q.index = q.rng.Intn(len(q.items))
		return Advance{Load: q.Current(), Move: true}
	}

	next := q.index + direction
	if next >= len(q.items) {
		if q.repeat != RepeatAll {
			return Advance{}
		}
		next = 0
	}
	if next < 0 {
		if q.repeat != RepeatAll {
			return Advance{}
		}
		next = len(q.items) - 1
	}
	q.index = next
	return Advance{Load: q.Current(), Move: true}
}
