package daemon

import (
	"context"
	"errors"

	"neuralplay/internal/library"
	"neuralplay/internal/logging"
	"neuralplay/internal/playqueue"
)

// ErrNoQueue reports queue navigation without an active play queue.
var ErrNoQueue = errors.New("no play queue is active")

// QueueStatus is the observable state of the active queue.
type QueueStatus struct {
	Active   bool                `json:"active"`
	Index    int                 `json:"index"`
	Length   int                 `json:"length"`
	Shuffled bool                `json:"shuffled"`
	Repeat   playqueue.RepeatMode `json:"repeat"`
	Current  library.Item         `json:"current"`
}

// PlayPlaylist starts a queue over the stored playlist and loads the
// item at startIndex.
func (d *Daemon) PlayPlaylist(ctx context.Context, playlistID int64, startIndex int) error {
	pl, err := d.store.Playlist(ctx, playlistID)
	if err != nil {
		return err
	}
	queue, err := playqueue.New(pl.Items, startIndex, nil)
	if err != nil {
		return err
	}

	d.mu.Lock()
	d.queue = queue
	d.mu.Unlock()

	if err := d.Load(ctx, queue.Current().Path); err != nil {
		return err
	}
	d.controller.Play()
	d.logger.Info("playlist started",
		logging.Int64("playlist_id", playlistID),
		logging.Int("items", queue.Len()))
	return nil
}

// ClearQueue drops the active queue without touching playback.
func (d *Daemon) ClearQueue() {
	d.mu.Lock()
	d.queue = nil
	d.mu.Unlock()
}

// QueueNext advances the active queue per its repeat and shuffle modes.
func (d *Daemon) QueueNext() error {
	return d.advanceQueue(func(q *playqueue.Queue) playqueue.Advance { return q.Next() })
}

// QueuePrevious moves the active queue backwards.
func (d *Daemon) QueuePrevious() error {
	return d.advanceQueue(func(q *playqueue.Queue) playqueue.Advance { return q.Previous() })
}

func (d *Daemon) advanceQueue(step func(*playqueue.Queue) playqueue.Advance) error {
	d.mu.Lock()
	queue := d.queue
	d.mu.Unlock()
	if queue == nil {
		return ErrNoQueue
	}

	adv := step(queue)
	switch {
	case adv.Restart:
		d.controller.Seek(0)
		d.controller.Play()
	case adv.Move:
		if err := d.Load(d.ctx, adv.Load.Path); err != nil {
			return err
		}
		d.controller.Play()
	}
	// Neither restart nor move means the queue is exhausted; playback is
	// left untouched.
	return nil
}

// SetShuffle toggles shuffle selection on the active queue.
func (d *Daemon) SetShuffle(shuffled bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queue == nil {
		return ErrNoQueue
	}
	d.queue.SetShuffled(shuffled)
	return nil
}

// SetRepeat selects the repeat mode on the active queue.
func (d *Daemon) SetRepeat(mode playqueue.RepeatMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queue == nil {
		return ErrNoQueue
	}
	d.queue.SetRepeat(mode)
	return nil
}

// Queue returns the state of the active queue.
func (d *Daemon) Queue() QueueStatus {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.queue == nil {
		return QueueStatus{}
	}
	return QueueStatus{
		Active:   true,
		Index:    d.queue.Index(),
		Length:   d.queue.Len(),
		Shuffled: d.queue.Shuffled(),
		Repeat:   d.queue.Repeat(),
		Current:  d.queue.Current(),
	}
}
