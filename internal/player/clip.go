package player

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"neuralplay/internal/logging"
)

// ClipExporter cuts a clip from a media file and returns the output path.
type ClipExporter interface {
	TrimVideo(ctx context.Context, path string, start, end float64) (string, error)
}

// ClipStatus is the lifecycle of one clip export request.
type ClipStatus string

const (
	ClipStatusPending ClipStatus = "pending"
	ClipStatusSuccess ClipStatus = "success"
	ClipStatusError   ClipStatus = "error"
)

// ClipResult is the observable state of the most recent clip request.
type ClipResult struct {
	ID         string     `json:"id"`
	Source     string     `json:"source"`
	Start      float64    `json:"start"`
	End        float64    `json:"end"`
	Status     ClipStatus `json:"status"`
	OutputPath string     `json:"output_path,omitempty"`
	Error      string     `json:"error,omitempty"`
}

// ErrLoopWindowIncomplete reports a clip request without both loop bounds.
var ErrLoopWindowIncomplete = errors.New("clip request requires an armed loop window")

// RequestClip exports the current loop window through the given exporter.
// The export runs asynchronously and never blocks transport commands.
// Completions from a source that was replaced by a later Load are
// discarded. The returned result is the pending record; poll ClipResult
// for the outcome.
func (c *Controller) RequestClip(ctx context.Context, exporter ClipExporter) (ClipResult, error) {
	c.mu.Lock()
	if !c.loaded {
		c.mu.Unlock()
		return ClipResult{}, errors.New("clip request requires a loaded source")
	}
	if !c.loop.Active || c.loop.End <= c.loop.Start {
		c.mu.Unlock()
		return ClipResult{}, ErrLoopWindowIncomplete
	}
	result := ClipResult{
		ID:     uuid.NewString(),
		Source: c.source.ID,
		Start:  c.loop.Start,
		End:    c.loop.End,
		Status: ClipStatusPending,
	}
	generation := c.generation
	c.clip = &result
	c.mu.Unlock()

	go c.runClip(ctx, exporter, result, generation)
	return result, nil
}

func (c *Controller) runClip(ctx context.Context, exporter ClipExporter, req ClipResult, generation uint64) {
	outputPath, err := exporter.TrimVideo(ctx, req.Source, req.Start, req.End)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != generation || c.clip == nil || c.clip.ID != req.ID {
		// A later load owns the controller now; drop the stale result.
		c.logger.Debug("discarding clip result from replaced source", logging.String("clip_id", req.ID))
		return
	}
	if err != nil {
		c.clip.Status = ClipStatusError
		c.clip.Error = err.Error()
		c.logger.Warn("clip export failed", logging.String("clip_id", req.ID), logging.Error(err))
		return
	}
	c.clip.Status = ClipStatusSuccess
	c.clip.OutputPath = outputPath
	c.logger.Info("clip export finished",
		logging.String("clip_id", req.ID),
		logging.String("output", outputPath))
}

// ClipResult returns a copy of the latest clip request state, if any.
func (c *Controller) ClipResult() (ClipResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.clip == nil {
		return ClipResult{}, false
	}
	return *c.clip, true
}
