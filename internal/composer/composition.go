package composer

import (
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/timeline"
)

// FrameFunc draws a whole composition frame.
type FrameFunc func(frame, fps int) *scene.Node

// Composition is a top-level renderable unit with fixed length, frame rate
// and pixel size.
type Composition struct {
	ID       string
	FPS      int
	Width    int
	Height   int
	Duration int

	render FrameFunc
	covers func(frame int) bool
}

// NewComposition validates the settings once so that Frame never fails for
// in-range frames.
func NewComposition(id string, fps, width, height, duration int, render FrameFunc) (*Composition, error) {
	switch {
	case id == "":
		return nil, errorf(ErrInvalidComposition, "empty id")
	case fps <= 0:
		return nil, errorf(ErrInvalidComposition, "%s: fps must be positive, got %d", id, fps)
	case width <= 0 || height <= 0:
		return nil, errorf(ErrInvalidComposition, "%s: invalid size %dx%d", id, width, height)
	case duration <= 0:
		return nil, errorf(ErrInvalidComposition, "%s: duration must be positive, got %d", id, duration)
	case render == nil:
		return nil, errorf(ErrInvalidComposition, "%s: no render function", id)
	}
	return &Composition{ID: id, FPS: fps, Width: width, Height: height, Duration: duration, render: render}, nil
}

// FromSequence wraps a sequence, optionally decorated by overlay, in a
// composition. duration must equal the timeline total.
func FromSequence(id string, fps, width, height, duration int, seq *Sequence, overlay func(frame int, base *scene.Node) *scene.Node) (*Composition, error) {
	if seq == nil {
		return nil, errorf(ErrInvalidComposition, "%s: nil sequence", id)
	}
	if err := CheckDuration(id, duration, seq.Timeline()); err != nil {
		return nil, err
	}
	render := func(frame, fps int) *scene.Node {
		base := seq.Render(frame, fps)
		if overlay != nil {
			return overlay(frame, base)
		}
		return base
	}
	c, err := NewComposition(id, fps, width, height, duration, render)
	if err != nil {
		return nil, err
	}
	c.covers = seq.Covers
	return c, nil
}

// CheckDuration reports ErrDurationMismatch when a composition driven by tl
// would not end exactly where the timeline does.
func CheckDuration(id string, duration int, tl *timeline.Timeline) error {
	if tl == nil {
		return errorf(ErrInvalidComposition, "%s: nil timeline", id)
	}
	if duration != tl.Total() {
		return errorf(ErrDurationMismatch, "%s: duration %d, timeline %q ends at %d",
			id, duration, tl.Name(), tl.Total())
	}
	return nil
}

// Frame renders frame i.
func (c *Composition) Frame(i int) (*scene.Frame, error) {
	if i < 0 || i >= c.Duration {
		return nil, errorf(ErrFrameOutOfRange, "%s: frame %d not in [0, %d)", c.ID, i, c.Duration)
	}
	root := c.render(i, c.FPS)
	if root == nil {
		root = scene.Empty()
	}
	return &scene.Frame{
		Composition: c.ID,
		Index:       i,
		FPS:         c.FPS,
		Width:       c.Width,
		Height:      c.Height,
		Root:        root,
	}, nil
}

// Covers reports whether some phase claims frame i. Compositions that are
// not driven by a sequence claim every frame in range.
func (c *Composition) Covers(i int) bool {
	if i < 0 || i >= c.Duration {
		return false
	}
	if c.covers == nil {
		return true
	}
	return c.covers(i)
}

// Seconds returns the composition length in seconds.
func (c *Composition) Seconds() float64 {
	return float64(c.Duration) / float64(c.FPS)
}
