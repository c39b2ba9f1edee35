// Package composer selects, offsets and blends the phases of a composite
// scene. Everything here is a pure function of the frame number.
package composer

import (
	"math"

	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/timeline"
)

// DefaultEnterFrames is used when neither EnterFrames nor Overlap is set.
const DefaultEnterFrames = 18

// Local is what a phase renderer sees: its own frame offset, the length of
// its window and the frame rate.
type Local struct {
	Frame    int
	Duration int
	FPS      int
}

// Progress returns Frame/Duration clamped to [0, 1].
func (l Local) Progress() float64 {
	if l.Duration <= 0 {
		return 1
	}
	return motion.Clamp01(float64(l.Frame) / float64(l.Duration))
}

// Seconds returns the local frame in seconds.
func (l Local) Seconds() float64 {
	if l.FPS <= 0 {
		return 0
	}
	return float64(l.Frame) / float64(l.FPS)
}

// RenderFunc draws one phase. It must be defined for any local frame,
// including negative frames and frames past the window.
type RenderFunc func(Local) *scene.Node

// Entry binds a renderer and its slide distances to a timeline phase.
type Entry struct {
	Phase  string
	Render RenderFunc

	EnterFromX float64 // horizontal offset before entering
	ExitToX    float64 // horizontal offset after exiting
	EnterRiseY float64 // vertical offset before entering
	ExitDropY  float64 // upward drift while exiting
}

// Options control overlap blending.
type Options struct {
	// Overlap is how long a phase keeps rendering past its window end while
	// the next phase enters.
	Overlap int
	// EnterFrames is the fade-in length. Zero means Overlap, or
	// DefaultEnterFrames when Overlap is zero as well.
	EnterFrames int
	// TailFade fades the last phase out over its final frames. Zero keeps
	// it fully visible until the end.
	TailFade int
	// Easing shapes both enter and exit progress. Nil is linear.
	Easing motion.Easing
}

// Blend is the computed transition state of one active phase.
type Blend struct {
	Enter      float64
	Exit       float64
	Opacity    float64
	TranslateX float64
	TranslateY float64
}

// Active describes one phase rendered at a frame.
type Active struct {
	PhaseID string
	Index   int
	Local   int
	Blend   Blend
}

// Resolution is the outcome of phase selection at one frame. Primary is the
// entering phase when two phases overlap.
type Resolution struct {
	Primary   Active
	Secondary *Active
}

// Sequence is an immutable, validated phase composer.
type Sequence struct {
	tl      *timeline.Timeline
	opts    Options
	entries []Entry
	spans   []timeline.Window
}

// NewSequence validates entries against tl. Every phase needs exactly one
// entry; the entry order does not matter.
func NewSequence(tl *timeline.Timeline, opts Options, entries ...Entry) (*Sequence, error) {
	if tl == nil {
		return nil, errorf(ErrInvalidSequence, "nil timeline")
	}
	if opts.Overlap < 0 || opts.EnterFrames < 0 || opts.TailFade < 0 {
		return nil, errorf(ErrInvalidSequence, "%s: negative frame counts in %+v", tl.Name(), opts)
	}
	if opts.EnterFrames == 0 {
		opts.EnterFrames = opts.Overlap
		if opts.EnterFrames == 0 {
			opts.EnterFrames = DefaultEnterFrames
		}
	}
	if opts.Easing == nil {
		opts.Easing = motion.Linear
	}

	ordered := make([]Entry, tl.Len())
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		i := tl.Index(e.Phase)
		if i < 0 {
			return nil, errorf(ErrInvalidSequence, "%s: entry for unknown phase %q", tl.Name(), e.Phase)
		}
		if seen[e.Phase] {
			return nil, errorf(ErrInvalidSequence, "%s: duplicate entry for phase %q", tl.Name(), e.Phase)
		}
		if e.Render == nil {
			return nil, errorf(ErrInvalidSequence, "%s: phase %q has no renderer", tl.Name(), e.Phase)
		}
		seen[e.Phase] = true
		ordered[i] = e
	}

	phases := tl.Phases()
	spans := make([]timeline.Window, len(phases))
	last := len(phases) - 1
	for i, p := range phases {
		if !seen[p.ID] {
			return nil, errorf(ErrInvalidSequence, "%s: phase %q has no entry", tl.Name(), p.ID)
		}

		tail := opts.Overlap
		if i == last {
			tail = opts.TailFade
		}
		if need := opts.EnterFrames + tail; p.Duration() < need {
			return nil, errorf(ErrInvalidSequence, "%s: phase %q lasts %d frames, needs at least %d for enter and exit",
				tl.Name(), p.ID, p.Duration(), need)
		}

		spans[i] = p.Window
		if i != last {
			spans[i].End += opts.Overlap
		}
	}

	for i := 0; i+2 < len(spans); i++ {
		if spans[i].End > spans[i+2].Start {
			return nil, errorf(ErrInvalidSequence, "%s: phases %q and %q would render at the same time as %q",
				tl.Name(), phases[i].ID, phases[i+2].ID, phases[i+1].ID)
		}
	}

	return &Sequence{tl: tl, opts: opts, entries: ordered, spans: spans}, nil
}

// Timeline returns the timeline the sequence was built from.
func (s *Sequence) Timeline() *timeline.Timeline { return s.tl }

// Total is the number of frames the sequence covers.
func (s *Sequence) Total() int { return s.tl.Total() }

// Span returns the frames during which phase i is rendered.
func (s *Sequence) Span(i int) timeline.Window { return s.spans[i] }

// Resolve selects the phases rendered at frame. It returns false when no
// phase claims the frame.
func (s *Sequence) Resolve(frame int) (Resolution, bool) {
	var res Resolution
	found := 0
	for i := len(s.spans) - 1; i >= 0; i-- {
		if !s.spans[i].Contains(frame) {
			continue
		}
		a := s.active(i, frame)
		if found == 0 {
			res.Primary = a
		} else {
			res.Secondary = &a
			break
		}
		found++
	}
	return res, found > 0
}

// Covers reports whether some phase renders at frame.
func (s *Sequence) Covers(frame int) bool {
	_, ok := s.Resolve(frame)
	return ok
}

func (s *Sequence) active(i, frame int) Active {
	span := s.spans[i]
	local := frame - span.Start
	return Active{
		PhaseID: s.entries[i].Phase,
		Index:   i,
		Local:   local,
		Blend:   s.blend(i, local),
	}
}

func (s *Sequence) blend(i, local int) Blend {
	e := s.entries[i]
	span := s.spans[i]

	exitFrames := s.opts.Overlap
	if i == len(s.spans)-1 {
		exitFrames = s.opts.TailFade
	}

	enter := motion.Fade(float64(local), 0, float64(s.opts.EnterFrames), s.opts.Easing)
	exit := 0.0
	if exitFrames > 0 {
		exitStart := float64(span.Duration() - exitFrames)
		exit = motion.Fade(float64(local), exitStart, float64(exitFrames), s.opts.Easing)
	}

	return Blend{
		Enter:      enter,
		Exit:       exit,
		Opacity:    math.Min(enter, 1-exit),
		TranslateX: (1-enter)*e.EnterFromX + exit*e.ExitToX,
		TranslateY: (1-enter)*e.EnterRiseY - exit*e.ExitDropY,
	}
}

// Render draws the phases active at frame, the exiting phase beneath the
// entering one. Frames no phase claims render as an empty group.
func (s *Sequence) Render(frame, fps int) *scene.Node {
	res, ok := s.Resolve(frame)
	if !ok {
		return scene.Empty()
	}

	root := scene.Group(s.tl.Name())
	if res.Secondary != nil {
		root.Add(s.draw(*res.Secondary, fps))
	}
	root.Add(s.draw(res.Primary, fps))
	return root
}

func (s *Sequence) draw(a Active, fps int) *scene.Node {
	p := s.tl.At(a.Index)
	content := s.entries[a.Index].Render(Local{Frame: a.Local, Duration: p.Duration(), FPS: fps})
	return scene.Group("phase:"+a.PhaseID, content).
		Fade(a.Blend.Opacity).
		Shift(a.Blend.TranslateX, a.Blend.TranslateY)
}
