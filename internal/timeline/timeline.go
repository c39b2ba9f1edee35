// Package timeline declares the phase boundaries of composite scenes. A
// timeline is pure data: it is validated once at construction and only read
// afterwards, so it is safe to share between render workers.
package timeline

// Window is a half-open frame range [Start, End) relative to the
// composition origin.
type Window struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

// Duration returns End - Start.
func (w Window) Duration() int {
	return w.End - w.Start
}

// Contains reports whether frame lies in [Start, End).
func (w Window) Contains(frame int) bool {
	return frame >= w.Start && frame < w.End
}

// Phase is a named window.
type Phase struct {
	ID     string `yaml:"id"`
	Window `yaml:",inline"`
}

// Timeline is an ordered set of phases scoped to one composition.
type Timeline struct {
	name   string
	phases []Phase
	index  map[string]int
	motion Motion
}

// New validates phases and builds a timeline. Phases must start at frame 0,
// have strictly increasing starts and ends, and leave no gaps. Adjacent
// windows may overlap.
func New(name string, phases ...Phase) (*Timeline, error) {
	if len(phases) == 0 {
		return nil, invalidf(name, "no phases")
	}

	index := make(map[string]int, len(phases))
	for i, p := range phases {
		if p.ID == "" {
			return nil, invalidf(name, "phase %d has empty id", i)
		}
		if _, dup := index[p.ID]; dup {
			return nil, invalidf(name, "duplicate phase id %q", p.ID)
		}
		index[p.ID] = i

		if p.Start >= p.End {
			return nil, invalidf(name, "phase %q has non-positive duration [%d, %d)", p.ID, p.Start, p.End)
		}
		if i == 0 {
			if p.Start != 0 {
				return nil, invalidf(name, "first phase %q starts at %d, want 0", p.ID, p.Start)
			}
			continue
		}

		prev := phases[i-1]
		if p.Start <= prev.Start || p.End <= prev.End {
			return nil, invalidf(name, "phase %q [%d, %d) is not ordered after %q [%d, %d)",
				p.ID, p.Start, p.End, prev.ID, prev.Start, prev.End)
		}
		if p.Start > prev.End {
			return nil, invalidf(name, "gap between %q and %q: frames [%d, %d) are not covered",
				prev.ID, p.ID, prev.End, p.Start)
		}
	}

	return &Timeline{
		name:   name,
		phases: append([]Phase(nil), phases...),
		index:  index,
	}, nil
}

// MustNew is New for package-level timelines. It panics on error.
func MustNew(name string, phases ...Phase) *Timeline {
	tl, err := New(name, phases...)
	if err != nil {
		panic(err)
	}
	return tl
}

// Name returns the timeline name.
func (t *Timeline) Name() string { return t.name }

// Total is the end frame of the last phase.
func (t *Timeline) Total() int {
	return t.phases[len(t.phases)-1].End
}

// Len returns the number of phases.
func (t *Timeline) Len() int { return len(t.phases) }

// Phases returns a copy of the phases in order.
func (t *Timeline) Phases() []Phase {
	return append([]Phase(nil), t.phases...)
}

// At returns the i-th phase.
func (t *Timeline) At(i int) Phase { return t.phases[i] }

// Active returns the first phase, in order, whose window contains frame.
// Frames outside [0, Total) match nothing.
func (t *Timeline) Active(frame int) (Phase, bool) {
	for _, p := range t.phases {
		if frame < p.End {
			if frame < p.Start {
				return Phase{}, false
			}
			return p, true
		}
	}
	return Phase{}, false
}

// Lookup finds a phase by id.
func (t *Timeline) Lookup(id string) (Phase, bool) {
	i, ok := t.index[id]
	if !ok {
		return Phase{}, false
	}
	return t.phases[i], true
}

// Index returns the position of phase id, or -1.
func (t *Timeline) Index(id string) int {
	if i, ok := t.index[id]; ok {
		return i
	}
	return -1
}

// LocalFrame converts a global frame to an offset inside phase id. The
// result may be negative or exceed the phase duration.
func (t *Timeline) LocalFrame(frame int, id string) (int, bool) {
	p, ok := t.Lookup(id)
	if !ok {
		return 0, false
	}
	return frame - p.Start, true
}
