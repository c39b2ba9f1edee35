package timeline

import (
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/spring"
)

// settleThreshold is how close to rest an entrance spring must get before
// the phase that starts it ends.
const settleThreshold = 0.005

// Motion retunes how a composite scene moves between its phases. Unset
// fields keep the scene's own values.
type Motion struct {
	Easing      string `yaml:"easing,omitempty"` // curve name, see motion.EasingNames
	Overlap     *int   `yaml:"overlap,omitempty"`
	EnterFrames *int   `yaml:"enter_frames,omitempty"`
	TailFade    *int   `yaml:"tail_fade,omitempty"`
	Spring      string `yaml:"spring,omitempty"` // preset name, see spring.PresetNames
}

// IsZero reports whether m overrides nothing.
func (m Motion) IsZero() bool {
	return m.Easing == "" && m.Overlap == nil && m.EnterFrames == nil && m.TailFade == nil && m.Spring == ""
}

// Curve returns the easing override, or def when none is set.
func (m Motion) Curve(def motion.Easing) motion.Easing {
	if m.Easing == "" {
		return def
	}
	if e, ok := motion.EasingByName(m.Easing); ok {
		return e
	}
	return def
}

// SpringOr returns the spring override, or def when none is set.
func (m Motion) SpringOr(def spring.Config) spring.Config {
	if m.Spring == "" {
		return def
	}
	if c, ok := spring.Preset(m.Spring); ok {
		return c
	}
	return def
}

// Blend applies the frame count overrides to a scene's overlap, enter and
// tail fade lengths.
func (m Motion) Blend(overlap, enter, tail int) (int, int, int) {
	if m.Overlap != nil {
		overlap = *m.Overlap
	}
	if m.EnterFrames != nil {
		enter = *m.EnterFrames
	}
	if m.TailFade != nil {
		tail = *m.TailFade
	}
	return overlap, enter, tail
}

func (m Motion) validate(t *Timeline) error {
	if _, ok := motion.EasingByName(m.Easing); !ok {
		return invalidf(t.name, "unknown easing %q (known: %v)", m.Easing, motion.EasingNames())
	}
	counts := []struct {
		name string
		v    *int
	}{
		{"overlap", m.Overlap},
		{"enter_frames", m.EnterFrames},
		{"tail_fade", m.TailFade},
	}
	for _, c := range counts {
		if c.v != nil && *c.v < 0 {
			return invalidf(t.name, "negative %s %d", c.name, *c.v)
		}
	}
	if m.Spring == "" {
		return nil
	}

	cfg, ok := spring.Preset(m.Spring)
	if !ok {
		return invalidf(t.name, "unknown spring %q (known: %v)", m.Spring, spring.PresetNames())
	}
	if err := cfg.Validate(); err != nil {
		return invalidf(t.name, "spring %q: %v", m.Spring, err)
	}
	shortest := t.phases[0]
	for _, p := range t.phases[1:] {
		if p.Duration() < shortest.Duration() {
			shortest = p
		}
	}
	if settle := spring.SettleFrame(FPS, cfg, settleThreshold); settle > shortest.Duration() {
		return invalidf(t.name, "spring %q settles after %d frames, phase %q lasts %d",
			m.Spring, settle, shortest.ID, shortest.Duration())
	}
	return nil
}

// WithMotion returns a copy of t carrying m.
func (t *Timeline) WithMotion(m Motion) (*Timeline, error) {
	if err := m.validate(t); err != nil {
		return nil, err
	}
	out := *t
	out.motion = m
	return &out, nil
}

// Motion returns the motion overrides declared for t.
func (t *Timeline) Motion() Motion { return t.motion }
