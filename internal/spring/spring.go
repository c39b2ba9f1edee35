// Package spring evaluates a damped harmonic oscillator as a pure function of
// the frame number. Nothing is integrated frame by frame: the position at any
// frame comes straight from the analytic solution.
package spring

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Config holds the physical parameters of the oscillator.
type Config struct {
	Damping   float64 `yaml:"damping"`
	Stiffness float64 `yaml:"stiffness"`
	Mass      float64 `yaml:"mass"`

	// OvershootClamping caps progress at 1.
	OvershootClamping bool `yaml:"overshoot_clamping,omitempty"`
}

// Validate rejects parameters the closed form cannot handle.
func (c Config) Validate() error {
	check := func(name string, v float64) error {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("%s is not finite", name)
		}
		if v <= 0 {
			return invalidf("%s must be positive, got %g", name, v)
		}
		return nil
	}
	if err := check("damping", c.Damping); err != nil {
		return err
	}
	if err := check("stiffness", c.Stiffness); err != nil {
		return err
	}
	return check("mass", c.Mass)
}

// AngularFrequency is sqrt(k/m) in radians per second.
func (c Config) AngularFrequency() float64 {
	return math.Sqrt(c.Stiffness / c.Mass)
}

// DampingRatio is c / (2*sqrt(k*m)). 1 is critical damping.
func (c Config) DampingRatio() float64 {
	return c.Damping / (2 * math.Sqrt(c.Stiffness*c.Mass))
}

// Evaluate returns the unit-step response at frame: 0 at rest, 1 at
// equilibrium. Frames at or before zero return 0.
func Evaluate(frame float64, fps int, cfg Config) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if fps <= 0 {
		return 0, invalidf("fps must be positive, got %d", fps)
	}
	if math.IsNaN(frame) {
		return 0, ErrNumericInstability
	}
	pos, _ := solve(frame, fps, cfg)
	if math.IsNaN(pos) || math.IsInf(pos, 0) {
		return 0, ErrNumericInstability
	}
	return pos, nil
}

// Progress is Evaluate for render paths that cannot fail. A rejected
// config or a non-finite solution reports the spring as settled.
func Progress(frame float64, fps int, cfg Config) float64 {
	pos, err := Evaluate(frame, fps, cfg)
	if err != nil {
		return 1
	}
	return pos
}

// Animate maps spring progress onto [from, to].
func Animate(frame float64, fps int, cfg Config, from, to float64) float64 {
	p := Progress(frame, fps, cfg)
	return from + (to-from)*p
}

// SettleFrame returns the first frame after which the spring stays within
// threshold of equilibrium and has effectively stopped. The scan is bounded
// to one minute of animation.
func SettleFrame(fps int, cfg Config, threshold float64) int {
	if fps <= 0 || threshold <= 0 {
		return 0
	}
	limit := fps * 60
	settled := limit
	for f := limit; f >= 0; f-- {
		pos, vel := solve(float64(f), fps, cfg)
		if math.Abs(pos-1) > threshold || math.Abs(vel)/float64(fps) > threshold {
			break
		}
		settled = f
	}
	return settled
}

func solve(frame float64, fps int, cfg Config) (pos, vel float64) {
	if frame <= 0 {
		return 0, 0
	}
	t := frame / float64(fps)
	s := harmonica.NewSpring(t, cfg.AngularFrequency(), cfg.DampingRatio())
	pos, vel = s.Update(0, 0, 1)
	if cfg.OvershootClamping && pos > 1 {
		pos = 1
	}
	return pos, vel
}
