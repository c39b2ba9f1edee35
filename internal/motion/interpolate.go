// Package motion provides the frame-driven interpolation primitives used by
// every scene: piecewise range mapping with clamping and easing.
package motion

import "math"

// Extrapolation controls what Interpolate returns outside the input range.
type Extrapolation int

const (
	// Extend continues the slope of the outermost segment.
	Extend Extrapolation = iota
	// Clamp holds the outermost output value.
	Clamp
	// Identity returns the input value unchanged.
	Identity
)

func (e Extrapolation) String() string {
	switch e {
	case Clamp:
		return "clamp"
	case Identity:
		return "identity"
	default:
		return "extend"
	}
}

// Options tune a single interpolation. The zero value extends on both sides
// and interpolates linearly.
type Options struct {
	ExtrapolateLeft  Extrapolation
	ExtrapolateRight Extrapolation

	// Easing also receives progress outside [0, 1] when a side extends.
	Easing Easing
}

// Clamped is the most common option set: hold both ends.
var Clamped = Options{ExtrapolateLeft: Clamp, ExtrapolateRight: Clamp}

// WithEasing returns a copy of o using the given easing curve.
func (o Options) WithEasing(e Easing) Options {
	o.Easing = e
	return o
}

// Range is a validated input/output mapping. It is safe for concurrent use.
type Range struct {
	input  []float64
	output []float64
	opts   Options
}

// NewRange validates and copies the breakpoints.
func NewRange(input, output []float64, opts Options) (*Range, error) {
	if err := validate(input, output); err != nil {
		return nil, err
	}
	r := &Range{
		input:  append([]float64(nil), input...),
		output: append([]float64(nil), output...),
		opts:   opts,
	}
	return r, nil
}

// MustRange is NewRange for package-level constant ranges. It panics on error.
func MustRange(input, output []float64, opts Options) *Range {
	r, err := NewRange(input, output, opts)
	if err != nil {
		panic(err)
	}
	return r
}

// At evaluates the range at frame.
func (r *Range) At(frame float64) float64 {
	return evaluate(frame, r.input, r.output, r.opts)
}

// Interpolate maps frame from input breakpoints to output values.
func Interpolate(frame float64, input, output []float64, opts Options) (float64, error) {
	if err := validate(input, output); err != nil {
		return 0, err
	}
	return evaluate(frame, input, output, opts), nil
}

// Fade maps [start, start+duration] to [0, 1], clamped on both sides.
// A non-positive duration degrades to a step at start.
func Fade(frame float64, start, duration float64, easing Easing) float64 {
	if duration <= 0 {
		if frame < start {
			return 0
		}
		return 1
	}
	in := [2]float64{start, start + duration}
	out := [2]float64{0, 1}
	return evaluate(frame, in[:], out[:], Clamped.WithEasing(easing))
}

// Between maps [start, end] to [from, to], clamped on both sides.
func Between(frame, start, end, from, to float64, easing Easing) float64 {
	if end <= start {
		if frame < start {
			return from
		}
		return to
	}
	in := [2]float64{start, end}
	out := [2]float64{from, to}
	return evaluate(frame, in[:], out[:], Clamped.WithEasing(easing))
}

func validate(input, output []float64) error {
	if len(input) < 2 {
		return invalidf("input range needs at least 2 points, got %d", len(input))
	}
	if len(input) != len(output) {
		return invalidf("input range has %d points, output range has %d", len(input), len(output))
	}
	for i, v := range input {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("input[%d] is not finite", i)
		}
		if i > 0 && v <= input[i-1] {
			return invalidf("input range must be strictly increasing: input[%d]=%g <= input[%d]=%g", i, v, i-1, input[i-1])
		}
	}
	for i, v := range output {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return invalidf("output[%d] is not finite", i)
		}
	}
	return nil
}

// segment returns the index of the segment that owns x. Points left of the
// range map to the first segment and points right of it to the last.
func segment(x float64, input []float64) int {
	i := 1
	for ; i < len(input)-1; i++ {
		if input[i] >= x {
			break
		}
	}
	return i - 1
}

func evaluate(x float64, input, output []float64, opts Options) float64 {
	i := segment(x, input)
	inMin, inMax := input[i], input[i+1]
	outMin, outMax := output[i], output[i+1]

	if x < inMin {
		switch opts.ExtrapolateLeft {
		case Identity:
			return x
		case Clamp:
			x = inMin
		}
	}
	if x > inMax {
		switch opts.ExtrapolateRight {
		case Identity:
			return x
		case Clamp:
			x = inMax
		}
	}

	if outMin == outMax {
		return outMin
	}

	t := (x - inMin) / (inMax - inMin)
	if opts.Easing != nil {
		t = opts.Easing(t)
	}
	return LerpFloat64(outMin, outMax, t)
}
