package composer

import "github.com/ivlev/loopreel/internal/motion"

// Stagger fans one local frame out to N sub-animations that start one after
// another.
type Stagger struct {
	Base     float64 // delay of the first item
	Step     float64 // delay between items, or between groups when GroupSize > 1
	Duration float64 // length of each item's fade

	// GroupSize > 1 staggers items in groups: item i starts at
	// Base + floor(i/GroupSize)*Step + (i%GroupSize)*InnerStep.
	GroupSize int
	InnerStep float64

	Easing motion.Easing
}

// Delay returns the local start frame of item i.
func (s Stagger) Delay(i int) float64 {
	if s.GroupSize > 1 {
		return s.Base + float64(i/s.GroupSize)*s.Step + float64(i%s.GroupSize)*s.InnerStep
	}
	return s.Base + float64(i)*s.Step
}

// At returns the progress of item i at local frame.
func (s Stagger) At(local float64, i int) float64 {
	return motion.Fade(local, s.Delay(i), s.Duration, s.Easing)
}

// Fan returns the progress of n items at local frame.
func (s Stagger) Fan(local float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = s.At(local, i)
	}
	return out
}

// End is the local frame at which item n-1 finishes.
func (s Stagger) End(n int) float64 {
	if n <= 0 {
		return s.Base
	}
	return s.Delay(n-1) + s.Duration
}
