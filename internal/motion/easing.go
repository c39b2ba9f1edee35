package motion

import (
	"math"
	"sort"

	"github.com/tanema/gween/ease"
)

// Easing reshapes linear progress t in [0, 1]. Curves are expected to satisfy
// f(0) = 0 and f(1) = 1.
type Easing func(t float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 {
	return t
}

// Standard is the default entrance curve: fast start, long settle.
var Standard = CubicBezier(0.22, 1.0, 0.36, 1.0)

// Emphasis overshoots less than Standard but arrives sooner.
var Emphasis = CubicBezier(0.2, 0.8, 0.2, 1.0)

// EaseIn, EaseOut and EaseInOut match the CSS keywords.
var (
	EaseIn    = CubicBezier(0.4, 0.0, 1.0, 1.0)
	EaseOut   = CubicBezier(0.0, 0.0, 0.2, 1.0)
	EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)
)

// Exit is used for elements leaving the frame.
var Exit = FromTween(ease.InOutCubic)

// FromTween adapts a Penner-style tween function to an Easing.
func FromTween(fn ease.TweenFunc) Easing {
	return func(t float64) float64 {
		return float64(fn(float32(t), 0, 1, 1))
	}
}

// CubicBezier returns a curve matching CSS cubic-bezier(x1, y1, x2, y2).
// Outside [0, 1] the curve continues along its end tangents, so extended
// interpolation keeps moving instead of holding the end value.
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	startSlope, endSlope := 0.0, 0.0
	switch {
	case x1 > 0:
		startSlope = y1 / x1
	case y1 == 0 && x2 > 0:
		startSlope = y2 / x2
	}
	switch {
	case x2 < 1:
		endSlope = (y2 - 1) / (x2 - 1)
	case y2 == 1 && x1 < 1:
		endSlope = (y1 - 1) / (x1 - 1)
	}

	return func(t float64) float64 {
		if t <= 0 {
			return startSlope * t
		}
		if t >= 1 {
			return 1 + endSlope*(t-1)
		}

		u := t
		// Newton-Raphson converges quickly for most curves.
		for range 8 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				return sampleCurve(y1, y2, Clamp01(u))
			}
			dx := sampleCurveDerivative(x1, x2, u)
			if math.Abs(dx) < 1e-7 {
				break
			}
			u -= x / dx
		}

		// Bisection keeps the solution inside [0, 1].
		lo, hi := 0.0, 1.0
		u = Clamp01(u)
		for range 20 {
			x := sampleCurve(x1, x2, u) - t
			if math.Abs(x) < 1e-7 {
				break
			}
			if x > 0 {
				hi = u
			} else {
				lo = u
			}
			u = (lo + hi) * 0.5
		}

		return sampleCurve(y1, y2, u)
	}
}

func sampleCurve(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*t*a + 3*inv*t*t*b + t*t*t
}

func sampleCurveDerivative(a, b, t float64) float64 {
	inv := 1 - t
	return 3*inv*inv*a + 6*inv*t*(b-a) + 3*t*t*(1-b)
}

var easings = map[string]Easing{
	"linear":      Linear,
	"standard":    Standard,
	"emphasis":    Emphasis,
	"exit":        Exit,
	"ease-in":     EaseIn,
	"ease-out":    EaseOut,
	"ease-in-out": EaseInOut,
	"in-quad":     FromTween(ease.InQuad),
	"out-quad":    FromTween(ease.OutQuad),
	"in-out-quad": FromTween(ease.InOutQuad),
	"out-cubic":   FromTween(ease.OutCubic),
	"in-out-sine": FromTween(ease.InOutSine),
	"out-expo":    FromTween(ease.OutExpo),
	"out-back":    FromTween(ease.OutBack),
}

// EasingByName resolves a curve name used in timeline files. The empty name
// resolves to Linear.
func EasingByName(name string) (Easing, bool) {
	if name == "" {
		return Linear, true
	}
	e, ok := easings[name]
	return e, ok
}

// EasingNames lists the registered curve names in sorted order.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
