package motion

import (
	"errors"
	"math"
	"testing"
)

func TestInterpolateClamping(t *testing.T) {
	tests := []struct {
		name  string
		frame float64
		opts  Options
		want  float64
	}{
		{"inside", 15, Options{}, 0.5},
		{"left clamp", -5, Options{ExtrapolateLeft: Clamp}, 0},
		{"right clamp", 25, Options{ExtrapolateRight: Clamp}, 1},
		{"left extend", 5, Options{}, -0.5},
		{"right extend", 30, Options{}, 2},
		{"left identity", -5, Options{ExtrapolateLeft: Identity}, -5},
		{"right identity", 42, Options{ExtrapolateRight: Identity}, 42},
		{"on first breakpoint", 10, Clamped, 0},
		{"on last breakpoint", 20, Clamped, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.frame, []float64{10, 20}, []float64{0, 1}, tt.opts)
			if err != nil {
				t.Fatalf("Interpolate failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Interpolate(%v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestInterpolateScenarios(t *testing.T) {
	got, err := Interpolate(50, []float64{0, 100}, []float64{0, 1}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got != 0.5 {
		t.Errorf("expected 0.5, got %v", got)
	}

	got, err = Interpolate(150, []float64{0, 100}, []float64{0, 1}, Options{ExtrapolateRight: Clamp})
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("expected 1, got %v", got)
	}
}

func TestInterpolateMultiSegment(t *testing.T) {
	r, err := NewRange([]float64{0, 10, 290, 300}, []float64{0, 1, 1, 0}, Clamped)
	if err != nil {
		t.Fatalf("NewRange failed: %v", err)
	}

	if v := r.At(0); v != 0 {
		t.Errorf("frame 0: expected 0, got %v", v)
	}
	for f := 10; f <= 290; f += 10 {
		if v := r.At(float64(f)); v != 1 {
			t.Errorf("frame %d: expected 1, got %v", f, v)
		}
	}
	if v := r.At(300); v != 0 {
		t.Errorf("frame 300: expected 0, got %v", v)
	}
	if v := r.At(-20); v != 0 {
		t.Errorf("frame -20: expected clamped 0, got %v", v)
	}
	if v := r.At(320); v != 0 {
		t.Errorf("frame 320: expected clamped 0, got %v", v)
	}

	// Monotonic within each segment.
	prev := r.At(0)
	for f := 1; f <= 10; f++ {
		v := r.At(float64(f))
		if v < prev {
			t.Errorf("fade-in not monotonic at %d: %v < %v", f, v, prev)
		}
		prev = v
	}
	prev = r.At(290)
	for f := 291; f <= 300; f++ {
		v := r.At(float64(f))
		if v > prev {
			t.Errorf("fade-out not monotonic at %d: %v > %v", f, v, prev)
		}
		prev = v
	}
}

func TestInterpolateEasing(t *testing.T) {
	square := func(t float64) float64 { return t * t }
	got, err := Interpolate(5, []float64{0, 10}, []float64{0, 100}, Options{Easing: square})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-25) > 1e-9 {
		t.Errorf("expected eased value 25, got %v", got)
	}

	// Easing is applied to the local segment position, not the global one.
	got, err = Interpolate(15, []float64{0, 10, 20}, []float64{0, 10, 30}, Options{Easing: square})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-15) > 1e-9 {
		t.Errorf("expected 15, got %v", got)
	}
}

func TestInterpolateInvalidRanges(t *testing.T) {
	tests := []struct {
		name   string
		input  []float64
		output []float64
	}{
		{"too short", []float64{0}, []float64{1}},
		{"length mismatch", []float64{0, 1, 2}, []float64{0, 1}},
		{"not increasing", []float64{0, 10, 5}, []float64{0, 1, 2}},
		{"duplicate breakpoint", []float64{0, 10, 10}, []float64{0, 1, 2}},
		{"nan input", []float64{0, math.NaN()}, []float64{0, 1}},
		{"inf output", []float64{0, 1}, []float64{0, math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Interpolate(0, tt.input, tt.output, Options{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("expected ErrInvalidRange, got %v", err)
			}
			var re *RangeError
			if !errors.As(err, &re) {
				t.Errorf("expected *RangeError, got %T", err)
			}
		})
	}
}

func TestInterpolateIdempotent(t *testing.T) {
	opts := Clamped.WithEasing(Standard)
	for f := -10.0; f < 120; f += 0.5 {
		a, _ := Interpolate(f, []float64{0, 30, 90}, []float64{0, 0.8, 1}, opts)
		b, _ := Interpolate(f, []float64{0, 30, 90}, []float64{0, 0.8, 1}, opts)
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Fatalf("frame %v: results differ: %v vs %v", f, a, b)
		}
	}
}

func TestFadeAndBetween(t *testing.T) {
	if v := Fade(5, 10, 20, nil); v != 0 {
		t.Errorf("before start: expected 0, got %v", v)
	}
	if v := Fade(20, 10, 20, nil); v != 0.5 {
		t.Errorf("midway: expected 0.5, got %v", v)
	}
	if v := Fade(40, 10, 20, nil); v != 1 {
		t.Errorf("after end: expected 1, got %v", v)
	}
	if v := Fade(9, 10, 0, nil); v != 0 {
		t.Errorf("zero duration before start: expected 0, got %v", v)
	}
	if v := Fade(10, 10, 0, nil); v != 1 {
		t.Errorf("zero duration at start: expected 1, got %v", v)
	}
	if v := Between(15, 10, 20, 90, 0, nil); v != 45 {
		t.Errorf("Between midway: expected 45, got %v", v)
	}
}

func TestInterpolateExtendsEasedCurve(t *testing.T) {
	tests := []struct {
		name  string
		frame float64
		opts  Options
		want  float64
	}{
		// ease-in leaves along the tangent from (0.4, 0) to (1, 1).
		{"ease-in right", 25, Options{Easing: EaseIn}, 1 + 0.5/0.6},
		{"ease-in left", 5, Options{Easing: EaseIn}, 0},
		{"diagonal left", 5, Options{Easing: CubicBezier(0.25, 0.25, 0.75, 0.75)}, -0.5},
		{"diagonal right", 25, Options{Easing: CubicBezier(0.25, 0.25, 0.75, 0.75)}, 1.5},
		{"clamped keeps end", 25, Clamped.WithEasing(EaseIn), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Interpolate(tt.frame, []float64{10, 20}, []float64{0, 1}, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Interpolate(%v) = %v, want %v", tt.frame, got, tt.want)
			}
		})
	}
}

func TestClampRange(t *testing.T) {
	tests := []struct {
		v, lo, hi, want float64
	}{
		{-1, 0, 1, 0},
		{0.4, 0, 1, 0.4},
		{7, 2, 5, 5},
		{3, 2, 5, 3},
	}
	for _, tt := range tests {
		if got := ClampRange(tt.v, tt.lo, tt.hi); got != tt.want {
			t.Errorf("ClampRange(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
		}
	}
	if got := Clamp01(1.5); got != 1 {
		t.Errorf("Clamp01(1.5) = %v, want 1", got)
	}
}
