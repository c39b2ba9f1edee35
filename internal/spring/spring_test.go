package spring

import (
	"errors"
	"math"
	"testing"
)

func TestEvaluateAtRest(t *testing.T) {
	for _, frame := range []float64{0, -1, -30} {
		got, err := Evaluate(frame, 30, Soft)
		if err != nil {
			t.Fatalf("Evaluate(%v) failed: %v", frame, err)
		}
		if got != 0 {
			t.Errorf("Evaluate(%v) = %v, want 0", frame, got)
		}
	}
}

func TestEvaluateConverges(t *testing.T) {
	configs := map[string]Config{
		"soft":       Soft,
		"emphasis":   Emphasis,
		"snappy":     Snappy,
		"gentle":     Gentle,
		"critical":   {Damping: 20, Stiffness: 100, Mass: 1},
		"overdamped": {Damping: 40, Stiffness: 100, Mass: 1},
	}

	for name, cfg := range configs {
		t.Run(name, func(t *testing.T) {
			got, err := Evaluate(900, 30, cfg)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if math.Abs(got-1) > 1e-3 {
				t.Errorf("expected convergence to 1, got %v", got)
			}
		})
	}
}

func TestEvaluateNoOvershootWhenDamped(t *testing.T) {
	for _, cfg := range []Config{
		{Damping: 20, Stiffness: 100, Mass: 1},
		{Damping: 40, Stiffness: 100, Mass: 1},
	} {
		prev := 0.0
		for f := 0; f <= 300; f++ {
			v, err := Evaluate(float64(f), 30, cfg)
			if err != nil {
				t.Fatal(err)
			}
			if v > 1+1e-9 {
				t.Fatalf("damping ratio %.2f overshoots at frame %d: %v", cfg.DampingRatio(), f, v)
			}
			if v < prev-1e-9 {
				t.Fatalf("damping ratio %.2f not monotonic at frame %d", cfg.DampingRatio(), f)
			}
			prev = v
		}
	}
}

func TestOvershootClamping(t *testing.T) {
	peak := 0.0
	for f := 0; f <= 120; f++ {
		peak = math.Max(peak, Progress(float64(f), 30, Snappy))
	}
	if peak <= 1 {
		t.Fatalf("expected underdamped spring to overshoot, peak %v", peak)
	}
	t.Logf("Snappy peak: %.4f", peak)

	clamped := Snappy
	clamped.OvershootClamping = true
	for f := 0; f <= 120; f++ {
		if v := Progress(float64(f), 30, clamped); v > 1 {
			t.Fatalf("frame %d: clamped progress %v > 1", f, v)
		}
	}
}

func TestEvaluateInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero mass", Config{Damping: 10, Stiffness: 100, Mass: 0}},
		{"negative stiffness", Config{Damping: 10, Stiffness: -1, Mass: 1}},
		{"zero damping", Config{Damping: 0, Stiffness: 100, Mass: 1}},
		{"nan damping", Config{Damping: math.NaN(), Stiffness: 100, Mass: 1}},
		{"inf stiffness", Config{Damping: 10, Stiffness: math.Inf(1), Mass: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(10, 30, tt.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}

	if _, err := Evaluate(10, 0, Soft); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero fps, got %v", err)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	for f := 0.0; f < 90; f += 0.25 {
		a, _ := Evaluate(f, 30, Emphasis)
		b, _ := Evaluate(f, 30, Emphasis)
		if math.Float64bits(a) != math.Float64bits(b) {
			t.Fatalf("frame %v: %v != %v", f, a, b)
		}
	}
}

func TestAnimate(t *testing.T) {
	if v := Animate(0, 30, Soft, 40, 0); v != 40 {
		t.Errorf("expected start value 40, got %v", v)
	}
	if v := Animate(600, 30, Soft, 40, 0); math.Abs(v) > 1e-3 {
		t.Errorf("expected settled value 0, got %v", v)
	}
}

func TestSettleFrame(t *testing.T) {
	const threshold = 0.005
	for name, cfg := range presets() {
		f := SettleFrame(30, cfg, threshold)
		if f <= 0 || f >= 30*60 {
			t.Errorf("%s: settle frame %d out of bounds", name, f)
			continue
		}
		for g := f; g < f+60; g++ {
			if v := Progress(float64(g), 30, cfg); math.Abs(v-1) > threshold {
				t.Errorf("%s: frame %d after settle frame %d still moving: %v", name, g, f, v)
				break
			}
		}
		t.Logf("%s settles at frame %d", name, f)
	}
}

func TestPreset(t *testing.T) {
	if c, ok := Preset("soft"); !ok || c != Soft {
		t.Errorf("Preset(soft) = %+v, %v", c, ok)
	}
	if _, ok := Preset("bouncy"); ok {
		t.Error("unexpected preset bouncy")
	}
}

func TestProgressRejectsInvalidConfig(t *testing.T) {
	bad := Config{Damping: -1, Stiffness: 100, Mass: 1}
	if v := Progress(10, 30, bad); v != 1 {
		t.Errorf("Progress with negative damping = %v, want settled 1", v)
	}
	if v := Progress(10, 0, Soft); v != 1 {
		t.Errorf("Progress with zero fps = %v, want settled 1", v)
	}
}

func TestValidatePresets(t *testing.T) {
	if err := ValidatePresets(); err != nil {
		t.Fatalf("built-in presets rejected: %v", err)
	}

	saved := Gentle
	defer func() { Gentle = saved }()
	Gentle.Mass = 0

	err := ValidatePresets()
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	t.Logf("Rejected: %v", err)
}
