package config

import (
	"errors"
	"testing"
)

func validConfig() *Config {
	return &Config{Composition: "EP2", Mode: ModeVideo, TransitionFrames: 15}
}

func TestValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no composition", func(c *Config) { c.Composition = "" }},
		{"bad mode", func(c *Config) { c.Mode = "gif" }},
		{"negative start", func(c *Config) { c.FrameStart = -1 }},
		{"empty range", func(c *Config) { c.FrameStart, c.FrameEnd = 10, 10 }},
		{"half size", func(c *Config) { c.Width = 1280 }},
		{"odd size", func(c *Config) { c.Width, c.Height = 1281, 720 }},
		{"scale", func(c *Config) { c.Scale = 8 }},
		{"workers", func(c *Config) { c.Workers = -2 }},
		{"transition", func(c *Config) { c.TransitionFrames = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset string
		w, h   int
	}{
		{"16:9", 1920, 1080},
		{"9:16", 1080, 1920},
		{"4:5", 1080, 1350},
	}
	for _, tt := range tests {
		c := validConfig()
		c.Preset = tt.preset
		if err := c.ApplyPreset(); err != nil {
			t.Fatalf("ApplyPreset(%s) failed: %v", tt.preset, err)
		}
		if c.Width != tt.w || c.Height != tt.h {
			t.Errorf("preset %s: got %dx%d, want %dx%d", tt.preset, c.Width, c.Height, tt.w, tt.h)
		}
	}

	c := validConfig()
	c.Preset = "21:9"
	if err := c.ApplyPreset(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestSegmentDuration(t *testing.T) {
	p := SegmentParams{FPS: 30, Frames: 540}
	if d := p.Duration(); d != 18 {
		t.Errorf("Duration = %v, want 18", d)
	}
	if d := (SegmentParams{Frames: 10}).Duration(); d != 0 {
		t.Errorf("zero fps duration = %v, want 0", d)
	}
}
