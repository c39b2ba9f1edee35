package timeline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/spring"
)

const previewPhases = `
    phases:
      - {id: sendToLLM, start: 0, end: 75}
      - {id: checkResponse, start: 75, end: 150}
      - {id: executeTool, start: 150, end: 225}
      - {id: loopBack, start: 225, end: 300}
`

func writeTimelines(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timelines.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMotion(t *testing.T) {
	path := writeTimelines(t, `version: "1.0"
timelines:
  - name: loop-preview`+previewPhases+`    motion:
      easing: out-cubic
      overlap: 6
      enter_frames: 8
      spring: snappy
`)

	tls, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	m := tls["loop-preview"].Motion()

	overlap, enter, tail := m.Blend(12, 12, 20)
	if overlap != 6 || enter != 8 || tail != 20 {
		t.Errorf("Blend = %d, %d, %d, want 6, 8, 20", overlap, enter, tail)
	}
	want, _ := motion.EasingByName("out-cubic")
	if got := m.Curve(motion.Linear)(0.3); got != want(0.3) {
		t.Errorf("Curve(0.3) = %v, want %v", got, want(0.3))
	}
	if got := m.SpringOr(spring.Soft); got != spring.Snappy {
		t.Errorf("SpringOr = %+v, want snappy", got)
	}

	// The overrides survive a write and a reload.
	out := filepath.Join(t.TempDir(), "again.yaml")
	if err := WriteFile(NewDocument(tls["loop-preview"]), out); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(out)
	if !strings.Contains(string(data), "enter_frames: 8") {
		t.Errorf("motion not written:\n%s", data)
	}
	again, err := Load(out)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := again["loop-preview"].Motion(); got.Easing != "out-cubic" || *got.Overlap != 6 || got.Spring != "snappy" {
		t.Errorf("reloaded motion = %+v", got)
	}
}

func TestMotionDefaults(t *testing.T) {
	var m Motion
	if !m.IsZero() || !ContextAssembly.Motion().IsZero() {
		t.Error("expected no overrides")
	}
	overlap, enter, tail := m.Blend(24, 18, 24)
	if overlap != 24 || enter != 18 || tail != 24 {
		t.Errorf("Blend = %d, %d, %d, want the scene values", overlap, enter, tail)
	}
	if m.SpringOr(spring.Gentle) != spring.Gentle {
		t.Error("expected default spring")
	}
	if m.Curve(motion.Standard)(0.5) != motion.Standard(0.5) {
		t.Error("expected default easing")
	}
	if NewDocument(ContextAssembly).Timelines[0].Motion != nil {
		t.Error("built-in timeline should not write a motion block")
	}
}

func TestMotionRejected(t *testing.T) {
	negative := -4
	short := MustNew("short",
		Phase{"a", Window{0, 10}},
		Phase{"b", Window{10, 200}},
	)

	tests := []struct {
		name string
		tl   *Timeline
		m    Motion
	}{
		{"unknown easing", LoopPreview, Motion{Easing: "wobble"}},
		{"unknown spring", LoopPreview, Motion{Spring: "bouncy"}},
		{"negative overlap", LoopPreview, Motion{Overlap: &negative}},
		{"negative tail", LoopPreview, Motion{TailFade: &negative}},
		{"spring outlasts phase", short, Motion{Spring: "gentle"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.tl.WithMotion(tt.m)
			if !errors.Is(err, ErrInvalidTimeline) {
				t.Fatalf("expected ErrInvalidTimeline, got %v", err)
			}
			t.Logf("Rejected: %v", err)
		})
	}

	if _, err := short.WithMotion(Motion{Easing: "exit"}); err != nil {
		t.Errorf("easing-only override rejected: %v", err)
	}
}

func TestLoadRejectsBadMotion(t *testing.T) {
	path := writeTimelines(t, `version: "1.0"
timelines:
  - name: loop-preview`+previewPhases+`    motion:
      spring: wobbly
`)
	if _, err := Load(path); !errors.Is(err, ErrInvalidTimeline) {
		t.Fatalf("expected ErrInvalidTimeline, got %v", err)
	}
}
