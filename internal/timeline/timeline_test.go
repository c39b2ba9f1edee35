package timeline

import (
	"errors"
	"testing"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name   string
		phases []Phase
	}{
		{"empty", nil},
		{"empty id", []Phase{{"", Window{0, 10}}}},
		{"duplicate id", []Phase{{"a", Window{0, 10}}, {"a", Window{10, 20}}}},
		{"zero length", []Phase{{"a", Window{0, 0}}}},
		{"inverted", []Phase{{"a", Window{0, 10}}, {"b", Window{20, 15}}}},
		{"late start", []Phase{{"a", Window{5, 10}}}},
		{"gap", []Phase{{"a", Window{0, 10}}, {"b", Window{12, 20}}}},
		{"nested", []Phase{{"a", Window{0, 100}}, {"b", Window{10, 50}}}},
		{"same start", []Phase{{"a", Window{0, 10}}, {"b", Window{0, 20}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New("test", tt.phases...)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, ErrInvalidTimeline) {
				t.Errorf("expected ErrInvalidTimeline, got %v", err)
			}
			t.Logf("rejected: %v", err)
		})
	}
}

func TestNewAllowsOverlap(t *testing.T) {
	tl, err := New("overlap", Phase{"a", Window{0, 120}}, Phase{"b", Window{100, 200}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if tl.Total() != 200 {
		t.Errorf("expected total 200, got %d", tl.Total())
	}
	// First window wins while it is still open.
	if p, _ := tl.Active(110); p.ID != "a" {
		t.Errorf("frame 110: expected a, got %s", p.ID)
	}
}

func TestActive(t *testing.T) {
	tl := ContextAssembly
	tests := []struct {
		frame  int
		want   string
		wantOK bool
	}{
		{-1, "", false},
		{0, Identity, true},
		{539, Identity, true},
		{540, Bootstrap, true},
		{2600, Merge, true},
		{2899, Merge, true},
		{2900, Code, true},
		{3359, Code, true},
		{3360, "", false},
	}

	for _, tt := range tests {
		p, ok := tl.Active(tt.frame)
		if ok != tt.wantOK || p.ID != tt.want {
			t.Errorf("Active(%d) = %q, %v; want %q, %v", tt.frame, p.ID, ok, tt.want, tt.wantOK)
		}
	}
}

func TestBuiltinCoverage(t *testing.T) {
	for _, tl := range builtins() {
		for f := 0; f < tl.Total(); f++ {
			if _, ok := tl.Active(f); !ok {
				t.Fatalf("%s: frame %d not covered", tl.Name(), f)
			}
		}
	}

	if ContextAssembly.Total() != 3360 {
		t.Errorf("context assembly total = %d, want 3360", ContextAssembly.Total())
	}
	if AgentLoopBreakdown.Total() != 3600 {
		t.Errorf("agent loop total = %d, want 3600", AgentLoopBreakdown.Total())
	}
	if d, _ := DurationOf("Scene06-ContextAssembly"); d != ContextAssembly.Total() {
		t.Errorf("scene duration %d does not match timeline total %d", d, ContextAssembly.Total())
	}
	if d, _ := DurationOf("Scene12-AgentLoopBreakdown"); d != AgentLoopBreakdown.Total() {
		t.Errorf("scene duration %d does not match timeline total %d", d, AgentLoopBreakdown.Total())
	}
	if d, _ := DurationOf("Scene11-AgentLoopTitle"); d != LoopPreview.Total() {
		t.Errorf("scene duration %d does not match preview total %d", d, LoopPreview.Total())
	}
}

func TestSiblingTimelinesAreIndependent(t *testing.T) {
	full, _ := AgentLoopBreakdown.Lookup(CheckResponse)
	preview, _ := LoopPreview.Lookup(CheckResponse)
	if full.Window == preview.Window {
		t.Errorf("expected independent windows, both are %+v", full.Window)
	}
	if _, ok := LoopPreview.Lookup(Comparison); ok {
		t.Error("preview should not declare the comparison phase")
	}
}

func TestLocalFrameAndIndex(t *testing.T) {
	local, ok := AgentLoopBreakdown.LocalFrame(1700, ExecuteTool)
	if !ok || local != 20 {
		t.Errorf("LocalFrame = %d, %v; want 20, true", local, ok)
	}
	if _, ok := AgentLoopBreakdown.LocalFrame(1700, "missing"); ok {
		t.Error("expected unknown phase to fail")
	}
	if i := AgentLoopBreakdown.Index(LoopBack); i != 4 {
		t.Errorf("Index(loopBack) = %d, want 4", i)
	}
	if i := AgentLoopBreakdown.Index("missing"); i != -1 {
		t.Errorf("Index(missing) = %d, want -1", i)
	}
}

func TestPhasesReturnsCopy(t *testing.T) {
	phases := ContextAssembly.Phases()
	phases[0].End = 1
	if ContextAssembly.At(0).End != 540 {
		t.Error("Phases must not expose internal storage")
	}
}

func TestCueAt(t *testing.T) {
	tests := []struct {
		frame int
		want  string
	}{
		{0, "Scene12-SendToLLM"},
		{1679, "Scene14-ToolsExplained"},
		{1680, "Scene15-ExecuteTool"},
		{3599, "Scene17-AgentVsChatbot"},
	}
	for _, tt := range tests {
		cue, ok := AgentLoopCues.CueAt(tt.frame)
		if !ok || cue.Key != tt.want {
			t.Errorf("CueAt(%d) = %q, want %q", tt.frame, cue.Key, tt.want)
		}
	}
	if _, ok := ContextAssemblyCues.CueAt(3360); ok {
		t.Error("expected no cue past the end")
	}
}

func TestBuiltinLookup(t *testing.T) {
	if tl, ok := Builtin("loop-preview"); !ok || tl != LoopPreview {
		t.Error("Builtin(loop-preview) failed")
	}
	if _, ok := Builtin("nope"); ok {
		t.Error("unexpected builtin")
	}
}
