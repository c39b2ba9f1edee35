package scenes

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
	"github.com/ivlev/loopreel/internal/timeline"
)

func TestEverySceneRenders(t *testing.T) {
	r := NewRegistry(nil)
	ids := r.Scenes()
	if len(ids) != len(timeline.Durations) {
		t.Fatalf("%d scenes, %d durations", len(ids), len(timeline.Durations))
	}

	for i, id := range ids {
		t.Run(id, func(t *testing.T) {
			if want := timeline.Durations[i].ID; id != want {
				t.Fatalf("scene %d is %s, want %s", i, id, want)
			}
			comp, err := r.Composition(id)
			if err != nil {
				t.Fatalf("Composition: %v", err)
			}
			want, _ := timeline.DurationOf(id)
			if comp.Duration != want {
				t.Errorf("duration %d, want %d", comp.Duration, want)
			}
			if comp.Width != Width || comp.Height != Height || comp.FPS != timeline.FPS {
				t.Errorf("settings %dx%d@%d", comp.Width, comp.Height, comp.FPS)
			}

			for _, frame := range []int{0, comp.Duration / 2, comp.Duration - 1} {
				f, err := comp.Frame(frame)
				if err != nil {
					t.Fatalf("Frame(%d): %v", frame, err)
				}
				if f.Root == nil || f.Root.Count() < 2 {
					t.Errorf("frame %d: empty tree", frame)
				}
			}
			if _, err := comp.Frame(comp.Duration); !errors.Is(err, composer.ErrFrameOutOfRange) {
				t.Errorf("Frame(duration) error = %v, want ErrFrameOutOfRange", err)
			}
		})
	}
}

func TestRegistryValidate(t *testing.T) {
	if err := NewRegistry(nil).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSeriesDuration(t *testing.T) {
	r := NewRegistry(nil)
	tests := []struct {
		id   string
		want int
	}{
		{"EP2", 18630},
		{"EP2-Part1", 9795},
		{"Scene06-ContextAssembly", 3360},
	}
	for _, tt := range tests {
		got, err := r.SeriesDuration(tt.id)
		if err != nil {
			t.Fatalf("%s: %v", tt.id, err)
		}
		if got != tt.want {
			t.Errorf("%s: %d frames, want %d", tt.id, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	r := NewRegistry(nil)

	ids, transition, err := r.Resolve("EP2-Part1")
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 8 || ids[0] != "Scene01-Intro" || ids[7] != "Scene12-AgentLoopBreakdown" || transition != 15 {
		t.Errorf("EP2-Part1 = %v, transition %d", ids, transition)
	}

	ids, transition, err = r.Resolve("Scene03-Title")
	if err != nil || len(ids) != 1 || transition != 0 {
		t.Errorf("Scene03-Title = %v, %d, %v", ids, transition, err)
	}

	if _, _, err := r.Resolve("Scene99"); !errors.Is(err, ErrUnknownComposition) {
		t.Errorf("unknown id error = %v", err)
	}
	if _, err := r.Composition("Scene99"); !errors.Is(err, ErrUnknownComposition) {
		t.Errorf("unknown composition error = %v", err)
	}
}

func TestTimelineOverride(t *testing.T) {
	short := timeline.MustNew("context-assembly", timeline.Phase{ID: timeline.Identity, Window: timeline.Window{Start: 0, End: 3000}})
	r := NewRegistry(map[string]*timeline.Timeline{"context-assembly": short})
	if _, err := r.Composition("Scene06-ContextAssembly"); !errors.Is(err, composer.ErrDurationMismatch) {
		t.Errorf("short override error = %v, want ErrDurationMismatch", err)
	}

	// Same total, identity layer shortened.
	retimed := timeline.MustNew("context-assembly",
		timeline.Phase{ID: timeline.Identity, Window: timeline.Window{Start: 0, End: 400}},
		timeline.Phase{ID: timeline.Bootstrap, Window: timeline.Window{Start: 400, End: 1200}},
		timeline.Phase{ID: timeline.Memory, Window: timeline.Window{Start: 1200, End: 2000}},
		timeline.Phase{ID: timeline.Skills, Window: timeline.Window{Start: 2000, End: 2600}},
		timeline.Phase{ID: timeline.Merge, Window: timeline.Window{Start: 2600, End: 2900}},
		timeline.Phase{ID: timeline.Code, Window: timeline.Window{Start: 2900, End: 3360}},
	)
	r = NewRegistry(map[string]*timeline.Timeline{"context-assembly": retimed})
	comp, err := r.Composition("Scene06-ContextAssembly")
	if err != nil {
		t.Fatalf("retimed override: %v", err)
	}
	f, err := comp.Frame(450)
	if err != nil {
		t.Fatal(err)
	}
	if f.Root.Find("layer.1") == nil {
		t.Errorf("bootstrap layer not visible at frame 450 of retimed timeline")
	}

	missing := timeline.MustNew("context-assembly",
		timeline.Phase{ID: timeline.Identity, Window: timeline.Window{Start: 0, End: 3360}})
	r = NewRegistry(map[string]*timeline.Timeline{"context-assembly": missing})
	if _, err := r.Composition("Scene06-ContextAssembly"); !errors.Is(err, timeline.ErrInvalidTimeline) {
		t.Errorf("missing phases error = %v, want ErrInvalidTimeline", err)
	}
}

func TestCaptionFollowsCue(t *testing.T) {
	comp, err := NewRegistry(nil).Composition("Scene06-ContextAssembly")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		frame int
		key   string
	}{
		{100, "Scene06-IdentityLayer"},
		{700, "Scene07-BootstrapLayer"},
		{3000, "Scene10-ContextAssembly"},
	}
	for _, tt := range tests {
		f, err := comp.Frame(tt.frame)
		if err != nil {
			t.Fatal(err)
		}
		n := f.Root.Find("caption.text")
		if n == nil {
			t.Errorf("frame %d: no caption", tt.frame)
			continue
		}
		if n.Text != Captions[tt.key] {
			t.Errorf("frame %d: caption %q, want %q", tt.frame, n.Text, Captions[tt.key])
		}
	}
}

func TestFramesAreDeterministic(t *testing.T) {
	r := NewRegistry(nil)
	for _, id := range []string{"Scene01-Intro", "Scene06-ContextAssembly", "Scene12-AgentLoopBreakdown", "Scene36-NextEpisode"} {
		comp, err := r.Composition(id)
		if err != nil {
			t.Fatal(err)
		}
		frame := comp.Duration / 3
		encode := func() []byte {
			f, err := comp.Frame(frame)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := scene.Encode(&buf, f); err != nil {
				t.Fatal(err)
			}
			return buf.Bytes()
		}
		if a, b := encode(), encode(); !bytes.Equal(a, b) {
			t.Errorf("%s frame %d differs between renders", id, frame)
		}
	}
}

func TestCardListFocus(t *testing.T) {
	c := &CardList{
		Items:     make([]Item, 4),
		Focus:     true,
		FocusFrom: 100,
		FocusTail: 100,
	}
	tests := []struct {
		frame, want int
	}{
		{0, -1},
		{99, -1},
		{100, 0},
		{174, 0},
		{175, 1},
		{399, 3},
		{400, -1},
	}
	for _, tt := range tests {
		if got := c.focused(tt.frame, 500); got != tt.want {
			t.Errorf("focused(%d) = %d, want %d", tt.frame, got, tt.want)
		}
	}

	c.Focus = false
	if got := c.focused(200, 500); got != -1 {
		t.Errorf("focus disabled: got %d", got)
	}
}

func TestCardListStaggerReveal(t *testing.T) {
	c := &CardList{Heading: "h", Columns: 2, Items: []Item{{Title: "a"}, {Title: "b"}, {Title: "c"}}}
	f := c.Render(0, timeline.FPS, 300).Find("card.2")
	if f == nil || f.Style.Opacity != 0 {
		t.Fatalf("card.2 at frame 0: %+v", f)
	}
	f = c.Render(299, timeline.FPS, 300).Find("card.2")
	if f == nil || f.Style.Opacity != 1 {
		t.Errorf("card.2 at last frame: %+v", f)
	}
}

func TestRegistryValidateChecksSpringPresets(t *testing.T) {
	saved := spring.Soft
	defer func() { spring.Soft = saved }()
	spring.Soft.Damping = -1

	err := NewRegistry(nil).Validate()
	if !errors.Is(err, spring.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLayerStackCompacts(t *testing.T) {
	comp, err := NewRegistry(nil).Composition("Scene06-ContextAssembly")
	if err != nil {
		t.Fatal(err)
	}
	before, err := comp.Frame(2500)
	if err != nil {
		t.Fatal(err)
	}
	after, err := comp.Frame(3000)
	if err != nil {
		t.Fatal(err)
	}

	full := before.Root.Find("layer.0.title").Style.FontSize
	compact := after.Root.Find("layer.0.title").Style.FontSize
	if full != 25 || math.Abs(compact-25*layerMinScale) > 1e-9 {
		t.Errorf("title size %v -> %v, want 25 -> %v", full, compact, 25*layerMinScale)
	}

	// Padding and title spacing shrink by the same factor.
	titleY := after.Root.Find("layer.0.title").Style.Y
	if math.Abs(titleY-20*layerMinScale) > 1e-9 {
		t.Errorf("title y = %v, want %v", titleY, 20*layerMinScale)
	}
	h := after.Root.Find("layer.0").Style.Height
	if want := (2*20 + 25*1.2 + 14) * layerMinScale; math.Abs(h-want) > 1e-9 {
		t.Errorf("compact layer height = %v, want %v", h, want)
	}
	if o := after.Root.Find("layer.0.body").Style.Opacity; o != 0 {
		t.Errorf("details still visible after merge: opacity %v", o)
	}
}

func TestTimelineMotionOverride(t *testing.T) {
	r := NewRegistry(nil)
	comp, err := r.Composition("Scene12-AgentLoopBreakdown")
	if err != nil {
		t.Fatal(err)
	}
	f, err := comp.Frame(545)
	if err != nil {
		t.Fatal(err)
	}
	if f.Root.Find("phase:"+timeline.SendToLLM) == nil || f.Root.Find("phase:"+timeline.CheckResponse) == nil {
		t.Fatal("expected both phases during the default overlap")
	}

	zero := 0
	hardCut, err := timeline.AgentLoopBreakdown.WithMotion(timeline.Motion{Overlap: &zero, Easing: "ease-in-out"})
	if err != nil {
		t.Fatal(err)
	}
	r = NewRegistry(map[string]*timeline.Timeline{"agent-loop-breakdown": hardCut})
	comp, err = r.Composition("Scene12-AgentLoopBreakdown")
	if err != nil {
		t.Fatalf("hard cut override: %v", err)
	}
	f, err = comp.Frame(545)
	if err != nil {
		t.Fatal(err)
	}
	if f.Root.Find("phase:"+timeline.SendToLLM) != nil {
		t.Error("previous phase still rendered without overlap")
	}
	if f.Root.Find("phase:"+timeline.CheckResponse) == nil {
		t.Error("entering phase missing")
	}

	long := 530
	tooLong, err := timeline.AgentLoopBreakdown.WithMotion(timeline.Motion{Overlap: &long})
	if err != nil {
		t.Fatal(err)
	}
	r = NewRegistry(map[string]*timeline.Timeline{"agent-loop-breakdown": tooLong})
	if err := r.Validate(); !errors.Is(err, composer.ErrInvalidSequence) {
		t.Errorf("overlap longer than a phase: got %v, want ErrInvalidSequence", err)
	}
}
