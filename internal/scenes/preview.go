package scenes

import (
	"fmt"
	"math"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
	"github.com/ivlev/loopreel/internal/timeline"
)

// previewStops are the loop stations of the section title, in phase order.
var previewStops = map[string]string{
	timeline.SendToLLM:     "send to LLM",
	timeline.CheckResponse: "check the reply",
	timeline.ExecuteTool:   "run the tool",
	timeline.LoopBack:      "loop back",
}

// LoopPreview is the section title with a small loop that cycles through
// its stations once.
type LoopPreview struct {
	Title        string
	Highlight    string
	Subtitle     string
	SubHighlight string
}

func (p *LoopPreview) compose(id string, tl *timeline.Timeline, duration int) (*composer.Composition, error) {
	phases := tl.Phases()
	var entries []composer.Entry
	for _, ph := range phases {
		text, ok := previewStops[ph.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no station for phase %q of %s", composer.ErrInvalidSequence, ph.ID, tl.Name())
		}
		entries = append(entries, composer.Entry{
			Phase:      ph.ID,
			Render:     previewStatus(ph.ID, text),
			EnterRiseY: offsetYMd,
			ExitDropY:  offsetYSm,
		})
	}
	m := tl.Motion()
	overlap, enter, tail := m.Blend(12, 12, 0)
	seq, err := composer.NewSequence(tl, composer.Options{
		Overlap:     overlap,
		EnterFrames: enter,
		TailFade:    tail,
		Easing:      m.Curve(nil),
	}, entries...)
	if err != nil {
		return nil, err
	}

	ringSpring := m.SpringOr(spring.Soft)
	overlay := func(frame int, base *scene.Node) *scene.Node {
		f := float64(frame)
		title := &TitleCard{Title: p.Title, Highlight: p.Highlight}
		root := scene.Group("loop-preview", backdrop(f))

		tp := reveal(f, 0, enterSlow)
		root.Add(title.title(220).Fade(tp).Shift(0, (1-tp)*18))
		if p.Subtitle != "" {
			sp := reveal(f, staggerLg, enterNormal)
			w1 := textWidth(p.Subtitle+" ", 36)
			w2 := textWidth(p.SubHighlight, 36)
			x := (Width - w1 - w2) / 2
			root.Add(scene.Group("subtitle",
				scene.Text("subtitle.text", x, 330, p.Subtitle+" ", 36).Ink(TextMuted),
				scene.Text("subtitle.highlight", x+w1, 330, p.SubHighlight, 36).Ink(Primary),
			).Fade(sp))
		}

		current := -1
		if ph, ok := tl.Active(frame); ok {
			current = tl.Index(ph.ID)
		}
		root.Add(previewRing(phases, current, f, timeline.FPS, ringSpring))
		root.Add(base)
		return root
	}
	return composer.FromSequence(id, timeline.FPS, Width, Height, duration, seq, overlay)
}

// previewRing places one node per phase on a circle, lighting the current
// one.
func previewRing(phases []timeline.Phase, current int, f float64, fps int, cfg spring.Config) *scene.Node {
	const cx, cy, r = Width / 2.0, 640.0, 170.0
	enter := pop(f, 20, fps, cfg)
	g := scene.Group("ring").Fade(enter).Zoom(0.9 + 0.1*enter)

	n := len(phases)
	for i, ph := range phases {
		a := (float64(i)/float64(n))*2*math.Pi - math.Pi/2
		b := (float64(i)+0.5)/float64(n)*2*math.Pi - math.Pi/2
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		next := (float64(i)+1)/float64(n)*2*math.Pi - math.Pi/2

		tone := TextDark
		if i == current {
			tone = Accent
		}
		node := dot(fmt.Sprintf("ring.%s", ph.ID), x, y, 44, tint(tone, 0x55)).Outline(tone, 3)
		g.Add(node)
		g.Add(scene.Arrow(fmt.Sprintf("ring.%s.arrow", ph.ID),
			cx+r*math.Cos(b-0.35), cy+r*math.Sin(b-0.35),
			cx+r*math.Cos(math.Min(b+0.35, next-0.2)), cy+r*math.Sin(math.Min(b+0.35, next-0.2)),
		).Ink(tint(Primary, 0xaa)))
	}
	return g
}

func previewStatus(id, text string) composer.RenderFunc {
	return func(l composer.Local) *scene.Node {
		return centered("status."+id, Width/2, 630, text, 30, Text)
	}
}
