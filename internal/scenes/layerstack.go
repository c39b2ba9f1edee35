package scenes

import (
	"fmt"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
	"github.com/ivlev/loopreel/internal/timeline"
)

// Layer is one block of the system prompt stack.
type Layer struct {
	Phase   string // timeline phase that brings the layer in
	Label   string
	Tone    scene.Color
	Details []string
	Files   []string
	Example string
	Digest  string
}

// Appendix is a row added under the stack once the layers merge.
type Appendix struct {
	Label    string
	Sublabel string
	Tone     scene.Color
}

// LayerStack builds the system prompt one layer per phase, compacts the
// layers when MergePhase starts and slides a code panel in at CodePhase.
type LayerStack struct {
	Part    string
	Section string
	Title   string // label above the stack

	Layers   []Layer
	Appendix []Appendix

	MergePhase string
	CodePhase  string
	CodeTitle  string
	Code       string

	Steps []string // progress labels, one per timeline phase
	Cues  timeline.Cues
}

// boundLayerStack is a LayerStack with its frame marks resolved against a
// timeline.
type boundLayerStack struct {
	*LayerStack
	tl *timeline.Timeline

	enter      []float64
	skillsEnd  float64
	codeStart  float64
	compactor  composer.Compactor
	digest     []*motion.Range
	chips      composer.Stagger
	files      composer.Stagger
	code       codeBlock
	stackShift *motion.Range
	spring     spring.Config
}

// bind resolves the phase marks. It fails when tl misses a phase the stack
// needs.
func (s *LayerStack) bind(tl *timeline.Timeline) (*boundLayerStack, error) {
	b := &boundLayerStack{LayerStack: s, tl: tl}

	need := func(id string) (timeline.Phase, error) {
		p, ok := tl.Lookup(id)
		if !ok {
			return p, fmt.Errorf("%w: %s has no phase %q", timeline.ErrInvalidTimeline, tl.Name(), id)
		}
		return p, nil
	}

	for _, l := range s.Layers {
		p, err := need(l.Phase)
		if err != nil {
			return nil, err
		}
		start := float64(p.Start)
		b.enter = append(b.enter, start)
		b.skillsEnd = float64(p.End)

		digest, err := motion.NewRange(
			[]float64{start + 120, start + 135, start + 420, start + 450},
			[]float64{0, 1, 1, 0.6},
			motion.Clamped,
		)
		if err != nil {
			return nil, err
		}
		b.digest = append(b.digest, digest)
	}

	merge, err := need(s.MergePhase)
	if err != nil {
		return nil, err
	}
	code, err := need(s.CodePhase)
	if err != nil {
		return nil, err
	}
	b.codeStart = float64(code.Start)
	m := tl.Motion()
	b.spring = m.SpringOr(spring.Soft)
	b.compactor = composer.Compactor{
		Start:    float64(merge.Start),
		End:      float64(merge.End),
		Easing:   m.Curve(motion.Standard),
		MinScale: layerMinScale,
	}

	shift, err := motion.NewRange([]float64{0, b.skillsEnd}, []float64{150, 10}, motion.Clamped.WithEasing(motion.Standard))
	if err != nil {
		return nil, err
	}
	b.stackShift = shift

	b.chips = composer.Stagger{Base: 20, Step: staggerSm, GroupSize: 2, InnerStep: 3, Duration: enterFast, Easing: motion.Standard}
	b.files = composer.Stagger{Base: 40, Step: staggerSm, GroupSize: 2, InnerStep: 3, Duration: enterNormal, Easing: motion.Standard}
	b.code = codeBlock{ID: "code", Code: s.Code, Size: 20, Width: 680}
	return b, nil
}

const (
	layerChipSize = 17.0
	layerChipH    = 32.0
	layerFileH    = 32.0
	layerExampleH = 38.0
	layerDigestH  = 26.0
	layerBodyMax  = 220.0
	layerGap      = 20.0
	layerMinScale = 0.72
)

func (b *boundLayerStack) Render(frame, fps int) *scene.Node {
	f := float64(frame)
	root := scene.Group("layer-stack", backdrop(f), header(b.Part, b.Section, f))

	compact := b.compactor.Progress(f)
	stackWidth := motion.Between(f, b.codeStart-10, b.codeStart+35, 760, 620, nil)
	sceneGap := motion.Between(f, b.codeStart-10, b.codeStart+35, 0, 52, nil)
	gap := layerGap * b.compactor.Factor(f)

	// Layers first, to know the stack height.
	var blocks []*scene.Node
	var heights []float64
	for i, l := range b.Layers {
		if f < b.enter[i] {
			continue
		}
		n, h := b.layer(i, l, f, fps, stackWidth, compact)
		blocks = append(blocks, n)
		heights = append(heights, h)
	}

	appendP := reveal(f, b.compactor.Start+staggerLg, 70)
	const appendH = 48.0
	stackH := 32.0
	for _, h := range heights {
		stackH += h + gap
	}
	if appendP > 0 {
		stackH += float64(len(b.Appendix)) * (appendH + 6)
	}

	codeH := b.code.Height() + 34
	total := stackWidth + sceneGap + b.code.Width
	left := (Width - total) / 2
	top := (Height-max(stackH, codeH))/2 + b.stackShift.At(f) - 40

	stack := scene.Group("stack").Shift(left, top)
	stack.Add(centered("stack.title", stackWidth/2, 0, b.Title, 20, TextMuted))
	y := 32.0
	for i, n := range blocks {
		n.Shift(0, y)
		stack.Add(n)
		y += heights[i] + gap
	}
	if appendP > 0 {
		app := scene.Group("appendix").Fade(appendP).Shift(0, y+(1-appendP)*18)
		for i, a := range b.Appendix {
			id := fmt.Sprintf("appendix.%d", i)
			row := scene.Box(id, 0, float64(i)*(appendH+6), stackWidth, appendH).
				Fill(tint(a.Tone, 0x12)).
				Rounded(6).
				Add(
					scene.Box(id+".rail", 0, 0, 4, appendH).Fill(a.Tone),
					scene.Text(id+".label", 22, (appendH-18)/2, a.Label, 18).Ink(a.Tone),
					scene.Text(id+".sub", 34+textWidth(a.Label, 18), (appendH-14)/2, a.Sublabel, 14).Ink(TextDark),
				)
			app.Add(row)
		}
		stack.Add(app)
	}
	root.Add(stack)

	codeP := motion.Between(f, b.codeStart-staggerSm, b.codeStart+enterSlow, 0, 1, motion.Standard)
	if codeP > 0 {
		cx := left + stackWidth + sceneGap
		panel := scene.Group("code-panel",
			centered("code.title", b.code.Width/2, 0, b.CodeTitle, 18, TextDark),
			b.code.Render(0, 34, f, b.codeStart, 90),
		).Fade(codeP).Shift(cx+(1-codeP)*90, top)
		root.Add(panel)
	}

	current := -1
	if p, ok := b.tl.Active(frame); ok {
		current = b.tl.Index(p.ID)
	}
	root.Add(steps("progress", b.Steps, current, Width/2, Height-56))

	if cue, ok := b.Cues.CueAt(frame); ok {
		op := reveal(f, float64(cue.Start), enterFast) * conceal(f, float64(cue.End-exitFast), exitFast)
		root.Add(caption(Captions[cue.Key], op))
	}
	return root
}

// layer draws layer i at the stack origin and returns it with its height.
func (b *boundLayerStack) layer(i int, l Layer, f float64, fps int, width, compact float64) (*scene.Node, float64) {
	const padY, padX, titleSize, titleGap = 20.0, 28.0, 25.0, 14.0
	enter := b.enter[i]
	sp := pop(f, enter, fps, b.spring)
	opacity := motion.Between(sp, 0, 0.5, 0, 1, nil)

	id := fmt.Sprintf("layer.%d", i)
	content := scene.Group(id + ".body")
	by := 0.0

	// Detail chips wrap inside the layer width.
	cx := 0.0
	inner := width - 2*padX
	for j, d := range l.Details {
		p := b.chips.At(f-enter, j)
		w := textWidth(d, layerChipSize) + 28
		if cx > 0 && cx+w > inner {
			cx = 0
			by += layerChipH + 8
		}
		cid := fmt.Sprintf("%s.chip%d", id, j)
		content.Add(scene.Box(cid, cx, by, w, layerChipH).
			Fill(tint(l.Tone, 0x18)).
			Outline(tint(l.Tone, 0x30), 1).
			Rounded(4).
			Fade(p).
			Shift(0, (1-p)*offsetYSm).
			Add(scene.Text(cid+".text", 14, (layerChipH-layerChipSize)/2, d, layerChipSize).Ink(Text)))
		cx += w + 8
	}
	by += layerChipH

	if len(l.Files) > 0 {
		by += 10
		fx := 0.0
		for j, name := range l.Files {
			p := b.files.At(f-enter, j)
			w := textWidth(name, 16) + 24
			fid := fmt.Sprintf("%s.file%d", id, j)
			content.Add(scene.Box(fid, fx, by, w, layerFileH).
				Fill(tint(l.Tone, 0x15)).
				Rounded(4).
				Fade(p).
				Shift((1-p)*-30, 0).
				Add(scene.Text(fid+".text", 12, (layerFileH-16)/2, name, 16).Ink(l.Tone)))
			fx += w + 12
		}
		by += layerFileH
	}

	if l.Example != "" {
		by += 12
		p := motion.Between(f, enter+60, enter+75, 0, 1, nil)
		text := "Memory: " + l.Example
		content.Add(scene.Box(id+".example", 0, by, textWidth(text, 16)+32, layerExampleH).
			Fill("#0f0f1a80").
			Rounded(6).
			Fade(p).
			Add(
				scene.Box(id+".example.rail", 0, 0, 3, layerExampleH).Fill(l.Tone),
				scene.Text(id+".example.text", 16, (layerExampleH-16)/2, text, 16).Ink(Text),
			))
		by += layerExampleH
	}

	if l.Digest != "" {
		by += 12
		content.Add(scene.Text(id+".digest", 0, by, l.Digest, 21).Ink(Accent).Fade(b.digest[i].At(f)))
		by += layerDigestH
	}

	// Details fold away while the stack compacts.
	body := 1 - compact
	bodyH := min(by, layerBodyMax) * body
	content.Fade(body)
	if bodyH < by && by > 0 {
		// Clip by collapsing the body vertically while it fades.
		content.Zoom(bodyH / by)
	}

	h := 2*padY + titleSize*1.2 + titleGap + bodyH
	n := scene.Box(id, 0, 0, width, h).
		Fill(tint(l.Tone, 0x10)).
		Rounded(8).
		Fade(opacity).
		Shift(0, spring.Animate(f-enter, fps, b.spring, 20, 0)).
		Add(
			scene.Box(id+".rail", 0, 0, 4, h).Fill(l.Tone),
			scene.Text(id+".title", padX, padY, l.Label, titleSize).Ink(l.Tone),
		)
	content.Shift(padX, padY+titleSize*1.2+titleGap)
	n.Add(content)
	b.compactor.Apply(n, f)
	return n, n.Style.Height
}
