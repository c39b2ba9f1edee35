package scenes

import (
	"fmt"
	"math"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
	"github.com/ivlev/loopreel/internal/timeline"
)

const agentLoopCode = `async function agent_loop(messages, tools):
  while iteration < max_iterations:
    response = await llm.chat(messages, tools)
    if response.has_tool_calls:
      for tc in response.tool_calls:
        result = await tools.execute(
          tc.name, tc.arguments
        )
        messages.append({
          role: "tool",
          tool_call_id: tc.id,
          content: result
        })
    else:
      return response.content`

var toolRegistry = []struct{ Name, Label string }{
	{"read_file", "read a file"},
	{"write_file", "write a file"},
	{"exec", "run a command"},
	{"web_search", "search the web"},
	{"web_fetch", "fetch a page"},
	{"message", "send a message"},
	{"delegate", "delegate a subtask"},
}

// phaseSlides are the enter and exit distances of each breakdown phase.
var phaseSlides = map[string][2]float64{
	timeline.SendToLLM:      {70, -90},
	timeline.CheckResponse:  {85, -85},
	timeline.ToolsExplained: {90, -95},
	timeline.ExecuteTool:    {85, -85},
	timeline.LoopBack:       {75, -70},
	timeline.Comparison:     {80, 0},
}

// LoopBreakdown walks through one turn of the agent loop, one composer
// phase per step, with a progress indicator and captions on top.
type LoopBreakdown struct {
	Part    string
	Section string
	Steps   []string
	Cues    timeline.Cues

	Overlap     int
	EnterFrames int
	TailFade    int
}

func (l *LoopBreakdown) renderers() map[string]composer.RenderFunc {
	return map[string]composer.RenderFunc{
		timeline.SendToLLM:      sendToLLM,
		timeline.CheckResponse:  checkResponse,
		timeline.ToolsExplained: toolsExplained,
		timeline.ExecuteTool:    executeTool,
		timeline.LoopBack:       loopBack,
		timeline.Comparison:     comparison,
	}
}

// sequence binds the phase renderers to tl. Phases without a renderer are
// a configuration error surfaced by composer.NewSequence.
func (l *LoopBreakdown) sequence(tl *timeline.Timeline) (*composer.Sequence, error) {
	renderers := l.renderers()
	var entries []composer.Entry
	for _, p := range tl.Phases() {
		r, ok := renderers[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no renderer for phase %q of %s", composer.ErrInvalidSequence, p.ID, tl.Name())
		}
		slide := phaseSlides[p.ID]
		entries = append(entries, composer.Entry{
			Phase:      p.ID,
			Render:     r,
			EnterFromX: slide[0],
			ExitToX:    slide[1],
			EnterRiseY: offsetYSm,
			ExitDropY:  6,
		})
	}
	m := tl.Motion()
	overlap, enter, tail := m.Blend(l.Overlap, l.EnterFrames, l.TailFade)
	return composer.NewSequence(tl, composer.Options{
		Overlap:     overlap,
		EnterFrames: enter,
		TailFade:    tail,
		Easing:      m.Curve(nil),
	}, entries...)
}

func (l *LoopBreakdown) compose(id string, tl *timeline.Timeline, duration int) (*composer.Composition, error) {
	seq, err := l.sequence(tl)
	if err != nil {
		return nil, err
	}
	overlay := func(frame int, base *scene.Node) *scene.Node {
		f := float64(frame)
		root := scene.Group("loop-breakdown", backdrop(f), header(l.Part, l.Section, f), base)

		current := -1
		if p, ok := tl.Active(frame); ok {
			current = tl.Index(p.ID)
		}
		root.Add(steps("phases", l.Steps, current, Width/2, Height-56))

		if cue, ok := l.Cues.CueAt(frame); ok {
			op := reveal(f, float64(cue.Start), enterFast) * conceal(f, float64(cue.End-exitFast), exitFast)
			root.Add(caption(Captions[cue.Key], op))
		}
		return root
	}
	return composer.FromSequence(id, timeline.FPS, Width, Height, duration, seq, overlay)
}

// flowBox is a labelled box of the send-to-LLM flow.
func flowBox(id string, x, y float64, text, sub string, tone scene.Color, p float64) *scene.Node {
	const w, h = 240.0, 110.0
	return scene.Box(id, x, y, w, h).
		Fill(tint(tone, 0x12)).
		Outline(tint(tone, 0x40), 1).
		Rounded(14).
		Fade(p).
		Shift(0, (1-p)*15).
		Add(
			centered(id+".label", w/2, 22, text, 30, tone),
			centered(id+".sub", w/2, 66, sub, 20, TextMuted),
		)
}

func flowArrow(id string, x, y, p float64) *scene.Node {
	return scene.Arrow(id, x, y, x+60, y).Ink(TextDark).Fade(p)
}

func sendToLLM(l composer.Local) *scene.Node {
	f := float64(l.Frame)
	s1 := pop(f, 0, l.FPS, spring.Gentle)
	s2 := pop(f, 30, l.FPS, spring.Gentle)
	s3 := pop(f, 60, l.FPS, spring.Gentle)

	const rowY = 420.0
	const gap = 38.0
	x := (Width - (3*240 + 200 + 3*(2*gap+60))) / 2.0

	g := scene.Group("send",
		centered("send.title", Width/2, 290, "Step 1: send messages and tools", 34, TextMuted),
	)
	g.Add(flowBox("send.messages", x, rowY, "messages", "context + history", Primary, s1))
	x += 240 + gap
	g.Add(flowArrow("send.a1", x, rowY+55, s1))
	x += 60 + gap
	g.Add(flowBox("send.tools", x, rowY, "tools", "tool list", Success, s2))
	x += 240 + gap
	g.Add(flowArrow("send.a2", x, rowY+55, s2))
	x += 60 + gap
	g.Add(label("send.llm", x, rowY-7, 200, 124, "LLM", 40, Accent).Fade(s3).Zoom(0.9 + 0.1*s3))
	x += 200 + gap
	g.Add(flowArrow("send.a3", x, rowY+55, s3))
	x += 60 + gap
	g.Add(flowBox("send.response", x, rowY, "response", "the reply", Accent, s3))

	g.Add(centered("send.wait", Width/2, 640, "Waiting for the LLM to answer...", 34, Text).
		Fade(motion.Between(f, 80, 100, 0, 1, nil)))
	return g
}

func checkResponse(l composer.Local) *scene.Node {
	f := float64(l.Frame)
	enter := pop(f, 0, l.FPS, spring.Gentle)
	yes := motion.Between(f, 15, 30, 0, 1, nil)
	no := motion.Between(f, 25, 40, 0, 1, nil)

	const qw, qh = 340.0, 96.0
	qx, qy := (Width-qw)/2, 300.0

	g := scene.Group("check",
		centered("check.title", Width/2, 200, "Step 2: check the reply", 34, TextMuted),
		label("check.question", qx, qy, qw, qh, "tool_call?", 36, Primary).Fade(enter).Zoom(0.9+0.1*enter),
		scene.Arrow("check.yes.arrow", Width/2-60, qy+qh, Width/2-300, qy+qh+110).Ink(Success).Fade(yes),
		scene.Arrow("check.no.arrow", Width/2+60, qy+qh, Width/2+300, qy+qh+110).Ink(Warning).Fade(no),
		label("check.yes", Width/2-560, qy+qh+120, 460, 80, "yes: run the tools", 26, Success).Fade(yes),
		label("check.no", Width/2+100, qy+qh+120, 460, 80, "no: done, leave the loop", 26, Warning).Fade(no),
	)
	g.Add(centered("check.kinds", Width/2, 680,
		"Two kinds of reply: plain text ends the task,\na tool_call means there is work to do", 30, TextMuted).
		Fade(motion.Between(f, 60, 80, 0, 1, nil)))
	g.Add(centered("check.def", Width/2, 790,
		"tool_call = a structured action: which tool, which arguments", 24, Accent).
		Fade(motion.Between(f, 85, 105, 0, 1, nil)))
	return g
}

func toolsExplained(l composer.Local) *scene.Node {
	f := float64(l.Frame)

	const lx, rx = 200.0, 860.0
	g := scene.Group("tools",
		scene.Text("tools.title", lx, 170, "Tools are the agent's hands", 34).Ink(TextMuted),
		scene.Text("tools.sub", lx, 225, "Each tool tells the LLM what it does\nand how to pass its arguments", 23).Ink(Accent),
	)

	const rowH = 56.0
	card := scene.Box("tools.registry", lx, 300, 560, 70+rowH*float64(len(toolRegistry))).
		Fill(BackgroundCard).
		Outline(Border, 1).
		Rounded(16).
		Add(scene.Text("tools.registry.title", 34, 26, "TOOL REGISTRY", 21).Ink(TextDark))
	for i, t := range toolRegistry {
		p := motion.Between(f, float64(10+i*6), float64(18+i*6), 0, 1, nil)
		y := 64 + float64(i)*rowH
		id := fmt.Sprintf("tools.registry.%d", i)
		row := scene.Group(id,
			scene.Text(id+".name", 34, y+12, t.Name, 29).Ink(Accent),
			scene.Text(id+".label", 526-textWidth(t.Label, 22), y+16, t.Label, 22).Ink(TextMuted),
		).Fade(p)
		if i < len(toolRegistry)-1 {
			row.Add(scene.Box(id+".rule", 34, y+rowH-1, 492, 1).Fill(Border))
		}
		card.Add(row)
	}
	g.Add(card)

	g.Add(scene.Text("tools.example.title", rx, 170, "tool_call example", 34).Ink(TextMuted))
	g.Add(toolCallBox("tools.call", rx, 240, 860, f, 30, l.FPS,
		"web_search", `{"query": "what is an agent loop"}`,
		"An agent loop feeds tool results back to the LLM\nuntil it answers without calling a tool.", f > 80, Success))
	g.Add(scene.Text("tools.note", rx, 640, "tool_call = tool name + arguments,\nnot prose for the user", 30).
		Ink(Accent).Fade(motion.Between(f, 100, 120, 0, 1, nil)))
	return g
}

// toolCallBox shows a call with its arguments and, once showResult is
// set, the result.
func toolCallBox(id string, x, y, w, f, delay float64, fps int, name, args, result string, showResult bool, status scene.Color) *scene.Node {
	enter := pop(f, delay, fps, spring.Gentle)
	box := scene.Box(id, x, y, w, 330).
		Fill(BackgroundCard).
		Outline(tint(Accent, 0x55), 1.5).
		Rounded(14).
		Fade(enter).
		Shift(0, (1-enter)*offsetYMd).
		Add(
			scene.Text(id+".kind", 28, 24, "tool_call", 20).Ink(TextDark),
			scene.Text(id+".name", 28, 56, name, 32).Ink(Accent),
			scene.Text(id+".args", 28, 108, args, 22).Ink(Text),
		)
	if showResult {
		p := motion.Between(f, delay+20, delay+35, 0, 1, nil)
		box.Add(scene.Group(id+".result",
			scene.Box(id+".result.rule", 28, 160, w-56, 1).Fill(Border),
			scene.Text(id+".result.kind", 28, 180, "result", 20).Ink(status),
			scene.Text(id+".result.text", 28, 214, result, 22).Ink(TextMuted),
		).Fade(p))
	}
	return box
}

var execSteps = []struct {
	Label string
	At    float64
}{
	{"tool_call", 0},
	{"-> find the tool", 15},
	{"-> execute", 30},
	{"-> result", 45},
	{"-> append to messages", 60},
}

func executeTool(l composer.Local) *scene.Node {
	f := float64(l.Frame)
	g := scene.Group("exec",
		centered("exec.title", Width/2, 150, "Run the tool, feed the result back to the LLM", 34, TextMuted),
	)

	const size = 28.0
	widths := make([]float64, len(execSteps))
	total := 0.0
	for i, s := range execSteps {
		widths[i] = textWidth(s.Label, size) + 36
		total += widths[i] + 12
	}
	x := (Width - total + 12) / 2
	for i, s := range execSteps {
		p := motion.Between(f, s.At, s.At+12, 0, 1, nil)
		last := i == len(execSteps)-1
		tone := Text
		fill := scene.Color("")
		if last {
			tone, fill = Accent, tint(Accent, 0x15)
		}
		id := fmt.Sprintf("exec.step%d", i)
		step := scene.Box(id, x, 220, widths[i], 52).Fill(fill).Rounded(8).Fade(p).
			Add(scene.Text(id+".text", 18, 12, s.Label, size).Ink(tone))
		g.Add(step)
		x += widths[i] + 12
	}

	note := "The tool result is for the LLM to keep thinking, not for the user"
	nw := textWidth(note, 28) + 72
	g.Add(scene.Box("exec.note", (Width-nw)/2, 305, nw, 64).
		Fill(tint(Accent, 0x10)).
		Outline(tint(Accent, 0x30), 1).
		Rounded(10).
		Fade(motion.Between(f, 80, 100, 0, 1, nil)).
		Add(scene.Text("exec.note.text", 36, 18, note, 28).Ink(Accent)))

	code := codeBlock{ID: "exec.code", Code: agentLoopCode, Size: 16, Width: 860, Highlight: []int{6, 7, 8, 9, 10, 11}}
	g.Add(code.Render((Width-860)/2, 400, f, 0, 120).Fade(motion.Between(f, 120, 145, 0, 1, nil)))
	return g
}

func loopBack(l composer.Local) *scene.Node {
	f := float64(l.Frame)
	ring := motion.Between(f, 0, 90, 0, 1, nil)
	rotation := motion.Between(f, 10, 100, 0, 360, nil)

	const cx, cy, r = Width / 2.0, 260.0, 92.0
	g := scene.Group("loop")

	// A ring of dots with a gap at the top, turned by rotation.
	arc := scene.Group("loop.ring").Fade(ring)
	for k := 2; k <= 10; k++ {
		a := (rotation + float64(k)*30 - 90) * math.Pi / 180
		arc.Add(dot(fmt.Sprintf("loop.ring.%d", k), cx+r*math.Cos(a), cy+r*math.Sin(a), 14, Accent))
	}
	head := (rotation + 10*30 - 90 + 20) * math.Pi / 180
	tail := (rotation + 10*30 - 90) * math.Pi / 180
	arc.Add(scene.Arrow("loop.ring.head",
		cx+r*math.Cos(tail), cy+r*math.Sin(tail),
		cx+r*math.Cos(head), cy+r*math.Sin(head)).Ink(Accent))
	g.Add(arc)

	text := motion.Between(f, 30, 50, 0, 1, nil)
	g.Add(
		centered("loop.title", Width/2, 420, "Feed the result back, loop to the top", 44, Text).Fade(text),
		centered("loop.sub", Width/2, 490, "The LLM looks again: the result is in, what next?", 32, TextMuted).Fade(text),
	)

	chain := []string{"tool result", "-> messages", "-> LLM", "-> look again"}
	const size = 29.0
	total := 0.0
	for _, s := range chain {
		total += textWidth(s, size) + 48 + 22
	}
	x := (Width - total + 22) / 2
	p := motion.Between(f, 60, 80, 0, 1, nil)
	for i, s := range chain {
		w := textWidth(s, size) + 48
		tone := Text
		if i == len(chain)-1 {
			tone = Accent
		}
		id := fmt.Sprintf("loop.chain%d", i)
		g.Add(scene.Box(id, x, 590, w, 58).Fill(tint(Primary, 0x15)).Rounded(8).Fade(p).
			Add(scene.Text(id+".text", 24, 14, s, size).Ink(tone)))
		x += w + 22
	}

	g.Add(centered("loop.stop", Width/2, 720, "When to stop is up to the LLM", 38, Warning).
		Fade(motion.Between(f, 120, 150, 0, 1, nil)))
	return g
}

type stepRow struct {
	Label  string
	Status scene.Color
	At     float64
}

func comparison(l composer.Local) *scene.Node {
	f := float64(l.Frame)
	const delay = 10.0
	enter := pop(f, delay, l.FPS, spring.Gentle)

	const pw, ph, gap = 640.0, 470.0, 60.0
	left := (Width - 2*pw - gap) / 2
	top := 200.0

	g := scene.Group("compare").Fade(enter).Shift(0, (1-enter)*30)
	g.Add(comparePanel("compare.chatbot", left, top, pw, ph, f, "ChatBot", "answers once", TextMuted, []stepRow{
		{"try to answer", TextMuted, delay + 20},
		{"the answer misses", Error, delay + 50},
	}, "stops here", Error))
	g.Add(scene.Box("compare.divider", left+pw+gap/2-1.5, top, 3, ph).Fill(Border))
	g.Add(comparePanel("compare.agent", left+pw+gap, top, pw, ph, f, "Agent", "loops until done", Accent, []stepRow{
		{"attempt 1", TextMuted, delay + 30},
		{"hits an error", Error, delay + 55},
		{"retries on its own", TextMuted, delay + 80},
		{"task complete", Success, delay + 100},
	}, "", ""))

	g.Add(centered("compare.quote", Width/2, top+ph+50,
		"A chatbot answers. An agent keeps going until the job is done.", 34, Accent).
		Fade(motion.Between(f, delay+130, delay+150, 0, 1, nil)))
	return g
}

func comparePanel(id string, x, y, w, h, f float64, title, sub string, tone scene.Color, rows []stepRow, verdict string, verdictTone scene.Color) *scene.Node {
	p := scene.Box(id, x, y, w, h).
		Fill("#16162acc").
		Outline(Border, 1).
		Rounded(16).
		Add(
			centered(id+".title", w/2, 32, title, 32, tone),
			centered(id+".sub", w/2, 82, sub, 22, TextMuted),
		)
	for i, r := range rows {
		op := motion.Between(f, r.At, r.At+15, 0, 1, nil)
		rid := fmt.Sprintf("%s.row%d", id, i)
		mark := "o"
		switch r.Status {
		case Error:
			mark = "x"
		case Success:
			mark = "v"
		}
		row := scene.Box(rid, 40, 140+float64(i)*70, w-80, 56).
			Fill(tint(r.Status, 0x14)).
			Rounded(8).
			Fade(op).
			Add(
				scene.Text(rid+".mark", 18, 14, mark, 26).Ink(r.Status),
				scene.Text(rid+".text", 58, 16, r.Label, 24).Ink(Text),
			)
		p.Add(row)
	}
	if verdict != "" {
		last := rows[len(rows)-1].At
		p.Add(centered(id+".verdict", w/2, 140+float64(len(rows))*70+20, verdict, 22, verdictTone).
			Fade(motion.Between(f, last+15, last+30, 0, 1, nil)))
	}
	return p
}
