package scenes

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/raster"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
)

// reveal is the standard eased 0→1 entrance starting at start.
func reveal(frame, start, duration float64) float64 {
	return motion.Fade(frame, start, duration, motion.Standard)
}

// conceal is the exit counterpart of reveal: 1 until start, 0 after.
func conceal(frame, start, duration float64) float64 {
	return 1 - motion.Fade(frame, start, duration, motion.Exit)
}

// pop is a spring entrance delayed by delay frames.
func pop(frame, delay float64, fps int, cfg spring.Config) float64 {
	return spring.Progress(frame-delay, fps, cfg)
}

func textWidth(text string, size float64) float64 {
	w := 0.0
	for _, line := range strings.Split(text, "\n") {
		w = math.Max(w, raster.MeasureText(line, size))
	}
	return w
}

// centered places text so that its box is centered on cx.
func centered(id string, cx, y float64, text string, size float64, ink scene.Color) *scene.Node {
	return scene.Text(id, cx-textWidth(text, size)/2, y, text, size).Ink(ink)
}

// label is a rounded box with its text centered inside.
func label(id string, x, y, w, h float64, text string, size float64, tone scene.Color) *scene.Node {
	tw := textWidth(text, size)
	lines := float64(strings.Count(text, "\n") + 1)
	th := size * lines * 1.2
	return scene.Box(id, x, y, w, h).
		Fill(tint(tone, 0x22)).
		Outline(tone, 2).
		Rounded(14).
		Add(scene.Text(id+".text", (w-tw)/2, (h-th)/2, text, size).Ink(Text))
}

// chip is a pill sized to its text. It returns the node and its width.
func chip(id string, x, y float64, text string, size float64, tone scene.Color) (*scene.Node, float64) {
	pad := size * 0.8
	w := textWidth(text, size) + 2*pad
	h := size * 1.9
	n := scene.Box(id, x, y, w, h).
		Fill(tint(tone, 0x1f)).
		Outline(tint(tone, 0x99), 1.5).
		Rounded(h/2).
		Pad(pad).
		Add(scene.Text(id+".text", pad, (h-size)/2, text, size).Ink(Text))
	return n, w
}

// header draws the "Part / Title" badge in the top-left corner.
func header(part, title string, frame float64) *scene.Node {
	if part == "" && title == "" {
		return nil
	}
	p := reveal(frame, 0, enterNormal)
	g := scene.Group("header").Fade(p).Shift(0, (1-p)*-offsetYSm)
	x := float64(safeMargin)
	if part != "" {
		badge, w := chip("header.part", x, headerY, part, 22, Primary)
		g.Add(badge)
		x += w + 20
	}
	if title != "" {
		g.Add(scene.Text("header.title", x, headerY+8, title, 26).Ink(TextMuted))
	}
	return g
}

// steps draws a horizontal progress indicator with the current step lit.
func steps(id string, labels []string, current int, cx, y float64) *scene.Node {
	const size = 18
	const gap = 28.0

	widths := make([]float64, len(labels))
	total := 0.0
	for i, l := range labels {
		widths[i] = textWidth(fmt.Sprintf("%d %s", i+1, l), size) + 2*size*0.8
		total += widths[i]
	}
	total += gap * float64(len(labels)-1)

	g := scene.Group(id)
	x := cx - total/2
	for i, l := range labels {
		tone := TextDark
		switch {
		case i == current:
			tone = Accent
		case i < current:
			tone = Primary
		}
		c, w := chip(fmt.Sprintf("%s.%d", id, i), x, y, fmt.Sprintf("%d %s", i+1, l), size, tone)
		if i != current {
			c.Fade(0.6)
		}
		g.Add(c)
		x += w + gap
	}
	return g
}

// caption is the subtitle strip at the bottom of the frame.
func caption(text string, opacity float64) *scene.Node {
	if text == "" || opacity <= 0 {
		return nil
	}
	const size = 30
	w := textWidth(text, size) + 64
	h := 60.0
	return scene.Box("caption", (Width-w)/2, captionY, w, h).
		Fill(tint(Background, 0xcc)).
		Rounded(12).
		Fade(opacity).
		Add(scene.Text("caption.text", 32, (h-size)/2, text, size).Ink(Text))
}

// dot is a filled circle of diameter d centered on (cx, cy).
func dot(id string, cx, cy, d float64, c scene.Color) *scene.Node {
	return scene.Box(id, cx-d/2, cy-d/2, d, d).Fill(c).Rounded(d / 2)
}

// backdrop is the full-frame background with two soft glows that drift
// slowly once the scene has settled.
func backdrop(frame float64) *scene.Node {
	gate := motion.Between(frame, 36, 72, 0, 1, motion.Standard)
	dx := math.Sin(frame*0.018) * 12 * gate
	dy := math.Cos(frame*0.015) * 8 * gate
	return scene.Group("backdrop",
		scene.Box("backdrop.fill", 0, 0, Width, Height).Fill(Background),
		dot("backdrop.glow1", Width*0.2+dx, Height*0.2+dy, 760, tint(Primary, 0x10)),
		dot("backdrop.glow2", Width*0.8-dx, Height*0.8-dy, 820, tint(Accent, 0x0c)),
	)
}
