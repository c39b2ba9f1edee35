package scenes

import (
	"fmt"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
)

// Topic is one teaser card of the end card.
type Topic struct {
	Title    string
	Subtitle string
	Desc     string
	Tone     scene.Color
}

// EndCard announces the next episode with topic cards and a QR code.
type EndCard struct {
	Heading string
	Topics  []Topic
	Link    string // QR content, no code drawn when empty
	Closing string
}

func (e *EndCard) Render(frame, fps, duration int) *scene.Node {
	f := float64(frame)
	root := scene.Group("end-card", backdrop(f))

	hp := reveal(f, 0, enterSlow)
	root.Add(centered("heading", Width/2, 170, e.Heading, 60, Text).Fade(hp).Shift(0, (1-hp)*offsetYLg))

	const cw, ch, gap = 520.0, 300.0, 48.0
	cols := float64(len(e.Topics))
	qrSize := 0.0
	if e.Link != "" {
		qrSize = 260
	}
	total := cols*cw + (cols-1)*gap
	if qrSize > 0 {
		total += gap + qrSize
	}
	x := (Width - total) / 2

	st := composer.Stagger{Base: 20, Step: staggerLg * 2, Duration: enterNormal}
	for i, t := range e.Topics {
		p := spring.Progress(f-st.Delay(i), fps, spring.Soft)
		id := fmt.Sprintf("topic.%d", i)
		card := scene.Box(id, x, 330, cw, ch).
			Fill(BackgroundCard).
			Outline(tint(t.Tone, 0x66), 2).
			Rounded(20).
			Fade(motion.Clamp01(p)).
			Shift(0, (1-p)*40).
			Add(
				centered(id+".title", cw/2, 50, t.Title, 44, t.Tone),
				centered(id+".subtitle", cw/2, 126, t.Subtitle, 30, Text),
				centered(id+".desc", cw/2, 196, t.Desc, 22, TextMuted),
			)
		root.Add(card)
		x += cw + gap
	}

	if qrSize > 0 {
		p := reveal(f, 80, enterSlow)
		root.Add(scene.Group("qr",
			scene.Box("qr.frame", x-12, 318, qrSize+24, qrSize+24).Fill(Text).Rounded(12),
			scene.QR("qr.code", x, 330, qrSize, e.Link),
			centered("qr.label", x+qrSize/2, 330+qrSize+30, "scan for the next episode", 20, TextMuted),
		).Fade(p).Zoom(0.95 + 0.05*p))
	}

	if e.Closing != "" {
		p := reveal(f, 150, enterSlow)
		out := conceal(f, float64(duration-exitNormal), exitNormal)
		root.Add(centered("closing", Width/2, 800, e.Closing, 48, Accent).Fade(p * out).Shift(0, (1-p)*offsetYMd))
	}
	return root
}
