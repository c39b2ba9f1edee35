package scenes

import (
	"fmt"
	"math"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/spring"
)

// avatarScale overshoots slightly before settling at full size.
var avatarScale = motion.MustRange([]float64{0, 0.85, 1}, []float64{0.82, 1.02, 1}, motion.Clamped)

// Word is one keyword of a title card, lit after the previous one.
type Word struct {
	Text string
	Tone scene.Color
}

// TitleCard is a centered title with an optional avatar, keyword row and
// footer line.
type TitleCard struct {
	Part    string // header badge
	Section string // header title

	Avatar    string // letter inside the avatar circle
	Kicker    string
	Title     string
	Highlight string // appended to Title in the accent color
	Subtitle  string

	Words   []Word
	Joiner  string // drawn between words
	WordsAt int    // first word's start frame

	Strike   string // crossed-out lead of the footer
	Footer   string
	FooterAt int

	PushIn float64 // camera zoom reached at the last frame, 0 for none
}

// Render draws the card at frame. Every element settles by about one
// second and stays until the scene cross-fade takes over.
func (c *TitleCard) Render(frame, fps, duration int) *scene.Node {
	f := float64(frame)
	root := scene.Group("title-card", backdrop(f), header(c.Part, c.Section, f))

	y := 260.0
	if c.Avatar != "" {
		a := pop(f, 0, fps, spring.Emphasis)
		scale := avatarScale.At(a)
		breathe := 1 + 0.015*math.Sin(f*0.08)
		const d = 160.0
		avatar := scene.Box("avatar", Width/2-d/2, y-60, d, d).
			Fill(Primary).
			Rounded(d / 2).
			Fade(a).
			Zoom(scale * breathe).
			Add(centered("avatar.text", d/2, d/2-36, c.Avatar, 72, Text))
		root.Add(avatar)
		y += 160
	}

	if c.Kicker != "" {
		p := reveal(f, 0, enterFast)
		root.Add(centered("kicker", Width/2, y-70, c.Kicker, 28, Accent).Fade(p))
	}

	tp := reveal(f, 10, enterSlow)
	title := c.title(y).Fade(tp).Shift(0, (1-tp)*18)
	root.Add(title)
	y += 110

	if c.Subtitle != "" {
		sp := reveal(f, 10+staggerLg, enterNormal)
		root.Add(centered("subtitle", Width/2, y, c.Subtitle, 36, TextMuted).
			Fade(sp).Shift(0, (1-sp)*12))
		y += 90
	}

	if len(c.Words) > 0 {
		root.Add(c.words(f, y))
		y += 130
	}

	if c.Footer != "" {
		root.Add(c.footer(f, y))
	}

	if c.PushIn > 0 {
		cam := composer.NewCamera(motion.Linear,
			composer.CameraKey{Frame: 0, X: Width / 2, Y: Height / 2, Zoom: 1},
			composer.CameraKey{Frame: duration, X: Width / 2, Y: Height / 2, Zoom: c.PushIn},
		)
		return cam.Apply(root, f, Width, Height)
	}
	return root
}

func (c *TitleCard) title(y float64) *scene.Node {
	const size = 72
	text := c.Title
	if c.Highlight != "" {
		text += " "
	}
	w1 := textWidth(text, size)
	w2 := textWidth(c.Highlight, size)
	x := (Width - w1 - w2) / 2

	g := scene.Group("title", scene.Text("title.text", x, y, text, size).Ink(Text))
	if c.Highlight != "" {
		g.Add(scene.Text("title.highlight", x+w1, y, c.Highlight, size).Ink(Accent))
	}
	return g
}

func (c *TitleCard) words(f, y float64) *scene.Node {
	const size = 40
	const gap = 36.0

	joinW := 0.0
	if c.Joiner != "" {
		joinW = textWidth(c.Joiner, size) + gap
	}

	widths := make([]float64, len(c.Words))
	total := 0.0
	for i, w := range c.Words {
		widths[i] = textWidth(w.Text, size) + 2*size*0.8
		total += widths[i]
		if i > 0 {
			total += gap + joinW
		}
	}

	st := composer.Stagger{Base: float64(c.WordsAt), Step: 24, Duration: enterNormal, Easing: motion.Standard}
	g := scene.Group("words")
	x := (Width - total) / 2
	for i, w := range c.Words {
		p := st.At(f, i)
		if i > 0 {
			if c.Joiner != "" {
				g.Add(scene.Text(fmt.Sprintf("words.join%d", i), x, y+size*0.45, c.Joiner, size).
					Ink(TextDark).Fade(p))
				x += joinW
			} else {
				x += gap
			}
		}
		tone := w.Tone
		if tone == "" {
			tone = Primary
		}
		n, width := chip(fmt.Sprintf("words.%d", i), x, y, w.Text, size, tone)
		g.Add(n.Fade(p).Zoom(0.9 + 0.1*p))
		x += width
	}
	return g
}

func (c *TitleCard) footer(f, y float64) *scene.Node {
	const size = 34
	p := reveal(f, float64(c.FooterAt), enterNormal)
	g := scene.Group("footer").Fade(p).Shift(0, (1-p)*10)

	lead := ""
	if c.Strike != "" {
		lead = c.Strike + "   "
	}
	w1 := textWidth(lead, size)
	w2 := textWidth(c.Footer, size)
	x := (Width - w1 - w2) / 2

	if c.Strike != "" {
		sw := textWidth(c.Strike, size)
		strike := motion.Between(f, float64(c.FooterAt)+enterNormal, float64(c.FooterAt)+enterNormal+enterFast, 0, 1, motion.Standard)
		g.Add(
			scene.Text("footer.strike", x, y, c.Strike, size).Ink(TextDark),
			scene.Box("footer.line", x, y+size/2, sw*strike, 3).Fill(Error),
		)
	}
	g.Add(scene.Text("footer.text", x+w1, y, c.Footer, size).Ink(Accent))
	return g
}
