package scenes

import (
	"fmt"
	"math"

	"github.com/ivlev/loopreel/internal/composer"
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
)

// Item is one card of a CardList.
type Item struct {
	Title  string
	Detail string
	Tone   scene.Color
}

// CardList reveals a grid of cards one after another. With Focus set, a
// spotlight then walks through the cards in equal slices of the remaining
// scene time.
type CardList struct {
	Part    string
	Section string

	Heading string
	Sub     string

	Columns int
	Items   []Item
	Stagger composer.Stagger // zero value uses the default entrance

	// Pinned (1-based) keeps one card lit with a slow pulse once the grid
	// is in. Zero pins nothing.
	Pinned int

	Focus     bool
	FocusFrom int
	FocusTail int // frames at the end with no spotlight

	Footer   string
	FooterAt int
}

const (
	listTop    = 250.0
	listBottom = 900.0
	listGap    = 28.0
)

func (c *CardList) stagger() composer.Stagger {
	if c.Stagger.Duration > 0 {
		return c.Stagger
	}
	return composer.Stagger{Base: 20, Step: staggerLg, Duration: enterNormal, Easing: motion.Standard}
}

// focused returns the spotlighted card index, or -1.
func (c *CardList) focused(frame, duration int) int {
	if !c.Focus || len(c.Items) == 0 || frame < c.FocusFrom {
		return -1
	}
	span := float64(duration-c.FocusTail-c.FocusFrom) / float64(len(c.Items))
	if span <= 0 {
		return -1
	}
	i := int(float64(frame-c.FocusFrom) / span)
	if i >= len(c.Items) {
		return -1
	}
	return i
}

func (c *CardList) Render(frame, fps, duration int) *scene.Node {
	f := float64(frame)
	root := scene.Group("card-list", backdrop(f), header(c.Part, c.Section, f))

	top := listTop
	if c.Heading != "" {
		p := reveal(f, 0, enterSlow)
		root.Add(centered("heading", Width/2, 150, c.Heading, 56, Text).Fade(p).Shift(0, (1-p)*offsetYMd))
	}
	if c.Sub != "" {
		p := reveal(f, staggerMd, enterNormal)
		root.Add(centered("sub", Width/2, 225, c.Sub, 28, TextMuted).Fade(p))
		top += 30
	}

	cols := c.Columns
	if cols <= 0 {
		cols = 1
	}
	rows := (len(c.Items) + cols - 1) / cols
	if rows == 0 {
		return root
	}
	cardW := (Width - 2*safeMargin - float64(cols-1)*listGap) / float64(cols)
	cardH := math.Min(190, (listBottom-top-float64(rows-1)*listGap)/float64(rows))

	st := c.stagger()
	focus := c.focused(frame, duration)
	spot := 0.0
	if focus >= 0 {
		spot = reveal(f, float64(c.FocusFrom), enterNormal)
	}

	grid := scene.Group("cards")
	progress := st.Fan(f, len(c.Items))
	for i, it := range c.Items {
		x := safeMargin + float64(i%cols)*(cardW+listGap)
		y := top + float64(i/cols)*(cardH+listGap)
		p := progress[i]

		card := c.card(i, it, x, y, cardW, cardH).Fade(p).Shift(0, (1-p)*offsetYMd)
		if c.Pinned == i+1 {
			lit := reveal(f, st.End(len(c.Items)), enterNormal)
			pulse := 1 + 0.02*lit*math.Sin((f-st.End(len(c.Items)))*0.12)
			card.Outline(Accent, 2+lit).Zoom(pulse)
		}
		switch {
		case focus < 0:
		case i == focus:
			card.Outline(Accent, 3).Zoom(1 + 0.03*spot)
		case i < focus:
			card.Fade(1 - 0.3*spot)
		default:
			card.Fade(1 - 0.55*spot)
		}
		grid.Add(card)
	}
	root.Add(grid)

	if c.Footer != "" {
		p := reveal(f, float64(c.FooterAt), enterNormal)
		root.Add(centered("footer", Width/2, 950, c.Footer, 34, Accent).Fade(p).Shift(0, (1-p)*offsetYSm))
	}
	return root
}

func (c *CardList) card(i int, it Item, x, y, w, h float64) *scene.Node {
	tone := it.Tone
	if tone == "" {
		tone = Primary
	}
	id := fmt.Sprintf("card.%d", i)
	n := scene.Box(id, x, y, w, h).
		Fill(BackgroundCard).
		Outline(tint(tone, 0x88), 2).
		Rounded(18).
		Pad(28).
		Add(
			scene.Box(id+".bar", 0, 0, 8, h).Fill(tone).Rounded(4),
			scene.Text(id+".title", 36, 28, it.Title, 32).Ink(Text),
		)
	// Short cards keep title and detail on one line.
	if h < 110 {
		n.Children[1].Style.Y = (h - 32) / 2
		if it.Detail != "" {
			n.Add(scene.Text(id+".detail", w-36-textWidth(it.Detail, 22), (h-22)/2, it.Detail, 22).Ink(TextMuted))
		}
		return n
	}
	if it.Detail != "" {
		n.Add(scene.Text(id+".detail", 36, 28+52, it.Detail, 22).Ink(TextMuted))
	}
	return n
}
