package scenes

import (
	"fmt"
	"strings"

	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
)

const codeComment scene.Color = "#6b7280"

// codeBlock draws numbered pseudo-code lines revealed one by one over
// [start, start+reveal]. Highlighted lines (1-based) get an accent rail.
type codeBlock struct {
	ID        string
	Code      string
	Size      float64
	Width     float64
	Highlight []int
}

func (c codeBlock) lines() []string { return strings.Split(c.Code, "\n") }

// Height is the panel height including padding.
func (c codeBlock) Height() float64 {
	return float64(len(c.lines()))*c.Size*1.8 + 48
}

func (c codeBlock) Render(x, y, frame, start, reveal float64) *scene.Node {
	lines := c.lines()
	progress := motion.Between(frame, start, start+reveal, 0, float64(len(lines)), nil)
	panel := scene.Box(c.ID, x, y, c.Width, c.Height()).
		Fill("#1a1b2e").
		Outline(Border, 1).
		Rounded(12).
		Pad(24).
		Fade(motion.Between(frame, start, start+10, 0, 1, nil))

	lineH := c.Size * 1.8
	for i, line := range lines {
		ly := 24 + float64(i)*lineH
		op := motion.Clamp01((progress - float64(i)) / 0.5)
		id := fmt.Sprintf("%s.%d", c.ID, i+1)

		row := scene.Group(id).Fade(op)
		if c.highlighted(i + 1) {
			row.Add(
				scene.Box(id+".hl", 12, ly-4, c.Width-24, lineH).Fill(tint(Accent, 0x14)),
				scene.Box(id+".rail", 12, ly-4, 3, lineH).Fill(Accent),
			)
		}
		num := fmt.Sprintf("%2d", i+1)
		row.Add(scene.Text(id+".num", 28, ly, num, c.Size).Ink(TextDark))

		code, comment := splitComment(line)
		tx := 28 + textWidth("00", c.Size) + 16
		if code != "" {
			row.Add(scene.Text(id+".code", tx, ly, code, c.Size).Ink(Text))
		}
		if comment != "" {
			row.Add(scene.Text(id+".comment", tx+textWidth(code, c.Size), ly, comment, c.Size).Ink(codeComment))
		}
		panel.Add(row)
	}
	return panel
}

func (c codeBlock) highlighted(line int) bool {
	for _, h := range c.Highlight {
		if h == line {
			return true
		}
	}
	return false
}

// splitComment separates a trailing // comment from the code before it.
func splitComment(line string) (string, string) {
	if i := strings.Index(line, "//"); i >= 0 {
		return line[:i], line[i:]
	}
	return line, ""
}
