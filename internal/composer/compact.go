package composer

import (
	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
)

// Compactor shrinks already rendered content while a later phase begins.
// One scalar drives font size, padding, gap, height and vertical placement
// of a whole subtree.
type Compactor struct {
	Start    float64
	End      float64
	Easing   motion.Easing
	MinScale float64 // factor reached at End
}

// Progress is 0 before Start, 1 after End.
func (c Compactor) Progress(frame float64) float64 {
	return motion.Between(frame, c.Start, c.End, 0, 1, c.Easing)
}

// Factor maps progress to [MinScale, 1].
func (c Compactor) Factor(frame float64) float64 {
	return motion.LerpFloat64(1, c.MinScale, c.Progress(frame))
}

// Apply scales every node under n in place and returns n. Horizontal
// placement and widths are kept.
func (c Compactor) Apply(n *scene.Node, frame float64) *scene.Node {
	f := c.Factor(frame)
	if f == 1 {
		return n
	}
	n.Walk(func(node *scene.Node) bool {
		st := &node.Style
		st.FontSize *= f
		st.Padding *= f
		st.Gap *= f
		st.Height *= f
		st.Y *= f
		st.TranslateY *= f
		return true
	})
	return n
}
