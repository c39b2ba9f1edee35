// Package scene is the visual description produced for every frame: a tree
// of groups, boxes, text, arrows and QR codes with numeric style attributes.
// It knows nothing about pixels; internal/raster turns it into an image.
package scene

// Kind identifies the shape a node draws.
type Kind string

const (
	KindGroup Kind = "group"
	KindBox   Kind = "box"
	KindText  Kind = "text"
	KindArrow Kind = "arrow"
	KindQR    Kind = "qr"
)

// Color is a "#RRGGBB" or "#RRGGBBAA" string.
type Color string

// Style holds the numeric attributes of a node. Coordinates are relative to
// the parent group.
type Style struct {
	X      float64 `yaml:"x,omitempty"`
	Y      float64 `yaml:"y,omitempty"`
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`

	Opacity    float64 `yaml:"opacity"`
	TranslateX float64 `yaml:"translate_x,omitempty"`
	TranslateY float64 `yaml:"translate_y,omitempty"`
	Scale      float64 `yaml:"scale"`
	Rotation   float64 `yaml:"rotation,omitempty"` // degrees

	FontSize    float64 `yaml:"font_size,omitempty"`
	Padding     float64 `yaml:"padding,omitempty"`
	Gap         float64 `yaml:"gap,omitempty"`
	Radius      float64 `yaml:"radius,omitempty"`
	StrokeWidth float64 `yaml:"stroke_width,omitempty"`

	Fill   Color `yaml:"fill,omitempty"`
	Stroke Color `yaml:"stroke,omitempty"`
	Color  Color `yaml:"color,omitempty"`
}

// Node is one element of the visual tree.
type Node struct {
	ID       string  `yaml:"id,omitempty"`
	Kind     Kind    `yaml:"kind"`
	Style    Style   `yaml:"style"`
	Text     string  `yaml:"text,omitempty"`
	X2       float64 `yaml:"x2,omitempty"`
	Y2       float64 `yaml:"y2,omitempty"`
	Children []*Node `yaml:"children,omitempty"`
}

func newNode(id string, kind Kind) *Node {
	return &Node{ID: id, Kind: kind, Style: Style{Opacity: 1, Scale: 1}}
}

// Group wraps children. nil children are skipped.
func Group(id string, children ...*Node) *Node {
	n := newNode(id, KindGroup)
	n.Add(children...)
	return n
}

// Empty is a group with nothing in it. It renders as fully transparent.
func Empty() *Node {
	return newNode("", KindGroup)
}

// Box is a rectangle.
func Box(id string, x, y, w, h float64) *Node {
	n := newNode(id, KindBox)
	n.Style.X, n.Style.Y, n.Style.Width, n.Style.Height = x, y, w, h
	return n
}

// Text is a single line of text anchored at its top-left corner.
func Text(id string, x, y float64, text string, size float64) *Node {
	n := newNode(id, KindText)
	n.Style.X, n.Style.Y = x, y
	n.Style.FontSize = size
	n.Text = text
	return n
}

// Arrow is a line from (x1, y1) to (x2, y2) with a head at the end.
func Arrow(id string, x1, y1, x2, y2 float64) *Node {
	n := newNode(id, KindArrow)
	n.Style.X, n.Style.Y = x1, y1
	n.X2, n.Y2 = x2, y2
	n.Style.StrokeWidth = 3
	return n
}

// QR is a square QR code encoding content.
func QR(id string, x, y, size float64, content string) *Node {
	n := newNode(id, KindQR)
	n.Style.X, n.Style.Y = x, y
	n.Style.Width, n.Style.Height = size, size
	n.Text = content
	return n
}

// Add appends non-nil children.
func (n *Node) Add(children ...*Node) *Node {
	for _, c := range children {
		if c != nil {
			n.Children = append(n.Children, c)
		}
	}
	return n
}

// Fill sets the fill color.
func (n *Node) Fill(c Color) *Node {
	n.Style.Fill = c
	return n
}

// Outline sets the stroke color and width.
func (n *Node) Outline(c Color, width float64) *Node {
	n.Style.Stroke = c
	n.Style.StrokeWidth = width
	return n
}

// Ink sets the text or arrow color.
func (n *Node) Ink(c Color) *Node {
	n.Style.Color = c
	return n
}

// Rounded sets the corner radius.
func (n *Node) Rounded(r float64) *Node {
	n.Style.Radius = r
	return n
}

// Pad sets padding.
func (n *Node) Pad(p float64) *Node {
	n.Style.Padding = p
	return n
}

// Fade multiplies the node opacity by o.
func (n *Node) Fade(o float64) *Node {
	n.Style.Opacity *= o
	return n
}

// Shift adds to the node translation.
func (n *Node) Shift(dx, dy float64) *Node {
	n.Style.TranslateX += dx
	n.Style.TranslateY += dy
	return n
}

// Zoom multiplies the node scale by s.
func (n *Node) Zoom(s float64) *Node {
	n.Style.Scale *= s
	return n
}

// Rotate adds deg degrees of rotation.
func (n *Node) Rotate(deg float64) *Node {
	n.Style.Rotation += deg
	return n
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the children of that node.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node with the given id.
func (n *Node) Find(id string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.ID == id {
			found = c
			return false
		}
		return true
	})
	return found
}

// Count returns the number of nodes in the tree.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool {
		total++
		return true
	})
	return total
}

// Visible reports whether the node would draw anything.
func (n *Node) Visible() bool {
	return n != nil && n.Style.Opacity > 0 && n.Style.Scale != 0
}
