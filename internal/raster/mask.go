package raster

import (
	"image"
	"image/color"
	"math"
)

// roundRect is an antialiasing-free mask for a filled or stroked rounded
// rectangle in device coordinates.
type roundRect struct {
	x0, y0, x1, y1 float64
	radius         float64
	stroke         float64 // 0 fills
}

func (m *roundRect) ColorModel() color.Model { return color.AlphaModel }

func (m *roundRect) Bounds() image.Rectangle {
	return image.Rect(int(math.Floor(m.x0)), int(math.Floor(m.y0)), int(math.Ceil(m.x1)), int(math.Ceil(m.y1)))
}

func (m *roundRect) At(x, y int) color.Color {
	px, py := float64(x)+0.5, float64(y)+0.5
	if !insideRound(px, py, m.x0, m.y0, m.x1, m.y1, m.radius) {
		return color.Transparent
	}
	if m.stroke > 0 {
		s := m.stroke
		if insideRound(px, py, m.x0+s, m.y0+s, m.x1-s, m.y1-s, math.Max(0, m.radius-s)) {
			return color.Transparent
		}
	}
	return color.Opaque
}

func insideRound(px, py, x0, y0, x1, y1, r float64) bool {
	if px < x0 || px >= x1 || py < y0 || py >= y1 {
		return false
	}
	r = math.Min(r, math.Min(x1-x0, y1-y0)/2)
	if r <= 0 {
		return true
	}
	cx := math.Max(x0+r, math.Min(px, x1-r))
	cy := math.Max(y0+r, math.Min(py, y1-r))
	dx, dy := px-cx, py-cy
	return dx*dx+dy*dy <= r*r
}

// arrowMask covers a thick segment plus a triangular head at its end.
type arrowMask struct {
	x0, y0, x1, y1 float64
	width          float64
	head           [3][2]float64
	hasHead        bool
}

func newArrowMask(x0, y0, x1, y1, width float64) *arrowMask {
	m := &arrowMask{x0: x0, y0: y0, x1: x1, y1: y1, width: width}
	length := math.Hypot(x1-x0, y1-y0)
	if length == 0 {
		return m
	}
	ux, uy := (x1-x0)/length, (y1-y0)/length
	size := math.Max(10, width*4)
	bx, by := x1-ux*size, y1-uy*size
	m.hasHead = true
	m.head = [3][2]float64{
		{x1, y1},
		{bx - uy*size/2, by + ux*size/2},
		{bx + uy*size/2, by - ux*size/2},
	}
	return m
}

func (m *arrowMask) ColorModel() color.Model { return color.AlphaModel }

func (m *arrowMask) Bounds() image.Rectangle {
	minX, maxX := math.Min(m.x0, m.x1), math.Max(m.x0, m.x1)
	minY, maxY := math.Min(m.y0, m.y1), math.Max(m.y0, m.y1)
	for _, p := range m.head {
		minX, maxX = math.Min(minX, p[0]), math.Max(maxX, p[0])
		minY, maxY = math.Min(minY, p[1]), math.Max(maxY, p[1])
	}
	pad := m.width
	return image.Rect(int(minX-pad), int(minY-pad), int(maxX+pad)+1, int(maxY+pad)+1)
}

func (m *arrowMask) At(x, y int) color.Color {
	px, py := float64(x)+0.5, float64(y)+0.5
	if segmentDistance(px, py, m.x0, m.y0, m.x1, m.y1) <= m.width/2 {
		return color.Opaque
	}
	if m.hasHead && inTriangle(px, py, m.head) {
		return color.Opaque
	}
	return color.Transparent
}

func segmentDistance(px, py, x0, y0, x1, y1 float64) float64 {
	dx, dy := x1-x0, y1-y0
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(px-x0, py-y0)
	}
	t := ((px-x0)*dx + (py-y0)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(px-(x0+t*dx), py-(y0+t*dy))
}

func inTriangle(px, py float64, tri [3][2]float64) bool {
	sign := func(a, b [2]float64) float64 {
		return (px-b[0])*(a[1]-b[1]) - (a[0]-b[0])*(py-b[1])
	}
	d1 := sign(tri[0], tri[1])
	d2 := sign(tri[1], tri[2])
	d3 := sign(tri[2], tri[0])
	neg := d1 < 0 || d2 < 0 || d3 < 0
	pos := d1 > 0 || d2 > 0 || d3 > 0
	return !(neg && pos)
}
