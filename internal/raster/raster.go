// Package raster turns a scene tree into pixels with golang.org/x/image.
// A Renderer holds no per-frame state and may be shared by render workers.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"
	"sync"

	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/system"
)

const (
	glyphHeight = 13 // basicfont.Face7x13 line height
	glyphAscent = 11
	lineSpacing = 1.35
)

var defaultInk = color.RGBA{0xf8, 0xfa, 0xfc, 0xff}

// Renderer rasterizes frames of a fixed size.
type Renderer struct {
	Width      int     // scene units
	Height     int     // scene units
	Scale      float64 // pixels per scene unit
	Background color.RGBA

	pool *system.ImagePool
	qr   sync.Map // content -> image.Image
}

// New creates a renderer producing images of width*scale x height*scale.
func New(width, height int, scale float64, background scene.Color, pool *system.ImagePool) (*Renderer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid frame size %dx%d", width, height)
	}
	if scale <= 0 {
		scale = 1
	}
	bg, err := ParseColor(background)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	if pool == nil {
		pool = system.DefaultImagePool()
	}
	return &Renderer{Width: width, Height: height, Scale: scale, Background: bg, pool: pool}, nil
}

// Bounds is the output image rectangle.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, int(math.Round(float64(r.Width)*r.Scale)), int(math.Round(float64(r.Height)*r.Scale)))
}

// Render draws root onto a pooled image. Call Release when done with it.
func (r *Renderer) Render(root *scene.Node) (*image.RGBA, error) {
	img := r.pool.Get(r.Bounds())
	xdraw.Draw(img, img.Bounds(), image.NewUniform(r.Background), image.Point{}, xdraw.Src)

	if root != nil {
		if err := r.draw(img, root, xform{s: r.Scale, alpha: 1}); err != nil {
			r.pool.Put(img)
			return nil, err
		}
	}
	return img, nil
}

// Release returns an image obtained from Render to the pool.
func (r *Renderer) Release(img *image.RGBA) {
	r.pool.Put(img)
}

// MeasureText returns the width of a single line of text at the given font
// size in scene units.
func MeasureText(text string, size float64) float64 {
	w := font.MeasureString(basicfont.Face7x13, text).Ceil()
	return float64(w) * size / glyphHeight
}

// xform maps node coordinates to device pixels.
type xform struct {
	ox, oy float64
	s      float64
	alpha  float64
}

func (t xform) pt(x, y float64) (float64, float64) {
	return t.ox + x*t.s, t.oy + y*t.s
}

func (r *Renderer) draw(dst *image.RGBA, n *scene.Node, t xform) error {
	st := n.Style
	alpha := t.alpha * st.Opacity
	if alpha <= 0 || st.Scale == 0 {
		return nil
	}

	switch n.Kind {
	case scene.KindGroup:
		ox, oy := t.pt(st.X+st.TranslateX, st.Y+st.TranslateY)
		return r.children(dst, n, xform{ox: ox, oy: oy, s: t.s * st.Scale, alpha: alpha})
	case scene.KindBox:
		return r.box(dst, n, t, alpha)
	case scene.KindText:
		return r.text(dst, n, t, alpha)
	case scene.KindArrow:
		return r.arrow(dst, n, t, alpha)
	case scene.KindQR:
		return r.qrCode(dst, n, t, alpha)
	default:
		return fmt.Errorf("node %q: unknown kind %q", n.ID, n.Kind)
	}
}

func (r *Renderer) children(dst *image.RGBA, n *scene.Node, t xform) error {
	for _, c := range n.Children {
		if err := r.draw(dst, c, t); err != nil {
			return err
		}
	}
	return nil
}

// rect returns the device rectangle of a sized node scaled about its center.
func rect(st scene.Style, t xform) (x0, y0, x1, y1 float64) {
	w, h := st.Width*st.Scale, st.Height*st.Scale
	x := st.X + st.TranslateX + (st.Width-w)/2
	y := st.Y + st.TranslateY + (st.Height-h)/2
	x0, y0 = t.pt(x, y)
	return x0, y0, x0 + w*t.s, y0 + h*t.s
}

func (r *Renderer) box(dst *image.RGBA, n *scene.Node, t xform, alpha float64) error {
	st := n.Style
	x0, y0, x1, y1 := rect(st, t)
	k := t.s * st.Scale

	if st.Fill != "" {
		c, err := ParseColor(st.Fill)
		if err != nil {
			return fmt.Errorf("node %q fill: %w", n.ID, err)
		}
		fillMask(dst, &roundRect{x0: x0, y0: y0, x1: x1, y1: y1, radius: st.Radius * k}, fade(c, alpha))
	}
	if st.Stroke != "" && st.StrokeWidth > 0 {
		c, err := ParseColor(st.Stroke)
		if err != nil {
			return fmt.Errorf("node %q stroke: %w", n.ID, err)
		}
		m := &roundRect{x0: x0, y0: y0, x1: x1, y1: y1, radius: st.Radius * k, stroke: math.Max(1, st.StrokeWidth*k)}
		fillMask(dst, m, fade(c, alpha))
	}

	// Children are laid out from the box's top-left corner.
	return r.children(dst, n, xform{ox: x0, oy: y0, s: k, alpha: alpha})
}

func (r *Renderer) text(dst *image.RGBA, n *scene.Node, t xform, alpha float64) error {
	st := n.Style
	size := st.FontSize * st.Scale * t.s
	if size < 1 || n.Text == "" {
		return nil
	}
	c := defaultInk
	if st.Color != "" {
		var err error
		if c, err = ParseColor(st.Color); err != nil {
			return fmt.Errorf("node %q color: %w", n.ID, err)
		}
	}
	src := image.NewUniform(fade(c, alpha))

	x, y := t.pt(st.X+st.TranslateX, st.Y+st.TranslateY)
	for i, line := range strings.Split(n.Text, "\n") {
		if line == "" {
			continue
		}
		mask := glyphMask(line, size)
		at := image.Pt(int(math.Round(x)), int(math.Round(y+float64(i)*size*lineSpacing)))
		target := mask.Bounds().Add(at)
		b := target.Intersect(dst.Bounds())
		if b.Empty() {
			continue
		}
		xdraw.DrawMask(dst, b, src, image.Point{}, mask, b.Min.Sub(at), xdraw.Over)
	}
	return nil
}

// glyphMask renders line with the fixed 7x13 face and scales the coverage
// to the requested pixel size.
func glyphMask(line string, size float64) *image.Alpha {
	w := font.MeasureString(basicfont.Face7x13, line).Ceil()
	src := image.NewAlpha(image.Rect(0, 0, w, glyphHeight))
	d := font.Drawer{
		Dst:  src,
		Src:  image.Opaque,
		Face: basicfont.Face7x13,
		Dot:  fixed.P(0, glyphAscent),
	}
	d.DrawString(line)

	k := size / glyphHeight
	dw, dh := int(math.Ceil(float64(w)*k)), int(math.Ceil(size))
	if dw == w && dh == glyphHeight {
		return src
	}
	scaled := image.NewAlpha(image.Rect(0, 0, dw, dh))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return scaled
}

func (r *Renderer) arrow(dst *image.RGBA, n *scene.Node, t xform, alpha float64) error {
	st := n.Style
	c := defaultInk
	ink := st.Color
	if ink == "" {
		ink = st.Stroke
	}
	if ink != "" {
		var err error
		if c, err = ParseColor(ink); err != nil {
			return fmt.Errorf("node %q color: %w", n.ID, err)
		}
	}

	sx, sy := st.X+st.TranslateX, st.Y+st.TranslateY
	dx, dy := (n.X2-st.X)*st.Scale, (n.Y2-st.Y)*st.Scale
	if st.Rotation != 0 {
		rad := st.Rotation * math.Pi / 180
		dx, dy = dx*math.Cos(rad)-dy*math.Sin(rad), dx*math.Sin(rad)+dy*math.Cos(rad)
	}
	ex, ey := sx+dx, sy+dy

	x0, y0 := t.pt(sx, sy)
	x1, y1 := t.pt(ex, ey)
	width := math.Max(1, st.StrokeWidth*st.Scale*t.s)
	fillMask(dst, newArrowMask(x0, y0, x1, y1, width), fade(c, alpha))
	return nil
}

func (r *Renderer) qrCode(dst *image.RGBA, n *scene.Node, t xform, alpha float64) error {
	code, err := r.qrImage(n.Text)
	if err != nil {
		return fmt.Errorf("node %q: %w", n.ID, err)
	}
	x0, y0, x1, y1 := rect(n.Style, t)
	target := image.Rect(int(math.Round(x0)), int(math.Round(y0)), int(math.Round(x1)), int(math.Round(y1)))
	if target.Empty() {
		return nil
	}

	tmp := image.NewRGBA(image.Rect(0, 0, target.Dx(), target.Dy()))
	xdraw.NearestNeighbor.Scale(tmp, tmp.Bounds(), code, code.Bounds(), xdraw.Src, nil)

	b := target.Intersect(dst.Bounds())
	if b.Empty() {
		return nil
	}
	mask := image.NewUniform(color.Alpha{A: uint8(math.Round(255 * math.Min(alpha, 1)))})
	xdraw.DrawMask(dst, b, tmp, b.Min.Sub(target.Min), mask, image.Point{}, xdraw.Over)
	return nil
}

func (r *Renderer) qrImage(content string) (image.Image, error) {
	if img, ok := r.qr.Load(content); ok {
		return img.(image.Image), nil
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	img := q.Image(256)
	actual, _ := r.qr.LoadOrStore(content, img)
	return actual.(image.Image), nil
}

func fillMask(dst *image.RGBA, mask image.Image, c color.RGBA) {
	if c.A == 0 {
		return
	}
	b := mask.Bounds().Intersect(dst.Bounds())
	if b.Empty() {
		return
	}
	xdraw.DrawMask(dst, b, image.NewUniform(c), image.Point{}, mask, b.Min, xdraw.Over)
}
