package raster

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/ivlev/loopreel/internal/scene"
)

// ParseColor decodes "#RRGGBB" or "#RRGGBBAA". The empty color is
// transparent.
func ParseColor(c scene.Color) (color.RGBA, error) {
	s := strings.TrimPrefix(string(c), "#")
	if s == "" {
		return color.RGBA{}, nil
	}
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", c)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", c, err)
	}
	if len(s) == 6 {
		v = v<<8 | 0xff
	}
	rgba := color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}
	return color.RGBAModel.Convert(rgba).(color.RGBA), nil
}

// fade scales a premultiplied color by alpha in [0, 1].
func fade(c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return c
	}
	if alpha <= 0 {
		return color.RGBA{}
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}
