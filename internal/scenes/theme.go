// Package scenes holds the static content of every episode scene and the
// handful of parameterized renderers that animate it.
package scenes

import "github.com/ivlev/loopreel/internal/scene"

// Canvas size every scene is laid out for.
const (
	Width  = 1920
	Height = 1080
)

// Palette.
const (
	Primary      scene.Color = "#6366f1"
	PrimaryLight scene.Color = "#818cf8"
	PrimaryDark  scene.Color = "#4f46e5"

	Accent      scene.Color = "#22d3ee"
	AccentLight scene.Color = "#67e8f9"

	Background      scene.Color = "#0f0f1a"
	BackgroundLight scene.Color = "#1a1a2e"
	BackgroundCard  scene.Color = "#16162a"

	Text      scene.Color = "#f8fafc"
	TextMuted scene.Color = "#94a3b8"
	TextDark  scene.Color = "#64748b"

	Success scene.Color = "#22c55e"
	Warning scene.Color = "#f59e0b"
	Error   scene.Color = "#ef4444"
	Info    scene.Color = "#3b82f6"

	Border  scene.Color = "#27273a"
	Divider scene.Color = "#1e1e32"
)

// Motion durations in frames.
const (
	enterFast   = 14
	enterNormal = 18
	enterSlow   = 22
	exitFast    = 12
	exitNormal  = 18
)

// Stagger steps in frames.
const (
	staggerSm = 6
	staggerMd = 10
	staggerLg = 14
)

// Slide offsets in pixels.
const (
	offsetXSm = 12
	offsetXMd = 24
	offsetXLg = 40
	offsetYSm = 8
	offsetYMd = 16
	offsetYLg = 28
)

// Layout margins.
const (
	safeMargin = 96
	headerY    = 56
	captionY   = Height - 136
)

// tint appends an alpha byte to an opaque palette color.
func tint(c scene.Color, alpha byte) scene.Color {
	const hex = "0123456789abcdef"
	if len(c) != 7 {
		return c
	}
	return c + scene.Color([]byte{hex[alpha>>4], hex[alpha&0x0f]})
}
