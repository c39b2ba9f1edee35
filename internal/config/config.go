package config

import (
	"errors"
	"fmt"
)

// Render modes.
const (
	ModeVideo    = "video"
	ModeFrames   = "frames"
	ModeDescribe = "describe"
)

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Composition string // scene or episode id
	OutputPath  string // video file, or directory for frames/describe
	Mode        string

	// FrameStart/FrameEnd limit rendering to [FrameStart, FrameEnd) of a
	// single composition. FrameEnd 0 means the whole composition.
	FrameStart int
	FrameEnd   int

	Width  int // output size; 0 keeps the composition size
	Height int
	Preset string
	Scale  float64 // raster scale for draft renders

	Workers          int
	TransitionType   string // xfade transition name, "none" for hard cuts
	TransitionFrames int
	VideoEncoder     string
	Quality          int

	AudioPath    string // optional soundtrack muxed into the final video
	TimelineFile string // YAML timeline overrides
	ShowStats    bool
	BuildVersion string

	LogLevel string
	LogFile  string
}

// SegmentParams describes one encoded scene segment.
type SegmentParams struct {
	Width, Height       int // rendered frame size
	OutWidth, OutHeight int // encoded size, letterboxed if the aspect differs
	FPS                 int
	Frames              int
	Index               int
	FadeIn              int // frames
	FadeOut             int // frames
}

// Duration returns the segment length in seconds.
func (p SegmentParams) Duration() float64 {
	if p.FPS <= 0 {
		return 0
	}
	return float64(p.Frames) / float64(p.FPS)
}

// ApplyPreset maps a format preset to output dimensions.
func (c *Config) ApplyPreset() error {
	switch c.Preset {
	case "":
	case "16:9":
		c.Width, c.Height = 1920, 1080
	case "9:16":
		c.Width, c.Height = 1080, 1920
	case "4:5":
		c.Width, c.Height = 1080, 1350
	default:
		return fmt.Errorf("%w: unknown preset %q", ErrInvalidConfig, c.Preset)
	}
	return nil
}

// Validate checks flag combinations before any work starts.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if c.Composition == "" {
		add("composition id is required")
	}
	switch c.Mode {
	case ModeVideo, ModeFrames, ModeDescribe:
	default:
		add("unknown mode %q", c.Mode)
	}
	if c.FrameStart < 0 {
		add("negative frame start %d", c.FrameStart)
	}
	if c.FrameEnd != 0 && c.FrameEnd <= c.FrameStart {
		add("empty frame range [%d, %d)", c.FrameStart, c.FrameEnd)
	}
	if (c.Width == 0) != (c.Height == 0) || c.Width < 0 || c.Height < 0 {
		add("invalid output size %dx%d", c.Width, c.Height)
	}
	if c.Width%2 != 0 || c.Height%2 != 0 {
		add("output size %dx%d must be even for yuv420p", c.Width, c.Height)
	}
	if c.Scale < 0 || c.Scale > 4 {
		add("scale %.2f out of range (0, 4]", c.Scale)
	}
	if c.Workers < 0 {
		add("negative workers %d", c.Workers)
	}
	if c.TransitionFrames < 0 {
		add("negative transition %d", c.TransitionFrames)
	}
	if c.Quality < 0 {
		add("negative quality %d", c.Quality)
	}

	return errors.Join(errs...)
}

// DefaultQuality returns a sensible quality value for an encoder.
func DefaultQuality(encoder string) int {
	switch encoder {
	case "h264_videotoolbox":
		return 75 // Хорошее качество для VideoToolbox
	case "h264_nvenc":
		return 28 // Эквивалент CRF для NVENC
	default:
		return 23 // Стандартный CRF для x264
	}
}
