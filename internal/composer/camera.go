package composer

import (
	"sort"

	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
)

// CameraKey pins the camera to a focus point and zoom at a frame.
type CameraKey struct {
	Frame int     `yaml:"frame"`
	X     float64 `yaml:"x"` // focus point in scene units
	Y     float64 `yaml:"y"`
	Zoom  float64 `yaml:"zoom"`
}

// CameraState is the interpolated camera at one frame.
type CameraState struct {
	X, Y float64
	Zoom float64
}

// Camera moves between keyframes, holding the first and last key outside
// their range.
type Camera struct {
	Keys   []CameraKey
	Easing motion.Easing // per segment; EaseInOut when nil
}

// NewCamera sorts keys by frame. Keys without zoom default to 1.
func NewCamera(easing motion.Easing, keys ...CameraKey) *Camera {
	sorted := make([]CameraKey, len(keys))
	copy(sorted, keys)
	for i := range sorted {
		if sorted[i].Zoom <= 0 {
			sorted[i].Zoom = 1
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Frame < sorted[j].Frame })
	return &Camera{Keys: sorted, Easing: easing}
}

// At returns the camera state at frame. An empty camera has zoom 1 and a
// zero focus, which Apply treats as "no camera".
func (c *Camera) At(frame float64) CameraState {
	if c == nil || len(c.Keys) == 0 {
		return CameraState{Zoom: 1}
	}

	first, last := c.Keys[0], c.Keys[len(c.Keys)-1]
	if frame <= float64(first.Frame) {
		return CameraState{X: first.X, Y: first.Y, Zoom: first.Zoom}
	}
	if frame >= float64(last.Frame) {
		return CameraState{X: last.X, Y: last.Y, Zoom: last.Zoom}
	}

	// Find surrounding keyframes
	i := sort.Search(len(c.Keys), func(i int) bool { return float64(c.Keys[i].Frame) > frame }) - 1
	prev, next := c.Keys[i], c.Keys[i+1]

	easing := c.Easing
	if easing == nil {
		easing = motion.EaseInOut
	}
	span := float64(next.Frame - prev.Frame)
	if span <= 0 {
		return CameraState{X: next.X, Y: next.Y, Zoom: next.Zoom}
	}
	t := easing((frame - float64(prev.Frame)) / span)

	return CameraState{
		X:    motion.LerpFloat64(prev.X, next.X, t),
		Y:    motion.LerpFloat64(prev.Y, next.Y, t),
		Zoom: motion.LerpFloat64(prev.Zoom, next.Zoom, t),
	}
}

// Apply wraps root so that the focus point lands in the middle of a
// width×height frame at the camera's zoom.
func (c *Camera) Apply(root *scene.Node, frame float64, width, height int) *scene.Node {
	if c == nil || len(c.Keys) == 0 {
		return root
	}
	st := c.At(frame)
	g := scene.Group("camera", root)
	g.Style.X = float64(width)/2 - st.X*st.Zoom
	g.Style.Y = float64(height)/2 - st.Y*st.Zoom
	g.Style.Scale = st.Zoom
	return g
}
