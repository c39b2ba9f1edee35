package composer

import (
	"math"
	"testing"

	"github.com/ivlev/loopreel/internal/motion"
	"github.com/ivlev/loopreel/internal/scene"
)

func TestCameraAt(t *testing.T) {
	cam := NewCamera(motion.Linear,
		CameraKey{Frame: 60, X: 400, Y: 300, Zoom: 1.5},
		CameraKey{Frame: 0, X: 960, Y: 540, Zoom: 1},
		CameraKey{Frame: 120, X: 200, Y: 200, Zoom: 2},
	)

	tests := []struct {
		frame        float64
		expectedZoom float64
	}{
		{-10, 1.0}, // before the first key
		{0, 1.0},
		{30, 1.25},
		{60, 1.5},
		{90, 1.75},
		{120, 2.0},
		{500, 2.0}, // after the last key
	}

	for _, tt := range tests {
		state := cam.At(tt.frame)
		if math.Abs(state.Zoom-tt.expectedZoom) > 1e-9 {
			t.Errorf("At frame %.0f: expected zoom %.2f, got %.4f", tt.frame, tt.expectedZoom, state.Zoom)
		}
	}

	mid := cam.At(30)
	if mid.X != 680 || mid.Y != 420 {
		t.Errorf("focus at frame 30 = (%.1f, %.1f), want (680, 420)", mid.X, mid.Y)
	}
}

func TestCameraEasedSegment(t *testing.T) {
	cam := NewCamera(nil, CameraKey{Frame: 0, Zoom: 1}, CameraKey{Frame: 100, Zoom: 2})
	quarter := cam.At(25).Zoom
	t.Logf("zoom at 25%%: %.4f", quarter)
	if quarter <= 1 || quarter >= 2 {
		t.Errorf("eased zoom out of range: %.4f", quarter)
	}
	if z := cam.At(50).Zoom; math.Abs(z-(1+motion.EaseInOut(0.5))) > 1e-9 {
		t.Errorf("midpoint zoom %.4f does not follow EaseInOut", z)
	}
}

func TestCameraApply(t *testing.T) {
	root := scene.Box("b", 0, 0, 10, 10)

	var none *Camera
	if got := none.Apply(root, 0, 1920, 1080); got != root {
		t.Error("nil camera must return root unchanged")
	}

	cam := NewCamera(motion.Linear, CameraKey{Frame: 0, X: 960, Y: 540, Zoom: 1})
	g := cam.Apply(root, 0, 1920, 1080)
	if g.Style.X != 0 || g.Style.Y != 0 || g.Style.Scale != 1 {
		t.Errorf("centered camera must be identity, got %+v", g.Style)
	}

	cam = NewCamera(motion.Linear, CameraKey{Frame: 0, X: 100, Y: 100, Zoom: 2})
	g = cam.Apply(root, 0, 1920, 1080)
	if g.Style.X != 760 || g.Style.Y != 340 || g.Style.Scale != 2 {
		t.Errorf("zoomed camera style = %+v", g.Style)
	}
	if g.Find("b") != root {
		t.Error("camera group must contain root")
	}
}
