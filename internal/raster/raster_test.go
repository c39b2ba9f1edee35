package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/ivlev/loopreel/internal/scene"
	"github.com/ivlev/loopreel/internal/system"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(200, 100, 1, "#000000", system.NewImagePool())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return r
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      scene.Color
		want    color.RGBA
		wantErr bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, false},
		{"22d3ee", color.RGBA{0x22, 0xd3, 0xee, 0xff}, false},
		{"#ffffff80", color.RGBA{0x80, 0x80, 0x80, 0x80}, false},
		{"", color.RGBA{}, false},
		{"#fff", color.RGBA{}, true},
		{"#zzzzzz", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRenderBackground(t *testing.T) {
	r := newTestRenderer(t)
	img, err := r.Render(scene.Empty())
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	defer r.Release(img)

	if img.Bounds() != image.Rect(0, 0, 200, 100) {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if c := img.RGBAAt(100, 50); c != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("expected black background, got %v", c)
	}
}

func TestRenderBoxAndOpacity(t *testing.T) {
	r := newTestRenderer(t)
	root := scene.Group("root",
		scene.Box("solid", 10, 10, 40, 40).Fill("#ff0000"),
		scene.Box("half", 100, 10, 40, 40).Fill("#00ff00").Fade(0.5),
		scene.Group("hidden", scene.Box("inner", 150, 60, 20, 20).Fill("#0000ff")).Fade(0),
	)
	img, err := r.Render(root)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	defer r.Release(img)

	if c := img.RGBAAt(30, 30); c.R != 255 || c.G != 0 {
		t.Errorf("solid box: got %v", c)
	}
	if c := img.RGBAAt(120, 30); c.G < 120 || c.G > 135 {
		t.Errorf("half box: expected ~50%% green, got %v", c)
	}
	if c := img.RGBAAt(160, 70); c.B != 0 {
		t.Errorf("hidden group should not draw, got %v", c)
	}
	if c := img.RGBAAt(5, 5); c.R != 0 {
		t.Errorf("outside box should be background, got %v", c)
	}
}

func TestRenderGroupTranslate(t *testing.T) {
	r := newTestRenderer(t)
	root := scene.Group("g", scene.Box("b", 0, 0, 10, 10).Fill("#ffffff")).Shift(50, 20)
	img, err := r.Render(root)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Release(img)

	if c := img.RGBAAt(55, 25); c.R != 255 {
		t.Errorf("translated box missing at (55,25): %v", c)
	}
	if c := img.RGBAAt(5, 5); c.R != 0 {
		t.Errorf("box drawn at origin despite translation: %v", c)
	}
}

func TestRenderTextArrowAndQR(t *testing.T) {
	r, err := New(400, 300, 1, "#000000", system.NewImagePool())
	if err != nil {
		t.Fatal(err)
	}
	root := scene.Group("root",
		scene.Text("t", 10, 10, "LOOP", 26).Ink("#ffffff"),
		scene.Arrow("a", 10, 100, 200, 100).Ink("#ffffff"),
		scene.QR("qr", 250, 100, 120, "https://example.com/ep3"),
	)
	img, err := r.Render(root)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	defer r.Release(img)

	lit := func(rect image.Rectangle) int {
		n := 0
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if img.RGBAAt(x, y).R > 128 {
					n++
				}
			}
		}
		return n
	}

	if n := lit(image.Rect(10, 10, 70, 36)); n == 0 {
		t.Error("text produced no pixels")
	}
	if n := lit(image.Rect(20, 98, 180, 102)); n == 0 {
		t.Error("arrow produced no pixels")
	}
	if n := lit(image.Rect(250, 100, 370, 220)); n == 0 {
		t.Error("qr produced no light pixels")
	}
}

func TestRenderInvalidColor(t *testing.T) {
	r := newTestRenderer(t)
	if _, err := r.Render(scene.Box("bad", 0, 0, 10, 10).Fill("red")); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestMeasureText(t *testing.T) {
	if w := MeasureText("abcd", 13); w != 28 {
		t.Errorf("MeasureText = %v, want 28", w)
	}
	if w := MeasureText("abcd", 26); w != 56 {
		t.Errorf("MeasureText = %v, want 56", w)
	}
}

func TestScaledOutput(t *testing.T) {
	r, err := New(200, 100, 0.5, "#000000", system.NewImagePool())
	if err != nil {
		t.Fatal(err)
	}
	img, err := r.Render(scene.Box("b", 100, 50, 100, 50).Fill("#ffffff"))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Release(img)
	if img.Bounds().Dx() != 100 {
		t.Fatalf("expected 100px wide output, got %d", img.Bounds().Dx())
	}
	if c := img.RGBAAt(75, 37); c.R != 255 {
		t.Errorf("scaled box missing: %v", c)
	}
}
