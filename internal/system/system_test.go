package system

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestImagePoolReuse(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 64, 36)

	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("unexpected bounds %v", img.Rect)
	}
	p.Put(img)
	p.Put(image.NewRGBA(image.Rect(0, 0, 8, 8))) // foreign size is dropped
	p.Put(nil)

	other := p.Get(image.Rect(0, 0, 32, 32))
	if other.Rect.Dx() != 32 {
		t.Errorf("expected 32px frame, got %v", other.Rect)
	}

	gets, allocs := p.Stats()
	t.Logf("gets=%d allocs=%d", gets, allocs)
	if gets != 2 {
		t.Errorf("gets = %d, want 2", gets)
	}
	if allocs < 2 || allocs > gets {
		t.Errorf("allocs = %d out of range", allocs)
	}
}

func TestRecommendedWorkers(t *testing.T) {
	n := RecommendedWorkers(1920 * 1080 * 4)
	if n < 1 {
		t.Fatalf("expected at least one worker, got %d", n)
	}
	t.Logf("recommended workers: %d", n)

	if n := RecommendedWorkers(1 << 62); n != 1 {
		t.Errorf("huge frames should fall back to a single worker, got %d", n)
	}
}

func TestFindLatestFile(t *testing.T) {
	dir := t.TempDir()
	names := []string{"a.yaml", "b.YAML", "c.txt"}
	for i, name := range names {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		mod := time.Now().Add(time.Duration(i) * time.Minute)
		os.Chtimes(path, mod, mod)
	}

	latest, err := FindLatestFile(dir, ".yaml")
	if err != nil {
		t.Fatalf("FindLatestFile failed: %v", err)
	}
	if filepath.Base(latest) != "b.YAML" {
		t.Errorf("expected b.YAML, got %s", latest)
	}

	if _, err := FindLatestFile(dir, ".pdf"); err == nil {
		t.Error("expected error when nothing matches")
	}
}
