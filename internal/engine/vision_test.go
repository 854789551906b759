package engine

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writeTemplate(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestVisionMissingTemplate(t *testing.T) {
	v := NewVision(0)
	missing := filepath.Join(t.TempDir(), "nope.png")

	res, err := v.Locate(missing, Options{})
	if err != nil {
		t.Fatalf("missing template must not be an error: %v", err)
	}
	if res.Outcome != OutcomeMissingAsset {
		t.Fatalf("outcome = %v, want missing asset", res.Outcome)
	}
	if res.Found() {
		t.Error("missing asset read as found")
	}

	boxes, err := v.LocateAll(missing, Options{})
	if err != nil || len(boxes) != 0 {
		t.Errorf("LocateAll = (%v, %v), want empty", boxes, err)
	}
}

func TestVisionTemplateCache(t *testing.T) {
	v := NewVision(0)
	path := filepath.Join(t.TempDir(), "btn.png")
	writeTemplate(t, path)

	if _, ok := v.template(path); !ok {
		t.Fatal("readable template not loaded")
	}

	// Once cached the file on disk no longer matters.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, ok := v.template(path); !ok {
		t.Fatal("cached template lost after the file went away")
	}
}

func TestVisionDisplaySwitch(t *testing.T) {
	v := NewVision(0)
	v.SetDisplay(1)
	if v.Display() != 1 {
		t.Errorf("display = %d, want 1", v.Display())
	}
}
