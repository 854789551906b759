package assets

import (
	"image"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadRegionsMissingFile(t *testing.T) {
	got := LoadRegions(filepath.Join(t.TempDir(), "region_settings.json"))
	if !reflect.DeepEqual(got, DefaultRegions()) {
		t.Fatal("missing settings file did not fall back to defaults")
	}
}

func TestLoadRegionsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region_settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	got := LoadRegions(path)
	if !reflect.DeepEqual(got, DefaultRegions()) {
		t.Fatal("corrupt settings file did not fall back to defaults")
	}
}

func TestLoadRegionsPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region_settings.json")
	data := []byte(`{"mood":{"left":1,"top":2,"width":3,"height":4}}`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	got := LoadRegions(path)
	if got.Mood != (Region{Left: 1, Top: 2, Width: 3, Height: 4}) {
		t.Errorf("Mood = %v, want the override", got.Mood)
	}
	if got.Turn != DefaultRegions().Turn {
		t.Errorf("Turn = %v, want the untouched default", got.Turn)
	}
}

func TestSaveRegionsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region_settings.json")

	want := DefaultRegions()
	want.Mood = Region{Left: 9, Top: 9, Width: 9, Height: 9}
	want.EnergyBar = Line{X1: 1, Y1: 2, X2: 3, Y2: 2}

	if err := SaveRegions(path, want); err != nil {
		t.Fatalf("SaveRegions: %v", err)
	}
	got := LoadRegions(path)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestRegionGeometry(t *testing.T) {
	r := Region{Left: 10, Top: 20, Width: 30, Height: 40}
	if r.Rect() != image.Rect(10, 20, 40, 60) {
		t.Errorf("Rect = %v", r.Rect())
	}
	if r.Empty() {
		t.Error("non-empty region reported Empty")
	}
	if !(Region{Left: 10, Top: 20}).Empty() {
		t.Error("zero-size region not reported Empty")
	}
}
