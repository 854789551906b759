package assets

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestScanCatalog(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Special Week.json", "Oguri Cap.json", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := ScanCatalog(dir)
	want := []string{"Oguri Cap", "Special Week"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("catalog = %v, want %v", got, want)
	}
}

func TestScanCatalogMissingDir(t *testing.T) {
	got := ScanCatalog(filepath.Join(t.TempDir(), "does_not_exist"))
	if len(got) != 0 {
		t.Fatalf("catalog for missing dir = %v, want empty", got)
	}
}
