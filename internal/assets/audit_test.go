package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureAssetDirs(t *testing.T) {
	t.Chdir(t.TempDir())

	if err := EnsureAssetDirs(); err != nil {
		t.Fatalf("EnsureAssetDirs: %v", err)
	}
	for _, dir := range []string{ButtonsDir, IconsDir, UIDir, UmaMusumeDir, SupportCardDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Errorf("%s not created: %v", dir, err)
			continue
		}
		if !info.IsDir() {
			t.Errorf("%s is not a directory", dir)
		}
	}
}

func TestCheckRequiredButtonsReportsEveryMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	if err := EnsureAssetDirs(); err != nil {
		t.Fatal(err)
	}

	var reports []string
	collect := func(format string, args ...interface{}) {
		reports = append(reports, fmt.Sprintf(format, args...))
	}

	if CheckRequiredButtons(collect) {
		t.Fatal("empty tree passed the audit")
	}
	want := len(Required())
	if len(reports) != want {
		t.Fatalf("reports = %d, want %d (one per required template)", len(reports), want)
	}

	// Providing one template removes exactly its report.
	if err := os.WriteFile(BtnNext, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}
	reports = nil
	if CheckRequiredButtons(collect) {
		t.Fatal("audit passed with templates still missing")
	}
	if len(reports) != want-1 {
		t.Fatalf("reports = %d after adding one template, want %d", len(reports), want-1)
	}
	for _, r := range reports {
		if r == "[Assets] missing template: "+BtnNext {
			t.Fatalf("still reported as missing: %s", BtnNext)
		}
	}
}

func TestCheckRequiredButtonsFullTree(t *testing.T) {
	t.Chdir(t.TempDir())

	for _, path := range Required() {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	called := false
	ok := CheckRequiredButtons(func(format string, args ...interface{}) { called = true })
	if !ok {
		t.Fatal("complete tree failed the audit")
	}
	if called {
		t.Fatal("complete tree still produced reports")
	}
}
