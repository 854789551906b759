package logger

import (
	"strings"
	"testing"

	"fyne.io/fyne/v2/data/binding"
)

func TestAppLoggerAppendsFormattedLines(t *testing.T) {
	data := binding.NewStringList()
	l := NewAppLogger(data)

	l.Info("career bot started on display %d", 1)
	l.Error("capture failed: %s", "no display")

	lines, err := data.Get()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(lines))
	}
	if !strings.Contains(lines[0], "INFO: career bot started on display 1") {
		t.Errorf("info line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR: capture failed: no display") {
		t.Errorf("error line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("line missing timestamp prefix: %q", lines[0])
	}
}

func TestAppLoggerCapsBacklog(t *testing.T) {
	data := binding.NewStringList()
	l := NewAppLogger(data)

	for i := 0; i < 150; i++ {
		l.Info("line %d", i)
	}

	lines, err := data.Get()
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) > 100 {
		t.Fatalf("backlog = %d lines, want at most 100", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "line 149") {
		t.Errorf("newest line lost, tail = %q", lines[len(lines)-1])
	}
	if strings.Contains(lines[0], "line 0") {
		t.Errorf("oldest line not trimmed, head = %q", lines[0])
	}
}

func TestAppLoggerDebugSkipsUI(t *testing.T) {
	data := binding.NewStringList()
	l := NewAppLogger(data)

	l.Debug("noisy detail %d", 42)

	lines, _ := data.Get()
	if len(lines) != 0 {
		t.Fatalf("debug reached the UI list: %v", lines)
	}
}
