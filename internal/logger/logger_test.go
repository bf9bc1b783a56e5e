package logger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLatestCapturesWarnings(t *testing.T) {
	ClearLatest()
	var buf bytes.Buffer
	l := New(&buf, slog.LevelDebug)

	l.Info("fine")
	if _, ok := Latest(); ok {
		t.Error("info should not be captured")
	}

	l.With("doc", "a.md").Warn("tree refresh failed", "error", errors.New("no headings found"))
	e, ok := Latest()
	if !ok {
		t.Fatal("expected a captured entry")
	}
	if e.Message != "tree refresh failed" || e.Err != "no headings found" {
		t.Errorf("captured %+v", e)
	}
	if !strings.Contains(e.Format(), "WARN") || !strings.Contains(e.Format(), "no headings found") {
		t.Errorf("Format() = %q", e.Format())
	}
	if !strings.Contains(buf.String(), `"doc":"a.md"`) {
		t.Errorf("JSON output missing attrs: %s", buf.String())
	}

	ClearLatest()
	if _, ok := Latest(); ok {
		t.Error("ClearLatest should drop the entry")
	}
}

func TestInitLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mdtree.log")
	if err := InitLogger("debug", path); err != nil {
		t.Fatalf("InitLogger: %v", err)
	}
	defer Close()

	Debug("hello", "k", "v")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("unexpected log contents: %s", data)
	}
	if LogPath != path {
		t.Errorf("LogPath = %q", LogPath)
	}
}
