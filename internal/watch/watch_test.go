package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestTranslate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.md")
	fw := &FileWatcher{path: path}

	tests := []struct {
		name string
		ev   fsnotify.Event
		want Op
		ok   bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, OpWrite, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, OpWrite, true},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, OpRemove, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, OpRemove, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, 0, false},
		{"other file", fsnotify.Event{Name: filepath.Join(dir, "x.md"), Op: fsnotify.Write}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := fw.translate(tt.ev)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && got.Op != tt.want {
				t.Errorf("op = %v, want %v", got.Op, tt.want)
			}
		})
	}
}

func TestFileWatcherDeliversWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# A\n"), 0644); err != nil {
		t.Fatal(err)
	}

	events := make(chan Event, 16)
	fw, err := New(path, func(ev Event) { events <- ev }, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)
	defer fw.Stop()

	if err := os.WriteFile(path, []byte("# A\n# B\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		if ev.Op != OpWrite {
			t.Errorf("op = %v, want write", ev.Op)
		}
		if ev.Path != fw.Path() {
			t.Errorf("path = %q", ev.Path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for write event")
	}
}

func TestOpString(t *testing.T) {
	if OpWrite.String() != "write" || OpRemove.String() != "remove" || Op(9).String() != "unknown" {
		t.Error("unexpected Op strings")
	}
}
