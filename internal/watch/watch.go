// Package watch reports changes to a single file on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Op is the kind of change observed.
type Op int

const (
	// OpWrite indicates the file was written or re-created.
	OpWrite Op = iota

	// OpRemove indicates the file was deleted or renamed away.
	OpRemove
)

// String returns the string representation of the operation.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Event is a change to the watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives events. It is called from the watcher goroutine, so
// handlers that touch single-threaded state must hand the event over to
// their own event loop.
type Handler func(Event)

// FileWatcher watches one file through its parent directory, so editors
// that save by renaming a temporary file over the original are seen as
// writes.
type FileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	handler Handler
	errors  func(error)

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a watcher for path. Start must be called to begin delivery.
// onError may be nil.
func New(path string, handler Handler, onError func(error)) (*FileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &FileWatcher{
		path:    abs,
		watcher: w,
		handler: handler,
		errors:  onError,
		done:    make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (fw *FileWatcher) Path() string { return fw.path }

// Start delivers events until ctx is cancelled or Stop is called.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.run(ctx)
}

// Stop stops the watcher. It is safe to call more than once.
func (fw *FileWatcher) Stop() error {
	var err error
	fw.stopOnce.Do(func() {
		close(fw.done)
		err = fw.watcher.Close()
	})
	return err
}

func (fw *FileWatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			fw.Stop()
			return
		case <-fw.done:
			return
		case ev, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if out, ok := fw.translate(ev); ok {
				fw.handler(out)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.errors(err)
		}
	}
}

// translate maps a raw directory event to an event for the watched file.
func (fw *FileWatcher) translate(ev fsnotify.Event) (Event, bool) {
	if filepath.Clean(ev.Name) != fw.path {
		return Event{}, false
	}
	out := Event{Path: fw.path, Time: time.Now()}
	switch {
	case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create):
		out.Op = OpWrite
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		out.Op = OpRemove
	default:
		return Event{}, false
	}
	return out, true
}
