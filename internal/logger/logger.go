package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LogEntry is a captured WARN or ERROR record for the status line.
type LogEntry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Err     string
}

// lastEntry keeps the most recent WARN/ERROR record.
type lastEntry struct {
	mu    sync.RWMutex
	entry *LogEntry
	count int
}

func (l *lastEntry) set(e LogEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entry = &e
	l.count++
}

func (l *lastEntry) get() (LogEntry, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.entry == nil {
		return LogEntry{}, false
	}
	return *l.entry, true
}

func (l *lastEntry) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entry = nil
}

// statusHandler wraps another handler to capture entries for the status line.
type statusHandler struct {
	inner slog.Handler
	last  *lastEntry
}

func (h *statusHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *statusHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		e := LogEntry{Time: r.Time, Level: r.Level, Message: r.Message}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "error" {
				e.Err = a.Value.String()
				return false
			}
			return true
		})
		h.last.set(e)
	}
	return h.inner.Handle(ctx, r)
}

func (h *statusHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &statusHandler{inner: h.inner.WithAttrs(attrs), last: h.last}
}

func (h *statusHandler) WithGroup(name string) slog.Handler {
	return &statusHandler{inner: h.inner.WithGroup(name), last: h.last}
}

var (
	// Log is the global structured logger
	Log *slog.Logger
	// LogPath is the path to the current log file
	LogPath string
	// logWriter is the rotating log writer
	logWriter *lumberjack.Logger
	// last holds the most recent WARN/ERROR entry
	last = &lastEntry{}
)

// ParseLevel maps a level name to a slog.Level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultPath returns ~/.config/mdtree/mdtree.log, falling back to the
// temp directory.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, ".config", "mdtree", "mdtree.log")
}

// InitLogger initializes the global logger writing JSON to a rotating file.
// An empty logPath uses DefaultPath.
func InitLogger(level string, logPath string) error {
	if logPath == "" {
		logPath = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	LogPath = logPath

	logWriter = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}

	Log = New(logWriter, ParseLevel(level))
	slog.SetDefault(Log)
	return nil
}

// New builds a logger writing JSON to w that also feeds Latest.
func New(w io.Writer, level slog.Level) *slog.Logger {
	handler := &statusHandler{
		inner: slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}),
		last:  last,
	}
	return slog.New(handler)
}

// Close closes the log file
func Close() {
	if logWriter != nil {
		logWriter.Close()
	}
}

// getLogger returns the global logger, or the default slog logger if not initialized.
func getLogger() *slog.Logger {
	if Log != nil {
		return Log
	}
	return slog.Default()
}

// Debug logs a debug message
func Debug(msg string, args ...any) {
	getLogger().Debug(msg, args...)
}

// Info logs an info message
func Info(msg string, args ...any) {
	getLogger().Info(msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...any) {
	getLogger().Warn(msg, args...)
}

// Error logs an error message
func Error(msg string, args ...any) {
	getLogger().Error(msg, args...)
}

// With creates a new logger with additional attributes
func With(args ...any) *slog.Logger {
	return getLogger().With(args...)
}

// Latest returns the most recent WARN or ERROR entry.
func Latest() (LogEntry, bool) {
	return last.get()
}

// ClearLatest forgets the most recent entry.
func ClearLatest() {
	last.clear()
}

// Format formats a log entry for display.
func (e LogEntry) Format() string {
	msg := e.Message
	if e.Err != "" {
		msg += ": " + e.Err
	}
	return fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), e.Level.String(), msg)
}
