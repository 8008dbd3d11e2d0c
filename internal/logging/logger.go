// Package logging provides the run-scoped migration log: a leveled in-memory
// buffer that is mirrored to the console as it is written.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the severity of a log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel accepts debug, info, warn/warning or error (any case).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

func (l Level) slogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Entry is one recorded log line. Entries are never modified after being appended.
type Entry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Context   map[string]any
	Err       error
}

// Logger records entries at or above its minimum level.
// It is safe for concurrent use; one Logger is meant to live for one migration run.
type Logger struct {
	mu       sync.Mutex
	entries  []Entry
	minLevel Level
	runID    string
	console  *slog.Logger
	now      func() time.Time
}

// Option configures a Logger.
type Option func(*Logger)

// WithConsole mirrors entries to w. Passing nil disables console output.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		if w == nil {
			l.console = nil
			return
		}
		l.console = newConsole(w, l.minLevel, l.runID)
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logger) { l.now = now }
}

// New returns a Logger that mirrors to stderr unless configured otherwise.
func New(minLevel Level, opts ...Option) *Logger {
	l := &Logger{
		minLevel: minLevel,
		runID:    uuid.NewString(),
		now:      time.Now,
	}
	l.console = newConsole(os.Stderr, minLevel, l.runID)
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Discard returns a Logger that records entries but never writes to the console.
func Discard() *Logger {
	return New(LevelDebug, WithConsole(nil))
}

func newConsole(w io.Writer, minLevel Level, runID string) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: minLevel.slogLevel()})
	return slog.New(h).With("run_id", runID)
}

// RunID identifies the run this logger belongs to.
func (l *Logger) RunID() string {
	return l.runID
}

func (l *Logger) Debug(message string, context map[string]any) {
	l.log(LevelDebug, message, context, nil)
}

func (l *Logger) Info(message string, context map[string]any) {
	l.log(LevelInfo, message, context, nil)
}

func (l *Logger) Warn(message string, context map[string]any) {
	l.log(LevelWarn, message, context, nil)
}

func (l *Logger) Error(message string, err error, context map[string]any) {
	l.log(LevelError, message, context, err)
}

func (l *Logger) log(level Level, message string, context map[string]any, err error) {
	if level < l.minLevel {
		return
	}

	entry := Entry{
		Timestamp: l.now(),
		Level:     level,
		Message:   message,
		Context:   maps.Clone(context),
		Err:       err,
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()

	l.mirror(entry)
}

func (l *Logger) mirror(entry Entry) {
	if l.console == nil {
		return
	}
	attrs := make([]any, 0, len(entry.Context)*2+2)
	for k, v := range entry.Context {
		attrs = append(attrs, k, v)
	}
	if entry.Err != nil {
		attrs = append(attrs, "error", entry.Err.Error())
	}
	l.console.Log(context.Background(), entry.Level.slogLevel(), entry.Message, attrs...)
}

// Entries returns a copy of every recorded entry in order.
func (l *Logger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// EntriesByLevel returns the recorded entries with exactly the given level.
func (l *Logger) EntriesByLevel(level Level) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []Entry
	for _, e := range l.entries {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Clear drops every recorded entry.
func (l *Logger) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
}

// Export renders the log buffer as text, one entry per line.
func (l *Logger) Export() string {
	entries := l.Entries()
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatEntry(e))
	}
	return strings.Join(lines, "\n")
}

func formatEntry(e Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", e.Timestamp.UTC().Format(time.RFC3339Nano), e.Level, e.Message)

	if len(e.Context) > 0 {
		data, err := json.Marshal(e.Context)
		if err != nil {
			data = []byte(fmt.Sprintf("%v", e.Context))
		}
		fmt.Fprintf(&sb, " | Context: %s", data)
	}

	if e.Err != nil {
		fmt.Fprintf(&sb, " | Error: %s", e.Err.Error())
	}

	return sb.String()
}
