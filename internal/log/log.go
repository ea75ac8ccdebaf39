// Package log provides a simple logging wrapper for gcouch.
// Uses zerolog with console output and context enrichment.
package log

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger wraps zerolog.Logger with context helpers
type Logger struct {
	zl zerolog.Logger
}

// Default is the default global logger
var Default = New(os.Stderr)

// New creates a new logger with console output
func New(w io.Writer) *Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return &Logger{
		zl: zerolog.New(output).With().Timestamp().Logger(),
	}
}

// NewFile creates a logger writing JSON lines to a size-rotated file.
// The returned closer releases the file.
func NewFile(path string) (*Logger, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	return &Logger{zl: zerolog.New(sink).With().Timestamp().Logger()}, sink
}

// SetVerbose enables/disables debug logging
func SetVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// --- Context enrichment ---

// WithComponent returns a logger with component field
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{zl: l.zl.With().Str("component", component).Logger()}
}

// WithDatabase returns a logger with database field
func (l *Logger) WithDatabase(name string) *Logger {
	return &Logger{zl: l.zl.With().Str("database", name).Logger()}
}

// WithDocID returns a logger with doc_id field
func (l *Logger) WithDocID(docID string) *Logger {
	return &Logger{zl: l.zl.With().Str("doc_id", docID).Logger()}
}

// --- Log levels ---

func (l *Logger) Debug() *Event { return &Event{e: l.zl.Debug()} }
func (l *Logger) Info() *Event  { return &Event{e: l.zl.Info()} }
func (l *Logger) Warn() *Event  { return &Event{e: l.zl.Warn()} }
func (l *Logger) Error() *Event { return &Event{e: l.zl.Error()} }

// Event wraps zerolog.Event for fluent API
type Event struct {
	e *zerolog.Event
}

func (e *Event) Str(key, val string) *Event {
	e.e = e.e.Str(key, val)
	return e
}

func (e *Event) Int(key string, val int) *Event {
	e.e = e.e.Int(key, val)
	return e
}

func (e *Event) Bool(key string, val bool) *Event {
	e.e = e.e.Bool(key, val)
	return e
}

// Stringer logs val.String(); a *dburl.URL logs redacted this way.
func (e *Event) Stringer(key string, val interface{ String() string }) *Event {
	e.e = e.e.Str(key, val.String())
	return e
}

func (e *Event) Err(err error) *Event {
	e.e = e.e.Err(err)
	return e
}

func (e *Event) Dur(key string, d time.Duration) *Event {
	e.e = e.e.Dur(key, d)
	return e
}

func (e *Event) Msg(msg string) {
	e.e.Msg(msg)
}
