package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger so callers get component-scoped children
// without importing zerolog everywhere.
type Logger struct {
	*zerolog.Logger
}

// New creates a console logger writing to out. Debug mode enables the
// per-command trace emitted by the device bridge and the engines.
func New(out io.Writer, debug bool) *Logger {
	if out == nil {
		out = os.Stderr
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	zlog := zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{&zlog}
}

// WithComponent creates a child logger with a component field.
func (l *Logger) WithComponent(component string) *Logger {
	child := l.Logger.With().Str("component", component).Logger()
	return &Logger{&child}
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	zlog := zerolog.Nop()
	return &Logger{&zlog}
}
