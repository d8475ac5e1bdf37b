// Package logging provides the leveled logging facility shared by the
// coordinator and its workers, plus the relay that serializes records
// produced by concurrent workers into one ordered output stream.
package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// Level is the severity of a log record.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level.
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
		return "UNKNOWN"
	}
}

// Record is a single formatted log message on its way to a sink.
type Record struct {
	Time    time.Time
	Level   Level
	Name    string
	Message string
}

// Handler consumes records. Implementations decide whether a record's
// severity clears their own threshold.
type Handler interface {
	Handle(rec Record)
}

// Logger emits leveled records to a Handler. A Logger is safe for use from a
// single goroutine; cross-goroutine serialization is the Relay's job.
type Logger struct {
	name    string
	level   Level
	handler Handler
}

// New creates a logger with the given name (empty for the root logger),
// minimum level and destination handler.
func New(name string, level Level, handler Handler) *Logger {
	return &Logger{name: name, level: level, handler: handler}
}

// Level returns the logger's minimum severity.
func (l *Logger) Level() Level { return l.level }

// Handler returns the logger's destination handler.
func (l *Logger) Handler() Handler { return l.handler }

// Debugf logs a formatted message at debug level.
func (l *Logger) Debugf(format string, args ...any) { l.log(LevelDebug, format, args...) }

// Infof logs a formatted message at info level.
func (l *Logger) Infof(format string, args ...any) { l.log(LevelInfo, format, args...) }

// Warnf logs a formatted message at warn level.
func (l *Logger) Warnf(format string, args ...any) { l.log(LevelWarn, format, args...) }

// Errorf logs a formatted message at error level.
func (l *Logger) Errorf(format string, args ...any) { l.log(LevelError, format, args...) }

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.level || l.handler == nil {
		return
	}
	l.handler.Handle(Record{
		Time:    time.Now(),
		Level:   level,
		Name:    l.name,
		Message: fmt.Sprintf(format, args...),
	})
}

var levelColors = map[Level]*color.Color{
	LevelDebug: color.New(color.FgCyan),
	LevelInfo:  color.New(color.FgGreen),
	LevelWarn:  color.New(color.FgYellow),
	LevelError: color.New(color.FgRed),
}

// ConsoleHandler writes records as timestamped lines to a single writer.
// A mutex guards the writer so the coordinator's own records and relayed
// worker records never interleave mid-line.
type ConsoleHandler struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// NewConsoleHandler creates a console handler writing to out, dropping
// records below the given level.
func NewConsoleHandler(out io.Writer, level Level) *ConsoleHandler {
	return &ConsoleHandler{out: out, level: level}
}

// Handle formats and writes one record if its severity clears the threshold.
func (h *ConsoleHandler) Handle(rec Record) {
	if rec.Level < h.level {
		return
	}

	tag := levelColors[rec.Level].Sprintf("[%s]", rec.Level)

	h.mu.Lock()
	defer h.mu.Unlock()
	if rec.Name != "" {
		fmt.Fprintf(h.out, "%s %s [%s] %s\n", rec.Time.Format("2006/01/02 15:04:05"), tag, rec.Name, rec.Message)
		return
	}
	fmt.Fprintf(h.out, "%s %s %s\n", rec.Time.Format("2006/01/02 15:04:05"), tag, rec.Message)
}
