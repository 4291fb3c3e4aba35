// Package console provides leveled terminal logging and download
// progress rendering.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Level is the logger threshold.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelOff
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
		return "OFF"
	}
}

var (
	debugStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// Logger writes leveled messages to one terminal stream.
type Logger struct {
	mu    sync.Mutex
	out   io.Writer
	level Level
}

// New returns a Logger on stderr. verbose lowers the threshold to
// debug.
func New(verbose bool) *Logger {
	level := LevelInfo
	if verbose {
		level = LevelDebug
	}
	return &Logger{out: os.Stderr, level: level}
}

// NewWriter returns a Logger on an explicit writer, for tests.
func NewWriter(out io.Writer, level Level) *Logger {
	return &Logger{out: out, level: level}
}

func (l *Logger) logf(level Level, style lipgloss.Style, format string, args ...any) {
	if level < l.level {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(l.out, style.Render(msg))
}

func (l *Logger) Debugf(format string, args ...any) {
	l.logf(LevelDebug, debugStyle, format, args...)
}

func (l *Logger) Infof(format string, args ...any) {
	l.logf(LevelInfo, lipgloss.NewStyle(), format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.logf(LevelWarn, warnStyle, format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.logf(LevelError, errorStyle, format, args...)
}

// Successf prints a completion line regardless of level.
func (l *Logger) Successf(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.out, okStyle.Render(fmt.Sprintf(format, args...)))
}
