package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
)

// Logger writes leveled console messages tagged with the server name they
// concern. Formatting and destination are this package's concern only; callers
// pick the level and the message.
type Logger struct {
	name  string
	out   io.Writer
	errw  io.Writer
	quiet bool
}

// New returns a logger bound to the given server name.
func New(name string) *Logger {
	return NewWithWriters(name, os.Stdout, os.Stderr)
}

// NewWithWriters returns a logger with explicit destinations.
func NewWithWriters(name string, out, errw io.Writer) *Logger {
	return &Logger{
		name: name,
		out:  out,
		errw: errw,
	}
}

// SetQuiet suppresses success, notice, and info output. Warnings and errors
// always print.
func (l *Logger) SetQuiet(quiet bool) {
	l.quiet = quiet
}

func (l *Logger) tag() string {
	if l.name == "" {
		return ""
	}
	return text.FgHiBlack.Sprintf("[%s] ", l.name)
}

// Success reports a completed state transition in green.
func (l *Logger) Success(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s%s\n", l.tag(), text.FgGreen.Sprint(fmt.Sprintf(format, args...)))
}

// Notice reports an in-progress or transitional state in cyan.
func (l *Logger) Notice(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s%s\n", l.tag(), text.FgCyan.Sprint(fmt.Sprintf(format, args...)))
}

// Warn reports a non-fatal problem in yellow.
func (l *Logger) Warn(format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s%s\n", l.tag(), text.FgYellow.Sprint(fmt.Sprintf(format, args...)))
}

// Info reports neutral status output.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.out, "%s%s\n", l.tag(), fmt.Sprintf(format, args...))
}

// Err reports a failure in red on stderr.
func (l *Logger) Err(format string, args ...interface{}) {
	fmt.Fprintf(l.errw, "%s%s\n", l.tag(), text.FgRed.Sprint(fmt.Sprintf(format, args...)))
}
