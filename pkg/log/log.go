// Package log provides the small leveled logger used by the CLI and the
// randomizer pipeline.
package log

import (
	"fmt"
	"io"
	"os"
)

type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type logger struct {
	w     io.Writer
	debug bool
}

// New returns a Logger writing to stdout. Debug output is suppressed unless
// the logger was created with Debug or NewWithWriter.
func New() Logger {
	return &logger{w: os.Stdout}
}

// NewWithWriter returns a Logger writing to w, with debug output enabled.
// Intended for tests that want to capture output.
func NewWithWriter(w io.Writer) Logger {
	return &logger{w: w, debug: true}
}

// Debug returns a Logger writing to stdout with debug output enabled.
func Debug() Logger {
	return &logger{w: os.Stdout, debug: true}
}

func (l *logger) Infof(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "[INFO]\t"+format+"\n", args...)
}

func (l *logger) Warnf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "[WARN]\t"+format+"\n", args...)
}

func (l *logger) Errorf(format string, args ...interface{}) {
	fmt.Fprintf(l.w, "[ERROR]\t"+format+"\n", args...)
}

func (l *logger) Debugf(format string, args ...interface{}) {
	if !l.debug {
		return
	}
	fmt.Fprintf(l.w, "[DEBUG]\t"+format+"\n", args...)
}
