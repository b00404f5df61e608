// Package mlog provides the leveled logger shared by the session, the
// formula parser, the tabulator and the command dispatcher. It wraps the
// standard library's log.Logger, following the teacher packages'
// (kshedden/statmodel, kshedden/statmodel/glm, kshedden/statmodel/duration)
// convention of carrying a *log.Logger rather than a third-party logging
// facade.
package mlog

import (
	"io"
	"log"
)

// Level mirrors the original program's SILENT/INFO/VERBOSE log levels.
type Level int

const (
	Silent Level = iota
	Info
	Verbose
)

// Logger is a level-gated wrapper around a standard library logger.
type Logger struct {
	level Level
	log   *log.Logger
}

// New returns a Logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, log: log.New(w, "", 0)}
}

// SetLevel adjusts the minimum level that will be emitted.
func (l *Logger) SetLevel(level Level) { l.level = level }

// Level returns the logger's current level.
func (l *Logger) Level() Level { return l.level }

func (l *Logger) emit(level Level, format string, args ...interface{}) {
	if l == nil || level > l.level {
		return
	}
	l.log.Printf(format, args...)
}

// Warn always logs, regardless of level (it is used for recoverable
// problems the caller should see, per spec.md's error-handling design).
func (l *Logger) Warn(format string, args ...interface{}) {
	if l == nil {
		return
	}
	l.log.Printf("Warning: "+format, args...)
}

// Info logs at the INFO level.
func (l *Logger) Info(format string, args ...interface{}) { l.emit(Info, format, args...) }

// Verbose logs at the VERBOSE level.
func (l *Logger) Verbose(format string, args ...interface{}) { l.emit(Verbose, format, args...) }
