package logger

import (
	"os"
	"strings"
	"sync"
)

// Log levels accepted in config (log_level).
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Encodings accepted in config (log_format). JSON is meant for log shippers
// on the bench PC, console for an operator watching the terminal.
const (
	ConsoleFormat = "console"
	JSONFormat    = "json"
)

var (
	// globalLogger holds the process-wide logger used by cmd/.
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The first call decides level and
// format; later calls return the same instance.
func Get(level, format string) *Logger {
	once.Do(func() {
		globalLogger = New(level, format)
	})
	return globalLogger
}

// New builds a standalone logger writing to stdout.
func New(level, format string) *Logger {
	return newZapLogger(level, format, os.Stdout)
}

// ValidLevel reports whether level is one of the accepted level names.
func ValidLevel(level string) bool {
	switch normalize(level) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

// ValidFormat reports whether format is console or json.
func ValidFormat(format string) bool {
	switch normalize(format) {
	case ConsoleFormat, JSONFormat:
		return true
	}
	return false
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
