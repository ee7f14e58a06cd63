package logger

import (
	"os"
	"strings"
	"sync/atomic"
)

var global atomic.Pointer[Logger]

func init() {
	l := NewDefault()
	Configure(l, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	global.Store(l)
}

// Configure applies textual level/format settings to l. Unknown or empty
// values leave the current setting unchanged.
func Configure(l *Logger, level, format string) {
	if lvl, ok := ParseLevel(level); ok {
		l.SetLevel(lvl)
	}
	if f, ok := ParseFormat(format); ok {
		l.SetFormat(f)
	}
}

// ParseLevel parses a log level name
func ParseLevel(level string) (LogLevel, bool) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DEBUG, true
	case "INFO":
		return INFO, true
	case "WARN", "WARNING":
		return WARN, true
	case "ERROR":
		return ERROR, true
	case "FATAL":
		return FATAL, true
	default:
		return INFO, false
	}
}

// ParseFormat parses a log format name. "auto" picks text when stdout is a
// terminal and JSON otherwise.
func ParseFormat(format string) (LogFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONFormat, true
	case "text":
		return TextFormat, true
	case "auto":
		if fi, err := os.Stdout.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return TextFormat, true
		}
		return JSONFormat, true
	default:
		return JSONFormat, false
	}
}

// Global returns the process-wide logger
func Global() *Logger {
	return global.Load()
}

// SetGlobal replaces the process-wide logger
func SetGlobal(l *Logger) {
	global.Store(l)
}

// Component returns a child of the global logger for component
func Component(name string) *Logger {
	return Global().WithComponent(name)
}

// Info logs an info message using the global logger
func Info(message string, fields ...Fields) {
	Global().Info(message, fields...)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...Fields) {
	Global().Warn(message, fields...)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...Fields) {
	Global().Error(message, err, fields...)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...Fields) {
	Global().Fatal(message, err, fields...)
}
