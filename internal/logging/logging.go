// =============================================================================
// MI Billing Merger - Logging
// =============================================================================
//
// The extraction pipeline logs diagnostics (skipped files, per-file decode
// failures) through the Logger interface rather than writing to stdout
// directly. This keeps the core side-effect-free: tests inject Nop, the CLI
// injects the console logger, and an embedding application can plug in its
// own implementation.
//
// =============================================================================

package logging

import "fmt"

// Logger is the observer interface the pipeline reports through.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// =============================================================================
// CONSOLE LOGGER
// =============================================================================

// Level controls console logger verbosity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a configuration string to a Level. Unrecognized values
// fall back to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// consoleLogger prints prefixed lines to stdout.
type consoleLogger struct {
	level Level
}

// NewConsole returns a Logger that writes to stdout, filtered by level.
func NewConsole(level Level) Logger {
	return &consoleLogger{level: level}
}

func (l *consoleLogger) Debug(msg string, args ...interface{}) {
	if l.level <= LevelDebug {
		fmt.Printf("[DEBUG] "+msg+"\n", args...)
	}
}

func (l *consoleLogger) Info(msg string, args ...interface{}) {
	if l.level <= LevelInfo {
		fmt.Printf("[INFO] "+msg+"\n", args...)
	}
}

func (l *consoleLogger) Warn(msg string, args ...interface{}) {
	if l.level <= LevelWarn {
		fmt.Printf("[WARN] "+msg+"\n", args...)
	}
}

func (l *consoleLogger) Error(msg string, args ...interface{}) {
	if l.level <= LevelError {
		fmt.Printf("[ERROR] "+msg+"\n", args...)
	}
}

// =============================================================================
// NOP LOGGER
// =============================================================================

// nopLogger discards everything.
type nopLogger struct{}

// Nop returns a Logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

func (nopLogger) Debug(msg string, args ...interface{}) {}
func (nopLogger) Info(msg string, args ...interface{})  {}
func (nopLogger) Warn(msg string, args ...interface{})  {}
func (nopLogger) Error(msg string, args ...interface{}) {}
