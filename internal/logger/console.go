// Package logger provides the timestamped console logger used by build
// commands. Output is thread-safe and colorized when the destination is a
// terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log level constants for filtering
const (
	levelDebug int = 0
	levelInfo  int = 1
	levelWarn  int = 2
	levelError int = 3
)

// ConsoleLogger logs build progress to a writer with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger writing to the provided writer.
// If writer is nil, messages are silently discarded. Valid levels: debug,
// info, warn, error (case-insensitive); empty or invalid defaults to info.
// Color is enabled only for TTY output on os.Stdout / os.Stderr.
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if f, ok := w.(*os.File); ok && (f == os.Stdout || f == os.Stderr) {
		return isatty.IsTerminal(f.Fd()) && !color.NoColor
	}
	return false
}

// normalizeLogLevel lower-cases and validates a level, defaulting to info
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value
func logLevelToInt(level string) int {
	switch level {
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// shouldLog reports whether a message at the given level passes the filter
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// Debugf logs a debug-level message
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	cl.logWithLevel("DEBUG", fmt.Sprintf(format, args...))
}

// Infof logs an info-level message
func (cl *ConsoleLogger) Infof(format string, args ...interface{}) {
	cl.logWithLevel("INFO", fmt.Sprintf(format, args...))
}

// Warnf logs a warning-level message
func (cl *ConsoleLogger) Warnf(format string, args ...interface{}) {
	cl.logWithLevel("WARN", fmt.Sprintf(format, args...))
}

// Errorf logs an error-level message
func (cl *ConsoleLogger) Errorf(format string, args ...interface{}) {
	cl.logWithLevel("ERROR", fmt.Sprintf(format, args...))
}

// logWithLevel writes a timestamped, optionally colorized message
func (cl *ConsoleLogger) logWithLevel(level, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	timestamp := time.Now().Format("15:04:05")
	tag := fmt.Sprintf("[%s]", level)
	if cl.colorOutput {
		tag = levelColor(level).Sprint(tag)
	}
	fmt.Fprintf(cl.writer, "[%s] %s %s\n", timestamp, tag, message)
}

// levelColor maps a level tag to its display color
func levelColor(level string) *color.Color {
	switch level {
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return color.New(color.FgYellow)
	case "ERROR":
		return color.New(color.FgRed)
	default:
		return color.New(color.FgGreen)
	}
}
