// Package logger provides logging implementations for collection runs.
//
// The logger package offers leveled logging of run progress at the phase and
// summary levels. Implementations are thread-safe and support console and
// file destinations.
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

	"github.com/kortkat/kortkollect/internal/collector"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread
// safety. All output is prefixed with [HH:MM:SS] timestamps. It supports log
// level filtering to control message verbosity. Color output is
// automatically enabled for terminal output.
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided
// io.Writer. If writer is nil, messages are silently discarded.
// logLevel determines the minimum log level for messages to be output.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		mutex:       sync.Mutex{},
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if f, ok := w.(*os.File); ok {
		// color.NoColor honors the NO_COLOR convention
		return isatty.IsTerminal(f.Fd()) && !color.NoColor
	}

	return false
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if validLevels[normalized] {
		return normalized
	}

	return "info" // Default level
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo // Default to info if unknown
	}
}

// LogTrace logs a trace-level message (most verbose).
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if
// filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}

	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string

	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorizeLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// colorizeLevel formats a log level with ANSI color codes.
func colorizeLevel(level string) string {
	switch strings.ToUpper(level) {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogPhaseStart logs the start of a run phase at INFO level.
// Format: "[HH:MM:SS] Starting <name>: <detail>"
func (cl *ConsoleLogger) LogPhaseStart(name, detail string) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	var message string
	if cl.colorOutput {
		phaseName := color.New(color.Bold).Sprint(name)
		message = fmt.Sprintf("[%s] Starting %s: %s\n", ts, phaseName, detail)
	} else {
		message = fmt.Sprintf("[%s] Starting %s: %s\n", ts, name, detail)
	}

	cl.writer.Write([]byte(message))
}

// LogPhaseComplete logs the completion of a run phase at INFO level.
// Format: "[HH:MM:SS] <name> complete (<duration>)"
func (cl *ConsoleLogger) LogPhaseComplete(name string, duration time.Duration) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	var message string
	if cl.colorOutput {
		phaseName := color.New(color.Bold).Sprint(name)
		completeText := color.New(color.FgGreen).Sprint("complete")
		message = fmt.Sprintf("[%s] %s %s (%s)\n", ts, phaseName, completeText, formatDuration(duration))
	} else {
		message = fmt.Sprintf("[%s] %s complete (%s)\n", ts, name, formatDuration(duration))
	}

	cl.writer.Write([]byte(message))
}

// LogSummary logs the collection summary with per-outcome counts at INFO level.
func (cl *ConsoleLogger) LogSummary(result *collector.RunResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()

	var output string
	if cl.colorOutput {
		header := color.New(color.Bold).Sprint("=== Collection Summary ===")
		output = fmt.Sprintf("[%s] %s\n", ts, header)
		output += fmt.Sprintf("[%s] Markers processed: %d\n", ts, result.Total())

		copiedText := color.New(color.FgGreen).Sprintf("Collected: %d", result.Copied)
		output += fmt.Sprintf("[%s] %s\n", ts, copiedText)

		if result.NotFound > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgYellow).Sprintf("Not found: %d", result.NotFound))
		} else {
			output += fmt.Sprintf("[%s] Not found: %d\n", ts, result.NotFound)
		}
		if result.IndexStale > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgRed).Sprintf("Index mismatches: %d", result.IndexStale))
		} else {
			output += fmt.Sprintf("[%s] Index mismatches: %d\n", ts, result.IndexStale)
		}
		if result.Malformed > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgYellow).Sprintf("Malformed marker names: %d", result.Malformed))
		}
		if result.CopyFailed > 0 {
			output += fmt.Sprintf("[%s] %s\n", ts, color.New(color.FgRed).Sprintf("Copy failures: %d", result.CopyFailed))
		}

		output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration))
	} else {
		output = fmt.Sprintf("[%s] === Collection Summary ===\n", ts)
		output += fmt.Sprintf("[%s] Markers processed: %d\n", ts, result.Total())
		output += fmt.Sprintf("[%s] Collected: %d\n", ts, result.Copied)
		output += fmt.Sprintf("[%s] Not found: %d\n", ts, result.NotFound)
		output += fmt.Sprintf("[%s] Index mismatches: %d\n", ts, result.IndexStale)
		if result.Malformed > 0 {
			output += fmt.Sprintf("[%s] Malformed marker names: %d\n", ts, result.Malformed)
		}
		if result.CopyFailed > 0 {
			output += fmt.Sprintf("[%s] Copy failures: %d\n", ts, result.CopyFailed)
		}
		output += fmt.Sprintf("[%s] Duration: %s\n", ts, formatDuration(result.Duration))
	}

	cl.writer.Write([]byte(output))
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, remainder/time.Second)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		return fmt.Sprintf("%dm%ds", minutes, remainder/time.Second)
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}
