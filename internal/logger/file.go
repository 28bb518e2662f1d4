package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kortkat/kortkollect/internal/collector"
)

// FileLogger logs collection runs to files in the configured log directory.
// It creates a timestamped per-run log file and maintains a latest.log
// symlink pointing to the most recent run. It is thread-safe and supports
// log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing into logDir with the given log
// level. It creates the log directory if it doesn't exist, opens a
// timestamped run log file, and creates/updates the latest.log symlink.
// The runID is recorded in the log header.
func NewFileLogger(logDir, logLevel, runID string) (*FileLogger, error) {
	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Generate timestamped filename: run-YYYYMMDD-HHMMSS.log
	ts := time.Now().Format("20060102-150405")
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", ts))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	// Create/update latest.log symlink
	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	logger := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	// Write header to run log
	logger.writeRunLog("=== Kortkollect Run Log ===\n")
	logger.writeRunLog(fmt.Sprintf("Run ID: %s\n", runID))
	logger.writeRunLog(fmt.Sprintf("Started at: %s\n\n", time.Now().Format(time.RFC3339)))

	return logger, nil
}

// shouldLog checks if a message at the given level should be logged.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// logWithLevel is a helper that logs a message at the specified level if
// filtering allows it.
func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}

	formatted := fmt.Sprintf("[%s] [%s] %s\n", time.Now().Format("15:04:05"), level, message)
	fl.writeRunLog(formatted)
}

// LogPhaseStart logs the start of a run phase at INFO level.
func (fl *FileLogger) LogPhaseStart(name, detail string) {
	if !fl.shouldLog("info") {
		return
	}

	fl.writeRunLog(fmt.Sprintf("[%s] Starting %s: %s\n", time.Now().Format("15:04:05"), name, detail))
}

// LogPhaseComplete logs the completion of a run phase at INFO level.
func (fl *FileLogger) LogPhaseComplete(name string, duration time.Duration) {
	if !fl.shouldLog("info") {
		return
	}

	fl.writeRunLog(fmt.Sprintf("[%s] %s complete: duration %.1fs\n", time.Now().Format("15:04:05"), name, duration.Seconds()))
}

// LogSummary logs the collection summary with final statistics at INFO level.
func (fl *FileLogger) LogSummary(result *collector.RunResult) {
	if !fl.shouldLog("info") {
		return
	}

	ts := time.Now().Format("15:04:05")

	// Determine status
	status := "SUCCESS"
	if result.Failures() > 0 {
		if result.Copied == 0 {
			status = "FAILED"
		} else {
			status = "PARTIAL"
		}
	}

	message := fmt.Sprintf(
		"\n[%s] === COLLECTION SUMMARY ===\n"+
			"[%s] Markers processed: %d\n"+
			"[%s] Collected:         %d\n"+
			"[%s] Not found:         %d\n"+
			"[%s] Index mismatches:  %d\n"+
			"[%s] Malformed names:   %d\n"+
			"[%s] Copy failures:     %d\n"+
			"[%s] Total time:        %.1fs\n"+
			"[%s] Status:            %s (%d/%d markers resolved)\n"+
			"[%s] Completed at:      %s\n",
		ts,
		ts, result.Total(),
		ts, result.Copied,
		ts, result.NotFound,
		ts, result.IndexStale,
		ts, result.Malformed,
		ts, result.CopyFailed,
		ts, result.Duration.Seconds(),
		ts, status, result.Copied, result.Total(),
		ts, time.Now().Format(time.RFC3339),
	)

	fl.writeRunLog(message)
}

// RunFile returns the path of the current run log file.
func (fl *FileLogger) RunFile() string {
	return fl.runFile
}

// Close closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return nil
	}
	err := fl.runLog.Close()
	fl.runLog = nil
	return err
}

// writeRunLog writes a message to the run log file under the mutex.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog == nil {
		return
	}
	fl.runLog.WriteString(message)
}
