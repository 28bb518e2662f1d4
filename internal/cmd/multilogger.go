package cmd

import (
	"time"

	"github.com/kortkat/kortkollect/internal/collector"
)

// runLogger is the logging surface shared by the console and file loggers.
type runLogger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogPhaseStart(name, detail string)
	LogPhaseComplete(name string, duration time.Duration)
	LogSummary(result *collector.RunResult)
}

// multiLogger implements runLogger by delegating to multiple loggers
type multiLogger struct {
	loggers []runLogger
}

// LogDebug forwards to all loggers
func (ml *multiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

// LogInfo forwards to all loggers
func (ml *multiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

// LogWarn forwards to all loggers
func (ml *multiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (ml *multiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogPhaseStart forwards to all loggers
func (ml *multiLogger) LogPhaseStart(name, detail string) {
	for _, l := range ml.loggers {
		l.LogPhaseStart(name, detail)
	}
}

// LogPhaseComplete forwards to all loggers
func (ml *multiLogger) LogPhaseComplete(name string, duration time.Duration) {
	for _, l := range ml.loggers {
		l.LogPhaseComplete(name, duration)
	}
}

// LogSummary forwards to all loggers
func (ml *multiLogger) LogSummary(result *collector.RunResult) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}
