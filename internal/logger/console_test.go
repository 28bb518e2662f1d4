package logger

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/kortkat/kortkollect/internal/collector"
)

func TestConsoleLoggerLevels(t *testing.T) {
	tests := []struct {
		name      string
		logLevel  string
		log       func(*ConsoleLogger)
		wantLines int
	}{
		{
			name:     "info level filters debug",
			logLevel: "info",
			log: func(cl *ConsoleLogger) {
				cl.LogDebug("hidden")
				cl.LogInfo("shown")
			},
			wantLines: 1,
		},
		{
			name:     "debug level shows debug",
			logLevel: "debug",
			log: func(cl *ConsoleLogger) {
				cl.LogDebug("shown")
				cl.LogInfo("shown")
			},
			wantLines: 2,
		},
		{
			name:     "error level filters warnings",
			logLevel: "error",
			log: func(cl *ConsoleLogger) {
				cl.LogWarn("hidden")
				cl.LogError("shown")
			},
			wantLines: 1,
		},
		{
			name:     "invalid level defaults to info",
			logLevel: "bogus",
			log: func(cl *ConsoleLogger) {
				cl.LogTrace("hidden")
				cl.LogInfo("shown")
			},
			wantLines: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cl := NewConsoleLogger(&buf, tt.logLevel)
			tt.log(cl)

			got := strings.Count(buf.String(), "\n")
			if got != tt.wantLines {
				t.Errorf("logged %d lines, want %d; output:\n%s", got, tt.wantLines, buf.String())
			}
		})
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogWarn("Image not found for ID: 123_456")

	// Buffer output is never colorized
	line := buf.String()
	matched, err := regexp.MatchString(`^\[\d{2}:\d{2}:\d{2}\] \[WARN\] Image not found for ID: 123_456\n$`, line)
	if err != nil {
		t.Fatalf("regexp error: %v", err)
	}
	if !matched {
		t.Errorf("unexpected log format: %q", line)
	}
}

func TestConsoleLoggerNilWriter(t *testing.T) {
	cl := NewConsoleLogger(nil, "info")

	// Must not panic
	cl.LogInfo("discarded")
	cl.LogPhaseStart("indexing", "scanning /tmp")
	cl.LogPhaseComplete("indexing", time.Second)
	cl.LogSummary(&collector.RunResult{})
}

func TestConsoleLoggerPhases(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	cl.LogPhaseStart("indexing", "scanning /images")
	cl.LogPhaseComplete("indexing", 2*time.Second)

	out := buf.String()
	if !strings.Contains(out, "Starting indexing: scanning /images") {
		t.Errorf("missing phase start line: %q", out)
	}
	if !strings.Contains(out, "indexing complete (2s)") {
		t.Errorf("missing phase complete line: %q", out)
	}
}

func TestConsoleLoggerSummary(t *testing.T) {
	var buf bytes.Buffer
	cl := NewConsoleLogger(&buf, "info")

	result := &collector.RunResult{
		Items: make([]collector.ItemResult, 5),
	}
	result.Copied = 3
	result.NotFound = 1
	result.IndexStale = 1
	result.Duration = 90 * time.Second

	cl.LogSummary(result)

	out := buf.String()
	for _, want := range []string{
		"=== Collection Summary ===",
		"Markers processed: 5",
		"Collected: 3",
		"Not found: 1",
		"Index mismatches: 1",
		"Duration: 1m30s",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q; output:\n%s", want, out)
		}
	}

	// Zero-count optional lines are omitted
	if strings.Contains(out, "Malformed") {
		t.Errorf("summary should omit malformed line when count is zero:\n%s", out)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Second, "5s"},
		{90 * time.Second, "1m30s"},
		{2 * time.Minute, "2m"},
		{time.Hour, "1h"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{time.Hour + 15*time.Minute + 30*time.Second, "1h15m30s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
