// Package collector implements the matching and collection phase: resolving
// error markers against the image index and copying matched images into the
// output directory.
package collector

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/kortkat/kortkollect/internal/index"
	"github.com/kortkat/kortkollect/internal/marker"
)

// Outcome classifies how a single marker was resolved.
type Outcome string

const (
	// OutcomeCopied means the image was found and copied to the output directory
	OutcomeCopied Outcome = "copied"
	// OutcomeNotFound means no index entry matched the marker's identifier
	OutcomeNotFound Outcome = "not_found"
	// OutcomeIndexStale means the index entry's file no longer exists on disk
	OutcomeIndexStale Outcome = "index_stale"
	// OutcomeMalformed means the marker filename carried no job identifier
	OutcomeMalformed Outcome = "malformed"
	// OutcomeCopyFailed means the copy itself failed (I/O error)
	OutcomeCopyFailed Outcome = "copy_failed"
)

// ItemResult records the outcome of processing one error marker.
type ItemResult struct {
	Marker     marker.Marker
	Outcome    Outcome
	SourcePath string // indexed image path, when the identifier matched
	DestPath   string // destination path, when a copy was attempted
	Err        error  // copy error, for OutcomeCopyFailed
}

// RunResult aggregates the outcomes of one collection run.
type RunResult struct {
	RunID      string
	Items      []ItemResult
	Copied     int
	NotFound   int
	IndexStale int
	Malformed  int
	CopyFailed int
	Duration   time.Duration
}

// Total returns the number of markers processed.
func (r *RunResult) Total() int {
	return len(r.Items)
}

// Failures returns the number of markers that did not result in a copied image.
func (r *RunResult) Failures() int {
	return r.Total() - r.Copied
}

// Logger receives per-marker diagnostics during collection.
// Both logger.ConsoleLogger and logger.FileLogger satisfy it.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
	LogError(message string)
}

// Collector resolves error markers against an image index and copies the
// matching images into the output directory. Markers are processed one at a
// time; a failure on one marker never halts the batch.
type Collector struct {
	index     *index.Index
	outputDir string
	log       Logger
}

// New creates a Collector writing into outputDir.
func New(ix *index.Index, outputDir string, log Logger) *Collector {
	return &Collector{
		index:     ix,
		outputDir: outputDir,
		log:       log,
	}
}

// Collect processes each marker path independently and returns the
// aggregated result. When ctx is cancelled between markers, processing stops
// and the partial result is returned along with the context error.
func (c *Collector) Collect(ctx context.Context, runID string, markerPaths []string) (*RunResult, error) {
	start := time.Now()
	result := &RunResult{
		RunID: runID,
		Items: make([]ItemResult, 0, len(markerPaths)),
	}

	for _, path := range markerPaths {
		if err := ctx.Err(); err != nil {
			result.Duration = time.Since(start)
			return result, err
		}

		item := c.collectOne(marker.Parse(path))
		result.Items = append(result.Items, item)

		switch item.Outcome {
		case OutcomeCopied:
			result.Copied++
		case OutcomeNotFound:
			result.NotFound++
		case OutcomeIndexStale:
			result.IndexStale++
		case OutcomeMalformed:
			result.Malformed++
		case OutcomeCopyFailed:
			result.CopyFailed++
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// collectOne classifies a single marker: {found-and-exists -> copy,
// found-but-missing -> index mismatch, not-found -> warning, no identifier
// -> malformed warning}.
func (c *Collector) collectOne(m marker.Marker) ItemResult {
	if m.Malformed() {
		c.log.LogWarn(fmt.Sprintf("Malformed marker name: %s", filepath.Base(m.Path)))
		return ItemResult{Marker: m, Outcome: OutcomeMalformed}
	}

	srcPath, found := c.index.Lookup(m.ID)
	if !found {
		c.log.LogWarn(fmt.Sprintf("Image not found for ID: %s", m.ID))
		return ItemResult{Marker: m, Outcome: OutcomeNotFound}
	}

	// The index may be stale relative to the filesystem
	info, err := os.Stat(srcPath)
	if err != nil || !info.Mode().IsRegular() {
		c.log.LogError(fmt.Sprintf("Index mismatch: %s", srcPath))
		return ItemResult{Marker: m, Outcome: OutcomeIndexStale, SourcePath: srcPath}
	}

	destPath := filepath.Join(c.outputDir, filepath.Base(srcPath))
	if err := copyFile(srcPath, destPath); err != nil {
		c.log.LogError(fmt.Sprintf("Failed to copy %s: %v", srcPath, err))
		return ItemResult{Marker: m, Outcome: OutcomeCopyFailed, SourcePath: srcPath, DestPath: destPath, Err: err}
	}

	c.log.LogDebug(fmt.Sprintf("Collected %s -> %s", srcPath, destPath))
	return ItemResult{Marker: m, Outcome: OutcomeCopied, SourcePath: srcPath, DestPath: destPath}
}

// copyFile copies src to dst byte for byte, overwriting dst if present.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create destination: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return fmt.Errorf("failed to copy contents: %w", err)
	}

	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to close destination: %w", err)
	}

	return nil
}
