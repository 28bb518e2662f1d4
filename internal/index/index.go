// Package index builds the transient image index used to resolve job
// identifiers to image paths during one collection run.
//
// The index is scratch state, not durable output: it is written to a text
// file inside the output directory when built and must be removed when the
// run ends, however the run ends. Close is safe to call more than once and
// is intended to be deferred immediately after Build succeeds.
package index

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"github.com/kortkat/kortkollect/internal/fileutil"
)

// ScratchFileName is the name of the transient index file written into the
// output directory for the duration of a run.
const ScratchFileName = "image_index.txt"

// lockFileName guards the output directory against concurrent runs
// interleaving scratch state.
const lockFileName = ".image_index.lock"

// Index maps job identifiers (image filename stems) to image paths.
// It is read-only after construction.
type Index struct {
	entries map[string]string
	paths   []string

	scratchPath string
	lock        *flock.Flock
	lockPath    string
	closed      bool
}

// Scan enumerates every image file under rootDir, recursively, matching the
// given extensions. A nonexistent root yields an empty list rather than an
// error: downstream lookups uniformly fail and surface as warnings.
func Scan(rootDir string, extensions []string) ([]string, error) {
	if _, err := os.Stat(rootDir); os.IsNotExist(err) {
		return nil, nil
	}

	result, err := fileutil.ScanDirectory(rootDir, fileutil.ScanOptions{
		Extensions:    extensions,
		Recursive:     true,
		IncludeHidden: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", rootDir, err)
	}

	return result.Files, nil
}

// New builds an in-memory index from a list of image paths.
// When two paths share a filename stem, the first one wins, matching the
// first-suffix-match lookup the index replaces.
func New(paths []string) *Index {
	entries := make(map[string]string, len(paths))
	for _, p := range paths {
		base := filepath.Base(p)
		stem := strings.TrimSuffix(base, filepath.Ext(base))
		if _, exists := entries[stem]; !exists {
			entries[stem] = p
		}
	}

	return &Index{
		entries: entries,
		paths:   paths,
	}
}

// Build scans rootDir, persists the resulting index as a scratch file inside
// outputDir, and guards the output directory with a file lock so two
// concurrent runs cannot interleave scratch state.
//
// The caller must Close the returned index to release the lock and remove
// the scratch file; defer it immediately.
func Build(rootDir, outputDir string, extensions []string) (*Index, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	lockPath := filepath.Join(outputDir, lockFileName)
	lock := flock.New(lockPath)
	acquired, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to try lock on %s: %w", lockPath, err)
	}
	if !acquired {
		return nil, fmt.Errorf("another collection run is already using %s", outputDir)
	}

	paths, err := Scan(rootDir, extensions)
	if err != nil {
		lock.Unlock()
		os.Remove(lockPath)
		return nil, err
	}

	ix := New(paths)
	ix.scratchPath = filepath.Join(outputDir, ScratchFileName)
	ix.lock = lock
	ix.lockPath = lockPath

	if err := ix.writeScratch(); err != nil {
		lock.Unlock()
		os.Remove(lockPath)
		return nil, err
	}

	return ix, nil
}

// Lookup resolves a job identifier to the indexed image path.
func (ix *Index) Lookup(id string) (string, bool) {
	if id == "" {
		return "", false
	}
	path, ok := ix.entries[id]
	return path, ok
}

// Len returns the number of indexed image paths.
func (ix *Index) Len() int {
	return len(ix.paths)
}

// Paths returns the indexed image paths in scan order.
// The returned slice must not be modified.
func (ix *Index) Paths() []string {
	return ix.paths
}

// ScratchPath returns the path of the scratch index file, or "" when the
// index was built in memory only.
func (ix *Index) ScratchPath() string {
	return ix.scratchPath
}

// Close removes the scratch index file and releases the output directory
// lock. It is safe to call multiple times.
func (ix *Index) Close() error {
	if ix.closed {
		return nil
	}
	ix.closed = true

	var firstErr error
	if ix.scratchPath != "" {
		if err := os.Remove(ix.scratchPath); err != nil && !os.IsNotExist(err) {
			firstErr = fmt.Errorf("failed to remove scratch index: %w", err)
		}
	}
	if ix.lock != nil {
		if err := ix.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to release lock on %s: %w", ix.lockPath, err)
		}
		os.Remove(ix.lockPath)
	}

	return firstErr
}

// writeScratch persists the index as one path per line using a temp file and
// rename so a reader never sees a partial write.
func (ix *Index) writeScratch() error {
	dir := filepath.Dir(ix.scratchPath)

	tempFile, err := os.CreateTemp(dir, ".tmp-index-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	// Clean up the temp file on any failure past this point
	defer func() {
		if tempFile != nil {
			tempFile.Close()
			os.Remove(tempPath)
		}
	}()

	for _, p := range ix.paths {
		if _, err := fmt.Fprintln(tempFile, p); err != nil {
			return fmt.Errorf("failed to write to temp file: %w", err)
		}
	}

	if err := tempFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tempPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	// Rename is atomic within the same filesystem
	if err := os.Rename(tempPath, ix.scratchPath); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", ix.scratchPath, err)
	}

	tempFile = nil
	return nil
}
