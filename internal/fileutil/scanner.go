package fileutil

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ScanOptions configures the directory scanning behavior
type ScanOptions struct {
	// Extensions is a list of file extensions to include (e.g., ".jpg")
	Extensions []string
	// Recursive enables recursive directory scanning
	Recursive bool
	// IncludeHidden includes dot-directories in the scan
	IncludeHidden bool
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Files contains the absolute paths of all matched files
	Files []string
	// Errors contains any errors encountered during scanning
	Errors []error
}

// ScanDirectory scans a directory for files matching the provided options
func ScanDirectory(dir string, opts ScanOptions) (*ScanResult, error) {
	// Validate directory exists
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", dir)
	}

	result := &ScanResult{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	// Create extension map for fast lookup
	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		// Ensure extensions start with a dot
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	// Walk the directory
	err = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		// Skip the root directory itself
		if path == dir {
			return nil
		}

		// Handle directories
		if d.IsDir() {
			if !opts.IncludeHidden && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}

		// Check extension if specified
		if len(extMap) > 0 {
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if !extMap[ext] {
				return nil
			}
		}

		// Convert to absolute path
		absPath, err := filepath.Abs(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}

		result.Files = append(result.Files, absPath)
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	// Sort files for consistent output
	sort.Strings(result.Files)

	return result, nil
}
