// Package fileutil provides centralized file system scanning utilities.
//
// This package serves as a single source of truth for directory traversal in
// kortkollect, offering recursive scanning with extension filtering and
// error-tolerant behavior.
//
// # Usage
//
// Basic recursive scanning of image files:
//
//	result, err := fileutil.ScanDirectory("/path/to/images", fileutil.ScanOptions{
//	    Extensions: []string{".jpg"},
//	    Recursive:  true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, file := range result.Files {
//	    fmt.Println(file)
//	}
//
// # Design Principles
//
// Error Tolerance:
// The scanner collects non-fatal errors (e.g., permission denied on a
// subdirectory) and continues scanning. Only fatal errors (root directory
// doesn't exist) cause immediate failure.
//
// Sorted Output:
// All file paths are sorted alphabetically before being returned, ensuring
// deterministic output across runs and platforms.
//
// Case-Insensitive Extension Matching:
// Extensions are normalized to lowercase for matching, so ".JPG" files match
// a ".jpg" filter.
package fileutil
