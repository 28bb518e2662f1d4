package fileutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

func TestScanDirectory(t *testing.T) {
	// Create a temporary test directory structure
	tmpDir := t.TempDir()

	testFiles := []string{
		"100_001.jpg",
		"100_002.JPG",
		"readme.txt",
		"boxA/200_001.jpg",
		"boxA/inner/200_002.jpg",
		"boxA/notes.md",
		".archive/900_001.jpg",
	}

	for _, f := range testFiles {
		path := filepath.Join(tmpDir, f)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("test content"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	tests := []struct {
		name          string
		opts          ScanOptions
		wantFileNames []string
	}{
		{
			name: "recursive jpg scan skips hidden dirs",
			opts: ScanOptions{
				Extensions: []string{".jpg"},
				Recursive:  true,
			},
			wantFileNames: []string{"100_001.jpg", "100_002.JPG", "200_001.jpg", "200_002.jpg"},
		},
		{
			name: "recursive jpg scan including hidden dirs",
			opts: ScanOptions{
				Extensions:    []string{".jpg"},
				Recursive:     true,
				IncludeHidden: true,
			},
			wantFileNames: []string{"100_001.jpg", "100_002.JPG", "200_001.jpg", "200_002.jpg", "900_001.jpg"},
		},
		{
			name: "non-recursive scan",
			opts: ScanOptions{
				Extensions: []string{".jpg"},
			},
			wantFileNames: []string{"100_001.jpg", "100_002.JPG"},
		},
		{
			name: "extension without dot prefix",
			opts: ScanOptions{
				Extensions: []string{"jpg"},
				Recursive:  true,
			},
			wantFileNames: []string{"100_001.jpg", "100_002.JPG", "200_001.jpg", "200_002.jpg"},
		},
		{
			name: "no extension filter returns everything",
			opts: ScanOptions{
				Recursive: true,
			},
			wantFileNames: []string{"100_001.jpg", "100_002.JPG", "200_001.jpg", "200_002.jpg", "notes.md", "readme.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ScanDirectory(tmpDir, tt.opts)
			if err != nil {
				t.Fatalf("ScanDirectory() error = %v", err)
			}

			gotNames := make([]string, 0, len(result.Files))
			for _, f := range result.Files {
				gotNames = append(gotNames, filepath.Base(f))
			}
			sort.Strings(gotNames)

			wantNames := append([]string(nil), tt.wantFileNames...)
			sort.Strings(wantNames)

			if strings.Join(gotNames, ",") != strings.Join(wantNames, ",") {
				t.Errorf("ScanDirectory() files = %v, want %v", gotNames, wantNames)
			}
		})
	}
}

func TestScanDirectorySortedOutput(t *testing.T) {
	tmpDir := t.TempDir()

	for _, f := range []string{"c.jpg", "a.jpg", "b.jpg"} {
		if err := os.WriteFile(filepath.Join(tmpDir, f), []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}

	result, err := ScanDirectory(tmpDir, ScanOptions{Extensions: []string{".jpg"}})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}

	if !sort.StringsAreSorted(result.Files) {
		t.Errorf("ScanDirectory() files not sorted: %v", result.Files)
	}
	for _, f := range result.Files {
		if !filepath.IsAbs(f) {
			t.Errorf("ScanDirectory() returned non-absolute path %q", f)
		}
	}
}

func TestScanDirectoryMissingDir(t *testing.T) {
	_, err := ScanDirectory(filepath.Join(t.TempDir(), "nope"), ScanOptions{})
	if err == nil {
		t.Error("ScanDirectory() should return error for missing directory")
	}
}

func TestScanDirectoryNotADir(t *testing.T) {
	tmpDir := t.TempDir()
	filePath := filepath.Join(tmpDir, "file.jpg")
	if err := os.WriteFile(filePath, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	_, err := ScanDirectory(filePath, ScanOptions{})
	if err == nil {
		t.Error("ScanDirectory() should return error when path is a file")
	}
}
