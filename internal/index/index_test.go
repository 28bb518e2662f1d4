package index

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte("image bytes"), 0644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
}

func TestScan(t *testing.T) {
	rootDir := t.TempDir()
	writeFile(t, filepath.Join(rootDir, "boxA", "123_456.jpg"))
	writeFile(t, filepath.Join(rootDir, "123_457.jpg"))
	writeFile(t, filepath.Join(rootDir, "notes.txt"))

	paths, err := Scan(rootDir, []string{".jpg"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("Scan() returned %d paths, want 2: %v", len(paths), paths)
	}
}

func TestScanMissingRoot(t *testing.T) {
	paths, err := Scan(filepath.Join(t.TempDir(), "nope"), []string{".jpg"})
	if err != nil {
		t.Fatalf("Scan() should not error on a missing root, got: %v", err)
	}
	if len(paths) != 0 {
		t.Errorf("Scan() = %v, want empty", paths)
	}
}

func TestNewLookup(t *testing.T) {
	ix := New([]string{
		"/root/a/123_456.jpg",
		"/root/b/123_457.jpg",
	})

	tests := []struct {
		id       string
		wantPath string
		wantOK   bool
	}{
		{"123_456", "/root/a/123_456.jpg", true},
		{"123_457", "/root/b/123_457.jpg", true},
		{"999_999", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		gotPath, gotOK := ix.Lookup(tt.id)
		if gotPath != tt.wantPath || gotOK != tt.wantOK {
			t.Errorf("Lookup(%q) = (%q, %v), want (%q, %v)", tt.id, gotPath, gotOK, tt.wantPath, tt.wantOK)
		}
	}

	if ix.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ix.Len())
	}
}

// TestNewFirstMatchWins verifies that duplicate stems resolve to the first
// path in scan order, preserving the first-suffix-match lookup semantics.
func TestNewFirstMatchWins(t *testing.T) {
	ix := New([]string{
		"/root/a/123_456.jpg",
		"/root/z/123_456.jpg",
	})

	path, ok := ix.Lookup("123_456")
	if !ok {
		t.Fatal("Lookup() should find duplicated stem")
	}
	if path != "/root/a/123_456.jpg" {
		t.Errorf("Lookup() = %q, want first entry in scan order", path)
	}
}

func TestBuildWritesAndClosesScratch(t *testing.T) {
	rootDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "rerun")
	writeFile(t, filepath.Join(rootDir, "123_456.jpg"))

	ix, err := Build(rootDir, outputDir, []string{".jpg"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Output directory is created
	if info, err := os.Stat(outputDir); err != nil || !info.IsDir() {
		t.Fatalf("Build() did not create output directory: %v", err)
	}

	// Scratch file exists during the run and lists the indexed paths
	scratchPath := filepath.Join(outputDir, ScratchFileName)
	if ix.ScratchPath() != scratchPath {
		t.Errorf("ScratchPath() = %q, want %q", ix.ScratchPath(), scratchPath)
	}
	data, err := os.ReadFile(scratchPath)
	if err != nil {
		t.Fatalf("scratch file missing during run: %v", err)
	}
	if !strings.Contains(string(data), "123_456.jpg") {
		t.Errorf("scratch file does not list indexed path: %q", string(data))
	}

	// Close removes the scratch file
	if err := ix.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if _, err := os.Stat(scratchPath); !os.IsNotExist(err) {
		t.Errorf("scratch file still present after Close(): %v", err)
	}

	// Close is idempotent
	if err := ix.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestBuildEmptyRoot(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "rerun")

	ix, err := Build(filepath.Join(t.TempDir(), "nope"), outputDir, []string{".jpg"})
	if err != nil {
		t.Fatalf("Build() should not error on a missing root, got: %v", err)
	}
	defer ix.Close()

	if ix.Len() != 0 {
		t.Errorf("Len() = %d, want 0", ix.Len())
	}
	if _, ok := ix.Lookup("123_456"); ok {
		t.Error("Lookup() on empty index should find nothing")
	}
}

// TestBuildConcurrentRunRejected verifies the output directory lock blocks a
// second run over the same output directory.
func TestBuildConcurrentRunRejected(t *testing.T) {
	rootDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "rerun")
	writeFile(t, filepath.Join(rootDir, "123_456.jpg"))

	ix, err := Build(rootDir, outputDir, []string{".jpg"})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	defer ix.Close()

	if _, err := Build(rootDir, outputDir, []string{".jpg"}); err == nil {
		t.Error("second Build() over the same output directory should fail while the first is open")
	}

	// After Close the output directory is usable again
	if err := ix.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	ix2, err := Build(rootDir, outputDir, []string{".jpg"})
	if err != nil {
		t.Fatalf("Build() after Close() error = %v", err)
	}
	ix2.Close()
}
