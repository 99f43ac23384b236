package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"scan.JPG", "jpg"},
		{"scan.png", "png"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
	}

	for _, tt := range tests {
		if got := GetFileExtension(tt.filename); got != tt.expected {
			t.Errorf("GetFileExtension(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	if !IsImageFile("scan.jpeg") {
		t.Error("Expected scan.jpeg to be an image file")
	}
	if !IsImageFile("scan.WEBP") {
		t.Error("Expected scan.WEBP to be an image file")
	}
	if IsImageFile("notes.txt") {
		t.Error("Expected notes.txt not to be an image file")
	}
}

func TestOutputFilename(t *testing.T) {
	tests := []struct {
		input    string
		suffix   string
		format   string
		expected string
	}{
		{"/scans/photo.jpg", "", "", "photo.jpg"},
		{"/scans/photo.jpg", "-mode", "", "photo-mode.jpg"},
		{"/scans/photo.png", "", "webp", "photo.webp"},
		{"/scans/photo", "", "", "photo.jpg"},
	}

	for _, tt := range tests {
		got := OutputFilename(tt.input, "/out", tt.suffix, tt.format)
		want := filepath.Join("/out", tt.expected)
		if got != want {
			t.Errorf("OutputFilename(%q, %q, %q) = %q, want %q", tt.input, tt.suffix, tt.format, got, want)
		}
	}
}

func TestListImageFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.jpg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	// Files in subdirectories are not picked up.
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "c.png"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	files, err := ListImageFiles(dir)
	if err != nil {
		t.Fatalf("ListImageFiles failed: %v", err)
	}

	if len(files) != 2 {
		t.Fatalf("Expected 2 image files, got %d: %v", len(files), files)
	}
	for _, f := range files {
		if filepath.Dir(f) != dir {
			t.Errorf("Unexpected file outside the top level: %s", f)
		}
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	if !DirExists(dir) {
		t.Error("Expected directory to exist after EnsureDir")
	}
	// Idempotent on an existing directory.
	if err := EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir on existing dir failed: %v", err)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if FileExists(path) {
		t.Error("Expected FileExists to be false before creation")
	}
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if !FileExists(path) {
		t.Error("Expected FileExists to be true after creation")
	}
	if FileExists(dir) {
		t.Error("Expected FileExists to be false for a directory")
	}
}
