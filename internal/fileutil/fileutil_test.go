package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	t.Run("creates file with content", func(t *testing.T) {
		path, cleanup, err := WriteTempFile("hello", "html")
		if err != nil {
			t.Fatalf("WriteTempFile() error = %v", err)
		}
		defer cleanup()

		data, err := os.ReadFile(path) // #nosec G304 -- test-created path
		if err != nil {
			t.Fatalf("reading temp file: %v", err)
		}
		if string(data) != "hello" {
			t.Errorf("content = %q, want %q", data, "hello")
		}
		if !strings.HasSuffix(path, ".html") {
			t.Errorf("path = %q, want .html suffix", path)
		}
	})

	t.Run("cleanup removes file", func(t *testing.T) {
		path, cleanup, err := WriteTempFile("x", "html")
		if err != nil {
			t.Fatalf("WriteTempFile() error = %v", err)
		}
		cleanup()
		if FileExists(path) {
			t.Error("file still exists after cleanup")
		}
	})

	t.Run("empty extension rejected", func(t *testing.T) {
		_, _, err := WriteTempFile("x", "")
		if !errors.Is(err, ErrExtensionEmpty) {
			t.Errorf("error = %v, want ErrExtensionEmpty", err)
		}
	})

	t.Run("path traversal extension rejected", func(t *testing.T) {
		_, _, err := WriteTempFile("x", "../evil")
		if !errors.Is(err, ErrExtensionPathTraversal) {
			t.Errorf("error = %v, want ErrExtensionPathTraversal", err)
		}
	})
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.md")
	if FileExists(path) {
		t.Error("FileExists = true for missing file")
	}
	if err := os.WriteFile(path, []byte("x"), 0600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if !FileExists(path) {
		t.Error("FileExists = false for existing file")
	}
	if FileExists(dir) {
		t.Error("FileExists = true for directory")
	}
}

func TestHasMarkdownExtension(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.md", true},
		{"notes.markdown", true},
		{"NOTES.MD", true},
		{"notes.txt", false},
		{"md", false},
	}
	for _, tt := range tests {
		if got := HasMarkdownExtension(tt.path); got != tt.want {
			t.Errorf("HasMarkdownExtension(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
