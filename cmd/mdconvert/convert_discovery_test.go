package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFilesSingleFile(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "doc.md")
	if err := os.WriteFile(mdPath, []byte("# x"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := discoverFiles(mdPath, "")
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if files[0].OutputBase != filepath.Join(dir, "doc") {
		t.Errorf("OutputBase = %q, want doc next to source", files[0].OutputBase)
	}
}

func TestDiscoverFilesRejectsNonMarkdown(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := discoverFiles(txtPath, "")
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("discoverFiles() = %v, want ErrInvalidExtension", err)
	}
}

func TestDiscoverFilesDirectory(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.MkdirAll(sub, 0o750); err != nil {
		t.Fatal(err)
	}
	for _, p := range []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(sub, "b.markdown"),
		filepath.Join(dir, "ignore.txt"),
	} {
		if err := os.WriteFile(p, []byte("# x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := discoverFiles(dir, "out")
	if err != nil {
		t.Fatalf("discoverFiles() error: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2", len(files))
	}

	// Directory structure mirrors under the output dir.
	bases := map[string]bool{}
	for _, f := range files {
		bases[f.OutputBase] = true
	}
	if !bases[filepath.Join("out", "a")] {
		t.Errorf("missing output base out/a in %v", bases)
	}
	if !bases[filepath.Join("out", "sub", "b")] {
		t.Errorf("missing output base out/sub/b in %v", bases)
	}
}

func TestDiscoverFilesMissingInput(t *testing.T) {
	_, err := discoverFiles(filepath.Join(t.TempDir(), "nope.md"), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("discoverFiles() = %v, want os.ErrNotExist", err)
	}
}

func TestResolveOutputBase(t *testing.T) {
	tests := []struct {
		name         string
		inputPath    string
		outputDir    string
		baseInputDir string
		expected     string
	}{
		{
			name:      "no output dir keeps source dir",
			inputPath: filepath.Join("docs", "readme.md"),
			expected:  filepath.Join("docs", "readme"),
		},
		{
			name:      "explicit pdf target",
			inputPath: "a.md",
			outputDir: filepath.Join("out", "report.pdf"),
			expected:  filepath.Join("out", "report"),
		},
		{
			name:      "explicit docx target",
			inputPath: "a.md",
			outputDir: "report.docx",
			expected:  "report",
		},
		{
			name:      "output directory",
			inputPath: filepath.Join("docs", "a.md"),
			outputDir: "out",
			expected:  filepath.Join("out", "a"),
		},
		{
			name:         "mirrored subdirectory",
			inputPath:    filepath.Join("docs", "sub", "a.md"),
			outputDir:    "out",
			baseInputDir: "docs",
			expected:     filepath.Join("out", "sub", "a"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveOutputBase(tt.inputPath, tt.outputDir, tt.baseInputDir)
			if got != tt.expected {
				t.Errorf("resolveOutputBase() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestRemoteOutputBase(t *testing.T) {
	tests := []struct {
		name      string
		rawURL    string
		outputDir string
		expected  string
	}{
		{
			name:     "url file name",
			rawURL:   "https://example.com/notes/spec.md",
			expected: "spec",
		},
		{
			name:      "url into output dir",
			rawURL:    "https://example.com/spec.md",
			outputDir: "out",
			expected:  filepath.Join("out", "spec"),
		},
		{
			name:     "bare host falls back to document",
			rawURL:   "https://example.com/",
			expected: "document",
		},
		{
			name:      "explicit target wins",
			rawURL:    "https://example.com/spec.md",
			outputDir: "final.pdf",
			expected:  "final",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remoteOutputBase(tt.rawURL, tt.outputDir)
			if got != tt.expected {
				t.Errorf("remoteOutputBase() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestValidateWorkers(t *testing.T) {
	tests := []struct {
		name    string
		workers int
		wantErr bool
	}{
		{"zero means auto", 0, false},
		{"valid count", 4, false},
		{"negative", -1, true},
		{"over maximum", 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWorkers(tt.workers)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateWorkers(%d) = %v, wantErr %v", tt.workers, err, tt.wantErr)
			}
		})
	}
}
