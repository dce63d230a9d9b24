package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	mdconvert "github.com/TimothySu2015/md-converter"
	"github.com/TimothySu2015/md-converter/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert represents a single document to process. OutputBase is the
// output path without extension; the writer appends .pdf/.docx/.html
// depending on the requested formats.
type FileToConvert struct {
	InputPath  string
	OutputBase string
}

// discoverFiles finds all markdown files to convert.
func discoverFiles(inputPath, outputDir string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.HasMarkdownExtension(inputPath) {
			return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(inputPath))
		}
		return []FileToConvert{{
			InputPath:  inputPath,
			OutputBase: resolveOutputBase(inputPath, outputDir, ""),
		}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || !fileutil.HasMarkdownExtension(path) {
			return nil
		}
		files = append(files, FileToConvert{
			InputPath:  path,
			OutputBase: resolveOutputBase(path, outputDir, inputPath),
		})
		return nil
	})

	return files, err
}

// resolveOutputBase determines the extension-less output path for a
// markdown file. A directory input mirrors its structure under outputDir.
func resolveOutputBase(inputPath, outputDir, baseInputDir string) string {
	ext := filepath.Ext(inputPath)
	base := strings.TrimSuffix(filepath.Base(inputPath), ext)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base)
	}

	// An explicit file target pins the base name.
	if targetExt := filepath.Ext(outputDir); targetExt == ".pdf" || targetExt == ".docx" || targetExt == ".html" {
		return strings.TrimSuffix(outputDir, targetExt)
	}

	if baseInputDir != "" {
		if relPath, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// remoteOutputBase derives an output base from the URL's last path segment.
func remoteOutputBase(rawURL, outputDir string) string {
	name := "document"
	if u, err := url.Parse(rawURL); err == nil {
		if seg := filepath.Base(u.Path); seg != "" && seg != "/" && seg != "." {
			name = strings.TrimSuffix(seg, filepath.Ext(seg))
		}
	}
	if outputDir == "" {
		return name
	}
	if targetExt := filepath.Ext(outputDir); targetExt == ".pdf" || targetExt == ".docx" || targetExt == ".html" {
		return strings.TrimSuffix(outputDir, targetExt)
	}
	return filepath.Join(outputDir, name)
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mdconvert.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mdconvert.MaxPoolSize)
	}
	return nil
}
