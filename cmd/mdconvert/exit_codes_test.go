package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	mdconvert "github.com/TimothySu2015/md-converter"
	"github.com/TimothySu2015/md-converter/internal/config"
	"github.com/TimothySu2015/md-converter/internal/fetch"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"browser connect", mdconvert.ErrBrowserConnect, ExitBrowser},
		{"page load", mdconvert.ErrPageLoad, ExitBrowser},
		{"pdf generation", mdconvert.ErrPDFGeneration, ExitBrowser},
		{"file not found", os.ErrNotExist, ExitIO},
		{"read markdown", ErrReadMarkdown, ExitIO},
		{"write output", ErrWriteOutput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"fetch failed", fetch.ErrFetchFailed, ExitIO},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty markdown", mdconvert.ErrEmptyMarkdown, ExitUsage},
		{"invalid page size", mdconvert.ErrInvalidPageSize, ExitUsage},
		{"invalid format", mdconvert.ErrInvalidFormat, ExitUsage},
		{"invalid URL", fetch.ErrInvalidURL, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"invalid worker count", ErrInvalidWorkerCount, ExitUsage},
		{"unknown error", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.expected {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeForWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("converting doc.md: %w", mdconvert.ErrBrowserConnect)
	if got := exitCodeFor(wrapped); got != ExitBrowser {
		t.Errorf("exitCodeFor(wrapped) = %d, want %d", got, ExitBrowser)
	}
}
