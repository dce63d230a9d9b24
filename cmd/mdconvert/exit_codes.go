package main

import (
	"errors"
	"os"

	mdconvert "github.com/TimothySu2015/md-converter"
	"github.com/TimothySu2015/md-converter/internal/config"
	"github.com/TimothySu2015/md-converter/internal/fetch"
)

// Exit codes for the mdconvert CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, fetch failure
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, mdconvert.ErrBrowserConnect) ||
		errors.Is(err, mdconvert.ErrPageCreate) ||
		errors.Is(err, mdconvert.ErrPageLoad) ||
		errors.Is(err, mdconvert.ErrPDFGeneration) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, fetch.ErrFetchFailed) ||
		errors.Is(err, fetch.ErrResponseTooLarge) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, mdconvert.ErrEmptyMarkdown) ||
		errors.Is(err, mdconvert.ErrInvalidFormat) ||
		errors.Is(err, mdconvert.ErrInvalidPageSize) ||
		errors.Is(err, mdconvert.ErrInvalidOrientation) ||
		errors.Is(err, mdconvert.ErrInvalidMargin) ||
		errors.Is(err, mdconvert.ErrInvalidFooterPosition) ||
		errors.Is(err, mdconvert.ErrInvalidTOCDepth) ||
		errors.Is(err, fetch.ErrInvalidURL) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) {
		return ExitUsage
	}

	return ExitGeneral
}
