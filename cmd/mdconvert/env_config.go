package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables. Provides
// CI/CD-friendly overrides without requiring YAML files. Precedence is
// flags > environment > config file > defaults.
type envConfig struct {
	ConfigPath string        // MDCONVERT_CONFIG: config file path
	Style      string        // MDCONVERT_STYLE: extra CSS file path
	Timeout    time.Duration // MDCONVERT_TIMEOUT: per-document timeout
	InputDir   string        // MDCONVERT_INPUT_DIR: default input directory
	OutputDir  string        // MDCONVERT_OUTPUT_DIR: default output directory
	Format     string        // MDCONVERT_FORMAT: pdf, docx, both
	PageSize   string        // MDCONVERT_PAGE_SIZE: a4, letter, legal
	Workers    int           // MDCONVERT_WORKERS: parallel workers
}

// knownEnvVars lists valid MDCONVERT_* environment variables. Used to
// detect typos and warn users about unknown variables. The layout tuning
// variables are consumed inside the conversion library but belong to the
// same namespace.
var knownEnvVars = map[string]bool{
	"MDCONVERT_CONFIG":     true,
	"MDCONVERT_STYLE":      true,
	"MDCONVERT_TIMEOUT":    true,
	"MDCONVERT_INPUT_DIR":  true,
	"MDCONVERT_OUTPUT_DIR": true,
	"MDCONVERT_FORMAT":     true,
	"MDCONVERT_PAGE_SIZE":  true,
	"MDCONVERT_WORKERS":    true,
	// Pagination tuning, read by the layout engine.
	"MDCONVERT_MIN_REMAINING_SPACE":     true,
	"MDCONVERT_LARGE_CONTENT_THRESHOLD": true,
	"MDCONVERT_HEADING_MIN_SPACE":       true,
	"MDCONVERT_FORCE_BREAK_OFFSET":      true,
	"MDCONVERT_OVERFLOW_TOLERANCE":      true,
	"MDCONVERT_BREAK_BEFORE_H2":         true,
	"MDCONVERT_LAYOUT_DEBUG":            true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("MDCONVERT_CONFIG"),
		Style:      os.Getenv("MDCONVERT_STYLE"),
		InputDir:   os.Getenv("MDCONVERT_INPUT_DIR"),
		OutputDir:  os.Getenv("MDCONVERT_OUTPUT_DIR"),
		Format:     os.Getenv("MDCONVERT_FORMAT"),
		PageSize:   os.Getenv("MDCONVERT_PAGE_SIZE"),
	}

	if timeout := os.Getenv("MDCONVERT_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	if workers := os.Getenv("MDCONVERT_WORKERS"); workers != "" {
		if w, err := strconv.Atoi(workers); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized MDCONVERT_* variables.
// Helps catch typos like MDCONVERT_FROMAT instead of MDCONVERT_FORMAT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, "MDCONVERT_") {
			continue
		}
		name, _, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (check spelling)\n", name)
		}
	}
}
