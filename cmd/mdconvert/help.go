package main

import (
	"fmt"
	"io"
)

// printUsage writes the CLI usage text.
func printUsage(w io.Writer) {
	fmt.Fprintf(w, `mdconvert - Markdown to PDF/DOCX converter with smart pagination

Usage:
  mdconvert [flags] <input>

Input:
  A markdown file, a directory of markdown files, or an http(s) URL.

Common flags:
  -o, --output PATH       output file or directory
  -f, --format FORMAT     pdf (default), docx, or both
  -s, --style FILE        extra CSS appended to the base stylesheet
  -c, --config NAME       config file name or path
  -w, --workers N         parallel workers (0 = auto)
  -t, --timeout DUR       per-document timeout (e.g., 30s, 2m)
  -q, --quiet             only show errors
  -v, --verbose           show detailed progress

Page flags:
  -p, --page-size SIZE    a4 (default), letter, legal
      --orientation O     portrait (default), landscape
      --margin N          page margin in inches (0.25-3.0)

Footer flags:
      --footer-page-number  show page numbers
      --footer-text TEXT    custom footer text
      --footer-position P   left, center, right (default: right)
      --no-footer           disable footer

TOC flags:
      --toc               generate a table of contents
      --toc-title TEXT    TOC heading
      --toc-depth N       max heading depth (1-6, default: 3)

Layout flags:
      --no-h2-breaks      do not start level-2 sections on a new page
      --layout-debug      annotate breaks with decision geometry

Pagination thresholds are tuned via environment variables:
  MDCONVERT_MIN_REMAINING_SPACE, MDCONVERT_LARGE_CONTENT_THRESHOLD,
  MDCONVERT_HEADING_MIN_SPACE, MDCONVERT_FORCE_BREAK_OFFSET,
  MDCONVERT_OVERFLOW_TOLERANCE, MDCONVERT_BREAK_BEFORE_H2

Examples:
  mdconvert report.md
  mdconvert -f both -o dist/ docs/
  mdconvert --toc --footer-page-number https://example.com/spec.md
`)
}
