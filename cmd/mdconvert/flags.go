package main

import (
	"os"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across modes.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page layout flags.
type pageFlags struct {
	size        string
	orientation string
	margin      float64
}

// footerFlags holds footer-related flags.
type footerFlags struct {
	position   string
	text       string
	pageNumber bool
	disabled   bool
}

// tocFlags holds table of contents flags.
type tocFlags struct {
	enabled  bool
	title    string
	maxDepth int
	disabled bool
}

// layoutFlags holds pagination toggles. The numeric thresholds are tuned
// via MDCONVERT_* environment variables, not flags.
type layoutFlags struct {
	noH2Breaks  bool
	layoutDebug bool
}

// outputFlags holds output mode flags.
type outputFlags struct {
	format   string
	htmlOnly bool
}

// convertFlags holds all flags for a conversion run.
type convertFlags struct {
	common  commonFlags
	output  string
	style   string
	workers int
	timeout string
	page    pageFlags
	footer  footerFlags
	toc     tocFlags
	layout  layoutFlags
	mode    outputFlags
	version bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed progress")
}

// addPageFlags adds page layout flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.size, "page-size", "p", "", "page size: a4, letter, legal")
	fs.StringVar(&f.orientation, "orientation", "", "page orientation: portrait, landscape")
	fs.Float64Var(&f.margin, "margin", 0, "page margin in inches (0.25-3.0)")
}

// addFooterFlags adds footer flags to a FlagSet.
func addFooterFlags(fs *flag.FlagSet, f *footerFlags) {
	fs.StringVar(&f.position, "footer-position", "", "footer position: left, center, right")
	fs.StringVar(&f.text, "footer-text", "", "custom footer text")
	fs.BoolVar(&f.pageNumber, "footer-page-number", false, "show page numbers in footer")
	fs.BoolVar(&f.disabled, "no-footer", false, "disable footer")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "generate a table of contents")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.maxDepth, "toc-depth", 0, "max heading depth for TOC (1-6, default: 3)")
	fs.BoolVar(&f.disabled, "no-toc", false, "disable table of contents")
}

// addLayoutFlags adds pagination flags to a FlagSet.
func addLayoutFlags(fs *flag.FlagSet, f *layoutFlags) {
	fs.BoolVar(&f.noH2Breaks, "no-h2-breaks", false, "do not start every level-2 section on a new page")
	fs.BoolVar(&f.layoutDebug, "layout-debug", false, "annotate page breaks with decision geometry")
}

// addOutputFlags adds output mode flags to a FlagSet.
func addOutputFlags(fs *flag.FlagSet, f *outputFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "output format: pdf, docx, both")
	fs.BoolVar(&f.htmlOnly, "html-only", false, "output HTML only, skip PDF/DOCX")
}

// parseFlags parses command-line flags and returns positional args.
func parseFlags(args []string) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("mdconvert", flag.ContinueOnError)
	f := &convertFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.StringVarP(&f.style, "style", "s", "", "extra CSS file appended to the base stylesheet")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-document timeout (e.g., 30s, 2m)")
	fs.BoolVar(&f.version, "version", false, "print version and exit")

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addFooterFlags(fs, &f.footer)
	addTOCFlags(fs, &f.toc)
	addLayoutFlags(fs, &f.layout)
	addOutputFlags(fs, &f.mode)

	fs.Usage = func() { printUsage(os.Stderr) }

	if err := fs.Parse(args[1:]); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}
