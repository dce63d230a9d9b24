package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	mdconvert "github.com/TimothySu2015/md-converter"
	"github.com/TimothySu2015/md-converter/internal/config"
	"github.com/TimothySu2015/md-converter/internal/fetch"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput      = errors.New("no input specified")
	ErrReadCSS      = errors.New("failed to read CSS file")
	ErrReadMarkdown = errors.New("failed to read markdown file")
	ErrWriteOutput  = errors.New("failed to write output file")
)

// Converter is the interface for the conversion service.
type Converter interface {
	Convert(ctx context.Context, input mdconvert.Input) (*mdconvert.Result, error)
}

// Compile-time interface implementation check.
var _ Converter = (*mdconvert.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire() Converter
	Release(Converter)
	Size() int
}

// poolAdapter wraps the concrete service pool behind the Pool interface.
type poolAdapter struct {
	pool *mdconvert.ServicePool
}

func (a *poolAdapter) Acquire() Converter  { return a.pool.Acquire() }
func (a *poolAdapter) Release(c Converter) { a.pool.Release(c.(*mdconvert.Service)) }
func (a *poolAdapter) Size() int           { return a.pool.Size() }

// conversionParams groups settings shared across batch/file conversion,
// merged from flags, environment, and config file.
type conversionParams struct {
	format   string
	css      string
	htmlOnly bool
	page     *mdconvert.PageSettings
	footer   *mdconvert.Footer
	toc      *mdconvert.TOC
}

// runConvert orchestrates one CLI invocation.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, envCfg *envConfig, pool Pool, env *Environment) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}

	params, err := buildParams(flags, envCfg, env.Config)
	if err != nil {
		return err
	}

	inputPath := resolveInput(positionalArgs, envCfg, env.Config)
	if inputPath == "" {
		return fmt.Errorf("%w: pass a markdown file, directory, or URL", ErrNoInput)
	}

	outputDir := flags.output
	if outputDir == "" {
		outputDir = envCfg.OutputDir
	}
	if outputDir == "" {
		outputDir = env.Config.Output.DefaultDir
	}

	if fetch.IsRemote(inputPath) {
		return convertRemote(ctx, pool, inputPath, outputDir, params, flags, env)
	}

	files, err := discoverFiles(inputPath, outputDir)
	if err != nil {
		return err
	}

	results := convertBatch(ctx, pool, files, params)
	return reportResults(results, flags, env)
}

// convertRemote fetches a URL and converts it as a single document.
func convertRemote(ctx context.Context, pool Pool, rawURL, outputDir string, params *conversionParams, flags *convertFlags, env *Environment) error {
	if flags.common.verbose {
		fmt.Fprintf(env.Stderr, "Fetching %s\n", rawURL)
	}

	content, err := fetch.New().Fetch(ctx, rawURL)
	if err != nil {
		return err
	}

	file := FileToConvert{
		InputPath:  rawURL,
		OutputBase: remoteOutputBase(rawURL, outputDir),
	}

	svc := pool.Acquire()
	defer pool.Release(svc)

	result := convertContent(ctx, svc, file, string(content), params)
	return reportResults([]ConversionResult{result}, flags, env)
}

// resolveInput picks the input path from args, environment, or config.
func resolveInput(args []string, envCfg *envConfig, cfg *config.Config) string {
	if len(args) > 0 {
		return args[0]
	}
	if envCfg.InputDir != "" {
		return envCfg.InputDir
	}
	return cfg.Input.DefaultDir
}

// buildParams merges flags, environment, and config file into conversion
// parameters. Flags win over environment, environment over file.
func buildParams(flags *convertFlags, envCfg *envConfig, cfg *config.Config) (*conversionParams, error) {
	params := &conversionParams{
		format:   firstNonEmpty(flags.mode.format, envCfg.Format, cfg.Output.Format),
		htmlOnly: flags.mode.htmlOnly,
	}

	css, err := loadStylesheet(firstNonEmpty(flags.style, envCfg.Style, cfg.CSS.Path))
	if err != nil {
		return nil, err
	}
	params.css = css

	if page := mergePage(&flags.page, envCfg, &cfg.Page); page != nil {
		params.page = page
	}
	if footer := mergeFooter(&flags.footer, &cfg.Footer); footer != nil {
		params.footer = footer
	}
	if toc := mergeTOC(&flags.toc, &cfg.TOC); toc != nil {
		params.toc = toc
	}

	return params, nil
}

// loadStylesheet reads the extra CSS file if one was configured.
func loadStylesheet(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided style path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

// mergePage combines page settings; returns nil when nothing was set so
// the library applies its defaults.
func mergePage(f *pageFlags, envCfg *envConfig, c *config.PageConfig) *mdconvert.PageSettings {
	size := firstNonEmpty(f.size, envCfg.PageSize, c.Size)
	orientation := firstNonEmpty(f.orientation, c.Orientation)
	margin := f.margin
	if margin == 0 {
		margin = c.Margin
	}

	if size == "" && orientation == "" && margin == 0 {
		return nil
	}

	page := mdconvert.DefaultPageSettings()
	if size != "" {
		page.Size = strings.ToLower(size)
	}
	if orientation != "" {
		page.Orientation = strings.ToLower(orientation)
	}
	if margin != 0 {
		page.Margin = margin
	}
	return page
}

// mergeFooter combines footer settings. The --no-footer flag wins over
// everything.
func mergeFooter(f *footerFlags, c *config.FooterConfig) *mdconvert.Footer {
	if f.disabled {
		return nil
	}

	fromFlags := f.pageNumber || f.text != "" || f.position != ""
	if !fromFlags && !c.Enabled {
		return nil
	}

	footer := &mdconvert.Footer{
		Position:       firstNonEmpty(f.position, c.Position),
		ShowPageNumber: f.pageNumber || c.ShowPageNumber,
		Text:           firstNonEmpty(f.text, c.Text),
	}
	return footer
}

// mergeTOC combines TOC settings. The --no-toc flag wins over everything.
func mergeTOC(f *tocFlags, c *config.TOCConfig) *mdconvert.TOC {
	if f.disabled {
		return nil
	}

	fromFlags := f.enabled || f.title != "" || f.maxDepth != 0
	if !fromFlags && !c.Enabled {
		return nil
	}

	return &mdconvert.TOC{
		Title:    firstNonEmpty(f.title, c.Title),
		MaxDepth: firstNonZero(f.maxDepth, c.MaxDepth),
	}
}

// reportResults prints per-file outcomes and returns the first error.
func reportResults(results []ConversionResult, flags *convertFlags, env *Environment) error {
	var firstErr error
	failed := 0

	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(env.Stderr, "error: %s: %v\n", r.InputPath, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		if !flags.common.quiet {
			for _, out := range r.OutputPaths {
				fmt.Fprintf(env.Stdout, "%s -> %s (%.1fs)\n", r.InputPath, out, r.Duration.Seconds())
			}
		}
	}

	if failed > 0 {
		fmt.Fprintf(env.Stderr, "%d of %d conversions failed\n", failed, len(results))
	}
	return firstErr
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstNonZero returns the first non-zero int.
func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
