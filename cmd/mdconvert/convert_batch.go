package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	mdconvert "github.com/TimothySu2015/md-converter"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath   string
	OutputPaths []string
	Err         error
	Duration    time.Duration
}

// convertBatch processes files concurrently using the service pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(files) {
		concurrency = len(files)
	}

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			svc := pool.Acquire()
			defer pool.Release(svc)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, svc, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile reads one markdown file and converts it.
func convertFile(ctx context.Context, svc Converter, f FileToConvert, params *conversionParams) ConversionResult {
	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return ConversionResult{
			InputPath: f.InputPath,
			Err:       fmt.Errorf("%w: %v", ErrReadMarkdown, err),
		}
	}
	return convertContent(ctx, svc, f, string(content), params)
}

// convertContent converts markdown content and writes the requested
// outputs next to OutputBase.
func convertContent(ctx context.Context, svc Converter, f FileToConvert, markdown string, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{InputPath: f.InputPath}

	out, err := svc.Convert(ctx, mdconvert.Input{
		Markdown: markdown,
		Format:   params.format,
		CSS:      params.css,
		Page:     params.page,
		Footer:   params.footer,
		TOC:      params.toc,
		HTMLOnly: params.htmlOnly,
	})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	result.OutputPaths, result.Err = writeOutputs(f.OutputBase, out, params.htmlOnly)
	result.Duration = time.Since(start)
	return result
}

// writeOutputs persists whichever artifacts the conversion produced.
func writeOutputs(outputBase string, out *mdconvert.Result, htmlOnly bool) ([]string, error) {
	if err := os.MkdirAll(filepath.Dir(outputBase), dirPermissions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}

	var written []string
	write := func(ext string, data []byte) error {
		path := outputBase + ext
		if err := os.WriteFile(path, data, filePermissions); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		written = append(written, path)
		return nil
	}

	if htmlOnly {
		if err := write(".html", out.HTML); err != nil {
			return written, err
		}
		return written, nil
	}

	if out.PDF != nil {
		if err := write(".pdf", out.PDF); err != nil {
			return written, err
		}
	}
	if out.DOCX != nil {
		if err := write(".docx", out.DOCX); err != nil {
			return written, err
		}
	}
	return written, nil
}
