// Package mdconvert converts Markdown documents to paginated PDF and DOCX
// files, preserving CJK typography, Mermaid diagrams, and highlighted code.
//
// # Quick Start
//
// Create a service, convert markdown, and close when done:
//
//	svc := mdconvert.New()
//	defer svc.Close()
//
//	result, err := svc.Convert(ctx, mdconvert.Input{
//	    Markdown: "# 標題\n\n內文",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("output.pdf", result.PDF, 0644)
//
// The result also carries the intermediate HTML (result.HTML) and, when
// Input.Format is "docx" or "both", the DOCX bytes (result.DOCX).
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing (line normalization, CJK/ASCII spacing,
//     Mermaid fence extraction)
//  2. Markdown to HTML via Goldmark (GFM, CJK line breaking, Chroma
//     syntax highlighting)
//  3. HTML injection (base stylesheet, custom CSS, numbered TOC)
//  4. Smart pagination inside headless Chrome: headings are bound to their
//     following diagram/code/table, page breaks are forced where content
//     would straddle a page, oversized diagrams are scaled down to fit
//  5. PDF export via Chrome's print pipeline, and/or DOCX export built
//     from the generated HTML
//
// # Pagination Tuning
//
// The break engine's thresholds are read from MDCONVERT_* environment
// variables (MDCONVERT_LARGE_CONTENT_THRESHOLD, MDCONVERT_HEADING_MIN_SPACE,
// MDCONVERT_FORCE_BREAK_OFFSET, MDCONVERT_OVERFLOW_TOLERANCE,
// MDCONVERT_MIN_REMAINING_SPACE, MDCONVERT_BREAK_BEFORE_H2,
// MDCONVERT_LAYOUT_DEBUG). Unparseable values silently fall back to the
// defaults; tuning must never abort a conversion.
//
// # Parallel Processing
//
// For batch conversion, use ServicePool to manage multiple browser
// instances:
//
//	pool := mdconvert.NewServicePool(4)
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//	result, err := svc.Convert(ctx, input)
//
// # Browser Requirements
//
// PDF generation requires Chrome/Chromium. The go-rod library downloads a
// managed Chromium on first run. For containers and CI set ROD_NO_SANDBOX=1;
// use ROD_BROWSER_BIN to point at a pre-installed binary.
package mdconvert
