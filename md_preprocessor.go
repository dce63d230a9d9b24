package mdconvert

import (
	"context"
	"regexp"
	"strings"
)

// Precompiled patterns for the preprocessing passes.
var (
	crlfOrCR           = regexp.MustCompile(`\r\n?`)
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)
	fencedCodeBlock    = regexp.MustCompile("^(```|~~~)")
	headerPattern      = regexp.MustCompile(`^#{1,6}\s`)
	listItemPattern    = regexp.MustCompile(`^([-*+]|[0-9]+\.)\s`)
	indentedCodeBlock  = regexp.MustCompile(`^(    |\t)`)
	mermaidFenceOpen   = regexp.MustCompile("^```\\s*mermaid\\s*$")

	// CJK/ASCII boundary patterns for typographic spacing.
	cjkThenASCII = regexp.MustCompile(`([\p{Han}\p{Hangul}\p{Hiragana}\p{Katakana}])([A-Za-z0-9])`)
	asciiThenCJK = regexp.MustCompile(`([A-Za-z0-9])([\p{Han}\p{Hangul}\p{Hiragana}\p{Katakana}])`)
)

// markdownPreprocessor abstracts Markdown preprocessing.
type markdownPreprocessor interface {
	PreprocessMarkdown(ctx context.Context, content string) string
}

// cjkMarkdownPreprocessor normalizes Markdown for CJK documents before the
// HTML conversion.
type cjkMarkdownPreprocessor struct{}

// PreprocessMarkdown applies all transformations in order: line endings
// first, then structural blank-line fixes, then Mermaid extraction and CJK
// spacing, then blank-line compression. Multiple passes keep each rule
// simple; fine for typical document sizes.
func (p *cjkMarkdownPreprocessor) PreprocessMarkdown(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}
	content = normalizeLineEndings(content)
	content = ensureBlankBeforeHeaders(content)
	content = ensureBlankBeforeLists(content)
	content = extractMermaidBlocks(content)
	content = addCJKSpacing(content)
	content = compressBlankLines(content)
	return content
}

// normalizeLineEndings converts \r\n and \r to \n.
func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// compressBlankLines limits consecutive blank lines to 2 maximum.
func compressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// extractMermaidBlocks converts ```mermaid fences into <div class="mermaid">
// blocks so the browser-side Mermaid runtime renders them instead of Chroma
// highlighting them as code.
func extractMermaidBlocks(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	inMermaid := false
	for _, line := range lines {
		switch {
		case !inMermaid && mermaidFenceOpen.MatchString(line):
			inMermaid = true
			result = append(result, `<div class="mermaid">`)
		case inMermaid && strings.HasPrefix(line, "```"):
			inMermaid = false
			result = append(result, "</div>")
		default:
			result = append(result, line)
		}
	}
	// Unterminated fence: close the div so the HTML stays well-formed.
	if inMermaid {
		result = append(result, "</div>")
	}
	return strings.Join(result, "\n")
}

// addCJKSpacing inserts a space at CJK/ASCII boundaries ("中文abc中文"
// becomes "中文 abc 中文"). Fenced and indented code blocks are left alone.
func addCJKSpacing(content string) string {
	lines := strings.Split(content, "\n")

	inCodeBlock := false
	for i, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock || indentedCodeBlock.MatchString(line) {
			continue
		}
		line = cjkThenASCII.ReplaceAllString(line, "$1 $2")
		line = asciiThenCJK.ReplaceAllString(line, "$1 $2")
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// ensureBlankBeforeHeaders adds a blank line before ATX headers if the
// previous line is non-empty. Skips content inside code blocks.
func ensureBlankBeforeHeaders(content string) string {
	return processLinesOutsideCode(content, func(prev, current string) bool {
		return headerPattern.MatchString(current) && !isBlankLine(prev)
	})
}

// ensureBlankBeforeLists adds a blank line before list items when the
// previous line is plain text. Skips content inside code blocks.
func ensureBlankBeforeLists(content string) string {
	return processLinesOutsideCode(content, func(prev, current string) bool {
		return listItemPattern.MatchString(current) &&
			!isBlankLine(prev) &&
			!listItemPattern.MatchString(prev) &&
			!headerPattern.MatchString(prev)
	})
}

// processLinesOutsideCode walks lines and inserts a blank line before any
// line for which needsBlank(prev, current) reports true, skipping fenced and
// indented code blocks.
func processLinesOutsideCode(content string, needsBlank func(prev, current string) bool) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	inCodeBlock := false
	var previousLine string

	for i, line := range lines {
		if fencedCodeBlock.MatchString(line) {
			inCodeBlock = !inCodeBlock
		}

		if i == 0 || inCodeBlock || indentedCodeBlock.MatchString(line) {
			result = append(result, line)
			previousLine = line
			continue
		}

		if needsBlank(previousLine, line) {
			result = append(result, "")
		}
		result = append(result, line)

		// Compare against the original line next iteration, not any
		// inserted blank.
		previousLine = line
	}

	return strings.Join(result, "\n")
}

// isBlankLine returns true if the line is empty or whitespace only.
func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
