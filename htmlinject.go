package mdconvert

import (
	"context"
	"html"
	"regexp"
	"strconv"
	"strings"
)

// mermaidScriptTag loads the Mermaid runtime so diagram divs render before
// pagination. The init call is synchronous-start; the engine still waits for
// the rendered SVGs with a bounded timeout.
const mermaidScriptTag = `<script src="https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js"></script>
<script>if (window.mermaid) { mermaid.initialize({ startOnLoad: true, securityLevel: 'loose' }); }</script>`

// cssInjector defines the contract for CSS injection into HTML.
type cssInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// cssInjection injects CSS as a <style> block into HTML content.
type cssInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized to prevent breaking out of the style block.
func (s *cssInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" {
		return htmlContent
	}
	if ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes sequences that could close the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// injectMermaidRuntime inserts the Mermaid script tags before </head>.
// Documents without a Mermaid block are left untouched.
func injectMermaidRuntime(htmlContent string) string {
	if !strings.Contains(htmlContent, `class="mermaid"`) {
		return htmlContent
	}
	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + mermaidScriptTag + htmlContent[idx:]
	}
	return mermaidScriptTag + htmlContent
}

// tocData holds TOC configuration for injection.
type tocData struct {
	Title    string
	MaxDepth int
}

// tocInjector defines the contract for TOC injection into HTML.
type tocInjector interface {
	InjectTOC(ctx context.Context, htmlContent string, data *tocData) (string, error)
}

// headingInfo represents one extracted heading.
type headingInfo struct {
	Level int    // 1-6
	ID    string // anchor ID
	Text  string // heading text content
}

// headingTagPattern matches h1-h6 tags with an id attribute.
// Captures: 1=level, 2=id, 3=inner HTML (may contain inline tags).
var headingTagPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)

// htmlTagPattern matches HTML tags for stripping from heading text.
var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTMLTags removes HTML tags from a string and trims whitespace.
func stripHTMLTags(s string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(s, ""))
}

// extractHeadings parses HTML and returns all headings up to maxDepth.
// Headings without IDs are skipped.
func extractHeadings(htmlContent string, maxDepth int) []headingInfo {
	matches := headingTagPattern.FindAllStringSubmatch(htmlContent, -1)
	if len(matches) == 0 {
		return nil
	}

	var headings []headingInfo
	for _, m := range matches {
		level, _ := strconv.Atoi(m[1])
		if level > maxDepth {
			continue
		}
		headings = append(headings, headingInfo{
			Level: level,
			ID:    m[2],
			Text:  stripHTMLTags(m[3]),
		})
	}
	return headings
}

// generateTOC creates the HTML for a numbered table of contents. The nav
// carries the front-matter class so the pagination engine excludes it from
// break scoring and starts the first content heading on a fresh page.
func generateTOC(headings []headingInfo, title string) string {
	if len(headings) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(`<nav class="toc front-matter">`)

	if title != "" {
		buf.WriteString(`<h2 class="toc-title">`)
		buf.WriteString(html.EscapeString(title))
		buf.WriteString(`</h2>`)
	}

	buf.WriteString(`<ol class="toc-list">`)

	counters := [6]int{}
	for _, h := range headings {
		depth := h.Level
		counters[depth-1]++
		for i := depth; i < 6; i++ {
			counters[i] = 0
		}

		var parts []string
		for i := 0; i < depth; i++ {
			if counters[i] > 0 {
				parts = append(parts, strconv.Itoa(counters[i]))
			}
		}

		buf.WriteString(`<li class="toc-depth-`)
		buf.WriteString(strconv.Itoa(depth))
		buf.WriteString(`"><a href="#`)
		buf.WriteString(html.EscapeString(h.ID))
		buf.WriteString(`">`)
		buf.WriteString(strings.Join(parts, "."))
		buf.WriteString(`. `)
		buf.WriteString(html.EscapeString(h.Text))
		buf.WriteString(`</a></li>`)
	}

	buf.WriteString(`</ol></nav>`)
	return buf.String()
}

// tocInjection implements tocInjector.
type tocInjection struct{}

// InjectTOC extracts headings and injects a numbered TOC after <body>.
// If data is nil, returns htmlContent unchanged.
func (t *tocInjection) InjectTOC(ctx context.Context, htmlContent string, data *tocData) (string, error) {
	if data == nil {
		return htmlContent, nil
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	maxDepth := data.MaxDepth
	if maxDepth == 0 {
		maxDepth = DefaultTOCDepth
	}

	headings := extractHeadings(htmlContent, maxDepth)
	tocHTML := generateTOC(headings, data.Title)
	if tocHTML == "" {
		return htmlContent, nil
	}

	lowerHTML := strings.ToLower(htmlContent)
	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		closeIdx := strings.Index(htmlContent[idx:], ">")
		if closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + tocHTML + htmlContent[insertPos:], nil
		}
	}

	return tocHTML + htmlContent, nil
}
