package mdconvert

import (
	"fmt"
	"strings"
)

// defaultFontFamily is the base font stack: Latin first, then Traditional
// Chinese fallbacks the print pipeline can resolve.
const defaultFontFamily = `'Noto Sans', 'Noto Sans TC', 'Microsoft JhengHei', 'PingFang TC', sans-serif`

// monoFontFamily is the code font stack.
const monoFontFamily = `'JetBrains Mono', 'Noto Sans Mono CJK TC', monospace`

// Marker vocabulary recognized by the layout engine and the print CSS.
// These class names are the contract between the Go-side pagination engine
// and the in-page mutations it applies.
const (
	classForceBreak   = "force-page-break"
	classHeadingGroup = "heading-group"
	classFrontMatter  = "front-matter"
	fitScalePrefix    = "fit-scale-"
)

// buildBaseCSS returns the stylesheet shared by every conversion: CJK
// typography, code block styling, and the print rules that honor the
// pagination engine's markers.
func buildBaseCSS() string {
	var buf strings.Builder

	buf.WriteString(fmt.Sprintf(`
body {
  font-family: %s;
  font-size: 12pt;
  line-height: 1.7;
  color: #1a1a1a;
  max-width: 100%%;
  margin: 0;
}
h1, h2, h3, h4, h5, h6 {
  line-height: 1.4;
  break-after: avoid;
  page-break-after: avoid;
}
pre, code {
  font-family: %s;
  font-size: 10pt;
}
pre {
  padding: 0.8em;
  background: #f6f8fa;
  border-radius: 4px;
  overflow-x: hidden;
  white-space: pre-wrap;
  word-break: break-all;
  break-inside: avoid;
  page-break-inside: avoid;
}
table {
  border-collapse: collapse;
  width: 100%%;
  break-inside: avoid;
  page-break-inside: avoid;
}
th, td {
  border: 1px solid #d0d7de;
  padding: 0.4em 0.8em;
}
blockquote {
  margin: 0;
  padding: 0.2em 1em;
  border-left: 4px solid #d0d7de;
  color: #57606a;
  break-inside: avoid;
  page-break-inside: avoid;
}
img, .mermaid {
  max-width: 100%%;
  break-inside: avoid;
  page-break-inside: avoid;
}
`, defaultFontFamily, monoFontFamily))

	// Pagination marker rules. The engine adds these classes from Go; the
	// print pipeline turns them into real page breaks.
	buf.WriteString(`
.force-page-break {
  break-before: page;
  page-break-before: always;
}
.heading-group {
  break-inside: avoid;
  page-break-inside: avoid;
}
.front-matter {
  break-after: page;
  page-break-after: always;
}
.diagram-placeholder {
  width: 100%;
  height: 300px;
  border: 1px dashed #d0d7de;
  color: #57606a;
  display: flex;
  align-items: center;
  justify-content: center;
}
`)

	buf.WriteString(buildFitScaleCSS())
	return buf.String()
}

// buildFitScaleCSS emits one rule per discrete scale step. Chrome's zoom
// affects layout (unlike transform), so the shrunken box participates in
// pagination.
func buildFitScaleCSS() string {
	var buf strings.Builder
	for pct := 30; pct < 100; pct += 5 {
		buf.WriteString(fmt.Sprintf(".%s%d { zoom: %.2f; }\n", fitScalePrefix, pct, float64(pct)/100))
	}
	return buf.String()
}

// buildFooterTemplate generates the HTML template for Chrome's native
// footer. Supports pageNumber/totalPages placeholders via CSS classes.
func buildFooterTemplate(f *Footer) string {
	if f == nil {
		return "<span></span>"
	}

	var parts []string
	if f.ShowPageNumber {
		parts = append(parts, `<span class="pageNumber"></span> / <span class="totalPages"></span>`)
	}
	if f.Text != "" {
		parts = append(parts, escapeHTMLText(f.Text))
	}
	if len(parts) == 0 {
		return "<span></span>"
	}

	textAlign := "right"
	switch strings.ToLower(f.Position) {
	case "left":
		textAlign = "left"
	case "center":
		textAlign = "center"
	}

	return fmt.Sprintf(
		`<div style="font-size: 9px; font-family: %s; color: #888; width: 100%%; text-align: %s; padding: 0 0.5in;">%s</div>`,
		defaultFontFamily, textAlign, strings.Join(parts, " - "))
}

// escapeHTMLText escapes text for embedding in the footer template.
func escapeHTMLText(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
