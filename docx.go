package mdconvert

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// docxConverter abstracts HTML to DOCX conversion.
type docxConverter interface {
	ToDOCX(ctx context.Context, htmlContent string) ([]byte, error)
}

// Compile-time interface check.
var _ docxConverter = (*godocxConverter)(nil)

// Heading run sizes in half-points, indexed by level-1.
var headingSizes = [6]string{"36", "32", "28", "26", "24", "24"}

// bodySize is the default run size in half-points.
const bodySize = "24"

// codeColor is the run color for code text.
const codeColor = "C7254E"

// godocxConverter builds a DOCX document from the generated HTML.
// Pagination markers are ignored: Word reflows text itself, so only the
// document structure (headings, paragraphs, code, quotes, lists, links)
// carries over.
type godocxConverter struct{}

func newDOCXConverter() *godocxConverter {
	return &godocxConverter{}
}

// ToDOCX parses the HTML document and emits DOCX bytes.
func (c *godocxConverter) ToDOCX(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("%w: parsing HTML: %v", ErrDOCXGeneration, err)
	}

	doc := docx.New().WithDefaultTheme()

	body := findElement(root, "body")
	if body == nil {
		body = root
	}
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		emitBlock(doc, child)
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDOCXGeneration, err)
	}
	return buf.Bytes(), nil
}

// emitBlock translates one block-level HTML node into DOCX paragraphs.
func emitBlock(doc *docx.Docx, n *html.Node) {
	if n.Type != html.ElementNode {
		return
	}

	switch n.Data {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level := int(n.Data[1] - '0')
		para := doc.AddParagraph()
		para.AddText(textContent(n)).Size(headingSizes[level-1]).Bold()

	case "p":
		para := doc.AddParagraph()
		emitInline(para, n, runStyle{})

	case "pre":
		// One paragraph per line keeps Word from merging the block.
		for _, line := range strings.Split(strings.TrimRight(textContent(n), "\n"), "\n") {
			para := doc.AddParagraph()
			para.AddText(line).Size("20").Color(codeColor)
		}

	case "blockquote":
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode {
				emitBlock(doc, child)
			} else if t := strings.TrimSpace(collectText(child)); t != "" {
				doc.AddParagraph().AddText(t).Italic()
			}
		}

	case "ul", "ol":
		emitList(doc, n, 0)

	case "table":
		emitTable(doc, n)

	case "nav":
		// TOC front matter: Word builds its own TOC, skip ours.

	case "div":
		// Heading-group wrappers and diagram divs: recurse into children;
		// Mermaid sources are emitted as code-style text.
		if hasClass(n, "mermaid") || hasClass(n, "diagram-placeholder") {
			doc.AddParagraph().AddText("[diagram]").Italic()
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			emitBlock(doc, child)
		}

	default:
		if t := strings.TrimSpace(textContent(n)); t != "" {
			doc.AddParagraph().AddText(t)
		}
	}
}

// runStyle accumulates inline formatting while descending the tree.
type runStyle struct {
	bold   bool
	italic bool
	code   bool
}

// emitInline walks an inline subtree and appends styled runs to para.
func emitInline(para *docx.Paragraph, n *html.Node, style runStyle) {
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			text := child.Data
			if strings.TrimSpace(text) == "" {
				continue
			}
			run := para.AddText(text).Size(bodySize)
			if style.bold {
				run.Bold()
			}
			if style.italic {
				run.Italic()
			}
			if style.code {
				run.Color(codeColor)
			}

		case html.ElementNode:
			childStyle := style
			switch child.Data {
			case "strong", "b":
				childStyle.bold = true
			case "em", "i":
				childStyle.italic = true
			case "code":
				childStyle.code = true
			case "a":
				if href := attr(child, "href"); href != "" {
					para.AddLink(textContent(child), href)
					continue
				}
			case "br":
				continue
			case "img":
				if alt := attr(child, "alt"); alt != "" {
					para.AddText("[" + alt + "]").Italic()
				}
				continue
			}
			emitInline(para, child, childStyle)
		}
	}
}

// emitList flattens nested lists into indented bullet paragraphs.
func emitList(doc *docx.Docx, n *html.Node, depth int) {
	marker := strings.Repeat("    ", depth) + "• "
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.Data != "li" {
			continue
		}
		para := doc.AddParagraph()
		para.AddText(marker).Size(bodySize)
		emitInline(para, child, runStyle{})
		for sub := child.FirstChild; sub != nil; sub = sub.NextSibling {
			if sub.Type == html.ElementNode && (sub.Data == "ul" || sub.Data == "ol") {
				emitList(doc, sub, depth+1)
			}
		}
	}
}

// emitTable renders each table row as a tab-separated paragraph. go-docx
// exposes table objects, but plain rows survive round-trips with more
// Word versions.
func emitTable(doc *docx.Docx, n *html.Node) {
	var walkRows func(*html.Node)
	walkRows = func(node *html.Node) {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			if child.Data == "tr" {
				var cells []string
				for cell := child.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.Data == "td" || cell.Data == "th") {
						cells = append(cells, strings.TrimSpace(textContent(cell)))
					}
				}
				if len(cells) > 0 {
					doc.AddParagraph().AddText(strings.Join(cells, "\t")).Size(bodySize)
				}
				continue
			}
			walkRows(child)
		}
	}
	walkRows(n)
}

// findElement returns the first element with the given tag, depth first.
func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent returns the concatenated text of a subtree, trimmed.
func textContent(n *html.Node) string {
	return strings.TrimSpace(collectText(n))
}

func collectText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var buf strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		buf.WriteString(collectText(child))
	}
	return buf.String()
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// hasClass reports whether the node's class attribute contains name.
func hasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}
