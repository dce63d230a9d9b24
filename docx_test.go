package mdconvert

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"golang.org/x/net/html"
)

// readDOCXDocument extracts word/document.xml from DOCX bytes.
func readDOCXDocument(t *testing.T, data []byte) string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a valid ZIP: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("opening document.xml: %v", err)
		}
		defer rc.Close()
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("reading document.xml: %v", err)
		}
		return buf.String()
	}
	t.Fatal("word/document.xml missing from output")
	return ""
}

func TestToDOCX(t *testing.T) {
	conv := newDOCXConverter()
	ctx := context.Background()

	tests := []struct {
		name     string
		html     string
		contains []string
	}{
		{
			name:     "heading and paragraph",
			html:     "<body><h1>Title</h1><p>Body text.</p></body>",
			contains: []string{"Title", "Body text."},
		},
		{
			name:     "code block preserved line by line",
			html:     "<body><pre><code>line one\nline two</code></pre></body>",
			contains: []string{"line one", "line two"},
		},
		{
			name:     "list items",
			html:     "<body><ul><li>alpha</li><li>beta</li></ul></body>",
			contains: []string{"alpha", "beta"},
		},
		{
			name:     "table rows flattened",
			html:     "<body><table><tr><th>a</th><th>b</th></tr><tr><td>1</td><td>2</td></tr></table></body>",
			contains: []string{"a\tb", "1\t2"},
		},
		{
			name:     "mermaid div becomes diagram marker",
			html:     `<body><div class="mermaid">graph TD</div></body>`,
			contains: []string{"[diagram]"},
		},
		{
			name:     "heading group wrapper is transparent",
			html:     `<body><div class="heading-group"><h2>Grouped</h2><p>content</p></div></body>`,
			contains: []string{"Grouped", "content"},
		},
		{
			name:     "CJK content",
			html:     "<body><p>中文段落</p></body>",
			contains: []string{"中文段落"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := conv.ToDOCX(ctx, tt.html)
			if err != nil {
				t.Fatalf("ToDOCX() error: %v", err)
			}
			docXML := readDOCXDocument(t, data)
			for _, want := range tt.contains {
				if !strings.Contains(docXML, want) {
					t.Errorf("document.xml missing %q", want)
				}
			}
		})
	}
}

func TestToDOCXSkipsTOCNav(t *testing.T) {
	conv := newDOCXConverter()

	data, err := conv.ToDOCX(context.Background(),
		`<body><nav class="toc front-matter"><ol><li>1. skip me</li></ol></nav><h1>Keep</h1></body>`)
	if err != nil {
		t.Fatalf("ToDOCX() error: %v", err)
	}
	docXML := readDOCXDocument(t, data)
	if strings.Contains(docXML, "skip me") {
		t.Error("TOC nav content should be skipped")
	}
	if !strings.Contains(docXML, "Keep") {
		t.Error("content after nav missing")
	}
}

func TestToDOCXContextCancelled(t *testing.T) {
	conv := newDOCXConverter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := conv.ToDOCX(ctx, "<body></body>"); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestFindElement(t *testing.T) {
	root, err := html.Parse(strings.NewReader("<html><body><p>x</p></body></html>"))
	if err != nil {
		t.Fatal(err)
	}

	if n := findElement(root, "p"); n == nil || n.Data != "p" {
		t.Error("findElement failed to locate p")
	}
	if n := findElement(root, "table"); n != nil {
		t.Error("findElement found a non-existent element")
	}
}

func TestHasClass(t *testing.T) {
	root, err := html.Parse(strings.NewReader(`<div class="mermaid wide">x</div>`))
	if err != nil {
		t.Fatal(err)
	}
	div := findElement(root, "div")

	if !hasClass(div, "mermaid") {
		t.Error("expected mermaid class")
	}
	if !hasClass(div, "wide") {
		t.Error("expected wide class")
	}
	if hasClass(div, "mer") {
		t.Error("partial class name must not match")
	}
}
