package mdconvert

import (
	"context"
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	conv := newGoldmarkConverter()
	ctx := context.Background()

	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:     "basic heading and paragraph",
			input:    "# Title\n\nSome text.",
			contains: []string{"<h1", "Title</h1>", "<p>Some text.</p>"},
		},
		{
			name:     "complete document wrapper",
			input:    "text",
			contains: []string{"<!DOCTYPE html>", `lang="zh-Hant"`, `charset="utf-8"`, "</html>"},
		},
		{
			name:     "GFM table",
			input:    "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<th>a</th>", "<td>1</td>"},
		},
		{
			name:     "GFM strikethrough",
			input:    "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:     "auto heading IDs for TOC anchors",
			input:    "## Getting Started",
			contains: []string{`id="getting-started"`},
		},
		{
			name:     "syntax highlighted code block",
			input:    "```go\nfunc main() {}\n```",
			contains: []string{"<pre", "<code", "func"},
		},
		{
			name:     "raw HTML passthrough for diagram divs",
			input:    `<div class="mermaid">graph TD</div>`,
			contains: []string{`<div class="mermaid">`},
		},
		{
			name:     "footnote",
			input:    "text[^1]\n\n[^1]: note",
			contains: []string{"footnote"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := conv.ToHTML(ctx, tt.input)
			if err != nil {
				t.Fatalf("ToHTML() error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestToHTMLContextCancellation(t *testing.T) {
	conv := newGoldmarkConverter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := conv.ToHTML(ctx, "# Title")
	if err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestToHTMLCJKContent(t *testing.T) {
	conv := newGoldmarkConverter()

	got, err := conv.ToHTML(context.Background(), "# 中文標題\n\n第一行\n第二行")
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}
	if !strings.Contains(got, "中文標題") {
		t.Error("CJK heading missing from output")
	}
	// The CJK extension joins soft-wrapped CJK lines without inserting a
	// space between them.
	if strings.Contains(got, "第一行 第二行") {
		t.Error("spurious space inserted at CJK soft line break")
	}
}
