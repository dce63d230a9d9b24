package mdconvert

import (
	"context"
	"strings"
	"testing"
)

func TestNormalizeLineEndings(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "LF unchanged",
			input:    "line1\nline2\nline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "CRLF to LF",
			input:    "line1\r\nline2\r\nline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "CR to LF",
			input:    "line1\rline2\rline3",
			expected: "line1\nline2\nline3",
		},
		{
			name:     "mixed line endings",
			input:    "line1\r\nline2\rline3\nline4",
			expected: "line1\nline2\nline3\nline4",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeLineEndings(tt.input)
			if got != tt.expected {
				t.Errorf("normalizeLineEndings() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestCompressBlankLines(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "single blank line unchanged",
			input:    "line1\n\nline2",
			expected: "line1\n\nline2",
		},
		{
			name:     "two blank lines compressed",
			input:    "line1\n\n\nline2",
			expected: "line1\n\nline2",
		},
		{
			name:     "many blank lines compressed",
			input:    "line1\n\n\n\n\n\nline2",
			expected: "line1\n\nline2",
		},
		{
			name:     "multiple groups compressed",
			input:    "a\n\n\n\nb\n\n\n\n\nc",
			expected: "a\n\nb\n\nc",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := compressBlankLines(tt.input)
			if got != tt.expected {
				t.Errorf("compressBlankLines() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEnsureBlankBeforeHeaders(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "header after text gets blank line",
			input:    "some text\n## Header",
			expected: "some text\n\n## Header",
		},
		{
			name:     "header already separated unchanged",
			input:    "some text\n\n## Header",
			expected: "some text\n\n## Header",
		},
		{
			name:     "header at start unchanged",
			input:    "# Title\ncontent",
			expected: "# Title\ncontent",
		},
		{
			name:     "hash inside code block untouched",
			input:    "```\n# not a header\n```",
			expected: "```\n# not a header\n```",
		},
		{
			name:     "hash inside indented code untouched",
			input:    "text\n    # comment",
			expected: "text\n    # comment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ensureBlankBeforeHeaders(tt.input)
			if got != tt.expected {
				t.Errorf("ensureBlankBeforeHeaders() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestEnsureBlankBeforeLists(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "list after text gets blank line",
			input:    "intro\n- item",
			expected: "intro\n\n- item",
		},
		{
			name:     "consecutive items unchanged",
			input:    "- one\n- two\n- three",
			expected: "- one\n- two\n- three",
		},
		{
			name:     "ordered list after text",
			input:    "intro\n1. first",
			expected: "intro\n\n1. first",
		},
		{
			name:     "list after header unchanged",
			input:    "## Header\n- item",
			expected: "## Header\n- item",
		},
		{
			name:     "dash inside code block untouched",
			input:    "```\n- not a list\n```",
			expected: "```\n- not a list\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ensureBlankBeforeLists(tt.input)
			if got != tt.expected {
				t.Errorf("ensureBlankBeforeLists() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractMermaidBlocks(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mermaid fence converted to div",
			input:    "```mermaid\ngraph TD\nA-->B\n```",
			expected: "<div class=\"mermaid\">\ngraph TD\nA-->B\n</div>",
		},
		{
			name:     "regular fence untouched",
			input:    "```go\nfunc main() {}\n```",
			expected: "```go\nfunc main() {}\n```",
		},
		{
			name:     "mermaid fence with trailing spaces",
			input:    "```mermaid  \nflowchart LR\n```",
			expected: "<div class=\"mermaid\">\nflowchart LR\n</div>",
		},
		{
			name:     "unterminated fence gets closed",
			input:    "```mermaid\ngraph TD",
			expected: "<div class=\"mermaid\">\ngraph TD\n</div>",
		},
		{
			name:     "mixed fences",
			input:    "```mermaid\nA-->B\n```\n\n```python\nprint(1)\n```",
			expected: "<div class=\"mermaid\">\nA-->B\n</div>\n\n```python\nprint(1)\n```",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractMermaidBlocks(tt.input)
			if got != tt.expected {
				t.Errorf("extractMermaidBlocks() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAddCJKSpacing(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "CJK followed by ASCII",
			input:    "中文abc",
			expected: "中文 abc",
		},
		{
			name:     "ASCII followed by CJK",
			input:    "abc中文",
			expected: "abc 中文",
		},
		{
			name:     "both boundaries",
			input:    "使用Go語言開發",
			expected: "使用 Go 語言開發",
		},
		{
			name:     "digits next to CJK",
			input:    "共100頁",
			expected: "共 100 頁",
		},
		{
			name:     "pure ASCII unchanged",
			input:    "plain english text",
			expected: "plain english text",
		},
		{
			name:     "code block untouched",
			input:    "```\nvar 變數x = 1\n```",
			expected: "```\nvar 變數x = 1\n```",
		},
		{
			name:     "indented code untouched",
			input:    "    中文abc",
			expected: "    中文abc",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := addCJKSpacing(tt.input)
			if got != tt.expected {
				t.Errorf("addCJKSpacing() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPreprocessMarkdown(t *testing.T) {
	p := &cjkMarkdownPreprocessor{}
	ctx := context.Background()

	t.Run("full pipeline", func(t *testing.T) {
		input := "# 標題\r\ntext\r\n## Sub標題\r\n\r\n\r\n\r\ndone"
		got := p.PreprocessMarkdown(ctx, input)
		if strings.Contains(got, "\r") {
			t.Error("line endings not normalized")
		}
		if !strings.Contains(got, "text\n\n## Sub 標題") {
			t.Errorf("header separation or CJK spacing missing: %q", got)
		}
		if strings.Contains(got, "\n\n\n") {
			t.Errorf("blank lines not compressed: %q", got)
		}
	})

	t.Run("cancelled context returns input unchanged", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()
		input := "text\r\nmore"
		got := p.PreprocessMarkdown(cancelled, input)
		if got != input {
			t.Errorf("expected input unchanged, got %q", got)
		}
	})
}
