package mdconvert

import (
	"context"
	"fmt"
	"strings"

	"github.com/TimothySu2015/md-converter/internal/layout"
)

// Service orchestrates the markdown-to-document pipeline.
type Service struct {
	cfg           serviceConfig
	preprocessor  markdownPreprocessor
	htmlConverter htmlConverter
	cssInjector   cssInjector
	tocInjector   tocInjector
	pdfConverter  pdfConverter
	docxConverter docxConverter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			timeout:       defaultTimeout,
			diagramWait:   defaultDiagramWait,
			breakBeforeH2: true,
		},
		preprocessor:  &cjkMarkdownPreprocessor{},
		htmlConverter: newGoldmarkConverter(),
		cssInjector:   &cssInjection{},
		tocInjector:   &tocInjection{},
		docxConverter: newDOCXConverter(),
	}

	for _, opt := range opts {
		opt(s)
	}

	// Create PDF converter if not injected (e.g., by tests)
	if s.pdfConverter == nil {
		s.pdfConverter = newRodConverter(s.cfg.timeout)
	}

	return s
}

// Convert runs the full pipeline and returns the rendered outputs.
// The context is used for cancellation and timeout.
func (s *Service) Convert(ctx context.Context, input Input) (*Result, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}

	mdContent := s.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent, err := s.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	// Base stylesheet first so custom CSS can override it.
	htmlContent = s.cssInjector.InjectCSS(ctx, htmlContent, buildBaseCSS()+input.CSS)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	htmlContent = injectMermaidRuntime(htmlContent)

	var tData *tocData
	if input.TOC != nil {
		tData = &tocData{Title: input.TOC.Title, MaxDepth: input.TOC.MaxDepth}
	}
	htmlContent, err = s.tocInjector.InjectTOC(ctx, htmlContent, tData)
	if err != nil {
		return nil, fmt.Errorf("injecting TOC: %w", err)
	}

	result := &Result{HTML: []byte(htmlContent)}
	if input.HTMLOnly {
		return result, nil
	}

	if input.wantsPDF() {
		pdfBytes, err := s.pdfConverter.ToPDF(ctx, htmlContent, s.pdfOptions(input))
		if err != nil {
			return nil, fmt.Errorf("converting to PDF: %w", err)
		}
		result.PDF = pdfBytes
	}

	if input.wantsDOCX() {
		docxBytes, err := s.docxConverter.ToDOCX(ctx, htmlContent)
		if err != nil {
			return nil, fmt.Errorf("converting to DOCX: %w", err)
		}
		result.DOCX = docxBytes
	}

	return result, nil
}

// pdfOptions assembles the PDF render options for one input.
func (s *Service) pdfOptions(input Input) *pdfOptions {
	size := PageSizeA4
	if input.Page != nil && input.Page.Size != "" {
		size = strings.ToLower(input.Page.Size)
	}
	layoutCfg := layout.ConfigFromEnv(layout.PageDimsMm(size))
	if !s.cfg.breakBeforeH2 {
		layoutCfg.BreakBeforeH2 = false
	}

	return &pdfOptions{
		Page:         input.Page,
		Footer:       input.Footer,
		LayoutConfig: layoutCfg,
		DiagramWait:  s.cfg.diagramWait,
	}
}

// Close releases resources (headless Chrome browser).
func (s *Service) Close() error {
	if s.pdfConverter != nil {
		return s.pdfConverter.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
func (s *Service) validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if err := input.validateFormat(); err != nil {
		return err
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	if err := input.Footer.Validate(); err != nil {
		return err
	}
	if err := input.TOC.Validate(); err != nil {
		return err
	}
	return nil
}
