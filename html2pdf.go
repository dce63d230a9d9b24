package mdconvert

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/TimothySu2015/md-converter/internal/fileutil"
	"github.com/TimothySu2015/md-converter/internal/layout"
)

// pdfConverter abstracts HTML to PDF conversion to allow different backends.
type pdfConverter interface {
	ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error)
	Close() error
}

// pdfRenderer abstracts rendering from an HTML file to enable testing
// without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error)
}

// Compile-time interface checks.
var (
	_ pdfConverter = (*rodConverter)(nil)
	_ pdfRenderer  = (*rodRenderer)(nil)
)

// pdfOptions holds options for one PDF render.
type pdfOptions struct {
	Page         *PageSettings
	Footer       *Footer
	LayoutConfig layout.Config
	DiagramWait  time.Duration
}

// Inches per millimetre, for Chrome's paper dimensions.
const inchesPerMm = 1.0 / 25.4

// marginBottomExtraFooter adds footer room below the page content, inches.
const marginBottomExtraFooter = 0.25

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = rod.New().ControlURL(u)
	if err := r.browser.Connect(); err != nil {
		r.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	if r.browser != nil {
		err := r.browser.Close()
		r.browser = nil
		return err
	}
	return nil
}

// RenderFromFile opens a local HTML file in headless Chrome, waits for
// diagrams, runs the pagination engine against the live page, and prints
// the result to PDF.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, opts *pdfOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filePath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Diagrams must be rendered (or replaced by placeholders) before any
	// geometry is read, otherwise their heights poison the break math.
	waitDiagrams(ctx, page, opts.diagramWait())

	doc := newRodDocument(page)
	if err := doc.Reflow(ctx); err != nil {
		return nil, err
	}
	if err := layout.NewEngine(opts.layoutConfig()).Run(ctx, doc); err != nil {
		return nil, err
	}

	reader, err := page.PDF(r.buildPDFOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	return pdfBuf, nil
}

// diagramWait returns the configured diagram wait or the default.
func (o *pdfOptions) diagramWait() time.Duration {
	if o == nil || o.DiagramWait <= 0 {
		return defaultDiagramWait
	}
	return o.DiagramWait
}

// layoutConfig returns the configured layout config, deriving one from the
// page settings when the zero value was passed.
func (o *pdfOptions) layoutConfig() layout.Config {
	if o != nil && o.LayoutConfig.UsablePageHeight > 0 {
		return o.LayoutConfig
	}
	size := PageSizeA4
	if o != nil && o.Page != nil && o.Page.Size != "" {
		size = strings.ToLower(o.Page.Size)
	}
	return layout.ConfigFromEnv(layout.PageDimsMm(size))
}

// waitDiagrams blocks until every Mermaid block has rendered an SVG, or the
// bounded wait elapses. Blocks that never render are replaced with a
// fixed-size placeholder so pagination still sees stable geometry; a slow
// diagram degrades layout quality, never the conversion.
func waitDiagrams(ctx context.Context, page *rod.Page, wait time.Duration) {
	pendingJS := `() => document.querySelectorAll('div.mermaid:not([data-processed])').length`
	deadline := time.Now().Add(wait)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return
		}
		obj, err := page.Eval(pendingJS)
		if err != nil || obj.Value.Int() == 0 {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	// Timed out: swap unrendered blocks for placeholders.
	placeholderJS := `() => {
		for (const el of document.querySelectorAll('div.mermaid:not([data-processed])')) {
			const ph = document.createElement('div');
			ph.className = 'diagram-placeholder';
			ph.textContent = '[diagram unavailable]';
			el.replaceWith(ph);
		}
	}`
	_, _ = page.Eval(placeholderJS)
}

// buildPDFOptions constructs proto.PagePrintToPDF from the page settings.
func (r *rodRenderer) buildPDFOptions(opts *pdfOptions) *proto.PagePrintToPDF {
	settings := DefaultPageSettings()
	if opts != nil && opts.Page != nil {
		settings = opts.Page
	}

	widthMm, heightMm := layout.PageDimsMm(strings.ToLower(settings.Size))
	paperWidth := widthMm * inchesPerMm
	paperHeight := heightMm * inchesPerMm
	if strings.ToLower(settings.Orientation) == OrientationLandscape {
		paperWidth, paperHeight = paperHeight, paperWidth
	}

	margin := settings.Margin
	if margin == 0 {
		margin = DefaultMargin
	}

	marginBottom := margin
	hasFooter := opts != nil && opts.Footer != nil
	if hasFooter {
		marginBottom += marginBottomExtraFooter
	}

	pdfOpts := &proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidth),
		PaperHeight:     floatPtr(paperHeight),
		MarginTop:       floatPtr(margin),
		MarginBottom:    floatPtr(marginBottom),
		MarginLeft:      floatPtr(margin),
		MarginRight:     floatPtr(margin),
		PrintBackground: true,
	}

	if hasFooter {
		pdfOpts.DisplayHeaderFooter = true
		pdfOpts.HeaderTemplate = "<span></span>" // Empty header
		pdfOpts.FooterTemplate = buildFooterTemplate(opts.Footer)
	}

	return pdfOpts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// rodConverter converts HTML to PDF using headless Chrome via go-rod.
type rodConverter struct {
	renderer *rodRenderer
}

// newRodConverter creates a rodConverter with the production renderer.
func newRodConverter(timeout time.Duration) *rodConverter {
	return &rodConverter{renderer: newRodRenderer(timeout)}
}

// ToPDF converts HTML content to PDF bytes using headless Chrome.
func (c *rodConverter) ToPDF(ctx context.Context, htmlContent string, opts *pdfOptions) ([]byte, error) {
	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return c.renderer.RenderFromFile(ctx, tmpPath, opts)
}

// Close releases browser resources.
func (c *rodConverter) Close() error {
	if c.renderer != nil {
		return c.renderer.Close()
	}
	return nil
}
