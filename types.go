package mdconvert

import (
	"fmt"
	"strings"
	"time"
)

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Orientation constants.
const (
	OrientationPortrait  = "portrait"
	OrientationLandscape = "landscape"
)

// Output format constants.
const (
	FormatPDF  = "pdf"
	FormatDOCX = "docx"
	FormatBoth = "both"
)

// Margin bounds in inches.
const (
	MinMargin     = 0.25
	MaxMargin     = 3.0
	DefaultMargin = 0.5
)

// TOC depth bounds.
const (
	MinTOCDepth     = 1
	MaxTOCDepth     = 6
	DefaultTOCDepth = 3
)

// PageSettings configures output page dimensions.
type PageSettings struct {
	Size        string  // "a4", "letter", "legal"
	Orientation string  // "portrait", "landscape"
	Margin      float64 // inches, applied to all sides
}

// DefaultPageSettings returns page settings with default values.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:        PageSizeA4,
		Orientation: OrientationPortrait,
		Margin:      DefaultMargin,
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}

	switch strings.ToLower(p.Size) {
	case PageSizeA4, PageSizeLetter, PageSizeLegal:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}

	switch strings.ToLower(p.Orientation) {
	case OrientationPortrait, OrientationLandscape:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidOrientation, p.Orientation)
	}

	if p.Margin < MinMargin || p.Margin > MaxMargin {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)", ErrInvalidMargin, p.Margin, MinMargin, MaxMargin)
	}

	return nil
}

// Footer configures the PDF footer.
type Footer struct {
	Position       string // "left", "center", "right" (default: "right")
	ShowPageNumber bool
	Text           string
}

// Validate checks that footer settings are valid.
// Returns nil if f is nil (nil means no footer).
func (f *Footer) Validate() error {
	if f == nil {
		return nil
	}
	switch strings.ToLower(f.Position) {
	case "", "left", "center", "right":
		return nil
	default:
		return fmt.Errorf("%w: %q (must be left, center, or right)", ErrInvalidFooterPosition, f.Position)
	}
}

// TOC configures the generated table of contents.
type TOC struct {
	Title    string // heading above the TOC (default: no heading)
	MaxDepth int    // deepest heading level included (default: 3)
}

// Validate checks that TOC settings are valid.
// Returns nil if t is nil (nil means no TOC).
func (t *TOC) Validate() error {
	if t == nil {
		return nil
	}
	if t.MaxDepth != 0 && (t.MaxDepth < MinTOCDepth || t.MaxDepth > MaxTOCDepth) {
		return fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidTOCDepth, t.MaxDepth, MinTOCDepth, MaxTOCDepth)
	}
	return nil
}

// Input contains conversion parameters for one document.
type Input struct {
	Markdown string        // Markdown content (required)
	Format   string        // "pdf", "docx", "both" (default: "pdf")
	CSS      string        // Custom CSS appended to the base stylesheet (optional)
	Page     *PageSettings // Page settings (optional, nil = defaults)
	Footer   *Footer       // Footer config (optional, nil = no footer)
	TOC      *TOC          // TOC config (optional, nil = no TOC)
	HTMLOnly bool          // Skip PDF/DOCX generation, return HTML only
}

// validateFormat checks the requested output format.
func (i Input) validateFormat() error {
	switch i.Format {
	case "", FormatPDF, FormatDOCX, FormatBoth:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidFormat, i.Format)
	}
}

// wantsPDF reports whether the input requests PDF output.
func (i Input) wantsPDF() bool {
	return i.Format == "" || i.Format == FormatPDF || i.Format == FormatBoth
}

// wantsDOCX reports whether the input requests DOCX output.
func (i Input) wantsDOCX() bool {
	return i.Format == FormatDOCX || i.Format == FormatBoth
}

// Result holds the output of one conversion.
// HTML is always populated; PDF and DOCX depend on Input.Format.
type Result struct {
	HTML []byte
	PDF  []byte
	DOCX []byte
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout       time.Duration
	diagramWait   time.Duration
	breakBeforeH2 bool
}

// Default wait bounds.
const (
	defaultTimeout     = 60 * time.Second
	defaultDiagramWait = 10 * time.Second
)

// WithTimeout sets the per-conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("mdconvert: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithDiagramWait bounds the wait for diagram rendering before pagination.
// On timeout the unrendered diagram is replaced with a fixed-size
// placeholder so layout measurements stay valid.
func WithDiagramWait(d time.Duration) Option {
	if d <= 0 {
		panic("mdconvert: WithDiagramWait duration must be positive")
	}
	return func(s *Service) {
		s.cfg.diagramWait = d
	}
}

// WithoutH2Breaks disables the blanket force-break before level-2 headings.
func WithoutH2Breaks() Option {
	return func(s *Service) {
		s.cfg.breakBeforeH2 = false
	}
}
