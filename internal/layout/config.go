package layout

import (
	"os"
	"strconv"
)

// Pixels per millimetre at the 96 DPI the rasterizer renders at.
const pxPerMm = 96.0 / 25.4

// Default page dimensions in millimetres.
const (
	a4WidthMm      = 210.0
	a4HeightMm     = 297.0
	letterWidthMm  = 215.9
	letterHeightMm = 279.4
	legalWidthMm   = 215.9
	legalHeightMm  = 355.6
)

// contentMarginMm is the fixed margin subtracted from the physical page to
// obtain the content box the fit-scaler targets (0.5 inch per side).
const contentMarginMm = 12.7

// Default thresholds in pixels. Each is overridable via MDCONVERT_* so break
// aggressiveness can be tuned without a rebuild.
const (
	DefaultMinRemainingSpace     = 100
	DefaultLargeContentThreshold = 900
	DefaultHeadingMinSpace       = 80
	DefaultForceBreakOffset      = 150
	DefaultOverflowTolerance     = 50
)

// severeSplitMinHeight and severeSplitRatio drive the severe-split rule:
// content taller than the minimum that would leave only a sliver on the
// current page gets pushed to the next one.
const (
	severeSplitMinHeight = 400.0
	severeSplitRatio     = 0.85
)

// Config holds the page model and break thresholds for one conversion run.
// Construct it once via NewConfig/ConfigFromEnv and pass it by value; the
// engine never mutates it.
type Config struct {
	// UsablePageHeight is the repeating page cycle in pixels. Margins are
	// not subtracted here; the rasterizer applies them on top, and the
	// thresholds below are calibrated against the unreduced height.
	UsablePageHeight float64

	// ContentMaxWidth and ContentMaxHeight bound the fit-scaler: physical
	// page minus fixed margins, in pixels.
	ContentMaxWidth  float64
	ContentMaxHeight float64

	MinRemainingSpace     float64
	LargeContentThreshold float64
	HeadingMinSpace       float64
	ForceBreakOffset      float64
	OverflowTolerance     float64

	// BreakBeforeH2 forces every level-2 heading onto a new page, except the
	// first one and any immediately preceded by a level-1 heading.
	BreakBeforeH2 bool

	// Debug attaches computed geometry to emitted break markers.
	Debug bool
}

// NewConfig returns the default configuration for the given page dimensions
// in millimetres. Non-positive dimensions fall back to A4.
func NewConfig(pageWidthMm, pageHeightMm float64) Config {
	if pageWidthMm <= 0 {
		pageWidthMm = a4WidthMm
	}
	if pageHeightMm <= 0 {
		pageHeightMm = a4HeightMm
	}
	return Config{
		UsablePageHeight:      pageHeightMm * pxPerMm,
		ContentMaxWidth:       (pageWidthMm - 2*contentMarginMm) * pxPerMm,
		ContentMaxHeight:      (pageHeightMm - 2*contentMarginMm) * pxPerMm,
		MinRemainingSpace:     DefaultMinRemainingSpace,
		LargeContentThreshold: DefaultLargeContentThreshold,
		HeadingMinSpace:       DefaultHeadingMinSpace,
		ForceBreakOffset:      DefaultForceBreakOffset,
		OverflowTolerance:     DefaultOverflowTolerance,
		BreakBeforeH2:         true,
	}
}

// PageDimsMm returns the page dimensions in millimetres for a named page
// size. Unknown names fall back to A4.
func PageDimsMm(size string) (widthMm, heightMm float64) {
	switch size {
	case "letter":
		return letterWidthMm, letterHeightMm
	case "legal":
		return legalWidthMm, legalHeightMm
	default:
		return a4WidthMm, a4HeightMm
	}
}

// ConfigFromEnv builds a Config from defaults plus MDCONVERT_* overrides.
// Unparseable values fall back to the default silently; tuning knobs must
// never abort a conversion.
func ConfigFromEnv(pageWidthMm, pageHeightMm float64) Config {
	cfg := NewConfig(pageWidthMm, pageHeightMm)
	cfg.MinRemainingSpace = envInt("MDCONVERT_MIN_REMAINING_SPACE", DefaultMinRemainingSpace)
	cfg.LargeContentThreshold = envInt("MDCONVERT_LARGE_CONTENT_THRESHOLD", DefaultLargeContentThreshold)
	cfg.HeadingMinSpace = envInt("MDCONVERT_HEADING_MIN_SPACE", DefaultHeadingMinSpace)
	cfg.ForceBreakOffset = envInt("MDCONVERT_FORCE_BREAK_OFFSET", DefaultForceBreakOffset)
	cfg.OverflowTolerance = envInt("MDCONVERT_OVERFLOW_TOLERANCE", DefaultOverflowTolerance)
	cfg.BreakBeforeH2 = envBool("MDCONVERT_BREAK_BEFORE_H2", true)
	cfg.Debug = envBool("MDCONVERT_LAYOUT_DEBUG", false)
	return cfg
}

// envInt reads an integer environment variable, falling back to def on any
// parse failure.
func envInt(name string, def int) float64 {
	v := os.Getenv(name)
	if v == "" {
		return float64(def)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return float64(def)
	}
	return float64(n)
}

// envBool reads a boolean environment variable, falling back to def on any
// parse failure.
func envBool(name string, def bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
