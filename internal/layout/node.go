// Package layout decides where to force page breaks in a rendered document.
//
// The engine consumes element geometry from a rendered page (via the Document
// interface), binds headings to their following atomic content, decides which
// units must start a new page, and shrinks oversized diagrams/images to fit a
// single page. All mutations are additive and idempotent; running the engine
// twice over the same document is a no-op the second time.
package layout

import "fmt"

// Kind classifies a block-level element once, at snapshot time.
// Downstream code switches on Kind instead of re-inspecting tags.
type Kind int

const (
	KindGeneric Kind = iota
	KindHeading
	KindParagraph
	KindDiagram
	KindImage
	KindCodeBlock
	KindTable
	KindBlockquote
	KindFrontMatter
)

// String returns the kind name used in marker attributes and debug output.
func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindDiagram:
		return "diagram"
	case KindImage:
		return "image"
	case KindCodeBlock:
		return "code-block"
	case KindTable:
		return "table"
	case KindBlockquote:
		return "blockquote"
	case KindFrontMatter:
		return "front-matter"
	default:
		return "generic"
	}
}

// atomic reports whether the kind must never be split across a page boundary
// and may be bound to a preceding heading.
func (k Kind) atomic() bool {
	switch k {
	case KindDiagram, KindImage, KindCodeBlock, KindTable, KindBlockquote:
		return true
	}
	return false
}

// Node is one block-level element as measured in the flowed document.
// Geometry is valid only for the snapshot it was read in; after any mutation
// it must be re-queried through Document.Nodes.
type Node struct {
	ID           string // stable handle assigned by the Document
	Kind         Kind
	HeadingLevel int // 1-6 when Kind is KindHeading, 0 otherwise

	TopOffset float64 // px from the top of the whole flowed document
	Height    float64 // px; 0 when geometry is unavailable

	// Natural dimensions for diagrams and images, pre-scale.
	NaturalWidth  float64
	NaturalHeight float64

	Grouped  bool // already wrapped with a heading in a prior pass
	HasBreak bool // already carries a force-break marker
	Scaled   bool // already carries a fit-scale marker
}

// Group is a heading bound to at most one following atomic node, measured
// and broken as a single unit. Content is nil for a solo heading.
type Group struct {
	Heading Node
	Content *Node
}

// TopOffset returns the group's position, which is the heading's position.
func (g Group) TopOffset() float64 { return g.Heading.TopOffset }

// Height returns the combined height of heading and bound content.
func (g Group) Height() float64 {
	h := g.Heading.Height
	if g.Content != nil {
		h += g.Content.Height
	}
	return h
}

// Reason identifies which rule forced a page break.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonLargeContent
	ReasonTooLargeForRemaining
	ReasonHeadingNearBottom
	ReasonSevereSplit
	ReasonFirstHeading
	ReasonSectionStart
)

// String returns the reason token recorded on emitted break markers.
func (r Reason) String() string {
	switch r {
	case ReasonLargeContent:
		return "large-content"
	case ReasonTooLargeForRemaining:
		return "too-large-for-remaining"
	case ReasonHeadingNearBottom:
		return "heading-near-bottom"
	case ReasonSevereSplit:
		return "severe-split"
	case ReasonFirstHeading:
		return "first-heading"
	case ReasonSectionStart:
		return "section-start"
	default:
		return "none"
	}
}

// Decision is the outcome of the break engine for one unit.
// Geometry fields are populated only when Config.Debug is set.
type Decision struct {
	ForceBreak bool
	Reason     Reason

	// Debug asks the emitter to attach the computed geometry to the marker.
	Debug bool

	// Debug geometry used to reach the decision.
	Height         float64
	PageOffset     float64
	RemainingSpace float64
}

// DebugString formats the decision for attachment to emitted markers.
func (d Decision) DebugString() string {
	return fmt.Sprintf("%s h=%.0f off=%.0f rem=%.0f",
		d.Reason, d.Height, d.PageOffset, d.RemainingSpace)
}
