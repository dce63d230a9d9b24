package layout

import (
	"context"
	"fmt"
)

// Document is the engine's view of a rendered page: a geometry query plus
// the three mutations the emitter needs, with an explicit reflow barrier.
//
// Geometry returned by Nodes is stale after any mutation; the engine calls
// Reflow before reading again. Implementations must make every mutation
// idempotent (an element that already carries a marker is left untouched).
type Document interface {
	// Nodes returns all block-level elements in document order, with
	// geometry reflecting the current layout. Elements whose geometry is
	// unavailable are reported with zero offset and height, never omitted
	// as an error.
	Nodes(ctx context.Context) ([]Node, error)

	// WrapWithNext wraps the identified node and its next sibling into a
	// single group container, marking both as grouped.
	WrapWithNext(ctx context.Context, id string) error

	// InsertBreakBefore adds a force-break marker to the identified node.
	InsertBreakBefore(ctx context.Context, id string, d Decision) error

	// SetScaleStep applies a discrete scale class (percent in (0,100)) to
	// the identified node.
	SetScaleStep(ctx context.Context, id string, percent int) error

	// Reflow blocks until the renderer has recomputed layout after prior
	// mutations. Geometry read before Reflow returns must not be trusted.
	Reflow(ctx context.Context) error
}

// breakPlan pairs a node with the decision to apply to it.
type breakPlan struct {
	id       string
	decision Decision
}

// scalePlan pairs a node with its discrete scale step.
type scalePlan struct {
	id      string
	percent int
}

// Engine runs the pagination passes over a Document.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes the full pipeline: heading grouping, break decisions, and
// diagram/image fit scaling. Each pass plans from one immutable geometry
// snapshot and applies its mutations afterwards, with a reflow barrier
// between passes. Running it a second time over the same document is a
// no-op: grouping skips grouped headings and the document skips elements
// that already carry markers.
func (e *Engine) Run(ctx context.Context, doc Document) error {
	nodes, err := doc.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("reading layout: %w", err)
	}

	// Pass 1: bind headings to their following atomic content. Wrapping
	// changes computed offsets (margin collapsing), so a reflow is needed
	// before any further measurement.
	wraps := planGroups(nodes)
	for _, id := range wraps {
		if err := doc.WrapWithNext(ctx, id); err != nil {
			return fmt.Errorf("grouping heading %s: %w", id, err)
		}
	}
	if len(wraps) > 0 {
		if err := doc.Reflow(ctx); err != nil {
			return fmt.Errorf("reflow after grouping: %w", err)
		}
		nodes, err = doc.Nodes(ctx)
		if err != nil {
			return fmt.Errorf("re-reading layout: %w", err)
		}
	}

	// Pass 2: break decisions, planned entirely from this snapshot. The
	// section rules run first; units they already claim are not rescored
	// by the geometric rules.
	plans := e.cfg.sectionBreaks(nodes)
	claimed := make(map[string]bool, len(plans))
	for _, p := range plans {
		claimed[p.id] = true
	}
	plans = append(plans, e.planBreaks(nodes, claimed)...)

	for _, p := range plans {
		if err := doc.InsertBreakBefore(ctx, p.id, p.decision); err != nil {
			return fmt.Errorf("marking break %s: %w", p.id, err)
		}
	}

	// Pass 3: fit-scale oversized diagrams and images. Deliberately after
	// the break pass, so decisions are made on natural (pre-scale) flowed
	// geometry.
	scales := e.planScales(nodes)
	for _, s := range scales {
		if err := doc.SetScaleStep(ctx, s.id, s.percent); err != nil {
			return fmt.Errorf("scaling %s: %w", s.id, err)
		}
	}

	if len(plans) > 0 || len(scales) > 0 {
		if err := doc.Reflow(ctx); err != nil {
			return fmt.Errorf("final reflow: %w", err)
		}
	}
	return nil
}

// planGroups returns the IDs of headings to wrap with their next sibling.
// A heading qualifies when it is not already grouped and the immediately
// following node is an ungrouped atomic block. Grouping is best-effort: a
// heading with no qualifying sibling is left alone.
func planGroups(nodes []Node) []string {
	var ids []string
	for i, n := range nodes {
		if n.Kind != KindHeading || n.Grouped {
			continue
		}
		if i+1 >= len(nodes) {
			continue
		}
		next := nodes[i+1]
		if next.Kind.atomic() && !next.Grouped {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// planBreaks scores every heading group and every ungrouped atomic block
// against the break rules. Units already carrying a break marker, or claimed
// by the section rules, are skipped.
func (e *Engine) planBreaks(nodes []Node, claimed map[string]bool) []breakPlan {
	var plans []breakPlan

	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		if n.HasBreak || claimed[n.ID] || n.Kind == KindFrontMatter {
			continue
		}

		var d Decision
		switch {
		case n.Kind == KindHeading:
			g := Group{Heading: n}
			if n.Grouped && i+1 < len(nodes) && nodes[i+1].Grouped && nodes[i+1].Kind.atomic() {
				g.Content = &nodes[i+1]
				i++ // content is measured with the heading, not on its own
			}
			d = e.cfg.DecideGroup(g)
		case n.Kind.atomic() && !n.Grouped:
			d = e.cfg.DecideBlock(n)
		default:
			continue
		}

		if d.ForceBreak {
			plans = append(plans, breakPlan{id: n.ID, decision: d})
		}
	}
	return plans
}

// planScales returns scale steps below 100% for diagrams and images whose
// natural size exceeds the page content box.
func (e *Engine) planScales(nodes []Node) []scalePlan {
	var plans []scalePlan
	for _, n := range nodes {
		if n.Scaled {
			continue
		}
		if n.Kind != KindDiagram && n.Kind != KindImage {
			continue
		}
		if step := e.cfg.fitStep(n); step < 100 {
			plans = append(plans, scalePlan{id: n.ID, percent: step})
		}
	}
	return plans
}
