package layout

import "math"

// Decide applies the break rules to one layout unit. Rules are evaluated in
// fixed priority order and the first match wins; exactly one reason is
// recorded per decision.
//
// The page position is approximated as topOffset mod usablePageHeight, i.e.
// the document is treated as a strictly repeating cycle of fixed-height
// pages. Earlier forced breaks shift later content, so this is not an exact
// simulation; the approximation is deliberate (see DESIGN.md) and stable
// because decisions are planned from a single geometry snapshot.
//
// minSpace is the orphan threshold for the near-bottom rule: headings use
// Config.HeadingMinSpace, bare atomic blocks use Config.MinRemainingSpace.
func (c Config) Decide(height, topOffset, minSpace float64) Decision {
	pageOffset := math.Mod(topOffset, c.UsablePageHeight)
	remaining := c.UsablePageHeight - pageOffset

	d := Decision{
		Debug:          c.Debug,
		Height:         height,
		PageOffset:     pageOffset,
		RemainingSpace: remaining,
	}

	// Taller than the large-content threshold and not already near the top
	// of a page: start it on a fresh page. Near the top (pageOffset within
	// ForceBreakOffset) a break would waste an almost-empty page, so the
	// unit falls through to the remaining rules instead.
	if height > c.LargeContentThreshold && pageOffset > c.ForceBreakOffset {
		d.ForceBreak = true
		d.Reason = ReasonLargeContent
		return d
	}

	switch {
	case height > remaining && height-remaining > c.OverflowTolerance:
		// Would overflow the current page by more than the tolerance.
		// Small overflows are left to the renderer's natural flow.
		d.ForceBreak = true
		d.Reason = ReasonTooLargeForRemaining

	case height > remaining:
		// Overflow within tolerance.
		d.Reason = ReasonNone

	case remaining < minSpace:
		// The unit would start in a sliver at the very bottom of the page.
		d.ForceBreak = true
		d.Reason = ReasonHeadingNearBottom

	case height > severeSplitMinHeight && height > remaining*severeSplitRatio:
		// Tall content that would be split with only a fraction on the
		// current page.
		d.ForceBreak = true
		d.Reason = ReasonSevereSplit

	default:
		d.Reason = ReasonNone
	}

	return d
}

// DecideGroup applies the break rules to a heading group.
func (c Config) DecideGroup(g Group) Decision {
	return c.Decide(g.Height(), g.TopOffset(), c.HeadingMinSpace)
}

// DecideBlock applies the break rules to an ungrouped atomic block (a bare
// image, table, diagram, code block or blockquote not bound to a heading).
func (c Config) DecideBlock(n Node) Decision {
	return c.Decide(n.Height, n.TopOffset, c.MinRemainingSpace)
}

// sectionBreaks implements the geometry-independent global rules. It returns
// the IDs of headings that must start a new page regardless of measurements:
//
//   - the first level-1 heading after any front-matter block (cover, table
//     of contents) always starts a new page, so front matter stays isolated;
//   - when cfg.BreakBeforeH2 is set, every level-2 heading except the first
//     and except those immediately preceded by a level-1 heading.
//
// nodes must be in document order.
func (c Config) sectionBreaks(nodes []Node) []breakPlan {
	var plans []breakPlan

	sawFrontMatter := false
	firstH1Done := false
	firstH2Done := false
	prevHeadingLevel := 0

	for i, n := range nodes {
		if n.Kind == KindFrontMatter {
			sawFrontMatter = true
			continue
		}
		if n.Kind != KindHeading {
			continue
		}

		switch n.HeadingLevel {
		case 1:
			if !firstH1Done {
				firstH1Done = true
				if sawFrontMatter && !n.HasBreak {
					plans = append(plans, breakPlan{
						id:       n.ID,
						decision: Decision{ForceBreak: true, Reason: ReasonFirstHeading, Debug: c.Debug},
					})
				}
			}
		case 2:
			first := !firstH2Done
			firstH2Done = true
			afterH1 := i > 0 && prevHeadingLevel == 1 && nodes[i-1].Kind == KindHeading
			if c.BreakBeforeH2 && !first && !afterH1 && !n.HasBreak {
				plans = append(plans, breakPlan{
					id:       n.ID,
					decision: Decision{ForceBreak: true, Reason: ReasonSectionStart, Debug: c.Debug},
				})
			}
		}
		prevHeadingLevel = n.HeadingLevel
	}

	return plans
}
