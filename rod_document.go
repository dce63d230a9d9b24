package mdconvert

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/TimothySu2015/md-converter/internal/layout"
)

// rodDocument adapts a live rod page to the layout.Document contract.
// Elements are addressed by a data-layout-id attribute assigned during the
// first snapshot; all geometry reads and mutations run as JS in the page.
type rodDocument struct {
	page *rod.Page
}

// Compile-time interface check.
var _ layout.Document = (*rodDocument)(nil)

func newRodDocument(page *rod.Page) *rodDocument {
	return &rodDocument{page: page}
}

// snapshotJS lists every block-level element in document order with its
// kind, geometry, and marker state. The kind is decided here, once per
// element; Go code never re-inspects tags. Children of a heading-group
// wrapper are reported individually with the grouped flag set.
const snapshotJS = `() => {
	const kindOf = (el) => {
		const tag = el.tagName.toLowerCase();
		if (el.classList.contains('front-matter')) return 'front-matter';
		if (el.classList.contains('mermaid') || el.classList.contains('diagram-placeholder')) return 'diagram';
		if (/^h[1-6]$/.test(tag)) return 'heading';
		if (tag === 'pre') return 'code-block';
		if (tag === 'table') return 'table';
		if (tag === 'blockquote') return 'blockquote';
		if (tag === 'img' || tag === 'figure') return 'image';
		if (tag === 'p' && el.childElementCount === 1 &&
			el.firstElementChild.tagName === 'IMG') return 'image';
		if (tag === 'p') return 'paragraph';
		return 'generic';
	};

	const naturalSize = (el, kind) => {
		if (kind === 'image') {
			const img = el.tagName === 'IMG' ? el : el.querySelector('img');
			if (img) return [img.naturalWidth, img.naturalHeight];
		}
		if (kind === 'diagram') {
			const svg = el.querySelector('svg');
			if (svg) {
				const r = svg.getBoundingClientRect();
				return [r.width, r.height];
			}
		}
		return [0, 0];
	};

	const body = document.body;
	let seq = parseInt(body.dataset.layoutSeq || '0', 10);
	const out = [];

	const describe = (el, grouped, wrapperBreak) => {
		if (!el.dataset.layoutId) el.dataset.layoutId = 'n' + (seq++);
		const kind = kindOf(el);
		const rect = el.getBoundingClientRect();
		const nat = naturalSize(el, kind);
		const tag = el.tagName.toLowerCase();
		out.push({
			id: el.dataset.layoutId,
			kind: kind,
			level: /^h[1-6]$/.test(tag) ? parseInt(tag[1], 10) : 0,
			top: rect.top + window.scrollY,
			height: rect.height,
			natW: nat[0],
			natH: nat[1],
			grouped: grouped,
			hasBreak: wrapperBreak || el.classList.contains('force-page-break'),
			scaled: Array.from(el.classList).some(c => c.indexOf('fit-scale-') === 0),
		});
	};

	for (const el of Array.from(body.children)) {
		if (el.tagName === 'SCRIPT' || el.tagName === 'STYLE') continue;
		if (el.classList.contains('heading-group')) {
			const hasBreak = el.classList.contains('force-page-break');
			for (const child of Array.from(el.children)) {
				describe(child, true, hasBreak);
			}
			continue;
		}
		describe(el, false, false);
	}

	body.dataset.layoutSeq = String(seq);
	return out;
}`

// Nodes reads a geometry snapshot from the page. Elements the renderer has
// not laid out report zero geometry rather than failing the pass.
func (d *rodDocument) Nodes(ctx context.Context) ([]layout.Node, error) {
	obj, err := d.page.Context(ctx).Eval(snapshotJS)
	if err != nil {
		return nil, fmt.Errorf("%w: snapshot: %v", ErrPagination, err)
	}

	items := obj.Value.Arr()
	nodes := make([]layout.Node, 0, len(items))
	for _, item := range items {
		nodes = append(nodes, layout.Node{
			ID:            item.Get("id").Str(),
			Kind:          kindFromString(item.Get("kind").Str()),
			HeadingLevel:  item.Get("level").Int(),
			TopOffset:     item.Get("top").Num(),
			Height:        item.Get("height").Num(),
			NaturalWidth:  item.Get("natW").Num(),
			NaturalHeight: item.Get("natH").Num(),
			Grouped:       item.Get("grouped").Bool(),
			HasBreak:      item.Get("hasBreak").Bool(),
			Scaled:        item.Get("scaled").Bool(),
		})
	}
	return nodes, nil
}

// kindFromString maps the snapshot's kind token to the layout enum.
func kindFromString(s string) layout.Kind {
	switch s {
	case "heading":
		return layout.KindHeading
	case "paragraph":
		return layout.KindParagraph
	case "diagram":
		return layout.KindDiagram
	case "image":
		return layout.KindImage
	case "code-block":
		return layout.KindCodeBlock
	case "table":
		return layout.KindTable
	case "blockquote":
		return layout.KindBlockquote
	case "front-matter":
		return layout.KindFrontMatter
	default:
		return layout.KindGeneric
	}
}

// WrapWithNext moves the identified element and its next sibling into a new
// heading-group container. A vanished element or missing sibling is a no-op:
// grouping is best-effort.
func (d *rodDocument) WrapWithNext(ctx context.Context, id string) error {
	js := `(id) => {
		const el = document.querySelector('[data-layout-id="' + id + '"]');
		if (!el || !el.nextElementSibling) return;
		if (el.parentElement.classList.contains('heading-group')) return;
		const sibling = el.nextElementSibling;
		const wrapper = document.createElement('div');
		wrapper.className = 'heading-group';
		el.parentElement.insertBefore(wrapper, el);
		wrapper.appendChild(el);
		wrapper.appendChild(sibling);
	}`
	if _, err := d.page.Context(ctx).Eval(js, id); err != nil {
		return fmt.Errorf("%w: wrap %s: %v", ErrPagination, id, err)
	}
	return nil
}

// InsertBreakBefore marks the identified element (or its heading-group
// wrapper) with the force-break class. Existing markers are left untouched.
func (d *rodDocument) InsertBreakBefore(ctx context.Context, id string, dec layout.Decision) error {
	debug := ""
	if dec.Debug {
		debug = dec.DebugString()
	}
	js := `(id, reason, debug) => {
		const el = document.querySelector('[data-layout-id="' + id + '"]');
		if (!el) return;
		const target = el.parentElement.classList.contains('heading-group')
			? el.parentElement : el;
		if (target.classList.contains('force-page-break')) return;
		target.classList.add('force-page-break');
		target.dataset.breakReason = reason;
		if (debug) target.dataset.breakDebug = debug;
	}`
	if _, err := d.page.Context(ctx).Eval(js, id, dec.Reason.String(), debug); err != nil {
		return fmt.Errorf("%w: break %s: %v", ErrPagination, id, err)
	}
	return nil
}

// SetScaleStep adds the discrete fit-scale class for the given percentage.
// Elements that already carry a fit-scale class are left untouched.
func (d *rodDocument) SetScaleStep(ctx context.Context, id string, percent int) error {
	js := `(id, pct) => {
		const el = document.querySelector('[data-layout-id="' + id + '"]');
		if (!el) return;
		if (Array.from(el.classList).some(c => c.indexOf('fit-scale-') === 0)) return;
		el.classList.add('fit-scale-' + pct);
	}`
	if _, err := d.page.Context(ctx).Eval(js, id, percent); err != nil {
		return fmt.Errorf("%w: scale %s: %v", ErrPagination, id, err)
	}
	return nil
}

// Reflow waits two animation frames so the renderer has recomputed layout
// for all pending mutations before the next geometry read.
func (d *rodDocument) Reflow(ctx context.Context) error {
	js := `() => new Promise(resolve =>
		requestAnimationFrame(() => requestAnimationFrame(() => resolve(true))))`
	if _, err := d.page.Context(ctx).Eval(js); err != nil {
		return fmt.Errorf("%w: reflow: %v", ErrPagination, err)
	}
	return nil
}
