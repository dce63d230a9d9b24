package layout

// Scale steps are discrete so the emitted marker is a small closed set of
// class names rather than a continuous transform per element.
const (
	scaleStepPercent = 5
	minScalePercent  = 30
)

// FitScale returns the uniform factor that fits natural dimensions into the
// page content box. The result is always in (0, 1]: content is never
// upscaled, and unavailable geometry (zero or negative dimensions) yields 1
// so that nothing is mutated.
func FitScale(naturalW, naturalH, maxW, maxH float64) float64 {
	if naturalW <= 0 || naturalH <= 0 || maxW <= 0 || maxH <= 0 {
		return 1
	}

	scale := 1.0
	if w := maxW / naturalW; w < scale {
		scale = w
	}
	if h := maxH / naturalH; h < scale {
		scale = h
	}
	if scale > 1 {
		scale = 1
	}
	return scale
}

// ScaleStep quantizes a scale factor to a discrete percentage step,
// rounding down so the scaled content always fits. 100 means "no scaling";
// the floor is minScalePercent to keep diagrams legible.
func ScaleStep(scale float64) int {
	if scale >= 1 {
		return 100
	}
	pct := int(scale * 100)
	pct -= pct % scaleStepPercent
	if pct < minScalePercent {
		pct = minScalePercent
	}
	return pct
}

// fitStep computes the emitted step for one node against the content box.
func (c Config) fitStep(n Node) int {
	return ScaleStep(FitScale(n.NaturalWidth, n.NaturalHeight, c.ContentMaxWidth, c.ContentMaxHeight))
}
