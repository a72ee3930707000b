package vetbuddy

// ScrollProgress is the reading progress bar pinned to the top of the page.
type ScrollProgress struct {
	Height float64
	Color  Color
	// Hidden disables drawing; the value is still tracked.
	Hidden bool

	value float64
}

// NewScrollProgress creates a 4px progress bar in the page accent color.
func NewScrollProgress() *ScrollProgress {
	return &ScrollProgress{Height: 4, Color: Color{0.259, 0.6, 0.882, 1}}
}

// Value returns the last computed progress in [0, 1].
func (p *ScrollProgress) Value() float64 {
	return p.value
}

// update recomputes the bar from the observer's scroll state and the
// scrollable content height.
func (p *ScrollProgress) update(state ScrollState, contentHeight float64) {
	max := contentHeight - state.ViewportH
	if max <= 0 {
		p.value = 0
		return
	}
	p.value = clampUnit(state.ScrollY / max)
}

// Bar returns the bar's on-screen rectangle for a viewport width.
func (p *ScrollProgress) Bar(viewportW float64) Rect {
	return Rect{Width: viewportW * p.value, Height: p.Height}
}
