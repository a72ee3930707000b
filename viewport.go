package vetbuddy

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Viewport is the visible window onto the page: a vertical scroll offset over
// a document of ContentHeight pixels.
type Viewport struct {
	// ScrollY is the page offset of the viewport's top edge.
	ScrollY float64
	Width   float64
	Height  float64
	// ContentHeight bounds scrolling to [0, ContentHeight-Height].
	ContentHeight float64

	scrollTween *gween.Tween
}

// NewViewport creates a viewport of the given size at the top of the page.
func NewViewport(width, height float64) *Viewport {
	return &Viewport{Width: width, Height: height}
}

// MaxScroll returns the largest valid scroll offset.
func (v *Viewport) MaxScroll() float64 {
	return math.Max(0, v.ContentHeight-v.Height)
}

// ScrollBy moves the viewport by dy pixels immediately, cancelling any
// running ScrollTo animation.
func (v *Viewport) ScrollBy(dy float64) {
	v.scrollTween = nil
	v.ScrollY += dy
	v.clamp()
}

// Jump moves the viewport to y immediately.
func (v *Viewport) Jump(y float64) {
	v.scrollTween = nil
	v.ScrollY = y
	v.clamp()
}

// ScrollTo animates the viewport to y over duration seconds.
func (v *Viewport) ScrollTo(y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.InOutCubic
	}
	y = math.Max(0, math.Min(y, v.MaxScroll()))
	v.scrollTween = gween.New(float32(v.ScrollY), float32(y), duration, easeFn)
}

// Scrolling reports whether a ScrollTo animation is running.
func (v *Viewport) Scrolling() bool {
	return v.scrollTween != nil
}

// Resize changes the viewport size and re-clamps the scroll offset.
func (v *Viewport) Resize(width, height float64) {
	v.Width, v.Height = width, height
	v.clamp()
}

// SetContentHeight changes the scrollable height and re-clamps.
func (v *Viewport) SetContentHeight(h float64) {
	v.ContentHeight = h
	v.clamp()
}

// Progress returns how far the page has been read, in [0, 1].
func (v *Viewport) Progress() float64 {
	max := v.MaxScroll()
	if max <= 0 {
		return 0
	}
	return clampUnit(v.ScrollY / max)
}

// VisibleBounds returns the page-space rectangle currently on screen.
func (v *Viewport) VisibleBounds() Rect {
	return Rect{Y: v.ScrollY, Width: v.Width, Height: v.Height}
}

// update advances the scroll animation. Called from Page.Update.
func (v *Viewport) update(dt float32) {
	if v.scrollTween == nil {
		return
	}
	val, done := v.scrollTween.Update(dt)
	v.ScrollY = float64(val)
	if done {
		v.scrollTween = nil
	}
	v.clamp()
}

func (v *Viewport) clamp() {
	v.ScrollY = math.Max(0, math.Min(v.ScrollY, v.MaxScroll()))
}
