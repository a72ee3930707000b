package vetbuddy

import (
	"time"

	"go.uber.org/zap"
)

// frameStats holds per-frame timing and draw metrics.
// Only populated when the page runs in debug mode.
type frameStats struct {
	updateTime    time.Duration
	drawTime      time.Duration
	elementsDrawn int
	registrations int
	playing       int
	subscriptions int
	bgDrawCalls   int
}

// debugLog writes the frame's stats at debug level.
func (p *Page) debugLog(stats frameStats) {
	if !p.debug {
		return
	}
	p.log.Debug("frame",
		zap.Duration("update", stats.updateTime),
		zap.Duration("draw", stats.drawTime),
		zap.Int("elements", stats.elementsDrawn),
		zap.Int("registrations", stats.registrations),
		zap.Int("subscriptions", stats.subscriptions),
		zap.Int("playing", stats.playing),
		zap.Int("bg_draw_calls", stats.bgDrawCalls))
}

// debugMaxTreeDepth is the element nesting depth past which a section
// triggers a warning when mounted in debug mode.
const debugMaxTreeDepth = 32

// debugCheckTreeDepth warns if any element under root nests deeper than
// debugMaxTreeDepth.
func (p *Page) debugCheckTreeDepth(root *Element) {
	var walk func(e *Element, depth int)
	walk = func(e *Element, depth int) {
		if depth > debugMaxTreeDepth {
			p.log.Warn("element tree too deep",
				zap.String("element", e.ID),
				zap.Int("depth", depth),
				zap.Int("threshold", debugMaxTreeDepth))
			return
		}
		for _, c := range e.children {
			walk(c, depth+1)
		}
	}
	walk(root, 1)
}
