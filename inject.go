package vetbuddy

import "math"

type inputKind uint8

const (
	inputScroll inputKind = iota // relative scroll by y pixels
	inputJump                    // absolute scroll to y
	inputPointer                 // pointer at screen (x, y)
	inputResize                  // viewport resized to x by y
)

// syntheticInput represents a single injected input event. Pointer
// coordinates are screen pixels, identical to real mouse input.
type syntheticInput struct {
	kind inputKind
	x, y float64
}

// InjectScroll queues a relative scroll of dy pixels, consumed on the next
// Update in place of real wheel input.
func (p *Page) InjectScroll(dy float64) {
	p.injectQueue = append(p.injectQueue, syntheticInput{kind: inputScroll, y: dy})
}

// InjectScrollTo queues a scroll to y spread linearly over frames frames. It
// starts from the offset the viewport will have once the events already
// queued have been applied.
func (p *Page) InjectScrollTo(y float64, frames int) {
	if frames < 1 {
		frames = 1
	}
	from := p.queuedScrollY()
	for i := 1; i <= frames; i++ {
		t := float64(i) / float64(frames)
		p.injectQueue = append(p.injectQueue, syntheticInput{kind: inputJump, y: from + (y-from)*t})
	}
}

// queuedScrollY replays the queued scroll, jump and resize events against the
// current viewport and returns the resulting offset.
func (p *Page) queuedScrollY() float64 {
	y, height := p.viewport.ScrollY, p.viewport.Height
	for _, q := range p.injectQueue {
		switch q.kind {
		case inputScroll:
			y += q.y
		case inputJump:
			y = q.y
		case inputResize:
			height = q.y
		default:
			continue
		}
		y = math.Max(0, math.Min(y, math.Max(0, p.viewport.ContentHeight-height)))
	}
	return y
}

// InjectPointer queues a pointer move to screen coordinates (x, y).
func (p *Page) InjectPointer(x, y float64) {
	p.injectQueue = append(p.injectQueue, syntheticInput{kind: inputPointer, x: x, y: y})
}

// InjectResize queues a viewport resize.
func (p *Page) InjectResize(width, height float64) {
	p.injectQueue = append(p.injectQueue, syntheticInput{kind: inputResize, x: width, y: height})
}

// processInjectedInput pops one event from the inject queue and applies it.
// Returns true if an event was consumed (real input should be skipped).
func (p *Page) processInjectedInput() bool {
	if len(p.injectQueue) == 0 {
		return false
	}
	evt := p.injectQueue[0]
	copy(p.injectQueue, p.injectQueue[1:])
	p.injectQueue = p.injectQueue[:len(p.injectQueue)-1]

	switch evt.kind {
	case inputScroll:
		p.viewport.ScrollBy(evt.y)
	case inputJump:
		p.viewport.Jump(evt.y)
	case inputPointer:
		p.pointer.Move(evt.x, evt.y)
	case inputResize:
		p.Resize(evt.x, evt.y)
	}
	return true
}
