package vetbuddy

import (
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
)

// PointerState is the last known pointer or touch position, normalized to
// [-1, 1] on each axis with Y pointing up. Active is false until the first
// movement is seen.
type PointerState struct {
	X, Y   float64
	Active bool
}

type pointerHandler struct {
	id uint32
	fn func(PointerState)
}

// CallbackHandle allows removing a registered pointer listener.
type CallbackHandle struct {
	id      uint32
	tracker *PointerTracker
}

// Remove unregisters this listener so it no longer fires. Safe to call more
// than once.
func (h CallbackHandle) Remove() {
	if h.tracker == nil {
		return
	}
	t := h.tracker
	for i, ph := range t.handlers {
		if ph.id == h.id {
			t.handlers = slices.Delete(t.handlers, i, i+1)
			return
		}
	}
}

// PointerTracker owns PointerState. It is fed by polling ebiten input from
// the page loop or by injected moves, and notifies listeners on change.
type PointerTracker struct {
	state    PointerState
	width    float64
	height   float64
	handlers []pointerHandler
	nextID   uint32

	lastCursorX, lastCursorY int
	touchIDs                 []ebiten.TouchID
}

// NewPointerTracker creates a tracker for a viewport of the given size.
func NewPointerTracker(width, height float64) *PointerTracker {
	return &PointerTracker{width: width, height: height, lastCursorX: -1, lastCursorY: -1}
}

// Resize updates the viewport used for normalization.
func (t *PointerTracker) Resize(width, height float64) {
	t.width, t.height = width, height
}

// State returns the current pointer state.
func (t *PointerTracker) State() PointerState {
	return t.state
}

// OnMove registers a listener called after every pointer movement.
func (t *PointerTracker) OnMove(fn func(PointerState)) CallbackHandle {
	t.nextID++
	t.handlers = append(t.handlers, pointerHandler{id: t.nextID, fn: fn})
	return CallbackHandle{id: t.nextID, tracker: t}
}

// ListenerCount returns the number of registered listeners.
func (t *PointerTracker) ListenerCount() int {
	return len(t.handlers)
}

// Move records a pointer position in screen pixels.
func (t *PointerTracker) Move(screenX, screenY float64) {
	if t.width <= 0 || t.height <= 0 {
		return
	}
	t.state = PointerState{
		X:      clampSigned(screenX/t.width*2 - 1),
		Y:      clampSigned(-(screenY/t.height*2 - 1)),
		Active: true,
	}
	for _, h := range slices.Clone(t.handlers) {
		// A listener earlier in this dispatch may have removed it.
		if slices.ContainsFunc(t.handlers, func(x pointerHandler) bool { return x.id == h.id }) {
			h.fn(t.state)
		}
	}
}

// poll reads the mouse cursor and the first active touch from ebiten. The
// cursor only counts when it actually moved so an idle mouse does not
// override touch input.
func (t *PointerTracker) poll() {
	mx, my := ebiten.CursorPosition()
	if mx != t.lastCursorX || my != t.lastCursorY {
		t.lastCursorX, t.lastCursorY = mx, my
		t.Move(float64(mx), float64(my))
	}
	t.touchIDs = ebiten.AppendTouchIDs(t.touchIDs[:0])
	if len(t.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(t.touchIDs[0])
		t.Move(float64(tx), float64(ty))
	}
}

func clampSigned(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
