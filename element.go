package vetbuddy

import (
	"math"
	"strconv"
	"strings"
)

// elementSerial is a plain counter; the page is single-threaded.
var elementSerial uint32

func nextSerial() uint32 {
	elementSerial++
	return elementSerial
}

// Element is an opaque handle to one visual element of the page. Layout is a
// box relative to the parent; the animated fields are written by the
// sequencer through SetProperty and read by the page renderer.
type Element struct {
	// Identity
	Serial  uint32
	ID      string
	Classes []string

	// Hierarchy
	Parent   *Element
	children []*Element
	root     bool // document root; an element is mounted when it reaches one

	// Layout box relative to the parent's box.
	Box Rect

	// Animated properties
	X, Y        float64
	Opacity     float64
	Scale       float64
	Rotation    float64
	Width       float64 // percent of Box.Width
	BackgroundX float64
	TextValue   float64

	// Presentation
	Color Color
	Text  string
	// TextFormat renders TextValue into Text. When nil, PropText writes the
	// integer part of the value.
	TextFormat func(v float64) string

	disposed bool
	dirty    bool
}

// NewElement creates a detached element with default visual state.
func NewElement(id string, box Rect, classes ...string) *Element {
	return &Element{
		Serial:  nextSerial(),
		ID:      id,
		Classes: classes,
		Box:     box,
		Opacity: 1,
		Scale:   1,
		Width:   100,
		Color:   ColorWhite,
		dirty:   true,
	}
}

// HasClass reports whether the element carries the given class.
func (e *Element) HasClass(class string) bool {
	for _, c := range e.Classes {
		if c == class {
			return true
		}
	}
	return false
}

// AddChild appends child to e, detaching it from any previous parent.
func (e *Element) AddChild(child *Element) {
	if child == nil {
		panic("vetbuddy: cannot add nil child")
	}
	for p := e; p != nil; p = p.Parent {
		if p == child {
			panic("vetbuddy: adding child would create a cycle")
		}
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = e
	e.children = append(e.children, child)
	child.MarkDirty()
}

// RemoveFromParent detaches e from its parent. No-op when detached.
func (e *Element) RemoveFromParent() {
	if e.Parent == nil {
		return
	}
	e.Parent.removeChildByPtr(e)
	e.Parent = nil
}

// Children returns the child list. The returned slice MUST NOT be mutated.
func (e *Element) Children() []*Element {
	return e.children
}

// Mounted reports whether e is attached to a document and not disposed.
func (e *Element) Mounted() bool {
	for p := e; p != nil; p = p.Parent {
		if p.disposed {
			return false
		}
		if p.root {
			return true
		}
	}
	return false
}

// PageBox returns the element's layout box in page coordinates.
func (e *Element) PageBox() Rect {
	b := e.Box
	for p := e.Parent; p != nil; p = p.Parent {
		b.X += p.Box.X
		b.Y += p.Box.Y
	}
	return b
}

// Query returns the elements in e's subtree (e included) matching selector,
// in document order. "#id" matches IDs, ".class" matches classes and a bare
// word matches either. Disposed elements never match.
func (e *Element) Query(selector string) []*Element {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	var out []*Element
	var walk func(n *Element)
	walk = func(n *Element) {
		if n.disposed {
			return
		}
		if n.matches(selector) {
			out = append(out, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(e)
	return out
}

func (e *Element) matches(selector string) bool {
	switch selector[0] {
	case '#':
		return e.ID == selector[1:]
	case '.':
		return e.HasClass(selector[1:])
	default:
		return e.ID == selector || e.HasClass(selector)
	}
}

// SetProperty writes one animated property. Writes to disposed elements are
// dropped.
func (e *Element) SetProperty(p Property, v float64) {
	if e.disposed {
		return
	}
	switch p {
	case PropOpacity:
		e.Opacity = v
	case PropX:
		e.X = v
	case PropY:
		e.Y = v
	case PropScale:
		e.Scale = v
	case PropRotation:
		e.Rotation = v
	case PropWidth:
		e.Width = v
	case PropBackgroundX:
		e.BackgroundX = v
	case PropText:
		e.TextValue = v
		if e.TextFormat != nil {
			e.Text = e.TextFormat(v)
		} else {
			e.Text = strconv.Itoa(int(math.Floor(v)))
		}
	default:
		return
	}
	e.dirty = true
}

// Property reads one animated property.
func (e *Element) Property(p Property) float64 {
	switch p {
	case PropOpacity:
		return e.Opacity
	case PropX:
		return e.X
	case PropY:
		return e.Y
	case PropScale:
		return e.Scale
	case PropRotation:
		return e.Rotation
	case PropWidth:
		return e.Width
	case PropBackgroundX:
		return e.BackgroundX
	case PropText:
		return e.TextValue
	}
	return 0
}

// MarkDirty flags the element for redraw.
func (e *Element) MarkDirty() {
	e.dirty = true
}

// Dispose detaches e, marks it and all descendants as disposed. Observers
// watching a disposed element retire their subscriptions on the next pass.
func (e *Element) Dispose() {
	if e.disposed {
		return
	}
	e.RemoveFromParent()
	e.dispose()
}

func (e *Element) dispose() {
	e.disposed = true
	for _, c := range e.children {
		c.Parent = nil
		c.dispose()
	}
	e.children = nil
	e.TextFormat = nil
}

// IsDisposed returns true if this element has been disposed.
func (e *Element) IsDisposed() bool {
	return e.disposed
}

func (e *Element) removeChildByPtr(child *Element) {
	for i, c := range e.children {
		if c == child {
			copy(e.children[i:], e.children[i+1:])
			e.children[len(e.children)-1] = nil
			e.children = e.children[:len(e.children)-1]
			return
		}
	}
}

// Document is the mounted element tree of one page.
type Document struct {
	root *Element
}

// NewDocument creates a document whose root spans width pixels.
func NewDocument(width float64) *Document {
	root := NewElement("root", Rect{Width: width})
	root.root = true
	return &Document{root: root}
}

// Root returns the document's root element.
func (d *Document) Root() *Element {
	return d.root
}

// Query searches the whole document. See Element.Query.
func (d *Document) Query(selector string) []*Element {
	return d.root.Query(selector)
}

// ElementByID returns the first mounted element with the given ID.
func (d *Document) ElementByID(id string) *Element {
	found := d.root.Query("#" + id)
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// Height returns the bottom of the lowest top-level child, in page pixels.
func (d *Document) Height() float64 {
	h := 0.0
	for _, c := range d.root.children {
		if b := c.PageBox().Bottom(); b > h {
			h = b
		}
	}
	return h
}
