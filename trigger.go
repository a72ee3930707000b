package vetbuddy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrEmptyTriggerID     = errors.New("vetbuddy: trigger ID is empty")
	ErrInvertedBoundaries = errors.New("vetbuddy: start boundary resolves after end boundary")
	ErrBadBoundary        = errors.New("vetbuddy: malformed boundary")
)

// Boundary is a viewport-relative offset of a reference element. It resolves
// to the scroll offset at which the Element anchor (0 = top, 1 = bottom of the
// reference element) lines up with the Viewport anchor (0 = top, 1 = bottom of
// the viewport), shifted by Offset pixels.
type Boundary struct {
	Element  float64
	Viewport float64
	Offset   float64
}

// Resolve returns the scroll offset for b. A nil reference resolves against
// the page origin, so Boundary{Offset: 500} is simply scroll offset 500.
func (b Boundary) Resolve(ref *Element, viewportH float64) float64 {
	var top, h float64
	if ref != nil {
		box := ref.PageBox()
		top, h = box.Y, box.Height
	}
	return top + b.Element*h - b.Viewport*viewportH + b.Offset
}

// String formats b in the form accepted by ParseBoundary.
func (b Boundary) String() string {
	s := anchorString(b.Element) + " " + anchorString(b.Viewport)
	switch {
	case b.Offset > 0:
		s += " +=" + strconv.FormatFloat(b.Offset, 'g', -1, 64)
	case b.Offset < 0:
		s += " -=" + strconv.FormatFloat(-b.Offset, 'g', -1, 64)
	}
	return s
}

func anchorString(v float64) string {
	switch v {
	case 0:
		return "top"
	case 0.5:
		return "center"
	case 1:
		return "bottom"
	}
	return strconv.FormatFloat(v*100, 'g', -1, 64) + "%"
}

// ParseBoundary parses "<element-anchor> [viewport-anchor] [+=px|-=px]".
// Anchors are top, center, bottom or a percentage such as 25%. A missing
// viewport anchor defaults to top, matching "top" == "top top".
func ParseBoundary(s string) (Boundary, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 || len(fields) > 3 {
		return Boundary{}, fmt.Errorf("%w: %q", ErrBadBoundary, s)
	}
	var b Boundary
	anchors := 0
	for _, f := range fields {
		if strings.HasPrefix(f, "+=") || strings.HasPrefix(f, "-=") {
			v, err := strconv.ParseFloat(strings.TrimSuffix(f[2:], "px"), 64)
			if err != nil {
				return Boundary{}, fmt.Errorf("%w: offset %q", ErrBadBoundary, f)
			}
			if f[0] == '-' {
				v = -v
			}
			b.Offset += v
			continue
		}
		v, err := parseAnchor(f)
		if err != nil {
			return Boundary{}, fmt.Errorf("%w: %q: %v", ErrBadBoundary, s, err)
		}
		switch anchors {
		case 0:
			b.Element = v
		case 1:
			b.Viewport = v
		default:
			return Boundary{}, fmt.Errorf("%w: too many anchors in %q", ErrBadBoundary, s)
		}
		anchors++
	}
	if anchors == 0 {
		return Boundary{}, fmt.Errorf("%w: no anchor in %q", ErrBadBoundary, s)
	}
	return b, nil
}

func parseAnchor(f string) (float64, error) {
	switch f {
	case "top":
		return 0, nil
	case "center":
		return 0.5, nil
	case "bottom":
		return 1, nil
	}
	if strings.HasSuffix(f, "%") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(f, "%"), 64)
		if err != nil {
			return 0, err
		}
		return v / 100, nil
	}
	return 0, fmt.Errorf("unknown anchor %q", f)
}

// ScrollTrigger binds one region of the page to a timeline.
type ScrollTrigger struct {
	ID string
	// Element is the reference element the boundaries are measured against.
	// Nil measures against the page origin.
	Element *Element
	Start   Boundary
	End     Boundary
	// Scrubbed timelines follow scroll position continuously; the others
	// play once on their own clock when the trigger first comes into view.
	Scrubbed bool
	// Scope limits step target lookup to a subtree. Nil searches the whole
	// document.
	Scope *Element
}

// Span resolves the trigger's boundaries to scroll offsets.
func (t ScrollTrigger) Span(viewportH float64) (start, end float64) {
	return t.Start.Resolve(t.Element, viewportH), t.End.Resolve(t.Element, viewportH)
}

// Progress returns how far scrollY has advanced through the trigger's region:
// 0 before start, 1 past end, linear in between. A zero-length region acts as
// a step at its start.
func (t ScrollTrigger) Progress(scrollY, viewportH float64) float64 {
	start, end := t.Span(viewportH)
	if end <= start {
		if scrollY >= start {
			return 1
		}
		return 0
	}
	return clampUnit((scrollY - start) / (end - start))
}

func (t ScrollTrigger) validate(viewportH float64) error {
	if t.ID == "" {
		return ErrEmptyTriggerID
	}
	if start, end := t.Span(viewportH); start > end {
		return fmt.Errorf("%w (%g > %g)", ErrInvertedBoundaries, start, end)
	}
	return nil
}
