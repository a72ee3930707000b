package vetbuddy

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default element tint.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left of the page, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Random returns a random float64 in [Min, Max] drawn from rng.
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// Property names one animatable visual property of an Element.
type Property uint8

const (
	PropOpacity     Property = iota // element opacity in [0, 1]
	PropX                           // horizontal translation in pixels
	PropY                           // vertical translation in pixels
	PropScale                       // uniform scale factor
	PropRotation                    // rotation in radians
	PropWidth                       // width as a percentage of the layout box
	PropBackgroundX                 // background position in percent (gradient sweeps)
	PropText                        // numeric text value rendered through TextFormat
	propCount
)

var propertyNames = [propCount]string{
	PropOpacity:     "opacity",
	PropX:           "x",
	PropY:           "y",
	PropScale:       "scale",
	PropRotation:    "rotation",
	PropWidth:       "width",
	PropBackgroundX: "backgroundX",
	PropText:        "text",
}

// String returns the property's layout name.
func (p Property) String() string {
	if p < propCount {
		return propertyNames[p]
	}
	return fmt.Sprintf("Property(%d)", p)
}

// ParseProperty maps a layout name (as returned by String) to a Property.
func ParseProperty(name string) (Property, error) {
	for i, n := range propertyNames {
		if n == name {
			return Property(i), nil
		}
	}
	return 0, fmt.Errorf("unknown property %q", name)
}

// EventType identifies a timeline lifecycle event.
type EventType uint8

const (
	EventFired     EventType = iota // a fire-once timeline crossed into view and started playing
	EventCompleted                  // a fire-once playback reached its end
	EventRetired                    // a registration was unregistered or replaced
)

// clampUnit clamps v to [0, 1]. NaN maps to 0.
func clampUnit(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
