package vetbuddy

import (
	"errors"
	"fmt"

	"github.com/tanema/gween/ease"
)

var (
	ErrNilTimeline  = errors.New("vetbuddy: timeline is nil")
	ErrStepOrder    = errors.New("vetbuddy: step offsets must be non-decreasing")
	ErrStepOverflow = errors.New("vetbuddy: step window exceeds the timeline")
	ErrBadRepeat    = errors.New("vetbuddy: repeat must be -1 or greater")
)

// Delta is one property's from/to pair.
type Delta struct {
	Property Property
	From, To float64
}

// Step is one visual mutation within a Timeline. Offset and Duration are
// fractions of the timeline; Stagger offsets each successive target of a
// grouped selector.
type Step struct {
	Target   string
	Deltas   []Delta
	Offset   float64
	Duration float64
	Stagger  float64
	// Ease shapes the step's window. Nil is linear.
	Ease ease.TweenFunc
}

// Timeline is an ordered sequence of steps normalized to [0, 1]. Duration,
// Delay and Repeat only matter for fire-once playback.
type Timeline struct {
	Steps []Step
	// Duration is the playback length in seconds. Zero completes in one tick.
	Duration float64
	// Delay is the wait in seconds between firing and the first frame.
	Delay float64
	// Repeat is the number of extra plays; -1 repeats forever.
	Repeat int
}

// NewTimeline creates a one-second timeline with the given steps.
func NewTimeline(steps ...Step) *Timeline {
	return &Timeline{Steps: steps, Duration: 1}
}

// Add appends a step at its own Offset.
func (t *Timeline) Add(s Step) *Timeline {
	t.Steps = append(t.Steps, s)
	return t
}

// Then appends a step starting where the previous step's window ends.
func (t *Timeline) Then(s Step) *Timeline {
	if n := len(t.Steps); n > 0 {
		last := t.Steps[n-1]
		s.Offset = last.Offset + last.Duration
	}
	return t.Add(s)
}

// Len returns the number of steps.
func (t *Timeline) Len() int {
	return len(t.Steps)
}

// Validate checks step ordering and bounds.
func (t *Timeline) Validate() error {
	const slack = 1e-9
	prev := 0.0
	for i, s := range t.Steps {
		if s.Offset < 0 || s.Duration < 0 || s.Stagger < 0 {
			return fmt.Errorf("%w: step %d has a negative offset, duration or stagger", ErrStepOverflow, i)
		}
		if s.Offset < prev {
			return fmt.Errorf("%w: step %d starts at %g before %g", ErrStepOrder, i, s.Offset, prev)
		}
		if s.Offset+s.Duration > 1+slack {
			return fmt.Errorf("%w: step %d ends at %g", ErrStepOverflow, i, s.Offset+s.Duration)
		}
		prev = s.Offset
	}
	if t.Repeat < -1 {
		return ErrBadRepeat
	}
	return nil
}

// window is one target's slice of the timeline.
type window struct {
	start, duration float64
}

// fraction returns the eased position of progress within w: 0 before the
// window, 1 after it.
func (w window) fraction(progress float64, fn ease.TweenFunc) float64 {
	if w.duration <= 0 {
		if progress >= w.start {
			return 1
		}
		return 0
	}
	local := (progress - w.start) / w.duration
	if local <= 0 {
		return 0
	}
	if local >= 1 {
		return 1
	}
	return easeFraction(fn, local)
}

// boundStep is a step resolved against the document.
type boundStep struct {
	step    Step
	targets []*Element
	windows []window
}

// propertyWrite is one pending "set property P of element E to V".
type propertyWrite struct {
	el    *Element
	prop  Property
	value float64
}

type writeKey struct {
	el   *Element
	prop Property
}

// binding is a timeline whose selectors have been resolved to elements.
type binding struct {
	steps   []boundStep
	missing []string
	seen    map[writeKey]bool
	buf     []propertyWrite
}

// bindTimeline resolves each step's target within scope. A selector with no
// match becomes a no-op step and is reported in missing.
func bindTimeline(scope *Element, tl *Timeline) *binding {
	b := &binding{seen: make(map[writeKey]bool)}
	for _, s := range tl.Steps {
		var targets []*Element
		if scope != nil {
			targets = scope.Query(s.Target)
		}
		if len(targets) == 0 {
			b.missing = append(b.missing, s.Target)
		}
		b.steps = append(b.steps, boundStep{
			step:    s,
			targets: targets,
			windows: staggerWindows(s, len(targets)),
		})
	}
	return b
}

// staggerWindows lays out n target windows. When the staggered span would run
// past the end of the timeline, stagger and duration shrink proportionally so
// the last target still finishes at 1.
func staggerWindows(s Step, n int) []window {
	if n == 0 {
		return nil
	}
	dur, stagger := s.Duration, s.Stagger
	span := dur + float64(n-1)*stagger
	if avail := 1 - s.Offset; span > avail && span > 0 {
		k := avail / span
		dur *= k
		stagger *= k
	}
	ws := make([]window, n)
	for i := range ws {
		ws[i] = window{start: s.Offset + float64(i)*stagger, duration: dur}
	}
	return ws
}

// sample computes the property writes for progress. For each element
// property the value comes from the last step whose window has started; when
// none has, the earliest step's from value holds. The result depends only on
// progress.
func (b *binding) sample(progress float64) []propertyWrite {
	clear(b.seen)
	b.buf = b.buf[:0]
	// Walk backwards so the latest started step claims each property first.
	for i := len(b.steps) - 1; i >= 0; i-- {
		bs := &b.steps[i]
		for j, el := range bs.targets {
			w := bs.windows[j]
			if progress < w.start {
				continue
			}
			f := w.fraction(progress, bs.step.Ease)
			for _, d := range bs.step.Deltas {
				k := writeKey{el, d.Property}
				if b.seen[k] {
					continue
				}
				b.seen[k] = true
				b.buf = append(b.buf, propertyWrite{el, d.Property, lerp(d.From, d.To, f)})
			}
		}
	}
	// Properties no started step owns rest at the earliest step's from value.
	for i := range b.steps {
		bs := &b.steps[i]
		for _, el := range bs.targets {
			for _, d := range bs.step.Deltas {
				k := writeKey{el, d.Property}
				if b.seen[k] {
					continue
				}
				b.seen[k] = true
				b.buf = append(b.buf, propertyWrite{el, d.Property, d.From})
			}
		}
	}
	return b.buf
}

// apply samples progress and writes the result to the elements.
func (b *binding) apply(progress float64) {
	for _, w := range b.sample(progress) {
		w.el.SetProperty(w.prop, w.value)
	}
}

// Sample evaluates tl at progress against the elements under scope without
// writing anything. It returns the value each element property would take.
func Sample(scope *Element, tl *Timeline, progress float64) map[*Element]map[Property]float64 {
	out := make(map[*Element]map[Property]float64)
	for _, w := range bindTimeline(scope, tl).sample(clampUnit(progress)) {
		m := out[w.el]
		if m == nil {
			m = make(map[Property]float64)
			out[w.el] = m
		}
		m[w.prop] = w.value
	}
	return out
}
