package vetbuddy

import (
	"math"
	"slices"

	"go.uber.org/zap"
)

// ProgressEpsilon is the smallest progress change an observer reports.
const ProgressEpsilon = 1e-4

// ProgressFunc receives a trigger's progress fraction.
type ProgressFunc func(triggerID string, progress float64)

// ScrollState is the observer's view of the page: scroll offset and viewport
// size. Only the Observer writes it.
type ScrollState struct {
	ScrollY   float64
	ViewportW float64
	ViewportH float64
}

type subscription struct {
	id      uint32
	trigger ScrollTrigger
	fn      ProgressFunc
	last    float64
	primed  bool
	active  bool
}

// Subscription allows removing an observed trigger.
type Subscription struct {
	id  uint32
	obs *Observer
}

// Remove stops observation. Safe to call more than once and from inside a
// progress callback.
func (s Subscription) Remove() {
	if s.obs != nil {
		s.obs.Unobserve(s)
	}
}

// Active reports whether the subscription is still observed. Subscriptions
// are retired by Remove or when their reference element is unmounted.
func (s Subscription) Active() bool {
	if s.obs == nil {
		return false
	}
	return s.obs.find(s.id) != nil
}

// Observer watches scroll and resize events and reports per-trigger progress.
// It never writes to elements.
type Observer struct {
	state  ScrollState
	subs   []*subscription
	nextID uint32
	log    *zap.Logger

	// onDrop is told when a subscription retires because its reference
	// element left the document.
	onDrop func(sub Subscription)
}

// NewObserver creates an observer for a viewport of the given size.
func NewObserver(viewportW, viewportH float64, opts ...Option) *Observer {
	o := buildOptions(opts)
	return &Observer{
		state: ScrollState{ViewportW: viewportW, ViewportH: viewportH},
		log:   o.logger,
	}
}

// Observe starts reporting progress for trigger to fn. The current progress
// is reported immediately.
func (o *Observer) Observe(trigger ScrollTrigger, fn ProgressFunc) Subscription {
	s, sub := o.subscribe(trigger, fn)
	o.evaluate(s)
	return sub
}

// subscribe adds a subscription without reporting, so the caller can store
// the handle before any callback runs.
func (o *Observer) subscribe(trigger ScrollTrigger, fn ProgressFunc) (*subscription, Subscription) {
	o.nextID++
	s := &subscription{id: o.nextID, trigger: trigger, fn: fn, active: true}
	o.subs = append(o.subs, s)
	return s, Subscription{id: s.id, obs: o}
}

// Unobserve stops reporting progress for sub.
func (o *Observer) Unobserve(sub Subscription) {
	for i, s := range o.subs {
		if s.id == sub.id {
			s.active = false
			o.subs = slices.Delete(o.subs, i, i+1)
			return
		}
	}
}

// SetScroll records a new scroll offset and dispatches changed progress.
func (o *Observer) SetScroll(y float64) {
	if y == o.state.ScrollY {
		return
	}
	o.state.ScrollY = y
	o.dispatch()
}

// Resize records a new viewport size and dispatches changed progress.
func (o *Observer) Resize(w, h float64) {
	if w == o.state.ViewportW && h == o.state.ViewportH {
		return
	}
	o.state.ViewportW, o.state.ViewportH = w, h
	o.dispatch()
}

// Refresh recomputes every subscription without a scroll or resize, e.g.
// after layout changes moved reference elements.
func (o *Observer) Refresh() {
	o.dispatch()
}

// State returns a copy of the current scroll state.
func (o *Observer) State() ScrollState {
	return o.state
}

// Progress returns the last reported progress for an observed trigger ID.
func (o *Observer) Progress(triggerID string) (float64, bool) {
	for _, s := range o.subs {
		if s.trigger.ID == triggerID && s.primed {
			return s.last, true
		}
	}
	return 0, false
}

// Len returns the number of active subscriptions.
func (o *Observer) Len() int {
	return len(o.subs)
}

// dispatch walks a snapshot so callbacks may observe or unobserve freely.
func (o *Observer) dispatch() {
	for _, s := range slices.Clone(o.subs) {
		if s.active {
			o.evaluate(s)
		}
	}
}

func (o *Observer) evaluate(s *subscription) {
	if el := s.trigger.Element; el != nil && !el.Mounted() {
		o.log.Debug("retiring subscription for unmounted element",
			zap.String("trigger", s.trigger.ID),
			zap.String("element", el.ID))
		o.Unobserve(Subscription{id: s.id})
		if o.onDrop != nil {
			o.onDrop(Subscription{id: s.id, obs: o})
		}
		return
	}
	p := s.trigger.Progress(o.state.ScrollY, o.state.ViewportH)
	// Small changes are dropped, but landing exactly on an end always reports.
	if s.primed && (p == s.last || (math.Abs(p-s.last) <= ProgressEpsilon && p != 0 && p != 1)) {
		return
	}
	s.last = p
	s.primed = true
	s.fn(s.trigger.ID, p)
}

func (o *Observer) find(id uint32) *subscription {
	for _, s := range o.subs {
		if s.id == id {
			return s
		}
	}
	return nil
}
