package vetbuddy

import (
	"fmt"
	"slices"

	"go.uber.org/zap"
)

// Registration is one trigger bound to one timeline. It stays valid until it
// is unregistered, replaced by a registration with the same trigger ID, or
// its reference element leaves the document.
type Registration struct {
	trigger  ScrollTrigger
	timeline *Timeline
	bound    *binding
	sub      Subscription
	owner    *Registry
	retired  bool

	// Fire-once state, owned by the Sequencer.
	fired bool
	play  *playback
}

// Trigger returns the registered trigger.
func (r *Registration) Trigger() ScrollTrigger { return r.trigger }

// Timeline returns the registered timeline.
func (r *Registration) Timeline() *Timeline { return r.timeline }

// Retired reports whether the registration no longer receives progress.
func (r *Registration) Retired() bool { return r.retired }

// Fired reports whether a fire-once registration has started playing.
func (r *Registration) Fired() bool { return r.fired }

// Playing reports whether a fire-once playback is in flight.
func (r *Registration) Playing() bool { return r.play != nil && !r.retired }

// MissingTargets lists step selectors that matched nothing at registration.
func (r *Registration) MissingTargets() []string { return r.bound.missing }

// Unregister retires the registration. Safe to call more than once.
func (r *Registration) Unregister() {
	if r.owner != nil {
		r.owner.Unregister(r)
	}
}

// Registry maps trigger IDs to their active timeline, at most one each, in
// registration order.
type Registry struct {
	obs        *Observer
	doc        *Document
	byID       map[string]*Registration
	order      []*Registration
	onProgress ProgressFunc
	onRetire   func(*Registration)
	log        *zap.Logger
}

// NewRegistry creates a registry that observes triggers through obs and
// resolves step targets in doc. An observer serves a single registry.
func NewRegistry(obs *Observer, doc *Document, opts ...Option) *Registry {
	o := buildOptions(opts)
	r := &Registry{
		obs:  obs,
		doc:  doc,
		byID: make(map[string]*Registration),
		log:  o.logger,
	}
	obs.onDrop = r.dropped
	return r
}

// Register binds trigger to tl. Any registration already holding the
// trigger's ID is retired first. The timeline's initial state is written to
// its targets before the first progress report.
func (r *Registry) Register(trigger ScrollTrigger, tl *Timeline) (*Registration, error) {
	if tl == nil {
		return nil, fmt.Errorf("register %q: %w", trigger.ID, ErrNilTimeline)
	}
	if err := trigger.validate(r.obs.State().ViewportH); err != nil {
		return nil, fmt.Errorf("register %q: %w", trigger.ID, err)
	}
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("register %q: %w", trigger.ID, err)
	}

	if prev, ok := r.byID[trigger.ID]; ok {
		r.retire(prev)
	}

	scope := trigger.Scope
	if scope == nil && r.doc != nil {
		scope = r.doc.Root()
	}
	reg := &Registration{
		trigger:  trigger,
		timeline: tl,
		bound:    bindTimeline(scope, tl),
		owner:    r,
	}
	for _, sel := range reg.bound.missing {
		r.log.Debug("step target not found, step is a no-op",
			zap.String("trigger", trigger.ID),
			zap.String("target", sel))
	}
	r.byID[trigger.ID] = reg
	r.order = append(r.order, reg)

	reg.bound.apply(0)
	// The handle is stored before the first report, which may retire reg.
	var s *subscription
	s, reg.sub = r.obs.subscribe(trigger, r.forward)
	r.obs.evaluate(s)
	return reg, nil
}

// forward hands observer progress to the bound sequencer.
func (r *Registry) forward(triggerID string, progress float64) {
	if r.onProgress != nil {
		r.onProgress(triggerID, progress)
	}
}

// Unregister retires reg. Safe to call from inside a progress callback.
func (r *Registry) Unregister(reg *Registration) {
	if reg == nil || reg.retired || reg.owner != r {
		return
	}
	r.retire(reg)
}

// dropped retires the registration whose reference element left the
// document without an Unregister.
func (r *Registry) dropped(sub Subscription) {
	for _, reg := range r.order {
		if reg.sub == sub {
			r.log.Debug("reference element unmounted, retiring registration",
				zap.String("trigger", reg.trigger.ID))
			r.retire(reg)
			return
		}
	}
}

func (r *Registry) retire(reg *Registration) {
	reg.retired = true
	reg.play = nil
	reg.sub.Remove()
	if r.byID[reg.trigger.ID] == reg {
		delete(r.byID, reg.trigger.ID)
	}
	if i := slices.Index(r.order, reg); i >= 0 {
		r.order = slices.Delete(r.order, i, i+1)
	}
	if r.onRetire != nil {
		r.onRetire(reg)
	}
}

// Lookup returns the active registration for a trigger ID.
func (r *Registry) Lookup(triggerID string) (*Registration, bool) {
	reg, ok := r.byID[triggerID]
	return reg, ok
}

// Active returns the active registrations in registration order. The
// returned slice MUST NOT be mutated.
func (r *Registry) Active() []*Registration {
	return r.order
}

// Len returns the number of active registrations.
func (r *Registry) Len() int {
	return len(r.order)
}

// Observer returns the observer the registry subscribes through.
func (r *Registry) Observer() *Observer {
	return r.obs
}
