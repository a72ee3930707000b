package vetbuddy

import (
	"slices"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// EventSink is the interface for optional lifecycle event integration.
// When set on a Sequencer, fire, complete and retire events are forwarded.
type EventSink interface {
	EmitEvent(event TimelineEvent)
}

// TimelineEvent carries one lifecycle change of a registration.
type TimelineEvent struct {
	Type      EventType
	TriggerID string
	Progress  float64
}

// playback drives a fire-once timeline on its own clock. The clock is a
// linear gween tween from 0 to 1 over the timeline's duration.
type playback struct {
	clock     *gween.Tween
	delay     float64
	remaining int // extra plays left; -1 forever
}

func newPlayback(tl *Timeline) *playback {
	return &playback{
		clock:     gween.New(0, 1, float32(tl.Duration), ease.Linear),
		delay:     tl.Delay,
		remaining: tl.Repeat,
	}
}

// update advances the clock by dt seconds and returns the timeline progress.
// started is false while the delay is still running; done is true once the
// final play has finished.
func (p *playback) update(dt float64) (progress float64, started, done bool) {
	if p.delay > 0 {
		p.delay -= dt
		if p.delay > 0 {
			return 0, false, false
		}
		dt = -p.delay
		p.delay = 0
	}
	val, finished := p.clock.Update(float32(dt))
	if !finished {
		return clampUnit(float64(val)), true, false
	}
	if p.remaining == 0 {
		return 1, true, true
	}
	if p.remaining > 0 {
		p.remaining--
	}
	p.clock.Reset()
	return 1, true, false
}

// Sequencer advances registered timelines. Scrubbed timelines follow progress
// directly; fire-once timelines start playing on the sequencer clock the
// first time their progress leaves 0 and never fire again for the same
// registration.
//
// There is no global sequencer. Each page constructs its own and hands it to
// the sections it mounts.
type Sequencer struct {
	reg  *Registry
	sink EventSink
	log  *zap.Logger
}

// NewSequencer creates a sequencer that receives progress from reg.
func NewSequencer(reg *Registry, opts ...Option) *Sequencer {
	o := buildOptions(opts)
	s := &Sequencer{reg: reg, sink: o.sink, log: o.logger}
	reg.onProgress = s.Advance
	reg.onRetire = s.retired
	return s
}

// Registry returns the registry the sequencer drives.
func (s *Sequencer) Registry() *Registry {
	return s.reg
}

// SetEventSink sets the optional lifecycle event sink.
func (s *Sequencer) SetEventSink(sink EventSink) {
	s.sink = sink
}

// Register is shorthand for Registry().Register.
func (s *Sequencer) Register(trigger ScrollTrigger, tl *Timeline) (*Registration, error) {
	return s.reg.Register(trigger, tl)
}

// Advance applies progress to the timeline registered for triggerID.
// Progress outside [0, 1] is clamped. Unknown IDs are ignored.
func (s *Sequencer) Advance(triggerID string, progress float64) {
	reg, ok := s.reg.Lookup(triggerID)
	if !ok {
		return
	}
	progress = clampUnit(progress)
	if reg.trigger.Scrubbed {
		reg.bound.apply(progress)
		return
	}
	if reg.fired || progress <= 0 {
		return
	}
	reg.fired = true
	reg.play = newPlayback(reg.timeline)
	s.log.Debug("timeline fired", zap.String("trigger", triggerID))
	s.emit(EventFired, triggerID, 0)
}

// Tick advances every in-flight fire-once playback by dt seconds, in
// registration order.
func (s *Sequencer) Tick(dt float64) {
	for _, reg := range slices.Clone(s.reg.order) {
		// A callback earlier in this tick may have retired it.
		if reg.retired || reg.play == nil {
			continue
		}
		progress, started, done := reg.play.update(dt)
		if !started {
			continue
		}
		reg.bound.apply(progress)
		if done {
			reg.play = nil
			s.emit(EventCompleted, reg.trigger.ID, 1)
		}
	}
}

// Playing returns the number of in-flight playbacks.
func (s *Sequencer) Playing() int {
	n := 0
	for _, reg := range s.reg.order {
		if reg.play != nil {
			n++
		}
	}
	return n
}

func (s *Sequencer) retired(reg *Registration) {
	s.emit(EventRetired, reg.trigger.ID, 0)
}

func (s *Sequencer) emit(t EventType, triggerID string, progress float64) {
	if s.sink != nil {
		s.sink.EmitEvent(TimelineEvent{Type: t, TriggerID: triggerID, Progress: progress})
	}
}
