package vetbuddy

import (
	"errors"
	"fmt"
)

// ErrSectionMounted is returned when mounting a section that is already on a
// page.
var ErrSectionMounted = errors.New("vetbuddy: section is already mounted")

type sectionBinding struct {
	trigger  ScrollTrigger
	timeline *Timeline
}

// Section is one page section: an element subtree plus the trigger/timeline
// pairs it registers while mounted.
type Section struct {
	Root *Element

	bindings []sectionBinding
	regs     []*Registration
	doc      *Document
}

// NewSection creates a section rooted at root.
func NewSection(root *Element) *Section {
	return &Section{Root: root}
}

// ID returns the section root's element ID.
func (s *Section) ID() string {
	return s.Root.ID
}

// Bind adds a trigger/timeline pair registered on every Mount. A trigger
// without a reference element or scope is measured against, and searches
// within, the section root.
func (s *Section) Bind(trigger ScrollTrigger, tl *Timeline) *Section {
	if trigger.Element == nil {
		trigger.Element = s.Root
	}
	if trigger.Scope == nil {
		trigger.Scope = s.Root
	}
	s.bindings = append(s.bindings, sectionBinding{trigger: trigger, timeline: tl})
	return s
}

// Triggers returns the bound triggers in bind order.
func (s *Section) Triggers() []ScrollTrigger {
	out := make([]ScrollTrigger, len(s.bindings))
	for i, b := range s.bindings {
		out[i] = b.trigger
	}
	return out
}

// Registrations returns the live registrations while mounted.
func (s *Section) Registrations() []*Registration {
	return s.regs
}

// Mounted reports whether the section is attached to a document.
func (s *Section) Mounted() bool {
	return s.doc != nil
}

// Mount attaches the section root to doc and registers its timelines with
// seq. If any registration fails, everything done so far is undone and the
// error is returned.
func (s *Section) Mount(doc *Document, seq *Sequencer) error {
	if s.doc != nil {
		return fmt.Errorf("mount %q: %w", s.ID(), ErrSectionMounted)
	}
	doc.Root().AddChild(s.Root)
	s.doc = doc
	for _, b := range s.bindings {
		reg, err := seq.Register(b.trigger, b.timeline)
		if err != nil {
			s.Unmount()
			return fmt.Errorf("mount %q: %w", s.ID(), err)
		}
		s.regs = append(s.regs, reg)
	}
	return nil
}

// Unmount unregisters the section's timelines and detaches its root. A
// later Mount registers fresh timelines, so fire-once steps play again.
func (s *Section) Unmount() {
	for _, reg := range s.regs {
		reg.Unregister()
	}
	s.regs = nil
	s.Root.RemoveFromParent()
	s.doc = nil
}
