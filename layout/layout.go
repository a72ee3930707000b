// Package layout describes landing pages as data: sections, their element
// trees and the scroll triggers that animate them. Layouts are YAML; Build
// turns one into mountable vetbuddy sections.
package layout

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/phanxgames/vetbuddy"
)

//go:embed landing.yaml
var landingYAML []byte

// Layout is a whole page.
type Layout struct {
	Title    string        `yaml:"title"`
	Sections []SectionSpec `yaml:"sections"`
}

// SectionSpec is one section: a root box of the given height, its elements
// and its triggers. Sections stack top to bottom in file order.
type SectionSpec struct {
	ID       string        `yaml:"id"`
	Height   float64       `yaml:"height"`
	Color    string        `yaml:"color"`
	Elements []ElementSpec `yaml:"elements"`
	Triggers []TriggerSpec `yaml:"triggers"`
}

// ElementSpec is one element. Box is x, y, width, height relative to the
// parent.
type ElementSpec struct {
	ID       string        `yaml:"id"`
	Classes  []string      `yaml:"classes"`
	Box      [4]float64    `yaml:"box"`
	Color    string        `yaml:"color"`
	Text     string        `yaml:"text"`
	Format   *FormatSpec   `yaml:"format"`
	Children []ElementSpec `yaml:"children"`
}

// FormatSpec selects how an element's animated text value is rendered.
//
//	counter: prefix + integer part of the value + suffix
//	typing:  the first value*len(text) runes of the element text
type FormatSpec struct {
	Kind   string `yaml:"kind"`
	Prefix string `yaml:"prefix"`
	Suffix string `yaml:"suffix"`
}

// TriggerSpec is one scroll trigger and its timeline. Element selects the
// reference element within the section; empty means the section root.
// Start and End use the "<element> <viewport> [+=px]" boundary syntax.
type TriggerSpec struct {
	ID       string     `yaml:"id"`
	Element  string     `yaml:"element"`
	Start    string     `yaml:"start"`
	End      string     `yaml:"end"`
	Scrub    bool       `yaml:"scrub"`
	Duration *float64   `yaml:"duration"`
	Delay    float64    `yaml:"delay"`
	Repeat   int        `yaml:"repeat"`
	Steps    []StepSpec `yaml:"steps"`
}

// StepSpec is one step. A property listed only in From animates to its
// resting value and vice versa. A nil Duration runs to the end of the
// timeline.
type StepSpec struct {
	Target   string             `yaml:"target"`
	From     map[string]float64 `yaml:"from"`
	To       map[string]float64 `yaml:"to"`
	Offset   float64            `yaml:"offset"`
	Duration *float64           `yaml:"duration"`
	Stagger  float64            `yaml:"stagger"`
	Ease     string             `yaml:"ease"`
}

// Load parses and validates a layout. Unknown keys are errors.
func Load(data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var l Layout
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads and parses a layout file.
func LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Load(data)
}

// Default returns the built-in VetBuddy landing page.
func Default() (*Layout, error) {
	return Load(landingYAML)
}

// Validate reports every problem in the layout at once.
func (l *Layout) Validate() error {
	var errs []error
	if len(l.Sections) == 0 {
		errs = append(errs, errors.New("layout has no sections"))
	}
	sections := make(map[string]bool)
	triggers := make(map[string]bool)
	for i, s := range l.Sections {
		where := fmt.Sprintf("section %d (%s)", i, s.ID)
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("%s: missing id", where))
		} else if sections[s.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate section id", where))
		}
		sections[s.ID] = true
		if s.Height <= 0 {
			errs = append(errs, fmt.Errorf("%s: height must be positive", where))
		}
		if _, err := parseColor(s.Color); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}
		errs = append(errs, validateElements(where, s.Elements)...)
		for _, t := range s.Triggers {
			if triggers[t.ID] {
				errs = append(errs, fmt.Errorf("%s: duplicate trigger id %q", where, t.ID))
			}
			triggers[t.ID] = true
			if _, err := compileTrigger(t); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", where, err))
			}
		}
	}
	return errors.Join(errs...)
}

func validateElements(where string, specs []ElementSpec) []error {
	var errs []error
	for _, e := range specs {
		if _, err := parseColor(e.Color); err != nil {
			errs = append(errs, fmt.Errorf("%s: element %q: %w", where, e.ID, err))
		}
		if e.Format != nil && e.Format.Kind != "counter" && e.Format.Kind != "typing" {
			errs = append(errs, fmt.Errorf("%s: element %q: unknown format %q", where, e.ID, e.Format.Kind))
		}
		errs = append(errs, validateElements(where, e.Children)...)
	}
	return errs
}

// compiled is a TriggerSpec with its strings parsed. The reference element
// is resolved later, against a built section.
type compiled struct {
	start    vetbuddy.Boundary
	end      vetbuddy.Boundary
	timeline *vetbuddy.Timeline
}

func compileTrigger(t TriggerSpec) (*compiled, error) {
	if t.ID == "" {
		return nil, errors.New("trigger without id")
	}
	start, err := vetbuddy.ParseBoundary(defaultString(t.Start, "top bottom"))
	if err != nil {
		return nil, fmt.Errorf("trigger %q start: %w", t.ID, err)
	}
	end, err := vetbuddy.ParseBoundary(defaultString(t.End, "bottom top"))
	if err != nil {
		return nil, fmt.Errorf("trigger %q end: %w", t.ID, err)
	}
	tl := &vetbuddy.Timeline{Duration: 1, Delay: t.Delay, Repeat: t.Repeat}
	if t.Duration != nil {
		tl.Duration = *t.Duration
	}
	for i, s := range t.Steps {
		step, err := compileStep(s)
		if err != nil {
			return nil, fmt.Errorf("trigger %q step %d: %w", t.ID, i, err)
		}
		tl.Add(step)
	}
	if err := tl.Validate(); err != nil {
		return nil, fmt.Errorf("trigger %q: %w", t.ID, err)
	}
	return &compiled{start: start, end: end, timeline: tl}, nil
}

func compileStep(s StepSpec) (vetbuddy.Step, error) {
	if strings.TrimSpace(s.Target) == "" {
		return vetbuddy.Step{}, errors.New("missing target")
	}
	fn, err := vetbuddy.EaseByName(s.Ease)
	if err != nil {
		return vetbuddy.Step{}, err
	}
	deltas, err := compileDeltas(s.From, s.To)
	if err != nil {
		return vetbuddy.Step{}, err
	}
	dur := 1 - s.Offset
	if s.Duration != nil {
		dur = *s.Duration
	}
	return vetbuddy.Step{
		Target:   s.Target,
		Deltas:   deltas,
		Offset:   s.Offset,
		Duration: dur,
		Stagger:  s.Stagger,
		Ease:     fn,
	}, nil
}

// compileDeltas pairs from/to values in property order, so the same YAML
// always produces the same step.
func compileDeltas(from, to map[string]float64) ([]vetbuddy.Delta, error) {
	var props []vetbuddy.Property
	for _, m := range []map[string]float64{from, to} {
		for name := range m {
			p, err := vetbuddy.ParseProperty(name)
			if err != nil {
				return nil, err
			}
			props = append(props, p)
		}
	}
	slices.Sort(props)
	props = slices.Compact(props)
	deltas := make([]vetbuddy.Delta, 0, len(props))
	for _, p := range props {
		d := vetbuddy.Delta{Property: p, From: restingValue(p), To: restingValue(p)}
		if v, ok := from[p.String()]; ok {
			d.From = v
		}
		if v, ok := to[p.String()]; ok {
			d.To = v
		}
		deltas = append(deltas, d)
	}
	return deltas, nil
}

// restingValue is a property's value on a freshly created element.
func restingValue(p vetbuddy.Property) float64 {
	switch p {
	case vetbuddy.PropOpacity, vetbuddy.PropScale:
		return 1
	case vetbuddy.PropWidth:
		return 100
	}
	return 0
}

func defaultString(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// parseColor parses "#rrggbb" or "#rrggbbaa". Empty means transparent.
func parseColor(s string) (vetbuddy.Color, error) {
	if s == "" {
		return vetbuddy.Color{}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return vetbuddy.Color{}, fmt.Errorf("bad color %q", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return vetbuddy.Color{}, fmt.Errorf("bad color %q", s)
	}
	return vetbuddy.Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
