package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/phanxgames/vetbuddy"
)

// ErrUnknownElement is returned when a trigger's reference element is not in
// its section.
var ErrUnknownElement = errors.New("layout: reference element not found")

// Build creates one unmounted section per SectionSpec, with every trigger
// bound. The layout must have passed Validate.
func Build(l *Layout) ([]*vetbuddy.Section, error) {
	out := make([]*vetbuddy.Section, 0, len(l.Sections))
	for _, ss := range l.Sections {
		s, err := buildSection(ss)
		if err != nil {
			return nil, fmt.Errorf("build section %q: %w", ss.ID, err)
		}
		out = append(out, s)
	}
	return out, nil
}

// Mount builds l and adds every section to page in order. On error the
// sections added so far are removed again, leaving page as it was.
func Mount(page *vetbuddy.Page, l *Layout) ([]*vetbuddy.Section, error) {
	sections, err := Build(l)
	if err != nil {
		return nil, err
	}
	for i, s := range sections {
		if err := page.AddSection(s); err != nil {
			for _, added := range sections[:i] {
				page.RemoveSection(added)
			}
			return nil, err
		}
	}
	return sections, nil
}

func buildSection(ss SectionSpec) (*vetbuddy.Section, error) {
	c, err := parseColor(ss.Color)
	if err != nil {
		return nil, err
	}
	root := vetbuddy.NewElement(ss.ID, vetbuddy.Rect{Height: ss.Height}, "section")
	root.Color = c
	for _, es := range ss.Elements {
		el, err := buildElement(es)
		if err != nil {
			return nil, err
		}
		root.AddChild(el)
	}

	s := vetbuddy.NewSection(root)
	for _, ts := range ss.Triggers {
		ct, err := compileTrigger(ts)
		if err != nil {
			return nil, err
		}
		ref := root
		if ts.Element != "" {
			found := root.Query(ts.Element)
			if len(found) == 0 {
				return nil, fmt.Errorf("trigger %q: %w: %q", ts.ID, ErrUnknownElement, ts.Element)
			}
			ref = found[0]
		}
		s.Bind(vetbuddy.ScrollTrigger{
			ID:       ts.ID,
			Element:  ref,
			Start:    ct.start,
			End:      ct.end,
			Scrubbed: ts.Scrub,
			Scope:    root,
		}, ct.timeline)
	}
	return s, nil
}

func buildElement(es ElementSpec) (*vetbuddy.Element, error) {
	c, err := parseColor(es.Color)
	if err != nil {
		return nil, err
	}
	el := vetbuddy.NewElement(es.ID, vetbuddy.Rect{
		X: es.Box[0], Y: es.Box[1], Width: es.Box[2], Height: es.Box[3],
	}, es.Classes...)
	el.Color = c
	el.Text = es.Text
	if es.Format != nil {
		el.TextFormat = textFormat(*es.Format, es.Text)
	}
	for _, cs := range es.Children {
		child, err := buildElement(cs)
		if err != nil {
			return nil, err
		}
		el.AddChild(child)
	}
	return el, nil
}

// textFormat returns the renderer for an animated text value.
func textFormat(f FormatSpec, text string) func(float64) string {
	switch f.Kind {
	case "typing":
		return TypingFormat(text)
	default:
		return CounterFormat(f.Prefix, f.Suffix)
	}
}

// CounterFormat renders a statistic: prefix, the integer part of the value,
// suffix.
func CounterFormat(prefix, suffix string) func(float64) string {
	return func(v float64) string {
		return prefix + strconv.Itoa(int(math.Floor(v))) + suffix
	}
}

// TypingFormat reveals text rune by rune as the value goes from 0 to 1.
func TypingFormat(text string) func(float64) string {
	runes := []rune(text)
	return func(v float64) string {
		n := int(math.Round(v * float64(len(runes))))
		n = max(0, min(n, len(runes)))
		return string(runes[:n])
	}
}
