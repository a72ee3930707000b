package vetbuddy

import (
	"errors"
	"testing"

	"github.com/tanema/gween/ease"
)

func newTestPage(t *testing.T) *Page {
	t.Helper()
	p := NewPage(1280, 800, testBackgroundConfig())
	for _, sec := range []struct {
		id     string
		height float64
	}{{"hero", 800}, {"problem", 900}, {"cta", 700}} {
		s, _ := newRevealSection(sec.id, sec.height)
		if err := p.AddSection(s); err != nil {
			t.Fatal(err)
		}
	}
	return p
}

func TestPageStacksSections(t *testing.T) {
	p := newTestPage(t)
	want := []float64{0, 800, 1700}
	for i, s := range p.Sections() {
		if s.Root.Box.Y != want[i] || s.Root.Box.Width != 1280 {
			t.Errorf("section %s box = %+v, want Y=%v", s.ID(), s.Root.Box, want[i])
		}
	}
	if p.Viewport().ContentHeight != 2400 {
		t.Errorf("ContentHeight = %v, want 2400", p.Viewport().ContentHeight)
	}
	if p.Registry().Len() != 3 {
		t.Errorf("registrations = %d, want 3", p.Registry().Len())
	}
}

func TestPageRemoveSectionRestacks(t *testing.T) {
	p := newTestPage(t)
	mid, _ := p.Section("problem")
	p.RemoveSection(mid)
	p.RemoveSection(mid)
	cta, ok := p.Section("cta")
	if !ok {
		t.Fatal("cta missing")
	}
	if cta.Root.Box.Y != 800 {
		t.Errorf("cta Y = %v, want 800", cta.Root.Box.Y)
	}
	if p.Viewport().ContentHeight != 1500 || p.Registry().Len() != 2 {
		t.Errorf("ContentHeight = %v registrations = %d", p.Viewport().ContentHeight, p.Registry().Len())
	}
}

func TestPageAdvancePlaysInViewSections(t *testing.T) {
	p := newTestPage(t)
	hero, _ := p.Section("hero")
	cta, _ := p.Section("cta")
	heroCard := hero.Root.Children()[0]
	ctaCard := cta.Root.Children()[0]

	for range 70 {
		p.Advance(1.0 / 60)
	}
	if heroCard.Opacity != 1 {
		t.Errorf("hero card opacity = %v, want 1", heroCard.Opacity)
	}
	if ctaCard.Opacity != 0 {
		t.Errorf("cta card opacity = %v, want 0 while off screen", ctaCard.Opacity)
	}

	p.Viewport().Jump(p.Viewport().MaxScroll())
	for range 70 {
		p.Advance(1.0 / 60)
	}
	if ctaCard.Opacity != 1 {
		t.Errorf("cta card opacity = %v after scrolling down, want 1", ctaCard.Opacity)
	}
	if !approxEqual(p.Progress().Value(), 1, epsilon) {
		t.Errorf("progress = %v, want 1", p.Progress().Value())
	}
}

func TestPageScrollToSection(t *testing.T) {
	p := newTestPage(t)
	if err := p.ScrollToSection("problem", 0.8, ease.Linear); err != nil {
		t.Fatal(err)
	}
	p.Advance(0.4)
	if !approxEqual(p.Viewport().ScrollY, 400, 1e-2) {
		t.Errorf("ScrollY = %v halfway, want 400", p.Viewport().ScrollY)
	}
	p.Advance(0.5)
	if p.Viewport().ScrollY != 800 {
		t.Errorf("ScrollY = %v, want 800", p.Viewport().ScrollY)
	}
	if st := p.Observer().State(); st.ScrollY != 800 {
		t.Errorf("observer ScrollY = %v, want 800", st.ScrollY)
	}
	if err := p.ScrollToSection("pricing", 0.8, nil); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("unknown section err = %v", err)
	}
}

func TestPageResize(t *testing.T) {
	p := newTestPage(t)
	p.Viewport().Jump(2000)
	p.Resize(600, 1000)
	for _, s := range p.Sections() {
		if s.Root.Box.Width != 600 {
			t.Errorf("section %s width = %v, want 600", s.ID(), s.Root.Box.Width)
		}
	}
	if p.Viewport().ScrollY != 1400 {
		t.Errorf("ScrollY = %v, want clamped to 1400", p.Viewport().ScrollY)
	}
	if st := p.Observer().State(); st.ViewportW != 600 || st.ViewportH != 1000 {
		t.Errorf("observer state = %+v", st)
	}
}

func TestPageClose(t *testing.T) {
	p := newTestPage(t)
	p.Background().Start()
	p.Close()
	if len(p.Sections()) != 0 || p.Registry().Len() != 0 || p.Background().Active() {
		t.Error("Close should unmount everything and stop the background")
	}
}

func TestPageAddSectionTwice(t *testing.T) {
	p := newTestPage(t)
	s, _ := p.Section("hero")
	if err := p.AddSection(s); !errors.Is(err, ErrSectionMounted) {
		t.Errorf("err = %v, want ErrSectionMounted", err)
	}
	if len(p.Sections()) != 3 {
		t.Errorf("sections = %d, want 3", len(p.Sections()))
	}
}
