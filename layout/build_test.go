package layout

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/vetbuddy"
)

func mountDefault(t *testing.T) (*vetbuddy.Page, []*vetbuddy.Section) {
	t.Helper()
	l, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	bg := vetbuddy.DefaultBackgroundConfig()
	bg.Texture = func() *ebiten.Image { return nil }
	page := vetbuddy.NewPage(1280, 800, bg)
	sections, err := Mount(page, l)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return page, sections
}

func advance(page *vetbuddy.Page, seconds float64) {
	for range int(seconds * 60) {
		page.Advance(1.0 / 60)
	}
}

func TestMountDefaultLayout(t *testing.T) {
	page, sections := mountDefault(t)
	if len(sections) != 8 {
		t.Fatalf("sections = %d, want 8", len(sections))
	}
	if h := page.Viewport().ContentHeight; h != 6240 {
		t.Errorf("ContentHeight = %v, want 6240", h)
	}
	total := 0
	for _, s := range sections {
		total += len(s.Triggers())
		for _, reg := range s.Registrations() {
			if missing := reg.MissingTargets(); len(missing) > 0 {
				t.Errorf("trigger %s: missing targets %v", reg.Trigger().ID, missing)
			}
		}
	}
	if page.Registry().Len() != total {
		t.Errorf("registrations = %d, want %d", page.Registry().Len(), total)
	}
}

func TestHeroIntroPlays(t *testing.T) {
	page, _ := mountDefault(t)
	text := page.Document().ElementByID("hero-text")
	if text.Opacity != 0 || text.Y != 50 {
		t.Fatalf("hero text starts at opacity %v y %v, want 0 and 50", text.Opacity, text.Y)
	}
	advance(page, 2)
	if text.Opacity != 1 || text.Y != 0 {
		t.Errorf("hero text ends at opacity %v y %v, want 1 and 0", text.Opacity, text.Y)
	}
}

func TestProblemCounters(t *testing.T) {
	page, _ := mountDefault(t)
	doc := page.Document()
	ids := map[string]string{
		"stat-misdiagnoses-value": "65%",
		"stat-interactions-value": "+45%",
		"stat-research-value":     "120min",
	}
	if got := doc.ElementByID("stat-misdiagnoses-value").Text; got != "0%" {
		t.Errorf("counter before reveal = %q, want 0%%", got)
	}
	page.Viewport().Jump(300)
	advance(page, 2.5)
	for id, want := range ids {
		if got := doc.ElementByID(id).Text; got != want {
			t.Errorf("%s = %q, want %q", id, got, want)
		}
	}
}

func TestProblemRevealScrubs(t *testing.T) {
	page, _ := mountDefault(t)
	first := page.Document().ElementByID("stat-misdiagnoses")
	// problem starts at 800: the reveal runs from scroll 400 to 1300.
	page.Viewport().Jump(850)
	page.Advance(0)
	want := 0.5 / 0.6
	if d := first.Opacity - want; d > 1e-6 || d < -1e-6 {
		t.Errorf("first stat opacity = %v, want %v", first.Opacity, want)
	}
	page.Viewport().Jump(0)
	page.Advance(0)
	if first.Opacity != 0 || first.Y != 100 {
		t.Errorf("scrolling back should rewind: opacity %v y %v", first.Opacity, first.Y)
	}
}

func TestHeroParallax(t *testing.T) {
	page, _ := mountDefault(t)
	bg := page.Document().ElementByID("hero-bg")
	page.Viewport().Jump(400)
	page.Advance(0)
	if bg.Y != -80 {
		t.Errorf("parallax y = %v, want -80", bg.Y)
	}
}

func TestUnmountRetiresTriggers(t *testing.T) {
	page, sections := mountDefault(t)
	page.RemoveSection(sections[1])
	for _, s := range sections[1].Triggers() {
		if _, ok := page.Registry().Lookup(s.ID); ok {
			t.Errorf("trigger %s still registered", s.ID)
		}
	}
	if h := page.Viewport().ContentHeight; h != 6240-900 {
		t.Errorf("ContentHeight = %v, want %v", h, 6240-900)
	}
}

func TestCounterFormat(t *testing.T) {
	f := CounterFormat("+", "%")
	tests := []struct {
		v    float64
		want string
	}{
		{0, "+0%"},
		{44.99, "+44%"},
		{45, "+45%"},
	}
	for _, tt := range tests {
		if got := f(tt.v); got != tt.want {
			t.Errorf("CounterFormat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestTypingFormat(t *testing.T) {
	f := TypingFormat("Smart 🐾 care")
	tests := []struct {
		v    float64
		want string
	}{
		{0, ""},
		{0.5, "Smart "},
		{1, "Smart 🐾 care"},
		{1.5, "Smart 🐾 care"},
		{-1, ""},
	}
	for _, tt := range tests {
		if got := f(tt.v); got != tt.want {
			t.Errorf("TypingFormat(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestMountRollsBackOnError(t *testing.T) {
	l, err := Load([]byte(`
sections:
  - id: first
    height: 400
    triggers:
      - id: first-fade
        steps:
          - target: "#first"
            to: {opacity: 1}
  - id: second
    height: 300
    triggers:
      - id: second-backwards
        start: bottom top
        end: top top
        steps:
          - target: "#second"
            to: {opacity: 1}
`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bg := vetbuddy.DefaultBackgroundConfig()
	bg.Texture = func() *ebiten.Image { return nil }
	page := vetbuddy.NewPage(1280, 800, bg)

	sections, err := Mount(page, l)
	if err == nil {
		t.Fatal("expected an inverted boundary error")
	}
	if sections != nil {
		t.Errorf("sections = %v, want nil", sections)
	}
	if n := len(page.Sections()); n != 0 {
		t.Errorf("page keeps %d sections after a failed mount", n)
	}
	if n := page.Registry().Len(); n != 0 {
		t.Errorf("registry keeps %d registrations", n)
	}
	if n := page.Observer().Len(); n != 0 {
		t.Errorf("observer keeps %d subscriptions", n)
	}
}
