package vetbuddy

import "testing"

func buildTree() (*Document, *Element, []*Element) {
	doc := NewDocument(800)
	section := NewElement("stats", Rect{Y: 1000, Width: 800, Height: 600}, "section")
	doc.Root().AddChild(section)
	var cards []*Element
	for i := range 3 {
		c := NewElement("", Rect{X: float64(i) * 200, Y: 100, Width: 180, Height: 200}, "stat-card")
		section.AddChild(c)
		cards = append(cards, c)
	}
	return doc, section, cards
}

func TestNewElementDefaults(t *testing.T) {
	e := NewElement("a", Rect{Width: 10, Height: 10})
	if e.Opacity != 1 || e.Scale != 1 || e.Width != 100 {
		t.Errorf("defaults: opacity=%v scale=%v width=%v", e.Opacity, e.Scale, e.Width)
	}
	if e.Mounted() {
		t.Error("detached element should not be mounted")
	}
	if e.Serial == 0 {
		t.Error("Serial should be assigned")
	}
}

func TestElementMountedAndPageBox(t *testing.T) {
	_, section, cards := buildTree()
	if !cards[1].Mounted() {
		t.Fatal("card should be mounted through the section")
	}
	box := cards[1].PageBox()
	if box.X != 200 || box.Y != 1100 {
		t.Errorf("PageBox = %+v, want X=200 Y=1100", box)
	}
	section.RemoveFromParent()
	if cards[1].Mounted() {
		t.Error("card should be unmounted once the section is detached")
	}
}

func TestElementQuery(t *testing.T) {
	doc, section, cards := buildTree()
	if got := doc.Query(".stat-card"); len(got) != 3 || got[0] != cards[0] || got[2] != cards[2] {
		t.Errorf("Query(.stat-card) = %v", got)
	}
	if got := doc.Query("#stats"); len(got) != 1 || got[0] != section {
		t.Errorf("Query(#stats) = %v", got)
	}
	if got := doc.Query("section"); len(got) != 1 {
		t.Errorf("bare word query matched %d, want 1", len(got))
	}
	if got := doc.Query("  "); got != nil {
		t.Errorf("empty selector = %v, want nil", got)
	}
	if doc.ElementByID("stats") != section {
		t.Error("ElementByID(stats) mismatch")
	}
	if doc.ElementByID("nope") != nil {
		t.Error("ElementByID(nope) should be nil")
	}
}

func TestElementSetProperty(t *testing.T) {
	e := NewElement("n", Rect{})
	for p := PropOpacity; p < propCount; p++ {
		e.SetProperty(p, 42.7)
		if got := e.Property(p); got != 42.7 {
			t.Errorf("Property(%v) = %v, want 42.7", p, got)
		}
	}
	if e.Text != "42" {
		t.Errorf("Text = %q, want 42", e.Text)
	}
	e.TextFormat = func(v float64) string { return "n/a" }
	e.SetProperty(PropText, 3)
	if e.Text != "n/a" {
		t.Errorf("Text = %q, want formatted value", e.Text)
	}
}

func TestElementDispose(t *testing.T) {
	doc, section, cards := buildTree()
	section.Dispose()
	if !section.IsDisposed() || !cards[0].IsDisposed() {
		t.Error("dispose should reach descendants")
	}
	if got := doc.Query(".stat-card"); len(got) != 0 {
		t.Errorf("disposed elements matched: %v", got)
	}
	cards[0].SetProperty(PropOpacity, 0.2)
	if cards[0].Opacity != 1 {
		t.Error("writes to disposed elements should be dropped")
	}
	section.Dispose()
}

func TestAddChildCyclePanics(t *testing.T) {
	a := NewElement("a", Rect{})
	b := NewElement("b", Rect{})
	a.AddChild(b)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on cycle")
		}
	}()
	b.AddChild(a)
}

func TestAddChildReparents(t *testing.T) {
	a := NewElement("a", Rect{})
	b := NewElement("b", Rect{})
	c := NewElement("c", Rect{})
	a.AddChild(c)
	b.AddChild(c)
	if len(a.Children()) != 0 || len(b.Children()) != 1 || c.Parent != b {
		t.Error("AddChild should detach from the previous parent")
	}
}

func TestDocumentHeight(t *testing.T) {
	doc, _, _ := buildTree()
	if got := doc.Height(); got != 1600 {
		t.Errorf("Height = %v, want 1600", got)
	}
}
