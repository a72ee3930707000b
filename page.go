package vetbuddy

import (
	"errors"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// ErrUnknownSection is returned when navigating to a section that is not
// on the page.
var ErrUnknownSection = errors.New("vetbuddy: unknown section")

// DefaultWheelSpeed is the scroll distance in pixels per wheel notch.
const DefaultWheelSpeed = 60

// DefaultNavigateDuration is the ScrollToSection animation length in seconds.
const DefaultNavigateDuration = 0.8

// Page is the top-level object. It owns the document, the viewport onto it,
// the observer/registry/sequencer chain and the decorative background, and
// it drives all of them from Update.
type Page struct {
	doc        *Document
	viewport   *Viewport
	observer   *Observer
	registry   *Registry
	sequencer  *Sequencer
	pointer    *PointerTracker
	background *Background
	progress   *ScrollProgress
	sections   []*Section

	log   *zap.Logger
	debug bool
	now   func() time.Time

	// ClearColor fills the screen before anything else is drawn.
	ClearColor Color
	// WheelSpeed is the scroll distance in pixels per wheel notch.
	WheelSpeed float64

	updateFunc  func() error
	testRunner  *TestRunner
	injectQueue []syntheticInput

	pixel      *ebiten.Image
	lastUpdate time.Duration
}

// NewPage creates an empty page for a viewport of the given size. The
// background is created stopped; Start it to begin rendering decorations.
func NewPage(width, height float64, bg BackgroundConfig, opts ...Option) *Page {
	o := buildOptions(opts)
	doc := NewDocument(width)
	obs := NewObserver(width, height, opts...)
	reg := NewRegistry(obs, doc, opts...)
	pointer := NewPointerTracker(width, height)
	return &Page{
		doc:        doc,
		viewport:   NewViewport(width, height),
		observer:   obs,
		registry:   reg,
		sequencer:  NewSequencer(reg, opts...),
		pointer:    pointer,
		background: NewBackground(bg, pointer, width, height, opts...),
		progress:   NewScrollProgress(),
		log:        o.logger,
		debug:      o.debug,
		now:        o.now,
		ClearColor: Color{0.973, 0.98, 0.988, 1},
		WheelSpeed: DefaultWheelSpeed,
	}
}

// Document returns the page's element tree.
func (p *Page) Document() *Document { return p.doc }

// Viewport returns the page viewport.
func (p *Page) Viewport() *Viewport { return p.viewport }

// Observer returns the viewport observer.
func (p *Page) Observer() *Observer { return p.observer }

// Registry returns the timeline registry.
func (p *Page) Registry() *Registry { return p.registry }

// Sequencer returns the animation sequencer.
func (p *Page) Sequencer() *Sequencer { return p.sequencer }

// Pointer returns the pointer tracker.
func (p *Page) Pointer() *PointerTracker { return p.pointer }

// Background returns the decorative background.
func (p *Page) Background() *Background { return p.background }

// Progress returns the reading progress bar.
func (p *Page) Progress() *ScrollProgress { return p.progress }

// Sections returns the mounted sections in page order. The returned slice
// MUST NOT be mutated.
func (p *Page) Sections() []*Section { return p.sections }

// SetUpdateFunc sets a callback run at the end of every Update.
func (p *Page) SetUpdateFunc(fn func() error) {
	p.updateFunc = fn
}

// SetDebugMode enables or disables per-frame stats logging.
func (p *Page) SetDebugMode(enabled bool) {
	p.debug = enabled
}

// AddSection mounts s below the last section. Sections flow top to bottom,
// so the root's Box.Y is assigned by the page.
func (p *Page) AddSection(s *Section) error {
	if s.Mounted() {
		return fmt.Errorf("add %q: %w", s.ID(), ErrSectionMounted)
	}
	// Place the root before mounting so the first progress report sees the
	// final layout.
	s.Root.Box.Y = 0
	s.Root.Box.Width = p.viewport.Width
	if n := len(p.sections); n > 0 {
		s.Root.Box.Y = p.sections[n-1].Root.Box.Bottom()
	}
	if err := s.Mount(p.doc, p.sequencer); err != nil {
		return err
	}
	p.sections = append(p.sections, s)
	if p.debug {
		p.debugCheckTreeDepth(s.Root)
	}
	p.relayout()
	return nil
}

// RemoveSection unmounts s. No-op when s is not on the page.
func (p *Page) RemoveSection(s *Section) {
	i := slices.Index(p.sections, s)
	if i < 0 {
		return
	}
	p.sections = slices.Delete(p.sections, i, i+1)
	s.Unmount()
	p.relayout()
}

// Section returns the mounted section with the given root ID.
func (p *Page) Section(id string) (*Section, bool) {
	for _, s := range p.sections {
		if s.ID() == id {
			return s, true
		}
	}
	return nil, false
}

// ScrollToSection smoothly scrolls so the section's top meets the top of the
// viewport, as the header navigation does.
func (p *Page) ScrollToSection(id string, duration float32, easeFn ease.TweenFunc) error {
	s, ok := p.Section(id)
	if !ok {
		return fmt.Errorf("scroll to %q: %w", id, ErrUnknownSection)
	}
	p.viewport.ScrollTo(s.Root.PageBox().Y, duration, easeFn)
	return nil
}

// Resize changes the viewport size for every component.
func (p *Page) Resize(width, height float64) {
	p.doc.Root().Box.Width = width
	p.viewport.Resize(width, height)
	p.pointer.Resize(width, height)
	p.background.Resize(width, height)
	p.observer.Resize(width, height)
	p.relayout()
}

// relayout stacks the sections top to bottom in page order and updates the
// scrollable height.
func (p *Page) relayout() {
	y := 0.0
	for _, s := range p.sections {
		s.Root.Box.Y = y
		s.Root.Box.Width = p.viewport.Width
		y += s.Root.Box.Height
	}
	p.viewport.SetContentHeight(p.doc.Height())
	p.observer.Refresh()
	p.syncScroll()
}

func (p *Page) syncScroll() {
	p.observer.SetScroll(p.viewport.ScrollY)
	p.progress.update(p.observer.State(), p.viewport.ContentHeight)
}

// Update processes input and advances the page by one tick.
func (p *Page) Update() error {
	var t0 time.Time
	if p.debug {
		t0 = time.Now()
	}
	dt := 1.0 / float64(ebiten.TPS())

	if p.testRunner != nil {
		p.testRunner.step(p)
	}
	if !p.processInjectedInput() {
		p.pollInput()
	}
	p.Advance(dt)

	if p.debug {
		p.lastUpdate = time.Since(t0)
	}
	if p.updateFunc != nil {
		return p.updateFunc()
	}
	return nil
}

// Advance moves the page clock forward by dt seconds without reading input:
// the scroll animation, observer, sequencer playbacks and background frame.
func (p *Page) Advance(dt float64) {
	p.viewport.update(float32(dt))
	p.syncScroll()
	p.sequencer.Tick(dt)
	p.background.Frame(p.now())
}

func (p *Page) pollInput() {
	if _, wy := ebiten.Wheel(); wy != 0 {
		p.viewport.ScrollBy(-wy * p.WheelSpeed)
	}
	p.pointer.poll()
}

// Draw renders the background, the visible elements and the progress bar.
func (p *Page) Draw(screen *ebiten.Image) {
	var t0 time.Time
	if p.debug {
		t0 = time.Now()
	}
	screen.Fill(ebitenColor(p.ClearColor))
	p.background.Draw(screen)

	drawn := 0
	visible := p.viewport.VisibleBounds()
	for _, c := range p.doc.Root().Children() {
		drawn += p.drawElement(screen, c, 1, visible)
	}

	if !p.progress.Hidden {
		bar := p.progress.Bar(p.viewport.Width)
		p.fillRect(screen, bar, p.progress.Color, 1, 0)
	}

	if p.debug {
		p.debugLog(frameStats{
			updateTime:    p.lastUpdate,
			drawTime:      time.Since(t0),
			elementsDrawn: drawn,
			registrations: p.registry.Len(),
			subscriptions: p.observer.Len(),
			playing:       p.sequencer.Playing(),
			bgDrawCalls:   p.background.DrawCalls(),
		})
	}
}

// drawElement draws e and its subtree and returns the number of elements
// drawn. Opacity multiplies down the tree.
func (p *Page) drawElement(screen *ebiten.Image, e *Element, alpha float64, visible Rect) int {
	alpha *= e.Opacity
	if alpha <= 0 {
		return 0
	}
	box := e.PageBox()
	n := 0
	if box.Width > 0 && box.Height > 0 && e.Color.A > 0 && box.Intersects(visible) {
		r := Rect{
			X:      box.X + e.X,
			Y:      box.Y + e.Y - visible.Y,
			Width:  box.Width * e.Width / 100,
			Height: box.Height,
		}
		p.fillRect(screen, r, e.Color, alpha*e.Color.A, e.Rotation, e.Scale)
		n++
	}
	if e.Text != "" && box.Intersects(visible) {
		ebitenutil.DebugPrintAt(screen, e.Text, int(box.X+e.X)+4, int(box.Y+e.Y-visible.Y)+4)
	}
	for _, c := range e.children {
		n += p.drawElement(screen, c, alpha, visible)
	}
	return n
}

// fillRect draws a solid rectangle, optionally scaled and rotated around its
// center.
func (p *Page) fillRect(screen *ebiten.Image, r Rect, c Color, alpha, rotation float64, scale ...float64) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	if p.pixel == nil {
		p.pixel = ebiten.NewImage(1, 1)
		p.pixel.Fill(color.White)
	}
	s := 1.0
	if len(scale) > 0 {
		s = scale[0]
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(-r.Width/2, -r.Height/2)
	op.GeoM.Scale(s, s)
	op.GeoM.Rotate(rotation)
	op.GeoM.Translate(r.X+r.Width/2, r.Y+r.Height/2)
	op.ColorScale.Scale(float32(c.R*alpha), float32(c.G*alpha), float32(c.B*alpha), float32(alpha))
	screen.DrawImage(p.pixel, &op)
}

// Close stops the background and unmounts every section.
func (p *Page) Close() {
	p.background.Stop()
	for _, s := range slices.Clone(p.sections) {
		p.RemoveSection(s)
	}
	if p.pixel != nil {
		p.pixel.Deallocate()
		p.pixel = nil
	}
}

// ebitenColor converts c to a premultiplied color.RGBA.
func ebitenColor(c Color) color.RGBA {
	return color.RGBA{
		R: uint8(clampUnit(c.R*c.A) * 255),
		G: uint8(clampUnit(c.G*c.A) * 255),
		B: uint8(clampUnit(c.B*c.A) * 255),
		A: uint8(clampUnit(c.A) * 255),
	}
}
