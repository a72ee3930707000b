package vetbuddy

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Surface is anything the background can issue its draw call on.
// *ebiten.Image satisfies it.
type Surface interface {
	DrawTriangles(vertices []ebiten.Vertex, indices []uint16, img *ebiten.Image, options *ebiten.DrawTrianglesOptions)
}

// BackgroundConfig controls the decorative layer.
type BackgroundConfig struct {
	// Particles and Floaters are the decoration counts on wide viewports.
	// Both halve (rounded up) below NarrowWidth.
	Particles   int
	Floaters    int
	NarrowWidth float64
	// Extent is the half-size of the decoration world; pointer coordinates
	// in [-1, 1] map onto it.
	Extent Vec2
	// CaptureRadius is the world distance within which decorations drift
	// toward the pointer at DriftSpeed units per second.
	CaptureRadius float64
	DriftSpeed    float64
	// Relax is the exponential decay rate (per second) pulling decorations
	// back toward their rest positions.
	Relax float64
	// Wander is how far a rest position sways with the phase clock.
	Wander float64
	// PhaseRate scales wall-clock seconds into phase units.
	PhaseRate float64
	// MaxFrameDelta caps the clock advance of a single frame, so a tab that
	// was backgrounded does not jump.
	MaxFrameDelta time.Duration
	// TrailLength is the number of recent pointer positions drawn.
	TrailLength int

	ParticleSize  float64 // pixels
	FloaterSize   float64 // pixels
	ParticleColor Color
	FloaterColor  Color
	TrailColor    Color

	Seed uint64
	// Texture creates the image sampled by every quad. Nil allocates a 1x1
	// white image.
	Texture func() *ebiten.Image
}

// DefaultBackgroundConfig returns the landing page's decorative layer.
func DefaultBackgroundConfig() BackgroundConfig {
	return BackgroundConfig{
		Particles:     100,
		Floaters:      5,
		NarrowWidth:   768,
		Extent:        Vec2{5, 5},
		CaptureRadius: 2,
		DriftSpeed:    3,
		Relax:         0.6,
		Wander:        0.15,
		PhaseRate:     0.3,
		MaxFrameDelta: 100 * time.Millisecond,
		TrailLength:   30,
		ParticleSize:  4,
		FloaterSize:   28,
		ParticleColor: Color{0.118, 0.251, 0.686, 0.8},
		FloaterColor:  Color{0.259, 0.6, 0.882, 0.3},
		TrailColor:    Color{0.259, 0.6, 0.882, 0.4},
		Seed:          1,
	}
}

type decoration struct {
	pos   Vec2
	rest  Vec2
	sway  float64 // phase offset
	size  float64
	color Color
	bob   float64 // vertical bob amplitude on the phase clock
}

// Background is the decorative render loop behind the page. It runs on its
// own clock, reads PointerState once per frame and never touches the
// sequencer. All methods are meant for the page loop goroutine.
type Background struct {
	cfg     BackgroundConfig
	pointer *PointerTracker
	log     *zap.Logger

	width, height float64

	active   bool
	last     time.Time
	phase    float64
	decos    []decoration
	trail    []Vec2
	listener CallbackHandle

	texture  *ebiten.Image
	vertices []ebiten.Vertex
	indices  []uint16
	drawOpts ebiten.DrawTrianglesOptions

	frames    int
	drawCalls int

	// OnFrame, when set, runs after each frame's simulation and before the
	// vertex batch is built. It may call Stop.
	OnFrame func(b *Background)
}

// NewBackground creates a stopped background for a viewport of the given
// size, reading pointer state from pointer.
func NewBackground(cfg BackgroundConfig, pointer *PointerTracker, width, height float64, opts ...Option) *Background {
	o := buildOptions(opts)
	return &Background{
		cfg:     cfg,
		pointer: pointer,
		log:     o.logger,
		width:   width,
		height:  height,
	}
}

// Start acquires the texture, vertex buffers and pointer listener and seeds
// the decorations. No-op while running.
func (b *Background) Start() {
	if b.active {
		return
	}
	b.active = true
	b.last = time.Time{}
	if b.cfg.Texture != nil {
		b.texture = b.cfg.Texture()
	} else {
		b.texture = ebiten.NewImage(1, 1)
		b.texture.Fill(ebitenColor(ColorWhite))
	}
	b.seed()
	b.trail = make([]Vec2, 0, b.cfg.TrailLength)
	quads := len(b.decos) + b.cfg.TrailLength
	b.vertices = make([]ebiten.Vertex, 0, quads*4)
	b.indices = make([]uint16, 0, quads*6)
	b.listener = b.pointer.OnMove(b.recordTrail)
}

// Stop halts the loop and releases every acquired resource. Idempotent, and
// safe to call from OnFrame or from any other point in the loop. Release
// failures are logged, never returned.
func (b *Background) Stop() {
	b.active = false
	b.listener.Remove()
	b.listener = CallbackHandle{}
	if b.texture != nil {
		b.releaseTexture(b.texture)
		b.texture = nil
	}
	b.vertices = nil
	b.indices = nil
	b.trail = nil
	b.decos = nil
}

func (b *Background) releaseTexture(img *ebiten.Image) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("releasing background texture failed", zap.Any("reason", r))
		}
	}()
	img.Deallocate()
}

// Active reports whether the loop is running.
func (b *Background) Active() bool {
	return b.active
}

// Resize updates the viewport. Decoration counts are chosen at Start.
func (b *Background) Resize(width, height float64) {
	b.width, b.height = width, height
}

// Phase returns the phase clock.
func (b *Background) Phase() float64 {
	return b.phase
}

// Frames returns the number of simulated frames since creation.
func (b *Background) Frames() int {
	return b.frames
}

// DrawCalls returns the number of draw calls issued since creation.
func (b *Background) DrawCalls() int {
	return b.drawCalls
}

// Decorations returns the positions of all decorations, particles first.
func (b *Background) Decorations() []Vec2 {
	out := make([]Vec2, len(b.decos))
	for i := range b.decos {
		out[i] = b.decos[i].pos
	}
	return out
}

// Frame advances the simulation to now. It does nothing once stopped.
func (b *Background) Frame(now time.Time) {
	if !b.active {
		return
	}
	var dt float64
	if !b.last.IsZero() {
		d := now.Sub(b.last)
		if d < 0 {
			d = 0
		}
		if d > b.cfg.MaxFrameDelta {
			d = b.cfg.MaxFrameDelta
		}
		dt = d.Seconds()
	}
	b.last = now
	b.phase += dt * b.cfg.PhaseRate

	ptr := b.pointer.State()
	target := Vec2{ptr.X * b.cfg.Extent.X, ptr.Y * b.cfg.Extent.Y}
	decay := 1 - math.Exp(-b.cfg.Relax*dt)

	for i := range b.decos {
		d := &b.decos[i]
		if ptr.Active {
			to := target.Sub(d.pos)
			if dist := to.Len(); dist > 0 && dist < b.cfg.CaptureRadius {
				step := math.Min(b.cfg.DriftSpeed*dt, dist)
				d.pos = d.pos.Add(to.Scale(step / dist))
			}
		}
		home := d.rest.Add(Vec2{
			X: math.Sin(b.phase*2+d.sway) * b.cfg.Wander,
			Y: math.Cos(b.phase*2+d.sway)*b.cfg.Wander + math.Sin(b.phase*3+d.sway)*d.bob,
		})
		d.pos = d.pos.Add(home.Sub(d.pos).Scale(decay))
	}
	b.frames++

	if b.OnFrame != nil {
		b.OnFrame(b)
		if !b.active {
			return
		}
	}
	b.buildBatch()
}

// Draw issues the frame's single draw call on dst.
func (b *Background) Draw(dst Surface) {
	if !b.active || len(b.indices) == 0 {
		return
	}
	dst.DrawTriangles(b.vertices, b.indices, b.texture, &b.drawOpts)
	b.drawCalls++
}

func (b *Background) seed() {
	n, f := b.cfg.Particles, b.cfg.Floaters
	if b.width < b.cfg.NarrowWidth {
		n, f = (n+1)/2, (f+1)/2
	}
	// Stay within uint16 indices.
	if limit := 65535/4 - b.cfg.TrailLength; n+f > limit {
		n = limit - f
	}
	rng := rand.New(rand.NewPCG(b.cfg.Seed, 0x9e3779b97f4a7c15))
	spreadX := Range{-b.cfg.Extent.X, b.cfg.Extent.X}
	spreadY := Range{-b.cfg.Extent.Y, b.cfg.Extent.Y}
	b.decos = make([]decoration, 0, n+f)
	for i := 0; i < n+f; i++ {
		rest := Vec2{spreadX.Random(rng), spreadY.Random(rng)}
		d := decoration{pos: rest, rest: rest, sway: rng.Float64() * 2 * math.Pi}
		if i < n {
			d.size, d.color = b.cfg.ParticleSize, b.cfg.ParticleColor
		} else {
			d.size, d.color, d.bob = b.cfg.FloaterSize, b.cfg.FloaterColor, 0.25
		}
		b.decos = append(b.decos, d)
	}
}

// recordTrail is the pointer listener; newest position first.
func (b *Background) recordTrail(p PointerState) {
	if b.cfg.TrailLength == 0 {
		return
	}
	pt := Vec2{p.X * b.cfg.Extent.X, p.Y * b.cfg.Extent.Y}
	if len(b.trail) < b.cfg.TrailLength {
		b.trail = append(b.trail, Vec2{})
	}
	copy(b.trail[1:], b.trail)
	b.trail[0] = pt
}

func (b *Background) buildBatch() {
	b.vertices = b.vertices[:0]
	b.indices = b.indices[:0]
	for i := range b.decos {
		d := &b.decos[i]
		b.appendQuad(d.pos, d.size, d.color)
	}
	for i, pt := range b.trail {
		c := b.cfg.TrailColor
		c.A *= 1 - float64(i)/float64(len(b.trail))
		b.appendQuad(pt, b.cfg.ParticleSize*1.5, c)
	}
}

// appendQuad projects a world point to screen and appends a square centered
// on it.
func (b *Background) appendQuad(p Vec2, size float64, c Color) {
	sx := (p.X/b.cfg.Extent.X + 1) / 2 * b.width
	sy := (1 - p.Y/b.cfg.Extent.Y) / 2 * b.height
	h := size / 2
	base := uint16(len(b.vertices))
	r, g, bl, a := float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A)
	corners := [4][4]float32{
		{float32(sx - h), float32(sy - h), 0, 0},
		{float32(sx + h), float32(sy - h), 1, 0},
		{float32(sx - h), float32(sy + h), 0, 1},
		{float32(sx + h), float32(sy + h), 1, 1},
	}
	for _, v := range corners {
		b.vertices = append(b.vertices, ebiten.Vertex{
			DstX: v[0], DstY: v[1], SrcX: v[2], SrcY: v[3],
			ColorR: r, ColorG: g, ColorB: bl, ColorA: a,
		})
	}
	b.indices = append(b.indices, base, base+1, base+2, base+1, base+3, base+2)
}
