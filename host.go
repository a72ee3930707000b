package vetbuddy

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Resizable lets the user resize the window; the page follows.
	Resizable bool
}

// Run opens a window and drives page until the window closes or an update
// callback returns an error. The background is started before the first
// frame and the page is closed on return.
func Run(page *Page, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 800
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	page.Resize(float64(cfg.Width), float64(cfg.Height))
	page.background.Start()
	defer page.Close()

	g := &host{page: page, width: cfg.Width, height: cfg.Height}
	if cfg.ShowFPS {
		g.fps = newFPSOverlay()
	}
	return ebiten.RunGame(g)
}

// host adapts a Page to ebiten.Game.
type host struct {
	page          *Page
	fps           *fpsOverlay
	width, height int
}

func (g *host) Update() error {
	if g.fps != nil {
		g.fps.update(1.0 / float64(ebiten.TPS()))
	}
	return g.page.Update()
}

func (g *host) Draw(screen *ebiten.Image) {
	g.page.Draw(screen)
	if g.fps != nil {
		g.fps.draw(screen)
	}
}

func (g *host) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.page.Resize(float64(outsideWidth), float64(outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// fpsOverlay displays the current FPS and TPS in the top-left corner,
// refreshed every ~0.5 seconds.
type fpsOverlay struct {
	img        *ebiten.Image
	lastUpdate float64
}

func newFPSOverlay() *fpsOverlay {
	// 100x32 is enough for "FPS: 60.0\nTPS: 60.0"
	return &fpsOverlay{img: ebiten.NewImage(100, 32), lastUpdate: 0.5}
}

func (f *fpsOverlay) update(dt float64) {
	f.lastUpdate += dt
	if f.lastUpdate < 0.5 {
		return
	}
	f.lastUpdate = 0

	f.img.Clear()
	// Semi-transparent background for readability
	f.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(f.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", ebiten.ActualFPS(), ebiten.ActualTPS()))
}

func (f *fpsOverlay) draw(screen *ebiten.Image) {
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(0, 8)
	screen.DrawImage(f.img, &op)
}
