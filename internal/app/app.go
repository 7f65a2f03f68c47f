//go:build ebiten

package app

import (
	"image"
	"time"

	"mad-abm/internal/core"
	"mad-abm/internal/render"
	"mad-abm/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a Session to the ebiten.Game interface. The frame loop polls
// the fixed-step repeater, so every panel event and simulation step runs on
// the ebiten update goroutine.
type Game struct {
	session *Session
	clock   *core.FixedStep
	painter *render.GridPainter
	hud     *ui.HUD
	overlay *ui.Overlay

	scale  int
	width  int
	height int
}

// NewClock returns the repeater the window drives. Pass it to NewSession
// and then to New.
func NewClock() *core.FixedStep { return core.NewFixedStep() }

// New constructs a Game for the provided session. clock must be the
// repeater the session was built with.
func New(s *Session, clock *core.FixedStep) *Game {
	cfg := s.Config()
	g := &Game{
		session: s,
		clock:   clock,
		hud:     ui.NewHUD(s.Panel(), cfg.Window.Title),
		overlay: ui.NewOverlay(s.Console()),
		scale:   cfg.Window.Scale,
		width:   cfg.Window.Width,
		height:  cfg.Window.Height,
	}
	g.ensurePainter()
	return g
}

func (g *Game) ensurePainter() {
	size := g.session.Scenario().Sim().Size()
	if g.painter != nil {
		if w, h := g.painter.Size(); w == size.W && h == size.H {
			return
		}
		g.painter.Dispose()
	}
	g.painter = render.NewGridPainter(size.W, size.H, render.HealthPalette)
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	editing := g.hud.Editing()
	if !editing {
		if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
			return ebiten.Termination
		}
		switch {
		case inpututil.IsKeyJustPressed(ebiten.KeySpace):
			g.session.Apply(ui.ActionToggle)
		case inpututil.IsKeyJustPressed(ebiten.KeyN):
			g.session.Apply(ui.ActionStep)
		case inpututil.IsKeyJustPressed(ebiten.KeyR):
			g.session.Apply(ui.ActionReset)
		case inpututil.IsKeyJustPressed(ebiten.KeyS):
			g.session.Scenario().SetSeed(time.Now().UnixNano())
			g.session.Apply(ui.ActionReset)
		}
	}
	g.overlay.Update(editing)
	g.session.Apply(g.hud.Update())
	g.clock.Poll()
	g.ensurePainter()
	return nil
}

// Draw renders the landscape, the control card, the live chart and the
// console.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.session.Scenario().Sim().Cells(), g.cellScale(), g.landscapeRect().Min)
	g.hud.Draw(screen, g.session.Scheduler().Running())
	g.hud.DrawSeries(screen, g.session.Results())
	g.overlay.Draw(screen)
}

// landscapeRect centres the landscape in the area right of the card.
func (g *Game) landscapeRect() image.Rectangle {
	card := g.session.Panel().Bounds()
	left := card.Max.X + 16
	size := g.session.Scenario().Sim().Size()
	s := g.cellScale()
	w, h := size.W*s, size.H*s
	x := left + max(0, (g.width-left-w)/2)
	y := max(0, (g.height-h)/2)
	return image.Rect(x, y, x+w, y+h)
}

// cellScale fits the landscape into the window: at least one pixel per cell,
// at most eight times the configured scale.
func (g *Game) cellScale() int {
	size := g.session.Scenario().Sim().Size()
	if size.W <= 0 || size.H <= 0 {
		return g.scale
	}
	card := g.session.Panel().Bounds()
	fit := min((g.width-card.Max.X-16)/size.W, g.height/size.H)
	return max(1, min(g.scale*8, fit))
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.width, g.height
}
