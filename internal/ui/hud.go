//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"mad-abm/internal/control"
	"mad-abm/internal/panel"
	"mad-abm/internal/sims/sir"
	"mad-abm/internal/telemetry"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

var (
	cardColor     = color.RGBA{R: 16, G: 16, B: 20, A: 235}
	headerColor   = color.RGBA{R: 36, G: 38, B: 46, A: 255}
	labelColor    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	dimColor      = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	buttonColor   = color.RGBA{R: 54, G: 56, B: 64, A: 255}
	trackColor    = color.RGBA{R: 70, G: 72, B: 82, A: 255}
	thumbColor    = color.RGBA{R: 98, G: 160, B: 234, A: 255}
	fieldColor    = color.RGBA{R: 28, G: 30, B: 36, A: 255}
	focusColor    = color.RGBA{R: 98, G: 160, B: 234, A: 255}
	invalidColor  = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	switchOnColor = color.RGBA{R: 98, G: 160, B: 234, A: 255}
)

// Line colours of the live chart, in Series.Columns order.
var seriesColors = []color.RGBA{labelColor, invalidColor, thumbColor}

const (
	labelBaseline = 12
	thumbWidth    = 6
	seriesGap     = 8
	seriesHeight  = 96
)

// HUD draws the control card and turns mouse and keyboard input into panel
// edits and playback actions.
type HUD struct {
	panel *panel.Panel
	ctrl  *Controller
	title string

	pixel *ebiten.Image
	runes []rune
}

// NewHUD constructs a HUD for the provided panel.
func NewHUD(p *panel.Panel, title string) *HUD {
	h := &HUD{panel: p, ctrl: NewController(p), title: title}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	return h
}

// Editing reports whether a text field has the keyboard, in which case global
// shortcuts must be ignored.
func (h *HUD) Editing() bool { return h.ctrl.Editing() }

// Update polls input and returns the playback action requested this frame.
func (h *HUD) Update() Action {
	if h == nil {
		return ActionNone
	}
	pt := image.Pt(ebiten.CursorPosition())
	action := ActionNone
	switch {
	case inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft):
		h.ctrl.Press(pt)
	case inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft):
		action = h.ctrl.Release(pt)
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		h.ctrl.Move(pt)
	}

	if h.ctrl.Editing() {
		h.runes = ebiten.AppendInputChars(h.runes[:0])
		h.ctrl.Type(h.runes...)
		if repeating(ebiten.KeyBackspace) {
			h.ctrl.Backspace()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) || inpututil.IsKeyJustPressed(ebiten.KeyTab) {
			h.ctrl.Commit()
		}
		if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
			h.ctrl.Cancel()
		}
	}
	return action
}

// repeating reports a key press with key-repeat after a short delay.
func repeating(key ebiten.Key) bool {
	d := inpututil.KeyPressDuration(key)
	return d == 1 || (d >= 30 && d%4 == 0)
}

// Draw paints the card. running selects the play or pause label.
func (h *HUD) Draw(screen *ebiten.Image, running bool) {
	if h == nil {
		return
	}
	h.fill(screen, h.panel.Bounds(), cardColor)
	header := h.panel.Header()
	h.fill(screen, header, headerColor)
	face := basicfont.Face7x13
	text.Draw(screen, h.title, face, header.Min.X+8, header.Min.Y+14, dimColor)

	toggle := "Play"
	if running {
		toggle = "Pause"
	}
	h.drawButton(screen, h.panel.ButtonRect(panel.ButtonToggle), toggle)
	h.drawButton(screen, h.panel.ButtonRect(panel.ButtonStep), "Step")
	h.drawButton(screen, h.panel.ButtonRect(panel.ButtonReset), "Reset")

	for _, w := range h.panel.Controls() {
		switch w := w.(type) {
		case *control.Parameter:
			h.drawParameter(screen, w)
		case *control.RangeControl:
			h.drawRange(screen, w)
		case *control.Switch:
			h.drawSwitch(screen, w)
		}
	}
}

// DrawSeries charts the newest rows in a box under the card: susceptible,
// infected and infected cells, one pixel column per step.
func (h *HUD) DrawSeries(screen *ebiten.Image, rows []sir.TimeStepResults) {
	if h == nil {
		return
	}
	card := h.panel.Bounds()
	box := image.Rect(card.Min.X, card.Max.Y+seriesGap, card.Max.X, card.Max.Y+seriesGap+seriesHeight)
	h.fill(screen, box, cardColor)
	plot := box.Inset(6)
	plot.Min.Y += labelBaseline + 4

	face := basicfont.Face7x13
	x := box.Min.X + 6
	for i, name := range []string{"S", "I", "Cells I"} {
		text.Draw(screen, name, face, x, box.Min.Y+6+labelBaseline, seriesColors[i])
		x += text.BoundString(face, name).Dx() + 12
	}

	rows = SeriesWindow(rows, plot.Dx())
	for i, line := range SeriesLines(telemetry.SeriesOf(rows), plot) {
		for k := 1; k < len(line); k++ {
			a, b := line[k-1], line[k]
			vector.StrokeLine(screen, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), 1, seriesColors[i], false)
		}
	}
}

func (h *HUD) drawParameter(screen *ebiten.Image, p *control.Parameter) {
	g := p.Geometry()
	face := basicfont.Face7x13
	text.Draw(screen, p.Spec().Label, face, g.Frame.Min.X, g.Frame.Min.Y+labelBaseline, labelColor)
	h.fill(screen, g.Track, trackColor)
	thumb := image.Rect(g.ThumbX-thumbWidth/2, g.Track.Min.Y-5, g.ThumbX+thumbWidth/2, g.Track.Max.Y+5)
	h.fill(screen, thumb, thumbColor)
	h.drawField(screen, g.Text, p.Text(), p.Valid())
}

func (h *HUD) drawRange(screen *ebiten.Image, r *control.RangeControl) {
	face := basicfont.Face7x13
	frame := r.Frame()
	text.Draw(screen, r.Spec().Label, face, frame.Min.X, frame.Min.Y+labelBaseline, labelColor)
	minField, maxField := r.Fields()
	h.drawField(screen, minField, r.MinText(), r.Valid())
	h.drawField(screen, maxField, r.MaxText(), r.Valid())
}

func (h *HUD) drawSwitch(screen *ebiten.Image, s *control.Switch) {
	face := basicfont.Face7x13
	frame := s.Frame()
	text.Draw(screen, s.Label(), face, frame.Min.X, frame.Min.Y+16, labelColor)
	knob := s.Toggler()
	h.fill(screen, knob, trackColor)
	half := knob.Dx() / 2
	dot := image.Rect(knob.Min.X, knob.Min.Y, knob.Min.X+half, knob.Max.Y)
	col := dimColor
	if s.Checked() {
		dot = dot.Add(image.Pt(half, 0))
		col = switchOnColor
	}
	h.fill(screen, dot, col)
}

func (h *HUD) drawField(screen *ebiten.Image, rect image.Rectangle, value string, valid bool) {
	border := trackColor
	if focused, buf, ok := h.ctrl.FocusedField(); ok && focused == rect {
		border = focusColor
		value = buf + "_"
	}
	if !valid {
		border = invalidColor
	}
	h.fill(screen, rect, border)
	h.fill(screen, rect.Inset(1), fieldColor)
	face := basicfont.Face7x13
	text.Draw(screen, value, face, rect.Min.X+4, rect.Max.Y-4, labelColor)
}

func (h *HUD) drawButton(screen *ebiten.Image, rect image.Rectangle, label string) {
	h.fill(screen, rect, buttonColor)
	face := basicfont.Face7x13
	bounds := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-bounds.Dx())/2
	y := rect.Min.Y + (rect.Dy()-bounds.Dy())/2 + bounds.Dy()
	text.Draw(screen, label, face, x, y, labelColor)
}

func (h *HUD) fill(screen *ebiten.Image, rect image.Rectangle, col color.RGBA) {
	if rect.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(h.pixel, op)
}
