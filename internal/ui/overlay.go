//go:build ebiten

package ui

import (
	"image"
	"image/color"

	"mad-abm/internal/console"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

const (
	overlayLineHeight = 15
	overlayPadding    = 6
	overlayMaxLines   = 8
)

var (
	overlayBackground = color.RGBA{R: 8, G: 8, B: 12, A: 220}
	overlayBorder     = color.RGBA{R: 229, G: 57, B: 53, A: 255}
	overlayInfo       = color.RGBA{R: 200, G: 200, B: 210, A: 255}
)

// Overlay shows the most recent console messages along the bottom of the
// window. The console opens itself on errors; the grave key toggles it.
type Overlay struct {
	console *console.Console
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for c.
func NewOverlay(c *console.Console) *Overlay {
	o := &Overlay{console: c}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the visibility shortcut. It is skipped while a text field
// has the keyboard.
func (o *Overlay) Update(editing bool) {
	if editing {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyGraveAccent) {
		o.console.Toggle()
	}
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.console.Open() {
		return
	}
	lines := o.console.Lines()
	if len(lines) > overlayMaxLines {
		lines = lines[len(lines)-overlayMaxLines:]
	}
	b := screen.Bounds()
	height := overlayPadding*2 + overlayLineHeight*max(len(lines), 1)
	box := image.Rect(b.Min.X, b.Max.Y-height, b.Max.X, b.Max.Y)

	hasError := false
	for _, l := range lines {
		hasError = hasError || l.IsError
	}
	if hasError {
		o.fill(screen, box, overlayBorder)
		box = box.Inset(1)
	}
	o.fill(screen, box, overlayBackground)

	face := basicfont.Face7x13
	y := box.Min.Y + overlayPadding + 11
	for _, l := range lines {
		col := overlayInfo
		if l.IsError {
			col = overlayBorder
		}
		text.Draw(screen, l.Text, face, box.Min.X+overlayPadding, y, col)
		y += overlayLineHeight
	}
}

func (o *Overlay) fill(screen *ebiten.Image, rect image.Rectangle, col color.RGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(col)
	screen.DrawImage(o.pixel, op)
}
