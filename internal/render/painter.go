//go:build ebiten

package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter updates a single image from landscape cells.
type GridPainter struct {
	w, h    int
	img     *ebiten.Image
	buf     []byte
	palette Palette
}

// NewGridPainter allocates a painter for a grid of size w*h.
func NewGridPainter(w, h int, palette Palette) *GridPainter {
	gp := &GridPainter{w: w, h: h, buf: make([]byte, 4*w*h), palette: palette}
	gp.img = ebiten.NewImage(w, h)
	return gp
}

// Blit uploads the provided cells into the painter image and draws it scaled
// with its top-left corner at origin.
func (gp *GridPainter) Blit(dst *ebiten.Image, cells []uint8, scale int, origin image.Point) {
	if len(cells) != gp.w*gp.h {
		return
	}
	fillPaletteRGBA(gp.buf, cells, gp.palette)
	gp.img.WritePixels(gp.buf)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	op.GeoM.Translate(float64(origin.X), float64(origin.Y))
	dst.DrawImage(gp.img, op)
}

// Size returns the dimensions of the underlying image.
func (gp *GridPainter) Size() (int, int) { return gp.w, gp.h }

// Dispose releases the GPU image.
func (gp *GridPainter) Dispose() { gp.img.Dispose() }
