// Package render turns landscape cells into pixels.
package render

import (
	"image"
	"image/color"
)

// Palette maps a cell value to a colour. Values past the end use the last
// entry.
type Palette []color.RGBA

// HealthPalette colours susceptible cells dark and infected cells red.
var HealthPalette = Palette{
	{R: 0x1b, G: 0x24, B: 0x30, A: 0xff},
	{R: 0xe5, G: 0x39, B: 0x35, A: 0xff},
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette Palette) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}

// Landscape renders a w*h grid into an image, one pixel per cell. It returns
// nil when cells does not match the dimensions.
func Landscape(cells []uint8, w, h int, palette Palette) *image.RGBA {
	if w <= 0 || h <= 0 || len(cells) != w*h {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fillPaletteRGBA(img.Pix, cells, palette)
	return img
}
