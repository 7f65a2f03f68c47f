package core

// ByteGrid stores a toroidal 2D grid of byte-sized cell values in row-major
// order.
type ByteGrid struct {
	W, H int
	data []uint8
}

// NewByteGrid allocates a grid with the given dimensions.
func NewByteGrid(w, h int) *ByteGrid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &ByteGrid{W: w, H: h, data: make([]uint8, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *ByteGrid) Cells() []uint8 { return g.data }

// Index returns the linear slice index for coordinates (x, y) after wrapping.
func (g *ByteGrid) Index(x, y int) int {
	x, y = g.Wrap(x, y)
	return y*g.W + x
}

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *ByteGrid) Wrap(x, y int) (int, int) {
	x = (x%g.W + g.W) % g.W
	y = (y%g.H + g.H) % g.H
	return x, y
}

// Neighbors8 writes the indices of the eight wrapped neighbours of idx into
// dst and returns it.
func (g *ByteGrid) Neighbors8(idx int, dst *[8]int) *[8]int {
	x, y := idx%g.W, idx/g.W
	n := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			dst[n] = g.Index(x+dx, y+dy)
			n++
		}
	}
	return dst
}
