//go:build !ebiten

package ui

import "mad-abm/internal/console"

// Overlay is a no-op placeholder used when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay constructs a stub overlay.
func NewOverlay(*console.Console) *Overlay { return &Overlay{} }

// Update is a no-op in headless builds.
func (o *Overlay) Update(bool) {}

// Draw is a no-op placeholder.
func (o *Overlay) Draw(any) {}
