//go:build !ebiten

package ui

import (
	"mad-abm/internal/panel"
	"mad-abm/internal/sims/sir"
)

// HUD is a no-op placeholder for headless builds. Input handling lives in
// Controller, which builds everywhere.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(*panel.Panel, string) *HUD { return nil }

// Editing always reports false in the headless build.
func (h *HUD) Editing() bool { return false }

// Update is a no-op in the headless build.
func (h *HUD) Update() Action { return ActionNone }

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, bool) {}

// DrawSeries is a no-op in the headless build.
func (h *HUD) DrawSeries(any, []sir.TimeStepResults) {}
