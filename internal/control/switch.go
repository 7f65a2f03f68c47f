package control

import "image"

// SwitchSpec describes an on/off switch.
type SwitchSpec struct {
	Key     string `yaml:"key"`
	Label   string `yaml:"label"`
	Checked bool   `yaml:"checked"`
}

// Switch is a boolean toggle.
type Switch struct {
	spec    SwitchSpec
	checked bool

	frame image.Rectangle
	knob  image.Rectangle
}

const switchWidth = 32

// NewSwitch builds a switch in its initial state.
func NewSwitch(spec SwitchSpec) *Switch {
	return &Switch{spec: spec, checked: spec.Checked}
}

// Key returns the identifier of the switch.
func (s *Switch) Key() string { return s.spec.Key }

// Label returns the display label.
func (s *Switch) Label() string { return s.spec.Label }

// Checked reports the switch state.
func (s *Switch) Checked() bool { return s.checked }

// Set forces the switch state.
func (s *Switch) Set(v bool) { s.checked = v }

// Toggle flips the switch and returns the new state.
func (s *Switch) Toggle() bool {
	s.checked = !s.checked
	return s.checked
}

// Height returns the vertical space the switch occupies.
func (s *Switch) Height() int { return SwitchHeight }

// SetFrame positions the switch inside the panel. Call Layout afterwards.
func (s *Switch) SetFrame(x, y, width int) {
	s.frame = image.Rect(x, y, x+width, y+SwitchHeight)
}

// Layout places the toggle at the right edge of the frame.
func (s *Switch) Layout() {
	top := s.frame.Min.Y + (SwitchHeight-textHeight)/2
	s.knob = image.Rect(s.frame.Max.X-switchWidth, top, s.frame.Max.X, top+textHeight)
}

// Frame returns the area the switch occupies.
func (s *Switch) Frame() image.Rectangle { return s.frame }

// Toggler returns the clickable area of the switch.
func (s *Switch) Toggler() image.Rectangle { return s.knob }
