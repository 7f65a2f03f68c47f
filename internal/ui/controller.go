package ui

import (
	"image"

	"mad-abm/internal/control"
	"mad-abm/internal/panel"
)

// Action is a playback request produced by the panel buttons or shortcuts.
type Action int

const (
	ActionNone Action = iota
	ActionToggle
	ActionStep
	ActionReset
)

func actionFor(b panel.Button) Action {
	switch b {
	case panel.ButtonToggle:
		return ActionToggle
	case panel.ButtonStep:
		return ActionStep
	case panel.ButtonReset:
		return ActionReset
	}
	return ActionNone
}

// trackSlop widens the slider hit area vertically.
const trackSlop = 6

type fieldKind int

const (
	fieldParameter fieldKind = iota
	fieldRangeMin
	fieldRangeMax
)

type focus struct {
	kind   fieldKind
	param  *control.Parameter
	rng    *control.RangeControl
	buffer string
}

// Controller routes pointer and keyboard events to the widgets of a panel.
// It holds no rendering state, so the HUD and tests drive it the same way.
type Controller struct {
	panel *panel.Panel

	focus   *focus
	sliding *control.Parameter
	pressed panel.Button
	armed   bool
}

// NewController binds a controller to p.
func NewController(p *panel.Panel) *Controller {
	return &Controller{panel: p}
}

// Press handles the primary pointer button going down at pt.
func (c *Controller) Press(pt image.Point) {
	if c.focus != nil {
		if c.inFocusedField(pt) {
			return
		}
		c.Commit()
	}
	if c.panel.BeginDrag(pt) {
		return
	}
	if b, ok := c.panel.ButtonAt(pt); ok {
		c.pressed, c.armed = b, true
		return
	}
	for _, w := range c.panel.Controls() {
		switch w := w.(type) {
		case *control.Parameter:
			g := w.Geometry()
			if pt.In(g.Track.Inset(-trackSlop)) {
				c.sliding = w
				w.MoveSlider(w.PositionAt(pt.X))
				return
			}
			if pt.In(g.Text) {
				c.focus = &focus{kind: fieldParameter, param: w, buffer: w.Text()}
				return
			}
		case *control.RangeControl:
			minField, maxField := w.Fields()
			if pt.In(minField) {
				c.focus = &focus{kind: fieldRangeMin, rng: w, buffer: w.MinText()}
				return
			}
			if pt.In(maxField) {
				c.focus = &focus{kind: fieldRangeMax, rng: w, buffer: w.MaxText()}
				return
			}
		case *control.Switch:
			if pt.In(w.Toggler()) {
				w.Toggle()
				return
			}
		}
	}
}

// Move handles pointer motion while the button is held.
func (c *Controller) Move(pt image.Point) {
	if c.panel.Dragging() {
		c.panel.DragTo(pt)
		return
	}
	if c.sliding != nil {
		c.sliding.MoveSlider(c.sliding.PositionAt(pt.X))
	}
}

// Release handles the primary pointer button going up at pt and returns the
// action of a completed button click.
func (c *Controller) Release(pt image.Point) Action {
	if c.panel.Dragging() {
		c.panel.DragTo(pt)
		c.panel.EndDrag()
		return ActionNone
	}
	c.sliding = nil
	if !c.armed {
		return ActionNone
	}
	c.armed = false
	if b, ok := c.panel.ButtonAt(pt); ok && b == c.pressed {
		return actionFor(b)
	}
	return ActionNone
}

// Editing reports whether a text field has the keyboard.
func (c *Controller) Editing() bool { return c.focus != nil }

// Sliding reports whether a slider thumb is being dragged.
func (c *Controller) Sliding() bool { return c.sliding != nil }

// FocusedField returns the rectangle of the field being edited and its
// pending text.
func (c *Controller) FocusedField() (image.Rectangle, string, bool) {
	if c.focus == nil {
		return image.Rectangle{}, "", false
	}
	return c.focusedRect(), c.focus.buffer, true
}

// Type appends runes to the focused field.
func (c *Controller) Type(runes ...rune) {
	if c.focus == nil || len(runes) == 0 {
		return
	}
	c.focus.buffer += string(runes)
	c.input()
}

// Backspace deletes the last rune of the focused field.
func (c *Controller) Backspace() {
	if c.focus == nil || c.focus.buffer == "" {
		return
	}
	r := []rune(c.focus.buffer)
	c.focus.buffer = string(r[:len(r)-1])
	c.input()
}

// Commit ends editing and hands the text to the control, as when the field
// loses focus.
func (c *Controller) Commit() {
	f := c.focus
	if f == nil {
		return
	}
	c.focus = nil
	switch f.kind {
	case fieldParameter:
		f.param.InputText(f.buffer)
		f.param.CommitText()
	case fieldRangeMin:
		f.rng.CommitMin(f.buffer)
	case fieldRangeMax:
		f.rng.CommitMax(f.buffer)
	}
}

// Cancel ends editing. A parameter keeps what was typed so far, as the field
// already reflected every keystroke; a range discards the pending text.
func (c *Controller) Cancel() {
	if c.focus == nil {
		return
	}
	if c.focus.kind == fieldParameter {
		c.Commit()
		return
	}
	c.focus = nil
}

func (c *Controller) input() {
	if c.focus.kind == fieldParameter {
		c.focus.param.InputText(c.focus.buffer)
	}
}

func (c *Controller) focusedRect() image.Rectangle {
	switch c.focus.kind {
	case fieldParameter:
		return c.focus.param.Geometry().Text
	case fieldRangeMin:
		r, _ := c.focus.rng.Fields()
		return r
	default:
		_, r := c.focus.rng.Fields()
		return r
	}
}

func (c *Controller) inFocusedField(pt image.Point) bool {
	return pt.In(c.focusedRect())
}
