// Package panel holds every control of the card in one context object. The
// scheduler and the scenario read values through it instead of looking
// widgets up by name in a global registry.
package panel

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"mad-abm/internal/config"
	"mad-abm/internal/control"
	"mad-abm/internal/core"
)

// Widget is what the panel lays out.
type Widget interface {
	Key() string
	Height() int
	SetFrame(x, y, width int)
	Layout()
}

// Button identifies one of the playback buttons.
type Button int

const (
	ButtonToggle Button = iota
	ButtonStep
	ButtonReset
	buttonCount
)

func (b Button) String() string {
	switch b {
	case ButtonToggle:
		return "toggle"
	case ButtonStep:
		return "step"
	case ButtonReset:
		return "reset"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

const (
	// HeaderHeight is the draggable title strip.
	HeaderHeight = 20
	// ButtonHeight is the height of the playback button row.
	ButtonHeight = 24

	padding = 8
	rowGap  = 4
)

// Panel is the control card.
type Panel struct {
	origin image.Point
	width  int

	widgets    []Widget
	parameters map[string]*control.Parameter
	ranges     map[string]*control.RangeControl
	switches   map[string]*control.Switch

	bounds  image.Rectangle
	header  image.Rectangle
	buttons [buttonCount]image.Rectangle

	dragging   bool
	dragMoved  bool
	dragOffset image.Point
}

// New builds every widget described by cfg. A widget whose spec is rejected
// is left out; the others are still built and the failures are returned
// joined together.
func New(cfg config.Panel, reporter core.Reporter) (*Panel, error) {
	p := &Panel{
		origin:     image.Pt(cfg.X, cfg.Y),
		width:      cfg.Width,
		parameters: make(map[string]*control.Parameter, len(cfg.Parameters)),
		ranges:     make(map[string]*control.RangeControl, len(cfg.Ranges)),
		switches:   make(map[string]*control.Switch, len(cfg.Switches)),
	}
	if reporter == nil {
		reporter = core.ReporterFunc(nil)
	}
	var errs []error
	rejectDuplicate := func(key string) bool {
		if !p.taken(key) {
			return false
		}
		err := fmt.Errorf("control %q: key is already used by another control: %w", key, control.ErrConfiguration)
		reporter.Report(err.Error(), true)
		errs = append(errs, err)
		return true
	}
	for _, spec := range cfg.Parameters {
		if rejectDuplicate(spec.Key) {
			continue
		}
		param, err := control.NewParameter(spec, reporter)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.parameters[spec.Key] = param
		p.widgets = append(p.widgets, param)
	}
	for _, spec := range cfg.Ranges {
		if rejectDuplicate(spec.Key) {
			continue
		}
		r, err := control.NewRangeControl(spec, reporter)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		p.ranges[spec.Key] = r
		p.widgets = append(p.widgets, r)
	}
	for _, spec := range cfg.Switches {
		if rejectDuplicate(spec.Key) {
			continue
		}
		s := control.NewSwitch(spec)
		p.switches[spec.Key] = s
		p.widgets = append(p.widgets, s)
	}
	p.Layout()
	return p, errors.Join(errs...)
}

func (p *Panel) taken(key string) bool {
	_, a := p.parameters[key]
	_, b := p.ranges[key]
	_, c := p.switches[key]
	return a || b || c
}

// Parameter returns the slider/text control bound to key.
func (p *Panel) Parameter(key string) (*control.Parameter, bool) {
	c, ok := p.parameters[key]
	return c, ok
}

// Range returns the min/max control bound to key.
func (p *Panel) Range(key string) (*control.RangeControl, bool) {
	c, ok := p.ranges[key]
	return c, ok
}

// Switch returns the toggle bound to key.
func (p *Panel) Switch(key string) (*control.Switch, bool) {
	c, ok := p.switches[key]
	return c, ok
}

// Float returns the current value of a parameter. Range bounds are read as
// "key.min" and "key.max".
func (p *Panel) Float(key string) (float64, bool) {
	if c, ok := p.parameters[key]; ok {
		return c.Value(), true
	}
	base, bound, ok := strings.Cut(key, ".")
	if !ok {
		return 0, false
	}
	r, ok := p.ranges[base]
	if !ok {
		return 0, false
	}
	switch bound {
	case "min":
		return r.Min(), true
	case "max":
		return r.Max(), true
	}
	return 0, false
}

// Bool returns the state of a switch.
func (p *Panel) Bool(key string) (bool, bool) {
	if s, ok := p.switches[key]; ok {
		return s.Checked(), true
	}
	return false, false
}

// Valid reports whether every parameter and range currently holds a valid
// value.
func (p *Panel) Valid() bool {
	for _, c := range p.parameters {
		if !c.Valid() {
			return false
		}
	}
	for _, r := range p.ranges {
		if !r.Valid() {
			return false
		}
	}
	return true
}

// Controls returns the widgets in display order.
func (p *Panel) Controls() []Widget {
	out := make([]Widget, len(p.widgets))
	copy(out, p.widgets)
	return out
}

// Origin returns the top-left corner of the card.
func (p *Panel) Origin() image.Point { return p.origin }

// Bounds returns the area of the whole card after the last layout.
func (p *Panel) Bounds() image.Rectangle { return p.bounds }

// Header returns the draggable title strip.
func (p *Panel) Header() image.Rectangle { return p.header }

// ButtonRect returns the clickable area of b.
func (p *Panel) ButtonRect(b Button) image.Rectangle {
	if b < 0 || b >= buttonCount {
		return image.Rectangle{}
	}
	return p.buttons[b]
}

// ButtonAt returns the button under pt.
func (p *Panel) ButtonAt(pt image.Point) (Button, bool) {
	for i, r := range p.buttons {
		if pt.In(r) {
			return Button(i), true
		}
	}
	return 0, false
}

// Layout stacks the header, the playback buttons and the widgets from the
// current origin. Values and validity are left alone.
func (p *Panel) Layout() {
	x, y := p.origin.X, p.origin.Y
	inner := p.width - 2*padding
	if inner < 1 {
		inner = 1
	}
	p.header = image.Rect(x, y, x+p.width, y+HeaderHeight)
	cy := y + HeaderHeight + padding

	bw := (inner - 2*rowGap) / int(buttonCount)
	for i := range p.buttons {
		bx := x + padding + i*(bw+rowGap)
		p.buttons[i] = image.Rect(bx, cy, bx+bw, cy+ButtonHeight)
	}
	cy += ButtonHeight + padding

	for _, w := range p.widgets {
		w.SetFrame(x+padding, cy, inner)
		w.Layout()
		cy += w.Height() + rowGap
	}
	p.bounds = image.Rect(x, y, x+p.width, cy+padding-rowGap)
}

// MoveTo repositions the card and lays it out again.
func (p *Panel) MoveTo(x, y int) {
	p.origin = image.Pt(x, y)
	p.Layout()
}

// BeginDrag starts moving the card when pt is on the header.
func (p *Panel) BeginDrag(pt image.Point) bool {
	if p.dragging || !pt.In(p.header) {
		return false
	}
	p.dragging = true
	p.dragMoved = false
	p.dragOffset = p.origin.Sub(pt)
	return true
}

// DragTo follows the pointer while a drag is active.
func (p *Panel) DragTo(pt image.Point) {
	if !p.dragging {
		return
	}
	next := pt.Add(p.dragOffset)
	if next == p.origin {
		return
	}
	p.dragMoved = true
	p.MoveTo(next.X, next.Y)
}

// EndDrag finishes the drag. It reports whether the card moved, in which case
// the pointer release must not count as a click.
func (p *Panel) EndDrag() bool {
	if !p.dragging {
		return false
	}
	p.dragging = false
	p.Layout()
	return p.dragMoved
}

// Dragging reports whether a drag is active.
func (p *Panel) Dragging() bool { return p.dragging }
