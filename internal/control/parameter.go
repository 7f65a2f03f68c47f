// Package control implements the numeric widgets of the control panel: a
// parameter edited through a slider and a text field kept in sync, a min/max
// pair of text fields and an on/off switch. Widgets are driven by discrete
// events and never touch the screen themselves; a front end reads their state
// and geometry to draw them.
package control

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"mad-abm/internal/core"
)

// ParameterSpec holds the construction-time bounds of a Parameter.
type ParameterSpec struct {
	Key         string  `yaml:"key"`
	Label       string  `yaml:"label"`
	Initial     float64 `yaml:"initial"`
	TextMin     float64 `yaml:"text_min"`
	TextMax     float64 `yaml:"text_max"`
	SliderMin   float64 `yaml:"slider_min"`
	SliderMax   float64 `yaml:"slider_max"`
	Step        float64 `yaml:"step"`
	Logarithmic bool    `yaml:"logarithmic"`
}

// Aria mirrors the slider state the way ARIA value attributes would.
type Aria struct {
	Now float64
	Min float64
	Max float64
}

// Geometry is the on-screen layout of a Parameter computed by Layout.
type Geometry struct {
	Frame  image.Rectangle
	Track  image.Rectangle
	Text   image.Rectangle
	ThumbX int
}

const (
	// RowHeight is the vertical space one parameter or range occupies.
	RowHeight = 44
	// SwitchHeight is the vertical space one switch occupies.
	SwitchHeight = 24

	labelHeight = 16
	trackHeight = 6
	textWidth   = 64
	textHeight  = 18
	fieldGap    = 8
)

// Parameter keeps one logical value consistent between a continuous slider and
// a validated text field. The value changes only through MoveSlider,
// InputText and CommitText.
type Parameter struct {
	spec     ParameterSpec
	reporter core.Reporter

	value      float64
	text       string
	position   float64
	sliderStep float64
	valid      bool

	logMin   float64
	logScale float64

	origin image.Point
	width  int
	geom   Geometry
}

// NewParameter validates spec and builds the control. A malformed spec is
// reported as an error message and returned as a *ConfigError.
func NewParameter(spec ParameterSpec, reporter core.Reporter) (*Parameter, error) {
	if reporter == nil {
		reporter = core.ReporterFunc(nil)
	}
	if err := validateSpec(spec); err != nil {
		reporter.Report(err.Error(), true)
		return nil, err
	}
	p := &Parameter{
		spec:       spec,
		reporter:   reporter,
		value:      spec.Initial,
		text:       formatFloat(spec.Initial),
		sliderStep: spec.Step,
		valid:      true,
	}
	if spec.Logarithmic {
		p.logMin, p.logScale = core.LogScale(spec.SliderMin, spec.SliderMax)
		p.sliderStep = spec.SliderMax - p.toSliderPosition(spec.SliderMax-spec.Step)
	}
	p.setSliderPosition(spec.Initial)
	p.onTextInput()
	p.CommitText()
	return p, nil
}

func validateSpec(s ParameterSpec) error {
	checks := []struct {
		field string
		v     float64
	}{
		{"initial", s.Initial},
		{"text_min", s.TextMin},
		{"text_max", s.TextMax},
		{"slider_min", s.SliderMin},
		{"slider_max", s.SliderMax},
		{"step", s.Step},
	}
	for _, c := range checks {
		if !core.Finite(c.v) {
			return notFinite(s.Key, c.field, c.v)
		}
	}
	if !(s.Step > 0) {
		return &ConfigError{Key: s.Key, Field: "step", Value: s.Step, Detail: "must be a positive value"}
	}
	if s.SliderMin >= s.SliderMax {
		return &ConfigError{Key: s.Key, Field: "slider_min", Value: s.SliderMin,
			Detail: fmt.Sprintf("must be smaller than slider_max %v", s.SliderMax)}
	}
	if s.SliderMin < s.TextMin {
		return &ConfigError{Key: s.Key, Field: "slider_min", Value: s.SliderMin,
			Detail: fmt.Sprintf("must not be smaller than text_min %v, the minimum of the text field", s.TextMin)}
	}
	if s.SliderMax > s.TextMax {
		return &ConfigError{Key: s.Key, Field: "slider_max", Value: s.SliderMax,
			Detail: fmt.Sprintf("must not be larger than text_max %v, the maximum of the text field", s.TextMax)}
	}
	if s.Logarithmic {
		if s.SliderMin <= 0 {
			return &ConfigError{Key: s.Key, Field: "slider_min", Value: s.SliderMin,
				Detail: "must be larger than 0 for a logarithmic slider"}
		}
		if s.SliderMax <= 0 {
			return &ConfigError{Key: s.Key, Field: "slider_max", Value: s.SliderMax,
				Detail: "must be larger than 0 for a logarithmic slider"}
		}
	}
	if s.Initial < s.TextMin || s.Initial > s.TextMax {
		return &ConfigError{Key: s.Key, Field: "initial", Value: s.Initial,
			Detail: fmt.Sprintf("must lie between text_min %v and text_max %v", s.TextMin, s.TextMax)}
	}
	return nil
}

// Key returns the identifier of the parameter.
func (p *Parameter) Key() string { return p.spec.Key }

// Spec returns the bounds the parameter was built with.
func (p *Parameter) Spec() ParameterSpec { return p.spec }

// Value returns the current logical value.
func (p *Parameter) Value() float64 { return p.value }

// Valid reports whether the text field currently holds a usable number.
func (p *Parameter) Valid() bool { return p.valid }

// Text returns the contents of the text field.
func (p *Parameter) Text() string { return p.text }

// SliderPosition returns the raw slider position.
func (p *Parameter) SliderPosition() float64 { return p.position }

// SliderStep returns the step shown on the slider. On a logarithmic slider it
// reflects the density of the scale near its maximum.
func (p *Parameter) SliderStep() float64 { return p.sliderStep }

// Aria returns the accessibility mirror of the slider.
func (p *Parameter) Aria() Aria {
	return Aria{Now: p.position, Min: p.spec.SliderMin, Max: p.spec.SliderMax}
}

// MoveSlider handles the slider being dragged to position.
func (p *Parameter) MoveSlider(position float64) {
	if !core.Finite(position) {
		return
	}
	p.setSliderPosition(position)

	var v float64
	if p.spec.Logarithmic {
		// The top of the scale maps directly; exp(ln(max)) is not exact.
		if p.position < p.spec.SliderMax {
			v = core.FromLogPosition(p.position, p.spec.SliderMin, p.logMin, p.logScale)
		} else {
			v = p.spec.SliderMax
		}
	} else {
		v = p.position
	}
	v = core.Quantize(v, p.spec.TextMin, p.spec.Step)
	p.value = core.Clamp(v, p.spec.TextMin, p.spec.TextMax)
	p.text = formatStep(p.value, p.spec.Step)
	p.valid = true
}

// InputText handles a keystroke that left text in the field.
func (p *Parameter) InputText(text string) {
	p.text = text
	p.onTextInput()
}

func (p *Parameter) onTextInput() {
	v, ok := p.parse()
	p.valid = ok && v >= p.spec.TextMin && v <= p.spec.TextMax
	if !p.valid {
		return
	}
	p.value = v
	switch {
	case !p.spec.Logarithmic:
		p.setSliderPosition(v)
	case v > 0:
		p.setSliderPosition(p.toSliderPosition(v))
	default:
		p.setSliderPosition(p.spec.SliderMin)
	}
}

// CommitText handles the field losing focus. Unusable text marks the control
// invalid and reports one message; the last valid value is kept.
func (p *Parameter) CommitText() {
	v, ok := p.parse()
	if !ok {
		p.valid = false
		detail := "make sure to enter a valid number"
		if strings.TrimSpace(p.text) != "" {
			detail = fmt.Sprintf("make sure to enter a valid number instead of %q", p.text)
		}
		p.reportInput(&InputError{Key: p.spec.Key, Input: p.text, Detail: detail})
		return
	}
	if v < p.spec.TextMin || v > p.spec.TextMax {
		p.valid = false
		p.reportInput(&InputError{Key: p.spec.Key, Input: p.text,
			Detail: fmt.Sprintf("%v is outside [%v, %v]", v, p.spec.TextMin, p.spec.TextMax)})
		return
	}
	p.text = formatFloat(v)
	p.onTextInput()
}

// Height returns the vertical space the control occupies.
func (p *Parameter) Height() int { return RowHeight }

// SetFrame positions the control inside the panel. Call Layout afterwards.
func (p *Parameter) SetFrame(x, y, width int) {
	p.origin = image.Pt(x, y)
	p.width = width
}

// Layout recomputes the geometry of the slider and the text field from the
// current frame. It does not change the value or the validity.
func (p *Parameter) Layout() {
	trackW := p.width - textWidth - fieldGap
	if trackW < 1 {
		trackW = 1
	}
	x, y := p.origin.X, p.origin.Y
	p.geom.Frame = image.Rect(x, y, x+p.width, y+RowHeight)
	trackY := y + labelHeight + (textHeight-trackHeight)/2
	p.geom.Track = image.Rect(x, trackY, x+trackW, trackY+trackHeight)
	textX := x + trackW + fieldGap
	p.geom.Text = image.Rect(textX, y+labelHeight, textX+textWidth, y+labelHeight+textHeight)
}

// Geometry returns the last layout with the thumb placed at the current
// slider position.
func (p *Parameter) Geometry() Geometry {
	g := p.geom
	frac := (p.position - p.spec.SliderMin) / (p.spec.SliderMax - p.spec.SliderMin)
	g.ThumbX = g.Track.Min.X + int(frac*float64(g.Track.Dx()))
	return g
}

// PositionAt converts a horizontal screen coordinate on the track into a
// slider position.
func (p *Parameter) PositionAt(x int) float64 {
	track := p.geom.Track
	if track.Dx() <= 0 {
		return p.position
	}
	frac := core.Clamp(float64(x-track.Min.X)/float64(track.Dx()), 0, 1)
	return p.spec.SliderMin + frac*(p.spec.SliderMax-p.spec.SliderMin)
}

func (p *Parameter) parse() (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(p.text), 64)
	if err != nil || !core.Finite(v) {
		return 0, false
	}
	return v, true
}

// setSliderPosition pins position to the slider range.
func (p *Parameter) setSliderPosition(position float64) {
	p.position = core.Clamp(position, p.spec.SliderMin, p.spec.SliderMax)
}

func (p *Parameter) toSliderPosition(v float64) float64 {
	return core.ToLogPosition(v, p.spec.SliderMin, p.spec.SliderMax, p.logMin, p.logScale)
}

func (p *Parameter) reportInput(err *InputError) {
	p.reporter.Report(err.Error(), true)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// formatStep prints v with no more decimals than step carries.
func formatStep(v, step float64) string {
	decimals := 0
	if s := formatFloat(step); strings.Contains(s, ".") {
		decimals = len(s) - strings.Index(s, ".") - 1
	}
	if decimals > 10 {
		decimals = 10
	}
	out := strconv.FormatFloat(v, 'f', decimals, 64)
	if strings.Contains(out, ".") {
		out = strings.TrimRight(strings.TrimRight(out, "0"), ".")
	}
	if out == "-0" {
		out = "0"
	}
	return out
}
