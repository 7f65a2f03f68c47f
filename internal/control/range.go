package control

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"mad-abm/internal/core"
)

// RangeSpec holds the construction-time bounds of a RangeControl.
type RangeSpec struct {
	Key         string  `yaml:"key"`
	Label       string  `yaml:"label"`
	InitialMin  float64 `yaml:"initial_min"`
	InitialMax  float64 `yaml:"initial_max"`
	AbsoluteMin float64 `yaml:"absolute_min"`
	AbsoluteMax float64 `yaml:"absolute_max"`
	Step        float64 `yaml:"step"`
}

// RangeControl keeps a minimum and a maximum entered in two text fields.
type RangeControl struct {
	spec     RangeSpec
	reporter core.Reporter

	min, max         float64
	minText, maxText string
	minValid         bool
	maxValid         bool
	valid            bool

	frame image.Rectangle
	geom  [2]image.Rectangle
}

// NewRangeControl validates spec and builds the control.
func NewRangeControl(spec RangeSpec, reporter core.Reporter) (*RangeControl, error) {
	if reporter == nil {
		reporter = core.ReporterFunc(nil)
	}
	if err := validateRange(spec); err != nil {
		reporter.Report(err.Error(), true)
		return nil, err
	}
	return &RangeControl{
		spec:     spec,
		reporter: reporter,
		min:      spec.InitialMin,
		max:      spec.InitialMax,
		minText:  formatFloat(spec.InitialMin),
		maxText:  formatFloat(spec.InitialMax),
		minValid: true,
		maxValid: true,
		valid:    true,
	}, nil
}

func validateRange(s RangeSpec) error {
	checks := []struct {
		field string
		v     float64
	}{
		{"initial_min", s.InitialMin},
		{"initial_max", s.InitialMax},
		{"absolute_min", s.AbsoluteMin},
		{"absolute_max", s.AbsoluteMax},
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
	if s.AbsoluteMin > s.InitialMin {
		return &ConfigError{Key: s.Key, Field: "absolute_min", Value: s.AbsoluteMin,
			Detail: fmt.Sprintf("must not be larger than initial_min %v", s.InitialMin)}
	}
	if s.InitialMin > s.InitialMax {
		return &ConfigError{Key: s.Key, Field: "initial_min", Value: s.InitialMin,
			Detail: fmt.Sprintf("must not be larger than initial_max %v", s.InitialMax)}
	}
	if s.InitialMax > s.AbsoluteMax {
		return &ConfigError{Key: s.Key, Field: "initial_max", Value: s.InitialMax,
			Detail: fmt.Sprintf("must not be larger than absolute_max %v", s.AbsoluteMax)}
	}
	return nil
}

// Key returns the identifier of the range.
func (r *RangeControl) Key() string { return r.spec.Key }

// Spec returns the bounds the range was built with.
func (r *RangeControl) Spec() RangeSpec { return r.spec }

// Min returns the last accepted minimum.
func (r *RangeControl) Min() float64 { return r.min }

// Max returns the last accepted maximum.
func (r *RangeControl) Max() float64 { return r.max }

// MinText returns the contents of the minimum field.
func (r *RangeControl) MinText() string { return r.minText }

// MaxText returns the contents of the maximum field.
func (r *RangeControl) MaxText() string { return r.maxText }

// Valid reports whether both fields hold numbers and min <= max.
func (r *RangeControl) Valid() bool { return r.valid }

// CommitMin handles the minimum field losing focus.
func (r *RangeControl) CommitMin(text string) {
	r.minText = text
	v, ok := r.parse(text, "minimum")
	r.minValid = ok
	if !ok {
		r.valid = false
		return
	}
	r.min = v
	if r.min > r.max {
		r.valid = false
		r.report(text, fmt.Sprintf("minimum %v must not be larger than the maximum %v", r.min, r.max))
		return
	}
	r.valid = r.maxValid
}

// CommitMax handles the maximum field losing focus.
func (r *RangeControl) CommitMax(text string) {
	r.maxText = text
	v, ok := r.parse(text, "maximum")
	r.maxValid = ok
	if !ok {
		r.valid = false
		return
	}
	r.max = v
	if r.min > r.max {
		r.valid = false
		r.report(text, fmt.Sprintf("maximum %v must not be smaller than the minimum %v", r.max, r.min))
		return
	}
	r.valid = r.minValid
}

func (r *RangeControl) parse(text, which string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || !core.Finite(v) {
		r.report(text, fmt.Sprintf("make sure to enter a valid %s instead of %q", which, text))
		return 0, false
	}
	if v < r.spec.AbsoluteMin || v > r.spec.AbsoluteMax {
		r.report(text, fmt.Sprintf("%s %v is outside [%v, %v]", which, v, r.spec.AbsoluteMin, r.spec.AbsoluteMax))
		return 0, false
	}
	return v, true
}

func (r *RangeControl) report(input, detail string) {
	err := &InputError{Key: r.spec.Key, Input: input, Detail: detail}
	r.reporter.Report(err.Error(), true)
}

// Height returns the vertical space the range occupies.
func (r *RangeControl) Height() int { return RowHeight }

// SetFrame positions the range inside the panel. Call Layout afterwards.
func (r *RangeControl) SetFrame(x, y, width int) {
	r.frame = image.Rect(x, y, x+width, y+RowHeight)
}

// Layout splits the frame between the two text fields.
func (r *RangeControl) Layout() {
	half := (r.frame.Dx() - fieldGap) / 2
	top := r.frame.Min.Y + labelHeight
	r.geom[0] = image.Rect(r.frame.Min.X, top, r.frame.Min.X+half, top+textHeight)
	r.geom[1] = image.Rect(r.frame.Max.X-half, top, r.frame.Max.X, top+textHeight)
}

// Frame returns the area the range occupies.
func (r *RangeControl) Frame() image.Rectangle { return r.frame }

// Fields returns the rectangles of the minimum and maximum fields.
func (r *RangeControl) Fields() (minField, maxField image.Rectangle) {
	return r.geom[0], r.geom[1]
}
