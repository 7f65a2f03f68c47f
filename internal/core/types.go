package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a scenario must implement. Reset reseeds
// the scenario from the current panel values and Step advances it by one tick.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// ParameterReader exposes the live values of the control panel. The boolean
// result reports whether the key is bound to a control.
type ParameterReader interface {
	Float(key string) (float64, bool)
	Bool(key string) (bool, bool)
}

// Reporter is the message surface shared by the panel and the scenarios.
type Reporter interface {
	Report(text string, isError bool)
}

// ReporterFunc adapts a plain function into a Reporter.
type ReporterFunc func(text string, isError bool)

// Report calls f.
func (f ReporterFunc) Report(text string, isError bool) {
	if f != nil {
		f(text, isError)
	}
}

// Factory constructs a Sim bound to the provided parameter source.
type Factory func(params ParameterReader) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
