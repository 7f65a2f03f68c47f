package core

// Keys of the controls the bundled scenarios read through a ParameterReader.
const (
	// KeyAgents is the initial number of agents.
	KeyAgents = "n_agents0"
	// KeyWorldLength is the side length of the landscape, in cells.
	KeyWorldLength = "world_length"
	// KeyFPS is the playback rate in frames per second.
	KeyFPS = "fps"
	// KeyInfectionProbability is the per-contact infection probability.
	KeyInfectionProbability = "infection_probability"
	// KeyDarkFigures hides unreported infections from the visible results.
	KeyDarkFigures = "dark_figures"
)

// FloatOr reads key from params, falling back to def when the key is unbound.
func FloatOr(params ParameterReader, key string, def float64) float64 {
	if params == nil {
		return def
	}
	if v, ok := params.Float(key); ok {
		return v
	}
	return def
}

// BoolOr reads key from params, falling back to def when the key is unbound.
func BoolOr(params ParameterReader, key string, def bool) bool {
	if params == nil {
		return def
	}
	if v, ok := params.Bool(key); ok {
		return v
	}
	return def
}
