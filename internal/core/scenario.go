package core

// Scenario adapts a Sim to the reinitialize/advance contract the playback
// scheduler drives, and notifies observers after every step.
type Scenario struct {
	sim       Sim
	seed      int64
	steps     int
	observers []func(Sim)
}

// NewScenario wraps sim. The sim is not reset; call Reinitialize to start.
func NewScenario(sim Sim, seed int64) *Scenario {
	return &Scenario{sim: sim, seed: seed}
}

// Sim returns the wrapped simulation.
func (s *Scenario) Sim() Sim { return s.sim }

// Seed returns the seed used by the next Reinitialize.
func (s *Scenario) Seed() int64 { return s.seed }

// SetSeed changes the seed used by the next Reinitialize.
func (s *Scenario) SetSeed(seed int64) { s.seed = seed }

// Steps counts the steps since the last Reinitialize.
func (s *Scenario) Steps() int { return s.steps }

// OnStep registers fn to run after every step.
func (s *Scenario) OnStep(fn func(Sim)) {
	if fn != nil {
		s.observers = append(s.observers, fn)
	}
}

// Reinitialize resets the simulation from the current parameters.
func (s *Scenario) Reinitialize() {
	s.sim.Reset(s.seed)
	s.steps = 0
}

// Advance runs one step and notifies observers.
func (s *Scenario) Advance() {
	s.sim.Step()
	s.steps++
	for _, fn := range s.observers {
		fn(s.sim)
	}
}
