// Package sir implements a susceptible-infected model on a toroidal
// landscape. Agents live in an ECS world; cells hold their own health and
// pass the infection to their eight neighbours.
package sir

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"mad-abm/internal/core"
	rng "mad-abm/pkg/core"
)

// Health is the disease state of an agent or a cell.
type Health uint8

const (
	Susceptible Health = iota
	Infected
)

// Agent is the only ECS component of the model.
type Agent struct {
	Health Health
}

// Model constants.
const (
	BirthProbability     = 0.01
	InitialInfection     = 0.3
	RecoveryProbability  = 0.8
	SurvivalProbability  = 0.8
	visitSpreadDivisor   = 10.0
	defaultAgents        = 1000
	defaultWorldLength   = 100
	defaultInfectionProb = 0.5
)

// TimeStepResults are the measurements taken at the start of a step.
type TimeStepResults struct {
	TimeStep int `csv:"time_step"`
	N        int `csv:"n"`
	S        int `csv:"s"`
	I        int `csv:"i"`
	CI       int `csv:"c_i"`
}

// Sim is the SIR scenario.
type Sim struct {
	params core.ParameterReader

	world  *ecs.World
	agents *ecs.Map1[Agent]
	filter *ecs.Filter1[Agent]

	side    int
	cells   *core.ByteGrid
	next    []uint8
	rng     *rng.RNG
	infect  float64
	dark    bool
	step    int
	results []TimeStepResults
	visible []TimeStepResults

	nextHealth map[ecs.Entity]Health
	scratch    []ecs.Entity
}

// New creates a SIR scenario that reads its parameters from params on every
// Reset. A nil params uses the built-in defaults.
func New(params core.ParameterReader) *Sim {
	s := &Sim{params: params}
	s.Reset(0)
	return s
}

// Name identifies the simulation.
func (s *Sim) Name() string { return "sir" }

// Size returns the landscape dimensions.
func (s *Sim) Size() core.Size { return core.Size{W: s.side, H: s.side} }

// Cells exposes cell health as 0 (susceptible) or 1 (infected).
func (s *Sim) Cells() []uint8 { return s.cells.Cells() }

// Results returns the measurements of every step so far.
func (s *Sim) Results() []TimeStepResults { return s.results }

// Visible returns the results as reported to the public: with dark figures
// on, infections are not counted. The switch is read on Reset.
func (s *Sim) Visible() []TimeStepResults { return s.visible }

// Population returns the number of living agents.
func (s *Sim) Population() int {
	n := 0
	query := s.filter.Query()
	for query.Next() {
		n++
	}
	return n
}

// Reset rebuilds the world from the current parameters.
func (s *Sim) Reset(seed int64) {
	n0 := int(math.Round(core.FloatOr(s.params, core.KeyAgents, defaultAgents)))
	side := int(math.Round(core.FloatOr(s.params, core.KeyWorldLength, defaultWorldLength)))
	if n0 < 0 {
		n0 = 0
	}
	if side < 1 {
		side = 1
	}
	s.infect = core.Clamp(core.FloatOr(s.params, core.KeyInfectionProbability, defaultInfectionProb), 0, 1)
	s.dark = core.BoolOr(s.params, core.KeyDarkFigures, false)

	s.world = ecs.NewWorld()
	s.agents = ecs.NewMap1[Agent](s.world)
	s.filter = ecs.NewFilter1[Agent](s.world)
	for i := 0; i < n0; i++ {
		s.agents.NewEntity(&Agent{Health: Susceptible})
	}

	s.side = side
	s.cells = core.NewByteGrid(side, side)
	s.next = make([]uint8, side*side)
	s.rng = rng.NewRNG(seed)
	s.step = 0
	s.results = s.results[:0]
	s.visible = s.visible[:0]
	s.nextHealth = make(map[ecs.Entity]Health, n0)
}

// Step records the measurements and applies one tick of the dynamics.
func (s *Sim) Step() {
	r := s.measure()
	s.results = append(s.results, r)
	if s.dark {
		r.I = 0
	}
	s.visible = append(s.visible, r)

	cells := s.cells.Cells()
	copy(s.next, cells)
	clear(s.nextHealth)

	mean := float64(s.side) / 2
	sd := float64(s.side) / visitSpreadDivisor

	query := s.filter.Query()
	for query.Next() {
		e := query.Entity()
		a := query.Get()
		if s.step == 0 && a.Health == Susceptible && s.rng.Bernoulli(InitialInfection) {
			s.nextHealth[e] = Infected
		}
		x := int(s.rng.Normal(mean, sd))
		y := int(s.rng.Normal(mean, sd))
		idx := s.cells.Index(x, y)
		switch a.Health {
		case Susceptible:
			if Health(cells[idx]) == Infected && s.rng.Bernoulli(s.infect) {
				s.nextHealth[e] = Infected
			}
		case Infected:
			if Health(cells[idx]) == Susceptible && s.rng.Bernoulli(s.infect) {
				s.next[idx] = uint8(Infected)
			}
			if s.rng.Bernoulli(RecoveryProbability) {
				s.nextHealth[e] = Susceptible
			}
		}
	}

	s.spreadCells(cells)

	// Infected agents may die before the new health states are applied.
	s.scratch = s.scratch[:0]
	query = s.filter.Query()
	for query.Next() {
		if query.Get().Health == Infected && !s.rng.Bernoulli(SurvivalProbability) {
			s.scratch = append(s.scratch, query.Entity())
		}
	}
	for _, e := range s.scratch {
		s.world.RemoveEntity(e)
	}
	for e, h := range s.nextHealth {
		if s.world.Alive(e) {
			s.agents.Get(e).Health = h
		}
	}

	copy(cells, s.next)
	s.birth()
	s.step++
}

func (s *Sim) spreadCells(cells []uint8) {
	var nb [8]int
	for idx, h := range cells {
		switch Health(h) {
		case Susceptible:
			for _, n := range s.cells.Neighbors8(idx, &nb) {
				if Health(cells[n]) == Infected && s.rng.Bernoulli(s.infect) {
					s.next[idx] = uint8(Infected)
					break
				}
			}
		case Infected:
			if s.rng.Bernoulli(RecoveryProbability) {
				s.next[idx] = uint8(Susceptible)
			}
		}
	}
}

func (s *Sim) birth() {
	births := 0
	query := s.filter.Query()
	for query.Next() {
		if query.Get().Health == Susceptible && s.rng.Bernoulli(BirthProbability) {
			births++
		}
	}
	for i := 0; i < births; i++ {
		s.agents.NewEntity(&Agent{Health: Susceptible})
	}
}

func (s *Sim) measure() TimeStepResults {
	r := TimeStepResults{TimeStep: s.step}
	query := s.filter.Query()
	for query.Next() {
		r.N++
		if query.Get().Health == Infected {
			r.I++
		} else {
			r.S++
		}
	}
	for _, c := range s.cells.Cells() {
		if Health(c) == Infected {
			r.CI++
		}
	}
	return r
}

func init() {
	core.Register("sir", func(params core.ParameterReader) core.Sim {
		return New(params)
	})
}
