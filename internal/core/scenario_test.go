package core

import "testing"

type countingSim struct {
	seeds []int64
	steps int
}

func (c *countingSim) Name() string     { return "counting" }
func (c *countingSim) Size() Size       { return Size{W: 1, H: 1} }
func (c *countingSim) Reset(seed int64) { c.seeds = append(c.seeds, seed); c.steps = 0 }
func (c *countingSim) Step()            { c.steps++ }
func (c *countingSim) Cells() []uint8   { return []uint8{0} }

func TestScenarioCountsAndNotifies(t *testing.T) {
	sim := &countingSim{}
	s := NewScenario(sim, 7)
	var seen []int
	s.OnStep(func(Sim) { seen = append(seen, s.Steps()) })
	s.OnStep(nil)

	s.Reinitialize()
	s.Advance()
	s.Advance()
	if s.Steps() != 2 || sim.steps != 2 || len(seen) != 2 || seen[1] != 2 {
		t.Fatalf("steps=%d sim=%d seen=%v", s.Steps(), sim.steps, seen)
	}

	s.SetSeed(11)
	s.Reinitialize()
	if s.Steps() != 0 {
		t.Fatalf("steps after reinitialize = %d", s.Steps())
	}
	if len(sim.seeds) != 2 || sim.seeds[0] != 7 || sim.seeds[1] != 11 {
		t.Fatalf("seeds = %v", sim.seeds)
	}
}
