package sir

import (
	"reflect"
	"testing"

	"mad-abm/internal/core"
)

type params struct {
	floats map[string]float64
	bools  map[string]bool
}

func (p params) Float(key string) (float64, bool) {
	v, ok := p.floats[key]
	return v, ok
}

func (p params) Bool(key string) (bool, bool) {
	v, ok := p.bools[key]
	return v, ok
}

func smallParams(agents float64, dark bool) params {
	return params{
		floats: map[string]float64{
			core.KeyAgents:               agents,
			core.KeyWorldLength:          20,
			core.KeyInfectionProbability: 0.5,
		},
		bools: map[string]bool{core.KeyDarkFigures: dark},
	}
}

func TestResetReadsParameters(t *testing.T) {
	s := New(smallParams(150, false))
	if s.Size() != (core.Size{W: 20, H: 20}) {
		t.Fatalf("size = %+v", s.Size())
	}
	if len(s.Cells()) != 400 {
		t.Fatalf("cells = %d", len(s.Cells()))
	}
	if s.Population() != 150 {
		t.Fatalf("population = %d, want 150", s.Population())
	}
}

func TestFirstStepRecordsInitialState(t *testing.T) {
	s := New(smallParams(200, false))
	s.Reset(1)
	s.Step()
	r := s.Results()
	if len(r) != 1 {
		t.Fatalf("results = %d, want 1", len(r))
	}
	if r[0].TimeStep != 0 || r[0].N != 200 || r[0].S != 200 || r[0].I != 0 || r[0].CI != 0 {
		t.Fatalf("first row = %+v", r[0])
	}
	s.Step()
	if second := s.Results()[1]; second.I == 0 {
		t.Fatalf("no initial infection after step 0: %+v", second)
	}
}

func TestStepBookkeeping(t *testing.T) {
	s := New(smallParams(300, false))
	s.Reset(9)
	for i := 0; i < 40; i++ {
		s.Step()
	}
	for i, r := range s.Results() {
		if r.TimeStep != i {
			t.Fatalf("row %d has time step %d", i, r.TimeStep)
		}
		if r.S+r.I != r.N {
			t.Fatalf("row %d: s+i = %d, n = %d", i, r.S+r.I, r.N)
		}
		if r.CI < 0 || r.CI > 400 {
			t.Fatalf("row %d: c_i = %d", i, r.CI)
		}
	}
	for _, c := range s.Cells() {
		if c > 1 {
			t.Fatalf("cell value %d", c)
		}
	}
}

func TestDeterministicForSeed(t *testing.T) {
	run := func() []TimeStepResults {
		s := New(smallParams(250, false))
		s.Reset(42)
		for i := 0; i < 25; i++ {
			s.Step()
		}
		return append([]TimeStepResults(nil), s.Results()...)
	}
	a, b := run(), run()
	if !reflect.DeepEqual(a, b) {
		t.Fatal("same seed produced different results")
	}
}

func TestResetClearsHistory(t *testing.T) {
	s := New(smallParams(50, false))
	s.Reset(2)
	s.Step()
	s.Step()
	s.Reset(2)
	if len(s.Results()) != 0 || s.Population() != 50 {
		t.Fatalf("results=%d population=%d", len(s.Results()), s.Population())
	}
}

func TestDarkFiguresHideInfections(t *testing.T) {
	s := New(smallParams(300, true))
	s.Reset(4)
	for i := 0; i < 5; i++ {
		s.Step()
	}
	infected := 0
	for _, r := range s.Results() {
		infected += r.I
	}
	if infected == 0 {
		t.Fatal("model produced no infections")
	}
	visible := s.Visible()
	if len(visible) != len(s.Results()) {
		t.Fatalf("%d visible rows for %d results", len(visible), len(s.Results()))
	}
	for k, r := range visible {
		if r.I != 0 {
			t.Fatalf("visible row reports %d infected", r.I)
		}
		if truth := s.Results()[k]; r.N != truth.N || r.S != truth.S || r.CI != truth.CI {
			t.Fatalf("row %d: visible %+v, results %+v", k, r, truth)
		}
	}
}

func TestVisibleMatchesResultsWithoutDarkFigures(t *testing.T) {
	s := New(smallParams(300, false))
	s.Reset(4)
	for i := 0; i < 5; i++ {
		s.Step()
	}
	if !reflect.DeepEqual(s.Visible(), s.Results()) {
		t.Fatalf("visible %v, results %v", s.Visible(), s.Results())
	}
	s.Reset(4)
	if len(s.Visible()) != 0 {
		t.Fatal("reset kept visible rows")
	}
}

func TestZeroInfectionProbabilityKeepsCellsClean(t *testing.T) {
	p := smallParams(300, false)
	p.floats[core.KeyInfectionProbability] = 0
	s := New(p)
	s.Reset(6)
	for i := 0; i < 10; i++ {
		s.Step()
	}
	for _, r := range s.Results() {
		if r.CI != 0 {
			t.Fatalf("cells infected with zero probability: %+v", r)
		}
	}
}

func TestRegistered(t *testing.T) {
	f, ok := core.Sims()["sir"]
	if !ok {
		t.Fatal("sir not registered")
	}
	if f(nil).Name() != "sir" {
		t.Fatal("factory built the wrong sim")
	}
}
