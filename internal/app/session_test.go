package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"mad-abm/internal/config"
	"mad-abm/internal/control"
	"mad-abm/internal/core"
	"mad-abm/internal/sims/sir"
	"mad-abm/internal/telemetry"
	"mad-abm/internal/ui"
)

type fakeRepeater struct {
	interval time.Duration
	fn       func()
}

func (f *fakeRepeater) Arm(interval time.Duration, fn func()) {
	f.interval = interval
	f.fn = fn
}

func (f *fakeRepeater) Cancel()     { f.fn = nil }
func (f *fakeRepeater) Armed() bool { return f.fn != nil }

func (f *fakeRepeater) fire() {
	if f.fn != nil {
		f.fn()
	}
}

func newSession(t *testing.T, cfg *config.Config) (*Session, *fakeRepeater) {
	t.Helper()
	rep := &fakeRepeater{}
	s, err := NewSession(cfg, nil, rep)
	if err != nil {
		t.Fatal(err)
	}
	return s, rep
}

func TestSessionPlaybackWritesSteps(t *testing.T) {
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	s, rep := newSession(t, cfg)

	s.Apply(ui.ActionToggle)
	if !s.Scheduler().Running() || s.Scenario().Steps() != 1 {
		t.Fatalf("running=%v steps=%d", s.Scheduler().Running(), s.Scenario().Steps())
	}
	if rep.interval != time.Second {
		t.Fatalf("interval = %v, want 1s at 1 fps", rep.interval)
	}
	rep.fire()
	rep.fire()
	s.Apply(ui.ActionStep)
	if s.Scheduler().Running() || rep.Armed() || s.Scenario().Steps() != 4 {
		t.Fatalf("running=%v armed=%v steps=%d", s.Scheduler().Running(), rep.Armed(), s.Scenario().Steps())
	}
	s.Apply(ui.ActionNone)
	if s.Scenario().Steps() != 4 {
		t.Fatal("ActionNone stepped")
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, telemetry.StepsFile))
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 5 {
		t.Fatalf("steps.csv:\n%s", data)
	}
	for _, name := range []string{telemetry.SummaryFile, telemetry.ConfigFile, telemetry.ChartFile} {
		if _, err := os.Stat(filepath.Join(cfg.Output.Dir, name)); err != nil {
			t.Fatalf("missing %s: %v", name, err)
		}
	}
}

func TestSessionFollowsFrameRateControl(t *testing.T) {
	s, rep := newSession(t, config.Default())
	s.Apply(ui.ActionToggle)
	fps, _ := s.Panel().Parameter(core.KeyFPS)
	fps.InputText("4")
	rep.fire()
	if rep.interval != 250*time.Millisecond {
		t.Fatalf("interval = %v, want 250ms", rep.interval)
	}
}

func TestSessionResetDeploysNewScheduler(t *testing.T) {
	s, rep := newSession(t, config.Default())
	old := s.Scheduler()
	s.Apply(ui.ActionToggle)
	s.Apply(ui.ActionReset)

	if !old.Detached() || s.Scheduler() == old {
		t.Fatal("reset kept the old scheduler")
	}
	if rep.Armed() || s.Scheduler().Running() {
		t.Fatal("playback survived reset")
	}
	if s.Scenario().Steps() != 0 {
		t.Fatalf("steps = %d after reset", s.Scenario().Steps())
	}
	last, ok := s.Console().Last()
	if !ok || !strings.Contains(last.Text, "ready") {
		t.Fatalf("last console line = %+v", last)
	}

	old.Toggle()
	if rep.Armed() {
		t.Fatal("detached scheduler still arms the timer")
	}
	s.Apply(ui.ActionStep)
	if s.Scenario().Steps() != 1 {
		t.Fatalf("new scheduler did not step: %d", s.Scenario().Steps())
	}
}

func TestSessionReportsBadControls(t *testing.T) {
	cfg := config.Default()
	cfg.Panel.Parameters = append(cfg.Panel.Parameters, control.ParameterSpec{
		Key: "broken", Initial: 50, TextMin: 0, TextMax: 10, SliderMin: 0, SliderMax: 10, Step: 1,
	})
	s, _ := newSession(t, cfg)
	if s.Console().Errors() != 1 || !s.Console().Open() {
		t.Fatalf("errors=%d open=%v", s.Console().Errors(), s.Console().Open())
	}
	if _, ok := s.Panel().Parameter("broken"); ok {
		t.Fatal("malformed control was added")
	}
}

func TestNewSessionErrors(t *testing.T) {
	unknown := config.Default()
	unknown.Scenario.Sim = "nope"
	if _, err := NewSession(unknown, nil, &fakeRepeater{}); !errors.Is(err, ErrUnknownSim) {
		t.Fatalf("unknown sim: %v", err)
	}

	noFPS := config.Default()
	var kept []control.ParameterSpec
	for _, spec := range noFPS.Panel.Parameters {
		if spec.Key != core.KeyFPS {
			kept = append(kept, spec)
		}
	}
	noFPS.Panel.Parameters = kept
	if _, err := NewSession(noFPS, nil, &fakeRepeater{}); err == nil {
		t.Fatal("session without a frame rate control")
	}
}

func darkFiguresRun(t *testing.T, dark bool) []sir.TimeStepResults {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Dir = t.TempDir()
	for i := range cfg.Panel.Parameters {
		if cfg.Panel.Parameters[i].Key == core.KeyAgents {
			cfg.Panel.Parameters[i].Initial = 200
		}
	}
	for i := range cfg.Panel.Switches {
		if cfg.Panel.Switches[i].Key == core.KeyDarkFigures {
			cfg.Panel.Switches[i].Checked = dark
		}
	}
	s, rep := newSession(t, cfg)
	s.Apply(ui.ActionToggle)
	for range 4 {
		rep.fire()
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Output.Dir, telemetry.StepsFile))
	if err != nil {
		t.Fatal(err)
	}
	var rows []sir.TimeStepResults
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 5 {
		t.Fatalf("steps.csv has %d rows, want 5", len(rows))
	}
	return rows
}

func TestDarkFiguresHideInfectionsInOutput(t *testing.T) {
	infected := func(rows []sir.TimeStepResults) int {
		n := 0
		for _, r := range rows {
			n += r.I
		}
		return n
	}
	if n := infected(darkFiguresRun(t, false)); n == 0 {
		t.Fatal("run without dark figures logged no infections")
	}
	hidden := darkFiguresRun(t, true)
	if n := infected(hidden); n != 0 {
		t.Fatalf("dark figures run logged %d infections", n)
	}
	if hidden[len(hidden)-1].N == 0 {
		t.Fatal("dark figures hid the population too")
	}
}

func TestSessionDoesNotStepOnDeploy(t *testing.T) {
	s, _ := newSession(t, config.Default())
	if s.Scenario().Steps() != 0 || len(s.Results()) != 0 {
		t.Fatalf("steps=%d rows=%d before any action", s.Scenario().Steps(), len(s.Results()))
	}
	s.Apply(ui.ActionStep)
	s.Apply(ui.ActionReset)
	if s.Scenario().Steps() != 0 || len(s.Results()) != 0 {
		t.Fatalf("steps=%d rows=%d after reset", s.Scenario().Steps(), len(s.Results()))
	}
}
