package app

import (
	"errors"
	"fmt"
	"log/slog"

	"mad-abm/internal/config"
	"mad-abm/internal/console"
	"mad-abm/internal/core"
	"mad-abm/internal/panel"
	"mad-abm/internal/playback"
	"mad-abm/internal/sims/sir"
	"mad-abm/internal/telemetry"
	"mad-abm/internal/ui"
)

// ErrUnknownSim is returned when the configured simulation is not registered.
var ErrUnknownSim = errors.New("app: unknown simulation")

// resultsProvider is implemented by scenarios that publish a results series.
// Visible rows are what the run reports, with any hidden counts zeroed.
type resultsProvider interface {
	Visible() []sir.TimeStepResults
}

// Session wires the panel, the scenario, the playback scheduler and the
// output together. It is shared by the window and the headless runner; all
// methods must run on the goroutine that drives the repeater.
type Session struct {
	cfg      *config.Config
	logger   *slog.Logger
	console  *console.Console
	panel    *panel.Panel
	scenario *core.Scenario
	output   *telemetry.OutputManager
	repeater core.Repeater
	sched    *playback.Scheduler
	fps      *fpsSource

	outputErr error
}

// fpsSource reads the frame rate control. Without one the scheduler sees an
// invalid rate and keeps its interval.
type fpsSource struct {
	panel *panel.Panel
}

func (f *fpsSource) Value() float64 {
	v, _ := f.panel.Float(core.KeyFPS)
	return v
}

func (f *fpsSource) Valid() bool {
	p, ok := f.panel.Parameter(core.KeyFPS)
	return ok && p.Valid()
}

// NewSession builds everything cfg describes and deploys the scenario.
// Controls with a malformed description are reported on the console and
// left out; only a missing frame rate control or simulation is fatal.
func NewSession(cfg *config.Config, logger *slog.Logger, repeater core.Repeater) (*Session, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := console.New(logger, cfg.Console.MaxLines)
	c.SetOpen(cfg.Console.Open)

	p, err := panel.New(cfg.Panel, c)
	if err != nil {
		logger.Warn("panel built with errors", "err", err)
	}
	if _, ok := p.Parameter(core.KeyFPS); !ok {
		return nil, errors.Join(fmt.Errorf("app: panel has no %q control", core.KeyFPS), err)
	}

	factory, ok := core.Sims()[cfg.Scenario.Sim]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownSim, cfg.Scenario.Sim)
	}

	out, err := telemetry.NewOutputManager(cfg.Output.Dir)
	if err != nil {
		return nil, err
	}
	if err := out.WriteConfig(cfg); err != nil {
		out.Close()
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		logger:   logger,
		console:  c,
		panel:    p,
		scenario: core.NewScenario(factory(p), cfg.Scenario.Seed),
		output:   out,
		repeater: repeater,
		fps:      &fpsSource{panel: p},
	}
	s.scenario.OnStep(s.record)
	s.scenario.Reinitialize()
	s.deploy()
	return s, nil
}

func (s *Session) deploy() {
	s.sched = playback.New(s.scenario, s.fps, s.repeater, playback.WithStateHook(func(st playback.State) {
		s.logger.Debug("playback", "state", st.String(), "interval", s.sched.Interval())
	}))
	s.console.Report(fmt.Sprintf("scenario %s ready with seed %d", s.scenario.Sim().Name(), s.scenario.Seed()), false)
}

func (s *Session) record(sim core.Sim) {
	if s.output == nil || s.outputErr != nil {
		return
	}
	rp, ok := sim.(resultsProvider)
	if !ok {
		return
	}
	rows := rp.Visible()
	if len(rows) == 0 {
		return
	}
	if err := s.output.WriteStep(rows[len(rows)-1]); err != nil {
		s.outputErr = err
		s.console.Report(err.Error(), true)
	}
}

// Apply performs a playback action.
func (s *Session) Apply(a ui.Action) {
	switch a {
	case ui.ActionToggle:
		s.sched.Toggle()
	case ui.ActionStep:
		s.sched.Step()
	case ui.ActionReset:
		s.Reset()
	}
}

// Reset retires the current scheduler, which reinitializes the scenario from
// the panel, and deploys a fresh one.
func (s *Session) Reset() {
	s.sched.Reset()
	if !s.sched.Detached() {
		return
	}
	s.deploy()
}

// Results returns the visible results of the current run, or nil when the
// scenario publishes none.
func (s *Session) Results() []sir.TimeStepResults {
	if rp, ok := s.scenario.Sim().(resultsProvider); ok {
		return rp.Visible()
	}
	return nil
}

// Config returns the configuration the session was built from.
func (s *Session) Config() *config.Config { return s.cfg }

// Console returns the message surface.
func (s *Session) Console() *console.Console { return s.console }

// Panel returns the control card.
func (s *Session) Panel() *panel.Panel { return s.panel }

// Scenario returns the running scenario.
func (s *Session) Scenario() *core.Scenario { return s.scenario }

// Scheduler returns the current playback scheduler. It changes on Reset.
func (s *Session) Scheduler() *playback.Scheduler { return s.sched }

// Close stops playback and flushes the output.
func (s *Session) Close() error {
	if s.sched.Running() {
		s.sched.Stop()
	}
	finishErr := s.output.Finish(s.cfg.Output.Chart)
	closeErr := s.output.Close()
	return errors.Join(s.outputErr, finishErr, closeErr)
}
