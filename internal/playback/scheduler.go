// Package playback drives the simulation loop: play, pause, single steps and
// reset, at a cadence derived from the frame rate control.
package playback

import (
	"math"
	"time"

	"mad-abm/internal/core"
)

// Simulation is the external model the scheduler drives. Advance must not be
// called concurrently with itself; the scheduler guarantees that.
type Simulation interface {
	Reinitialize()
	Advance()
}

// RateSource supplies frames per second. Only Value and Valid are read.
type RateSource interface {
	Value() float64
	Valid() bool
}

// State is the playback state.
type State int

const (
	// Stopped is the initial state; no timer is armed.
	Stopped State = iota
	// Running has a repeating timer armed.
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// Label returns the icon name of the play/pause affordance for s.
func (s State) Label() string {
	if s == Running {
		return "pause"
	}
	return "play_arrow"
}

// Option customizes a Scheduler.
type Option func(*Scheduler)

// WithStateHook registers fn to be called after every play/pause transition.
func WithStateHook(fn func(State)) Option {
	return func(s *Scheduler) { s.onState = fn }
}

// FrameInterval converts a frame rate to the timer interval, truncated to whole
// milliseconds. It returns 0 for rates that give no usable interval.
func FrameInterval(fps float64) time.Duration {
	if !core.Finite(fps) || fps <= 0 {
		return 0
	}
	ms := math.Floor(1000 / fps)
	if ms < 1 || ms > math.MaxInt32 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Scheduler owns the running state of the simulation loop and its timer.
// All methods must be called from the same goroutine as the timer callbacks.
type Scheduler struct {
	sim      Simulation
	fps      RateSource
	repeater core.Repeater
	onState  func(State)

	state         State
	interval      time.Duration
	buttonsLocked bool
	stepInFlight  bool
	detached      bool
}

// New builds a stopped scheduler. The repeater is owned by the scheduler from
// here on; nothing else may arm or cancel it.
func New(sim Simulation, fps RateSource, repeater core.Repeater, opts ...Option) *Scheduler {
	s := &Scheduler{
		sim:      sim,
		fps:      fps,
		repeater: repeater,
		interval: FrameInterval(fps.Value()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current playback state.
func (s *Scheduler) State() State { return s.state }

// Running reports whether the timer is driving the simulation.
func (s *Scheduler) Running() bool { return s.state == Running }

// Interval returns the interval the timer is, or would be, armed with.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Detached reports whether Reset retired this scheduler.
func (s *Scheduler) Detached() bool { return s.detached }

// Toggle is the play/pause button.
func (s *Scheduler) Toggle() {
	s.guard(func() {
		if s.state == Running {
			s.stop()
		} else {
			s.start()
		}
	})
}

// Start is the play action. It is ignored when already running.
func (s *Scheduler) Start() {
	s.guard(func() {
		if s.state == Stopped {
			s.start()
		}
	})
}

// Stop is the pause action. It is ignored when already stopped.
func (s *Scheduler) Stop() {
	s.guard(func() {
		if s.state == Running {
			s.stop()
		}
	})
}

// Step is the manual step button: playback pauses and one step runs.
func (s *Scheduler) Step() {
	s.guard(func() {
		if s.state == Running {
			s.stop()
		}
		s.step()
	})
}

// Reset retires the scheduler, stops playback and reinitializes the scenario.
// The caller must build a new Scheduler afterwards.
func (s *Scheduler) Reset() {
	s.guard(func() {
		s.detached = true
		if s.state == Running {
			s.stop()
		}
		s.sim.Reinitialize()
	})
}

// guard runs fn unless another user action is in progress or the scheduler
// was reset. Dropped calls are silent.
func (s *Scheduler) guard(fn func()) {
	if s.buttonsLocked || s.detached {
		return
	}
	s.buttonsLocked = true
	fn()
	s.buttonsLocked = false
}

func (s *Scheduler) start() {
	s.state = Running
	if next := FrameInterval(s.fps.Value()); next > 0 {
		s.interval = next
	}
	s.repeater.Arm(s.interval, s.tick)
	s.step()
	s.notify()
}

func (s *Scheduler) stop() {
	s.repeater.Cancel()
	s.state = Stopped
	s.notify()
}

func (s *Scheduler) tick() {
	if s.detached || s.state != Running {
		return
	}
	s.step()
}

// step runs one simulation step unless one is already executing. The flag is
// not cleared if Advance panics, which retires automatic stepping.
func (s *Scheduler) step() {
	if s.stepInFlight {
		return
	}
	s.stepInFlight = true
	next := FrameInterval(s.fps.Value())
	if s.fps.Valid() && next > 0 && next != s.interval {
		s.interval = next
		if s.state == Running {
			s.repeater.Arm(s.interval, s.tick)
		}
	}
	s.sim.Advance()
	s.stepInFlight = false
}

func (s *Scheduler) notify() {
	if s.onState != nil {
		s.onState(s.state)
	}
}
