package core

import "time"

// Repeater is a cancellable repeating task. Arm replaces any previous arming.
// Implementations guarantee that fn is not invoked once Cancel has returned.
type Repeater interface {
	Arm(interval time.Duration, fn func())
	Cancel()
	Armed() bool
}

// FixedStep fires a callback at a steady interval. It has no goroutine of its
// own: the frame loop calls Poll once per frame.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	fn          func()
	now         func() time.Time
}

// NewFixedStep constructs an unarmed FixedStep using the wall clock.
func NewFixedStep() *FixedStep {
	return &FixedStep{now: time.Now}
}

// NewFixedStepWithClock constructs an unarmed FixedStep reading time from now.
func NewFixedStepWithClock(now func() time.Time) *FixedStep {
	if now == nil {
		now = time.Now
	}
	return &FixedStep{now: now}
}

// Arm schedules fn every interval, starting one interval from now.
func (f *FixedStep) Arm(interval time.Duration, fn func()) {
	if interval <= 0 || fn == nil {
		f.Cancel()
		return
	}
	f.step = interval
	f.accumulator = 0
	f.last = f.now()
	f.fn = fn
}

// Cancel disarms the task.
func (f *FixedStep) Cancel() {
	f.fn = nil
	f.accumulator = 0
}

// Armed reports whether a callback is scheduled.
func (f *FixedStep) Armed() bool { return f.fn != nil }

// Interval returns the current arming interval.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Poll advances the clock and fires the callback at most once. Time owed
// beyond one interval is dropped.
func (f *FixedStep) Poll() bool {
	if f.fn == nil {
		return false
	}
	now := f.now()
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator < f.step {
		return false
	}
	f.accumulator -= f.step
	if f.accumulator >= f.step {
		f.accumulator = 0
	}
	fn := f.fn
	fn()
	return true
}
