package core

import (
	"context"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestFixedStepFiresOncePerInterval(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStepWithClock(clock.Now)
	fired := 0
	fs.Arm(250*time.Millisecond, func() { fired++ })

	clock.Advance(100 * time.Millisecond)
	if fs.Poll() {
		t.Fatal("fired before the interval elapsed")
	}
	clock.Advance(150 * time.Millisecond)
	if !fs.Poll() {
		t.Fatal("did not fire once the interval elapsed")
	}
	clock.Advance(250 * time.Millisecond)
	fs.Poll()
	if fired != 2 {
		t.Fatalf("fired %d times, want 2", fired)
	}
}

func TestFixedStepShedsBacklog(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStepWithClock(clock.Now)
	fired := 0
	fs.Arm(10*time.Millisecond, func() { fired++ })

	clock.Advance(time.Second)
	fs.Poll()
	fs.Poll()
	if fired != 1 {
		t.Fatalf("fired %d times after a long stall, want 1", fired)
	}
}

func TestFixedStepCancelStopsCallbacks(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStepWithClock(clock.Now)
	fired := 0
	fs.Arm(10*time.Millisecond, func() { fired++ })
	fs.Cancel()
	if fs.Armed() {
		t.Fatal("still armed after Cancel")
	}
	clock.Advance(time.Second)
	if fs.Poll() || fired != 0 {
		t.Fatal("callback ran after Cancel")
	}
}

func TestFixedStepRearmFromCallback(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	fs := NewFixedStepWithClock(clock.Now)
	var fn func()
	fn = func() { fs.Arm(100*time.Millisecond, fn) }
	fs.Arm(250*time.Millisecond, fn)

	clock.Advance(250 * time.Millisecond)
	fs.Poll()
	if got := fs.Interval(); got != 100*time.Millisecond {
		t.Fatalf("interval after re-arm = %v, want 100ms", got)
	}
	if !fs.Armed() {
		t.Fatal("re-armed task reports unarmed")
	}
}

func TestEventLoopDrainRunsInOrder(t *testing.T) {
	loop := NewEventLoop(4)
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		if !loop.Post(func() { order = append(order, i) }) {
			t.Fatalf("post %d rejected", i)
		}
	}
	if n := loop.Drain(); n != 3 {
		t.Fatalf("drained %d events, want 3", n)
	}
	for i, v := range order {
		if v != i {
			t.Fatalf("events ran out of order: %v", order)
		}
	}
}

func TestEventLoopDropsWhenFull(t *testing.T) {
	loop := NewEventLoop(1)
	if !loop.Post(func() {}) {
		t.Fatal("first post rejected")
	}
	if loop.Post(func() {}) {
		t.Fatal("post into a full queue accepted")
	}
}

func TestTickerTaskDiscardsTicksAfterCancel(t *testing.T) {
	loop := NewEventLoop(16)
	task := NewTickerTask(loop)
	fired := 0
	task.Arm(time.Millisecond, func() { fired++ })

	deadline := time.Now().Add(2 * time.Second)
	for fired == 0 && time.Now().Before(deadline) {
		time.Sleep(2 * time.Millisecond)
		loop.Drain()
	}
	if fired == 0 {
		t.Fatal("ticker never fired")
	}

	// Let ticks pile up in the queue, then cancel before draining them.
	time.Sleep(10 * time.Millisecond)
	task.Cancel()
	before := fired
	loop.Drain()
	time.Sleep(10 * time.Millisecond)
	loop.Drain()
	if fired != before {
		t.Fatalf("callback ran %d times after Cancel", fired-before)
	}
	if task.Armed() {
		t.Fatal("task still armed after Cancel")
	}
}

func TestEventLoopRunStopsOnContext(t *testing.T) {
	loop := NewEventLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	loop.Post(cancel)
	if err := loop.Run(ctx); err != context.Canceled {
		t.Fatalf("Run returned %v, want context.Canceled", err)
	}
}

func TestEventLoopRunSkipsEventsAfterCancel(t *testing.T) {
	loop := NewEventLoop(4)
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	loop.Post(func() { ran++; cancel() })
	loop.Post(func() { ran++ })
	loop.Post(func() { ran++ })
	if err := loop.Run(ctx); err != context.Canceled {
		t.Fatalf("Run returned %v", err)
	}
	if ran != 1 {
		t.Fatalf("%d events ran, want 1", ran)
	}
}
