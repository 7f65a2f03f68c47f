package core

import (
	"context"
	"time"
)

// EventLoop runs posted events one at a time on the goroutine that calls Run
// or Drain. Every panel and scheduler transition happens on that goroutine.
type EventLoop struct {
	events chan func()
}

// NewEventLoop returns a loop whose queue holds up to buffer pending events.
func NewEventLoop(buffer int) *EventLoop {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventLoop{events: make(chan func(), buffer)}
}

// Post enqueues fn without blocking. It reports false when the queue is full
// and the event was dropped.
func (l *EventLoop) Post(fn func()) bool {
	if fn == nil {
		return true
	}
	select {
	case l.events <- fn:
		return true
	default:
		return false
	}
}

// Drain runs every event that is already queued and returns how many ran.
func (l *EventLoop) Drain() int {
	n := 0
	for {
		select {
		case fn := <-l.events:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run processes events until ctx is done. No event runs after an event
// cancels ctx, even if more are queued.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.events:
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
		}
	}
}

// TickerTask is a Repeater backed by a time.Ticker whose ticks are delivered
// through an EventLoop. Arm and Cancel must be called from the loop goroutine.
type TickerTask struct {
	loop       *EventLoop
	generation uint64
	stop       chan struct{}
	interval   time.Duration
}

// NewTickerTask binds a ticker task to loop.
func NewTickerTask(loop *EventLoop) *TickerTask {
	return &TickerTask{loop: loop}
}

// Arm starts delivering fn every interval, replacing any previous arming.
func (t *TickerTask) Arm(interval time.Duration, fn func()) {
	t.Cancel()
	if interval <= 0 || fn == nil {
		return
	}
	t.generation++
	gen := t.generation
	stop := make(chan struct{})
	t.stop = stop
	t.interval = interval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.loop.Post(func() {
					// Ticks queued before a Cancel or re-Arm are stale.
					if t.generation == gen && t.stop != nil {
						fn()
					}
				})
			}
		}
	}()
}

// Cancel stops the ticker. Ticks already queued on the loop are discarded
// when they run.
func (t *TickerTask) Cancel() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
	t.generation++
	t.interval = 0
}

// Armed reports whether the ticker is running.
func (t *TickerTask) Armed() bool { return t.stop != nil }

// Interval returns the interval of the current arming, or zero.
func (t *TickerTask) Interval() time.Duration { return t.interval }
