package syncx

import (
	"time"

	"corert/ilist"
	"corert/sched"
	"corert/task"
	"corert/trace"
)

// WaitResult distinguishes why an Event wait returned, resolving
// spec.md §9's open question in favor of the recommended option: the
// source collapses cancellation and timeout into the same -1: this
// implementation does not.
type WaitResult int

const (
	// WaitOK means the event was (or became) set.
	WaitOK WaitResult = iota
	// WaitTimedOut means the deadline elapsed with no set() call.
	WaitTimedOut
	// WaitCancelled means CancelWait was invoked on the waiting task.
	WaitCancelled
)

// Event is an auto-reset, edge-triggered latch: Set wakes exactly one
// waiter if any are queued; otherwise it latches, so the very next
// Wait/WaitTimeout returns immediately without suspending, after which
// the latch clears (spec.md §3/§4.6).
type Event struct {
	s       *sched.Scheduler
	set     bool
	waiters ilist.List[*task.Task]
}

// NewEvent returns a cleared Event bound to s.
func NewEvent(s *sched.Scheduler) *Event {
	return &Event{s: s}
}

// RemoveWaiter implements task.Waitable.
func (e *Event) RemoveWaiter(t *task.Task) {
	e.waiters.Remove(&t.WaitHook)
}

// Wait is event_wait (no deadline): it cannot time out, so it returns
// only 0 (woken by Set) or -1 (cancelled).
func (e *Event) Wait() int {
	if e.consumeLatch() {
		return 0
	}

	cur := e.park()
	trace.Block(cur.ID, cur.Name, "event")
	e.s.ParkCurrent()
	r := e.wakeResult(cur, false)
	trace.Wake(cur.ID, cur.Name, r)
	return r
}

// WaitTimeout is event_wait_timeout. A deadline already in the past
// (timeout <= 0) returns WaitTimedOut immediately without suspending
// (spec.md §8 boundary behavior), unless the event happens to be
// set — checking the latch takes priority, matching "if set, clear
// set, return 0" in spec.md §4.6's ordering.
func (e *Event) WaitTimeout(timeout time.Duration) WaitResult {
	if e.consumeLatch() {
		return WaitOK
	}
	if timeout <= 0 {
		return WaitTimedOut
	}

	cur := e.park()
	e.s.AddTimer(cur, e.s.Now().Add(timeout))
	trace.Block(cur.ID, cur.Name, "event")
	e.s.ParkCurrent()

	r := e.wakeResult(cur, true)
	trace.Wake(cur.ID, cur.Name, r)
	switch r {
	case -1:
		return WaitCancelled
	case 1:
		return WaitTimedOut
	default:
		return WaitOK
	}
}

// Set is event_set: if the wait queue is non-empty, the head is
// popped (and dropped from the Timer Service if it had registered a
// timeout) and moved to the run queue with no yield. Otherwise the
// latch is set so the next wait returns immediately.
func (e *Event) Set() {
	if n := e.waiters.PopFront(); n != nil {
		next := n.Value
		if next.TimerIndex >= 0 {
			e.s.RemoveTimer(next)
		}
		e.s.Enqueue(next)
		return
	}
	e.set = true
}

func (e *Event) consumeLatch() bool {
	if e.set {
		e.set = false
		return true
	}
	return false
}

func (e *Event) park() *task.Task {
	cur := e.s.Current()
	cur.WaitObj = e
	cur.SetState(task.Waiting)
	e.waiters.PushBack(&cur.WaitHook)
	return cur
}

// wakeResult reads and clears a woken waiter's flags, returning -1
// for cancelled, 1 for timed out (only meaningful when withTimeout),
// or 0 for a normal Set-driven wake.
func (e *Event) wakeResult(t *task.Task, withTimeout bool) int {
	cancelled := t.WaitCancelled
	timedOut := withTimeout && t.WaitTimedOut
	t.WaitCancelled = false
	t.WaitTimedOut = false
	t.WaitObj = nil
	switch {
	case cancelled:
		return -1
	case timedOut:
		return 1
	default:
		return 0
	}
}
