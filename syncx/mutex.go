// Package syncx implements the scheduler's primitive synchronization
// objects — Mutex and Event — as wait-queue objects built on sched's
// wait/wake primitives, per spec.md §4.5/§4.6. Grounded on barn's
// server.Scheduler wait/resume bookkeeping (ResumeTask/KillTask in
// server/scheduler.go), generalized from task-suspend-and-resume-by-
// id into a reusable FIFO wait-queue abstraction.
package syncx

import (
	"corert/assertx"
	"corert/ilist"
	"corert/sched"
	"corert/task"
	"corert/trace"
)

// Mutex is a non-reentrant, strictly-FIFO lock: the unlock path hands
// ownership directly to the longest-waiting blocked task rather than
// letting a freshly-arriving Lock call barge ahead (spec.md §4.5/§5).
type Mutex struct {
	s       *sched.Scheduler
	owner   *task.Task
	waiters ilist.List[*task.Task]
}

// NewMutex returns an unlocked Mutex bound to s.
func NewMutex(s *sched.Scheduler) *Mutex {
	return &Mutex{s: s}
}

// RemoveWaiter implements task.Waitable so CancelWait and timer
// expiry can detach a task from this mutex's wait queue.
func (m *Mutex) RemoveWaiter(t *task.Task) {
	m.waiters.Remove(&t.WaitHook)
}

// Lock is mutex_lock. If the mutex is free it is acquired immediately
// with no suspension. Otherwise the caller is appended to the wait
// queue and suspends; on wake it is either already the owner (handed
// off by Unlock) or, if CancelWait was invoked while it waited, it
// returns -1 without ever becoming owner.
func (m *Mutex) Lock() int {
	cur := m.s.Current()
	if m.owner == nil {
		m.owner = cur
		return 0
	}

	cur.WaitObj = m
	cur.SetState(task.Waiting)
	m.waiters.PushBack(&cur.WaitHook)
	trace.Block(cur.ID, cur.Name, "mutex")
	m.s.ParkCurrent()

	cancelled := cur.WaitCancelled
	cur.WaitCancelled = false
	cur.WaitObj = nil
	r := 0
	if cancelled {
		r = -1
	}
	trace.Wake(cur.ID, cur.Name, r)
	return r
}

// Unlock is mutex_unlock. Its precondition is that the calling task
// owns the mutex; violating that is a programming error, asserted
// under corodebug rather than returned (spec.md §7). If the wait
// queue is non-empty, ownership transfers directly to the head with
// no yield — the new owner is merely moved to the run queue, not
// switched to immediately.
func (m *Mutex) Unlock() {
	cur := m.s.Current()
	assertx.Assert(m.owner == cur, "unlock of mutex not held by the calling task")

	if n := m.waiters.PopFront(); n != nil {
		next := n.Value
		m.owner = next
		m.s.Enqueue(next)
		return
	}
	m.owner = nil
}
