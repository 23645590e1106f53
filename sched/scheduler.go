// Package sched implements the cooperative scheduler: a run queue, a
// Timer Service, and the pick-next / idle-wait control loop described
// in spec.md §§4.2–4.4. Grounded on barn's server.Scheduler
// (server/scheduler.go in the teacher repo), generalized from a
// MOO-verb task scheduler with a background ticker down to the
// generic single-goroutine run-to-suspension model spec.md calls for.
package sched

import (
	"errors"
	"time"

	"corert/assertx"
	"corert/ctxswitch"
	"corert/ilist"
	"corert/task"
	"corert/trace"
)

// Sentinel errors, grounded on barn's server/scheduler.go error block
// (var ( ErrTicksExceeded = errors.New(...) ... )).
var (
	// ErrAlreadyInitialized is returned by Init on a second call.
	ErrAlreadyInitialized = errors.New("sched: scheduler already initialized")
)

// Stats is a snapshot of scheduler activity, exposed for diagnostics
// and the demo CLI — not part of the core control path.
type Stats struct {
	Runnable  int
	Sleeping  int
	Waiting   int
	Dead      int
	RunQueue  int
	Switches  int64
	TasksMade int64
}

// Scheduler is one cooperative run loop bound to a single host
// goroutine (spec.md §3: "process-wide singleton... binds the calling
// host thread as the scheduler thread"). A Scheduler value is
// constructed with New and activated with Init; keeping construction
// and activation separate (rather than a package-level global) keeps
// the type usable in isolated tests. Init refuses to activate the
// same Scheduler value twice; it does not check for other active
// instances.
type Scheduler struct {
	initialized bool
	current     *task.Task

	runQ   ilist.List[*task.Task]
	timers timerHeap

	nextID int64
	tasks  map[int64]*task.Task // introspection only, not on the suspend/resume path

	clock func() time.Time

	waitFn   func(timeoutMs int64)
	activity chan struct{}

	switches int64
}

// New constructs an inactive Scheduler. Call Init before Spawn or any
// suspending operation.
func New() *Scheduler {
	return &Scheduler{
		tasks:    make(map[int64]*task.Task),
		clock:    time.Now,
		activity: make(chan struct{}, 1),
	}
}

// Init activates the scheduler: it registers the calling goroutine as
// the "main" pseudo-task (spec.md §4.2), whose Context is captured
// lazily at its first suspension. It records no clock origin: Now and
// every deadline are plain readings of the clock source.
// Init fails only on re-init (spec.md §4.2).
func (s *Scheduler) Init() error {
	if s.initialized {
		return ErrAlreadyInitialized
	}
	s.initialized = true
	main := task.New(0, "main", nil, nil, nil)
	s.tasks[main.ID] = main
	s.current = main
	return nil
}

// SetClock overrides the monotonic clock source, for deterministic
// tests (spec.md §6: "a monotonic millisecond clock" is the only
// environment contract the core needs).
func (s *Scheduler) SetClock(clock func() time.Time) {
	s.clock = clock
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.clock()
}

// Current returns the task presently executing. Valid to call only
// from within that task's own flow of control.
func (s *Scheduler) Current() *task.Task {
	return s.current
}

// Tasks returns every task the scheduler has ever spawned (plus the
// main pseudo-task), for introspection. Grounded on barn's
// Scheduler.QueuedTasks/SuspendedTasks.
func (s *Scheduler) Tasks() []*task.Task {
	out := make([]*task.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// Stats summarizes scheduler activity for diagnostics.
func (s *Scheduler) Stats() Stats {
	var st Stats
	for _, t := range s.tasks {
		switch t.State() {
		case task.Runnable:
			st.Runnable++
		case task.Sleeping:
			st.Sleeping++
		case task.Waiting:
			st.Waiting++
		case task.Dead:
			st.Dead++
		}
	}
	st.RunQueue = s.runQ.Len()
	st.Switches = s.switches
	st.TasksMade = s.nextID
	return st
}

// Spawn is task_create: it builds a Task on the caller-supplied stack,
// prepares its Context with a trampoline that runs entry(arg) and then
// marks the task DEAD, and enqueues it on the run queue tail. Spawn
// itself never suspends.
func (s *Scheduler) Spawn(name string, stack []byte, entry task.Entry, arg any) *task.Task {
	s.nextID++
	id := s.nextID
	t := task.New(id, name, stack, entry, arg)

	t.BindContext(ctxswitch.Make(func(transfer any) any {
		t.Entry(t.Arg)
		s.finish(t)
		return nil
	}))

	s.tasks[id] = t
	s.Enqueue(t)
	trace.Spawn(t.ID, t.Name)
	return t
}

// Enqueue marks t Runnable and appends it to the run queue tail.
// Exported for package syncx, whose Mutex/Event need to move a woken
// waiter onto the run queue without a full context switch ("No
// yield" — spec.md §4.5/§4.6).
func (s *Scheduler) Enqueue(t *task.Task) {
	t.SetState(task.Runnable)
	s.runQ.PushBack(&t.RunHook)
}

// AddTimer registers t in the Timer Service with the given absolute
// deadline. Exported for package syncx's event_wait_timeout.
func (s *Scheduler) AddTimer(t *task.Task, deadline time.Time) {
	t.Deadline = deadline
	s.timers.add(t)
}

// RemoveTimer removes t from the Timer Service if present. Exported
// for package syncx's event_set, which must cancel a waiter's pending
// timeout when waking it directly (spec.md §4.6).
func (s *Scheduler) RemoveTimer(t *task.Task) {
	s.timers.remove(t)
}

// Yield is task_yield: it appends the current task to the run queue
// tail and switches to the head. Among tasks that yield without
// blocking, execution order is strict FIFO (spec.md §4.2).
func (s *Scheduler) Yield() {
	s.Enqueue(s.current)
	s.ParkCurrent()
}

// Sleep is task_sleep: Sleep(0) is equivalent to Yield (spec.md §8
// boundary behavior); otherwise the current task parks in the Timer
// Service until duration elapses. Returns 0 on normal wake, -1 if
// CancelWait was invoked on this task while sleeping.
func (s *Scheduler) Sleep(duration time.Duration) int {
	if duration <= 0 {
		s.Yield()
		return 0
	}
	cur := s.current
	cur.SetState(task.Sleeping)
	s.AddTimer(cur, s.clock().Add(duration))
	trace.Block(cur.ID, cur.Name, "sleep")
	s.ParkCurrent()
	r := wakeResult(cur)
	trace.Wake(cur.ID, cur.Name, r)
	return r
}

// Join is task_join: the caller suspends until t reaches DEAD. Joining
// an already-DEAD task returns immediately. Only one joiner per task
// is permitted; a second join is a programming error, asserted rather
// than silently overwriting the first joiner (spec.md §9 open
// question, resolved).
func (s *Scheduler) Join(t *task.Task) int {
	if t.State() == task.Dead {
		return 0
	}
	assertx.Assert(t.JoinWaiter == nil, "second join on task %d (%s)", t.ID, t.Name)

	cur := s.current
	t.JoinWaiter = cur
	cur.JoinTarget = t
	cur.SetState(task.Waiting)
	trace.Block(cur.ID, cur.Name, "join")
	s.ParkCurrent()
	cur.JoinTarget = nil
	r := wakeResult(cur)
	trace.Wake(cur.ID, cur.Name, r)
	return r
}

// CancelWait is task_cancel_wait, the sole cancellation mechanism: it
// forcibly makes t runnable and causes its current suspending call to
// return -1. Idempotent on RUNNABLE and DEAD tasks (spec.md §4.2/§8).
func (s *Scheduler) CancelWait(t *task.Task) {
	switch t.State() {
	case task.Runnable, task.Dead:
		return
	}

	trace.Cancel(t.ID, t.Name)
	t.WaitCancelled = true
	if t.WaitObj != nil {
		t.WaitObj.RemoveWaiter(t)
		t.WaitObj = nil
	}
	if t.TimerIndex >= 0 {
		s.RemoveTimer(t)
	}
	if t.JoinTarget != nil {
		if t.JoinTarget.JoinWaiter == t {
			t.JoinTarget.JoinWaiter = nil
		}
		t.JoinTarget = nil
	}
	s.Enqueue(t)
}

// wakeResult reads and clears a woken task's cancellation/timeout
// flags, returning the documented 0/-1 suspending-call result.
func wakeResult(t *task.Task) int {
	cancelled := t.WaitCancelled
	t.WaitCancelled = false
	t.WaitTimedOut = false
	if cancelled {
		return -1
	}
	return 0
}

// finish runs on the dying task's own goroutine as the last thing its
// trampoline does: mark DEAD, wake a pending joiner if any, and hand
// control to whatever the scheduler picks next. It never returns to
// its caller — see ctxswitch.SwitchAway.
func (s *Scheduler) finish(t *task.Task) {
	t.SetState(task.Dead)
	trace.Exit(t.ID, t.Name)
	if jw := t.JoinWaiter; jw != nil {
		t.JoinWaiter = nil
		s.Enqueue(jw)
	}
	next := s.pickNext()
	trace.Switch(t.ID, t.Name, next.ID, next.Name)
	s.current = next
	s.switches++
	ctxswitch.SwitchAway(next.Context(), nil)
}

// ParkCurrent switches away from the current task to whatever the
// scheduler picks next. The caller is responsible for having already
// placed the current task wherever it belongs (run queue, a wait
// queue, the Timer Service, or nowhere if it's about to die) before
// calling this. It is the symmetric counterpart of finish's one-way
// SwitchAway, used by every suspending operation that expects to run
// again later.
func (s *Scheduler) ParkCurrent() {
	prev := s.current
	if prev.Context() == nil {
		// Lazily capture the calling goroutine's own point of
		// execution — this only happens for the main pseudo-task's
		// first suspension (spec.md §4.2).
		prev.BindContext(ctxswitch.NewBare())
	}
	next := s.pickNext()
	if next == prev {
		// The only candidate the scheduler found was the very task
		// that just suspended (e.g. the sole task sleeping or
		// yielding with nothing else runnable): there is nothing to
		// switch away to, and routing this through ctxswitch.Switch
		// would hand a context its own resume channel and deadlock.
		return
	}
	trace.Switch(prev.ID, prev.Name, next.ID, next.Name)
	s.current = next
	s.switches++
	ctxswitch.Switch(prev.Context(), next.Context(), nil)
}

// pickNext pops the run queue head; if empty it idles until a timer
// or external event makes some task runnable (spec.md §4.3).
func (s *Scheduler) pickNext() *task.Task {
	if n := s.runQ.PopFront(); n != nil {
		return n.Value
	}
	s.idleWait()
	n := s.runQ.PopFront()
	assertx.Assert(n != nil, "idle wait returned with an empty run queue")
	return n.Value
}

// idleWait blocks the scheduler thread until at least one task is
// runnable again, per spec.md §4.3: sleep (or wait on the bound
// external source) for delta = peek_min() - now, then expire due
// timers; repeat if still empty.
func (s *Scheduler) idleWait() {
	for s.runQ.Len() == 0 {
		now := s.clock()
		deadline, hasDeadline := s.timers.peekMin()

		switch {
		case hasDeadline:
			delta := deadline.Sub(now)
			if delta < 0 {
				delta = 0
			}
			if delta > 0 {
				s.block(delta)
			}
		case s.waitFn != nil:
			// No pending timer but an external source is bound:
			// block until it reports activity.
			s.waitFn(-1)
		default:
			assertx.Assert(false, "scheduler idle with no runnable task, no pending timer, and no external event source bound")
		}

		s.expireDue(s.clock())
	}
}

// block waits for delta, via the bound external source if any,
// otherwise via a plain platform sleep.
func (s *Scheduler) block(delta time.Duration) {
	if s.waitFn != nil {
		s.waitFn(delta.Milliseconds())
		return
	}
	time.Sleep(delta)
}

// expireDue moves every task whose Timer Service deadline has passed
// onto the run queue, in deadline order (stable within a tick —
// timerHeap breaks ties by insertion sequence). A task that was
// Waiting (not merely Sleeping) on a synchronization object has its
// WaitObj detached and WaitTimedOut set, distinguishing an
// event_wait_timeout timeout from a cancellation (spec.md §9, resolved).
func (s *Scheduler) expireDue(now time.Time) {
	for _, t := range s.timers.expireDue(now) {
		if t.WaitObj != nil {
			t.WaitObj.RemoveWaiter(t)
			t.WaitObj = nil
			t.WaitTimedOut = true
		}
		s.Enqueue(t)
	}
}

// BindExternalWait supplies the function an external I/O engine uses
// to block the scheduler thread for up to timeoutMs, returning early
// when OnExternalActivity is signalled. timeoutMs < 0 means block
// with no deadline. Both halves of spec.md §4.4's external-event
// contract are optional; an unbound scheduler idles on plain sleeps.
func (s *Scheduler) BindExternalWait(waitFn func(timeoutMs int64)) {
	s.waitFn = waitFn
}

// OnExternalActivity is called by an external agent — typically from
// its own goroutine — whenever it has made some task runnable. It is
// the one operation documented as safe to call off the scheduler
// goroutine (spec.md §5): it only needs to ensure idleWait's bound
// waitFn returns, which it does via a coalescing, non-blocking send.
func (s *Scheduler) OnExternalActivity() {
	select {
	case s.activity <- struct{}{}:
	default:
	}
}

// Activity returns the channel OnExternalActivity signals. A waitFn
// bound via BindExternalWait should select on this channel (and
// whatever I/O readiness sources it owns) and return promptly once it
// fires, draining it first.
func (s *Scheduler) Activity() <-chan struct{} {
	return s.activity
}
