// Package task defines the Task record: a cooperatively scheduled
// unit of execution with its own caller-supplied stack. Grounded on
// barn's task.Task (the teacher repo's sibling package to
// server/scheduler.go), generalized from a MOO verb-execution record
// down to the generic fields spec.md §3 calls for.
package task

import (
	"time"

	"corert/ctxswitch"
	"corert/ilist"
)

// State is one of the four states a Task can be in at any instant.
type State int

const (
	// Runnable means the task is linked on the scheduler's run queue
	// (or is the currently executing task, linked nowhere).
	Runnable State = iota
	// Sleeping means the task is parked in the Timer Service awaiting
	// a wake deadline with no wait-object involved.
	Sleeping
	// Waiting means the task is linked on a synchronization object's
	// wait queue (mutex or event), optionally also in the Timer
	// Service if a timeout was given.
	Waiting
	// Dead means the task's entry function has returned (or the task
	// was otherwise terminated) and its stack may be reclaimed by the
	// caller once no joiner remains pending.
	Dead
)

func (s State) String() string {
	switch s {
	case Runnable:
		return "runnable"
	case Sleeping:
		return "sleeping"
	case Waiting:
		return "waiting"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Entry is a task body. It receives the argument given to Spawn and
// runs to completion on the task's own Context.
type Entry func(arg any)

// Task is a cooperatively scheduled unit of execution. Fields mirror
// spec.md §3 exactly: an opaque machine context, a caller-owned stack
// region (base+size only — the core never reads or writes it), the
// entry function and argument, one of the four States, intrusive hooks
// for at most one scheduler queue, a Timer Service slot, the
// wait-object currently blocking the task (if any), a cancellation
// flag, and a single join-waiter back-reference.
type Task struct {
	ID    int64
	Name  string
	Entry Entry
	Arg   any

	// Stack is the caller-supplied memory region backing this task.
	// The core never allocates it and never dereferences its
	// contents — ownership and lifetime are entirely the caller's.
	// Stack growth happens on the Go runtime's own goroutine stack;
	// this slice is retained only to preserve the caller-supplied-
	// memory contract of spec.md §3/§5 byte-for-byte.
	Stack []byte

	ctx *ctxswitch.Context

	state State

	// RunHook links this task into the scheduler's run queue.
	RunHook ilist.Node[*Task]
	// WaitHook links this task into a Mutex's or Event's wait queue.
	WaitHook ilist.Node[*Task]

	// TimerIndex is this task's position in the Timer Service's
	// binary heap, or -1 when not present. Deadline is the absolute
	// monotonic wake time, valid only while TimerIndex >= 0. TimerSeq
	// breaks deadline ties in insertion order (spec.md §5: "tasks
	// with equal deadlines are woken in insertion order").
	TimerIndex int
	TimerSeq   int64
	Deadline   time.Time

	// WaitObj is the synchronization object (a *syncx.Mutex or
	// *syncx.Event) this task is currently blocked on, or nil.
	// Defined as the Waitable interface, implemented by syncx's
	// types, to avoid an import cycle: syncx depends on task, not the
	// other way around.
	WaitObj Waitable

	// WaitCancelled is set by CancelWait and observed by the
	// suspending call that was cancelled, which clears it as it
	// returns.
	WaitCancelled bool

	// WaitTimedOut is set by the Timer Service when it expires a
	// Waiting (not Sleeping) task's deadline — i.e. an
	// event_wait_timeout whose timeout elapsed rather than being
	// woken by a set() or cancelled. Distinguished from
	// WaitCancelled per spec.md §9's resolved open question.
	WaitTimedOut bool

	// JoinWaiter is the task, if any, currently blocked in Join on
	// this task. Only one joiner is permitted per task; a second
	// Join call is a programming error (spec.md §4.2, asserted under
	// the corodebug build tag rather than silently overwriting this
	// field — spec.md §9 open question).
	JoinWaiter *Task

	// JoinTarget is the task this one is currently blocked joining
	// on, the back-pointer CancelWait needs to detach a cancelled
	// joiner from its target's JoinWaiter field.
	JoinTarget *Task
}

// Waitable is implemented by synchronization objects (syncx.Mutex,
// syncx.Event) so that the scheduler's cancellation and timeout paths
// can remove a task from whichever wait queue it is parked on without
// the task package importing syncx.
type Waitable interface {
	RemoveWaiter(t *Task)
}

// New constructs a Task in state Runnable. Callers pass the memory
// region the task's stack occupies; Spawn (package sched) is what
// actually wires the Context and enqueues the task, mirroring barn's
// split between task.NewTask (plain record construction) and
// Scheduler.QueueTask (runtime wiring).
func New(id int64, name string, stack []byte, entry Entry, arg any) *Task {
	t := &Task{
		ID:         id,
		Name:       name,
		Entry:      entry,
		Arg:        arg,
		Stack:      stack,
		state:      Runnable,
		TimerIndex: -1,
	}
	t.RunHook.Value = t
	t.WaitHook.Value = t
	return t
}

// State returns the task's current state. Scheduler state is only
// ever mutated by the single scheduler goroutine (spec.md §5), so
// this is a plain field read, not a mutex-guarded one.
func (t *Task) State() State {
	return t.state
}

// SetState sets the task's state. Exported for package sched, which
// owns all state transitions; task itself never changes its own state.
func (t *Task) SetState(s State) {
	t.state = s
}

// Context returns the task's machine context, bound by sched at Spawn
// time, or for the main pseudo-task at its first suspension.
func (t *Task) Context() *ctxswitch.Context {
	return t.ctx
}

// BindContext installs the task's machine context. Called once per
// task: by sched.Scheduler.Spawn, or for the main pseudo-task by
// sched.Scheduler.ParkCurrent at its first suspension.
func (t *Task) BindContext(c *ctxswitch.Context) {
	t.ctx = c
}
