package conformance

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"corert/sched"
	"corert/syncx"
	"corert/task"
)

// TestResult is the outcome of running a single Case.
type TestResult struct {
	Case       LoadedCase
	Passed     bool
	Skipped    bool
	SkipReason string
	Got        []string
	Error      error
}

// Runner executes Cases against a fresh Scheduler each time — unlike
// the teacher's Runner, which held one long-lived evaluator and
// database across every test, a Scheduler has no analogous shared
// state worth reusing, so Run builds a new one per case.
type Runner struct{}

// NewRunner returns a Runner. Kept as a constructor, mirroring the
// teacher's NewRunner/NewRunnerWithDB shape, even though this Runner
// carries no fields yet — a natural place to hang shared options
// (e.g. a default task stack size) later.
func NewRunner() *Runner {
	return &Runner{}
}

const defaultStackSize = 4096

// caseEnv is the state threaded through one Case's interpreter run:
// the scheduler, the named mutexes/events/tasks a script can refer to,
// and the shared order log ops append to.
type caseEnv struct {
	s       *sched.Scheduler
	mutexes map[string]*syncx.Mutex
	events  map[string]*syncx.Event
	tasks   map[string]*task.Task

	mu    sync.Mutex
	order []string
}

func (e *caseEnv) record(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.order = append(e.order, label)
}

// Run executes one Case to completion and reports whether its
// resulting order log matches Expect.Order.
func (r *Runner) Run(lc LoadedCase) TestResult {
	c := lc.Case
	if c.Skip != "" {
		return TestResult{Case: lc, Skipped: true, SkipReason: c.Skip}
	}

	s := sched.New()
	if err := s.Init(); err != nil {
		return TestResult{Case: lc, Error: fmt.Errorf("scheduler init: %w", err)}
	}

	env := &caseEnv{
		s:       s,
		mutexes: make(map[string]*syncx.Mutex),
		events:  make(map[string]*syncx.Event),
		tasks:   make(map[string]*task.Task),
	}

	for _, ts := range c.Tasks {
		ts := ts
		stack := make([]byte, defaultStackSize)
		t := s.Spawn(ts.Name, stack, func(arg any) {
			if err := runOps(env, ts.Ops); err != nil {
				env.record(fmt.Sprintf("ERROR:%s:%v", ts.Name, err))
			}
		}, nil)
		env.tasks[ts.Name] = t
	}

	for _, ts := range c.Tasks {
		s.Join(env.tasks[ts.Name])
	}

	got := env.order
	if got == nil {
		got = []string{}
	}
	want := c.Expect.Order
	if want == nil {
		want = []string{}
	}
	passed := len(got) == len(want)
	if passed {
		for i := range got {
			if got[i] != want[i] {
				passed = false
				break
			}
		}
	}

	return TestResult{Case: lc, Passed: passed, Got: got}
}

// runOps interprets one task's op script against env. Grounded on the
// teacher's runSetupBlock/Run pair in the sense that both parse a
// small script and evaluate it against shared state, but here the
// "language" is a fixed set of scheduling verbs rather than parsed MOO
// code.
func runOps(env *caseEnv, ops []string) error {
	var lastResult int
	for _, op := range ops {
		fields := strings.Fields(op)
		if len(fields) == 0 {
			continue
		}
		verb, args := fields[0], fields[1:]

		switch verb {
		case "lock":
			m := env.mutex(args[0])
			lastResult = m.Lock()
		case "unlock":
			env.mutex(args[0]).Unlock()
		case "sleep":
			d, err := time.ParseDuration(args[0])
			if err != nil {
				return fmt.Errorf("sleep: %w", err)
			}
			lastResult = env.s.Sleep(d)
		case "wait":
			lastResult = env.event(args[0]).Wait()
		case "waittimeout":
			d, err := time.ParseDuration(args[1])
			if err != nil {
				return fmt.Errorf("waittimeout: %w", err)
			}
			lastResult = int(env.event(args[0]).WaitTimeout(d))
		case "set":
			env.event(args[0]).Set()
		case "join":
			target, ok := env.tasks[args[0]]
			if !ok {
				return fmt.Errorf("join: unknown task %q", args[0])
			}
			lastResult = env.s.Join(target)
		case "cancel":
			target, ok := env.tasks[args[0]]
			if !ok {
				return fmt.Errorf("cancel: unknown task %q", args[0])
			}
			env.s.CancelWait(target)
		case "yield":
			env.s.Yield()
		case "record":
			env.record(args[0])
		case "recordresult":
			env.record(args[0] + "=" + strconv.Itoa(lastResult))
		default:
			return fmt.Errorf("unknown op %q", verb)
		}
	}
	return nil
}

func (e *caseEnv) mutex(name string) *syncx.Mutex {
	m, ok := e.mutexes[name]
	if !ok {
		m = syncx.NewMutex(e.s)
		e.mutexes[name] = m
	}
	return m
}

func (e *caseEnv) event(name string) *syncx.Event {
	ev, ok := e.events[name]
	if !ok {
		ev = syncx.NewEvent(e.s)
		e.events[name] = ev
	}
	return ev
}
