// Package ctxswitch stands in for the platform-asm context-switch
// primitive that spec.md §4.1 treats as an external collaborator
// (make_context / jump_context). Go exposes no portable stackful
// register-switch primitive, so this package gives the same
// two-function contract a goroutine-and-channel backend instead: each
// Context is a parked goroutine, and Switch is a rendezvous that hands
// a transfer value to the target and blocks the caller until it is,
// in turn, resumed.
package ctxswitch

// SaveFPUState resolves spec.md §9's open question about whether
// FPU/SIMD register state is preserved across a switch: on the
// platform-asm primitive this was implicit; here it is an explicit
// flag, defaulting to false, and is a documented no-op regardless of
// its value, since every Context is a goroutine and the Go runtime
// always preserves a parked goroutine's full register state for it.
var SaveFPUState = false

// Context is a suspended point of execution — the goroutine-backed
// analogue of a saved machine context.
type Context struct {
	resumeCh chan any
}

// Make prepares a fresh Context whose first resumption runs entry,
// delivering the transfer value passed to that first Switch. entry is
// responsible for performing its own final Switch before returning,
// to hand control onward; if it returns without doing so the
// underlying goroutine simply exits and the Context can never be
// resumed again, the goroutine analogue of a platform trampoline that
// never jumps anywhere.
func Make(entry func(transfer any) any) *Context {
	c := &Context{resumeCh: make(chan any)}
	go func() {
		transfer := <-c.resumeCh
		entry(transfer)
	}()
	return c
}

// NewBare wraps the calling goroutine's own, already-running point of
// execution as a Context, without spawning anything. It is how the
// scheduler's "main" pseudo-task (spec.md §4.2: "its context is
// captured lazily at the first suspension") gets a Context: the first
// time the caller's own goroutine suspends, that very call blocks on
// resumeCh in place, playing the same role Make's background
// goroutine plays for spawned tasks.
func NewBare() *Context {
	return &Context{resumeCh: make(chan any)}
}

// Switch atomically parks from — blocking the calling goroutine until
// some later Switch(_, from, v) resumes it — and resumes to,
// delivering transfer. It returns whatever value that later resume
// supplies. This is the direct analogue of
// jump_context(&from, to, transfer_value) -> transfer_value.
func Switch(from, to *Context, transfer any) any {
	to.resumeCh <- transfer
	return <-from.resumeCh
}

// SwitchAway resumes to, delivering transfer, without parking the
// caller anywhere — used when the calling goroutine is about to exit
// for good (a task whose entry function has just returned). It is the
// one-way half of Switch: the analogue of a trampoline's final jump
// when the task backing "from" has gone DEAD and will never be
// resumed again.
func SwitchAway(to *Context, transfer any) {
	to.resumeCh <- transfer
}
