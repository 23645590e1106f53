//go:build corodebug

// Package assertx provides the core's debug-assertion helper.
// Programming errors — unlocking an un-owned mutex, a second join on
// the same task, using a task after its stack is reclaimed — are
// undefined behavior per spec.md §7, caught by assertions rather than
// returned as errors. Building with the corodebug tag turns them into
// panics; ordinary builds compile them out entirely, matching the
// embedded-grade "no runtime-return error path for caller bugs"
// requirement while still giving development builds a loud failure.
package assertx

import "fmt"

// Enabled reports whether assertions panic in this build.
const Enabled = true

// Assert panics with a formatted message if cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("assertion failed: "+format, args...))
	}
}
