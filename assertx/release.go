//go:build !corodebug

package assertx

// Enabled reports whether assertions panic in this build.
const Enabled = false

// Assert is a no-op outside corodebug builds: caller bugs are
// undefined behavior per spec.md §7, not a runtime-checked path.
func Assert(cond bool, format string, args ...any) {}
