// Command corod is the demo front end for the coroutine runtime:
// it drives the scheduler through the end-to-end scenarios spec.md §8
// describes, plus a small "serve" mode that lets extio's network wake
// source show an idle scheduler coming alive on inbound connections.
// Flag and subcommand wiring is grounded on barn's cmd/barn/main.go
// (flag-per-feature dispatch), generalized from stdlib flag to cobra
// + pflag the way cue-lang/cue's cmd/cue/cmd does for its own
// multi-subcommand tree.
package main

import (
	"fmt"
	"os"

	"corert/cmd/corod/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
