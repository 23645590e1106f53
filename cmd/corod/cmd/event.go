package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"corert/sched"
	"corert/syncx"
)

// newEventDemoCmd reproduces spec.md §8's scenarios 3 and 4: a set()
// issued before any wait latches for exactly one subsequent wait, and
// with two waiters queued a single set() wakes only the head.
func newEventDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event-demo",
		Short: "event latch and wake-one behavior",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}

			s := sched.New()
			if err := s.Init(); err != nil {
				return err
			}
			e := syncx.NewEvent(s)

			e.Set()
			fmt.Println("set() issued before any wait")

			latch := s.Spawn("latch-waiter", make([]byte, demoStackSize), func(any) {
				fmt.Println("first wait() returns immediately:", e.Wait())
				r := e.WaitTimeout(50 * time.Millisecond)
				fmt.Println("second wait() blocks until a later set():", r)
			}, nil)
			lateSetter := s.Spawn("late-setter", make([]byte, demoStackSize), func(any) {
				s.Sleep(10 * time.Millisecond)
				e.Set()
			}, nil)
			s.Join(latch)
			s.Join(lateSetter)

			head := s.Spawn("head-waiter", make([]byte, demoStackSize), func(any) {
				fmt.Println("head woken:", e.Wait())
			}, nil)
			tail := s.Spawn("tail-waiter", make([]byte, demoStackSize), func(any) {
				s.Sleep(5 * time.Millisecond)
				fmt.Println("tail woken:", e.Wait())
			}, nil)
			setter := s.Spawn("setter", make([]byte, demoStackSize), func(any) {
				s.Sleep(10 * time.Millisecond)
				e.Set()
				fmt.Println("set() fired once: only the head waiter wakes")
			}, nil)

			s.Join(head)
			s.Join(setter)
			fmt.Println("tail-waiter is still blocked; cancelling it to end the demo")
			s.CancelWait(tail)
			s.Join(tail)
			return nil
		},
	}
}
