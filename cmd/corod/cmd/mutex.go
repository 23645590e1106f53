package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"corert/sched"
	"corert/syncx"
	"corert/task"
)

// newMutexDemoCmd reproduces spec.md §8's scenario 2: three tasks
// enqueue in order A, B, C on the same mutex; acquisition order must
// be A, B, C regardless of wake timing.
func newMutexDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mutex-demo",
		Short: "three tasks contending a mutex in enqueue order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}

			s := sched.New()
			if err := s.Init(); err != nil {
				return err
			}
			m := syncx.NewMutex(s)

			contend := func(name string, arrive time.Duration, hold time.Duration) *task.Task {
				return s.Spawn(name, make([]byte, demoStackSize), func(any) {
					if arrive > 0 {
						s.Sleep(arrive)
					}
					m.Lock()
					fmt.Printf("%s acquired the mutex\n", name)
					if hold > 0 {
						s.Sleep(hold)
					}
					m.Unlock()
				}, nil)
			}

			a := contend("A", 0, 30*time.Millisecond)
			b := contend("B", 5*time.Millisecond, 0)
			c := contend("C", 10*time.Millisecond, 0)

			s.Join(a)
			s.Join(b)
			s.Join(c)
			return nil
		},
	}
}
