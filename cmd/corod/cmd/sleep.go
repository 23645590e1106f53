package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"corert/sched"
)

const demoStackSize = 4096

// newSleepDemoCmd reproduces spec.md §8's scenario 1: two sub-tasks
// sleep 1s and 2s respectively from main, main yields four times and
// then joins both.
func newSleepDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sleep-demo",
		Short: "two tasks sleeping on independent timers, joined by main",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}

			s := sched.New()
			if err := s.Init(); err != nil {
				return err
			}

			t0 := s.Now()
			sub1 := s.Spawn("sub-1", make([]byte, demoStackSize), func(any) {
				for i := 1; i <= 5; i++ {
					s.Sleep(time.Second)
					fmt.Printf("[%6v] sub-1 iteration %d\n", s.Now().Sub(t0).Round(time.Millisecond), i)
				}
			}, nil)
			sub2 := s.Spawn("sub-2", make([]byte, demoStackSize), func(any) {
				for i := 1; i <= 5; i++ {
					s.Sleep(2 * time.Second)
					fmt.Printf("[%6v] sub-2 iteration %d\n", s.Now().Sub(t0).Round(time.Millisecond), i)
				}
			}, nil)

			for i := 0; i < 4; i++ {
				fmt.Printf("[%6v] main yield %d\n", s.Now().Sub(t0).Round(time.Millisecond), i+1)
				s.Yield()
			}

			s.Join(sub1)
			s.Join(sub2)
			fmt.Println("all task is over")
			return nil
		},
	}
}
