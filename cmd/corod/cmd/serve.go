package cmd

import (
	"bufio"
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"corert/extio"
	"corert/obslog"
	"corert/sched"
)

// newServeCmd binds extio's TCP wake source to a scheduler that is
// otherwise idle, demonstrating spec.md §4.4's external-event contract:
// the scheduler thread blocks in idleWait until a connection arrives,
// then spawns a task to read one line from it and echo it back.
func newServeCmd() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "serve",
		Short: "idle scheduler woken by inbound TCP connections",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ExternalWaitAddr
			}
			if addr == "" {
				addr = "127.0.0.1:0"
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			defer ln.Close()
			fmt.Printf("listening on %s\n", ln.Addr())

			s := sched.New()
			if err := s.Init(); err != nil {
				return err
			}
			log := obslog.NewCompLogger("serve")
			src := extio.Bind(s, ln, log)
			defer src.Close()

			main := s.Spawn("accept-loop", make([]byte, demoStackSize), func(any) {
				for {
					conn, ok := src.Next()
					if !ok {
						// No connection pending: sleep for the
						// configured granularity. idleWait's block()
						// routes this through extio's wait_fn, which
						// returns when OnExternalActivity fires, but
						// with no task made runnable idleWait blocks
						// again until this sleep's deadline, so a new
						// connection is picked up on the next poll.
						s.Sleep(cfg.IdleGranularity)
						continue
					}
					s.Spawn("conn", make([]byte, demoStackSize), func(any) {
						serveConn(conn)
					}, nil)
				}
			}, nil)

			s.Join(main)
			return nil
		},
	}
	c.Flags().StringVar(&addr, "addr", "", "address to listen on (overrides external_wait_addr)")
	return c
}

func serveConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	if err != nil {
		return
	}
	conn.Write([]byte("echo: " + line))
}
