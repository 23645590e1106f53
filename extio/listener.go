// Package extio is a concrete, optional binding for the scheduler's
// external-event contract (spec.md §4.4: bind_external_wait /
// on_external_activity). It is the one piece of spec.md explicitly
// scoped as an external collaborator that this repository still gives
// a working implementation, so the idle-wait path in package sched has
// something real to demonstrate against. Grounded on barn's
// server/transport.go (a net.Conn-backed connection transport),
// trimmed down from a full Telnet line protocol to the one thing the
// core's contract actually needs: a goroutine that calls
// OnExternalActivity whenever it produces work, and a wait_fn the
// scheduler can block on.
package extio

import (
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"corert/sched"
)

// ListenerSource binds a net.Listener as a scheduler external-event
// source: each accepted connection is queued and wakes the scheduler.
// extio itself never decides what to do with a connection — the
// caller drains Next() and spawns a task to service it once the
// scheduler reports activity, keeping extio a pure transport plumbing
// layer with no task-domain knowledge (spec.md §1: "the core never
// performs I/O itself").
type ListenerSource struct {
	s   *sched.Scheduler
	ln  net.Listener
	log *logrus.Entry

	mu      sync.Mutex
	pending []net.Conn
}

// Bind starts accepting connections on ln and registers the resulting
// wait function with s via BindExternalWait. Accepting happens on its
// own goroutine, the one place spec.md §5 permits cross-goroutine
// activity, provided it is marshalled through OnExternalActivity.
func Bind(s *sched.Scheduler, ln net.Listener, log *logrus.Entry) *ListenerSource {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	src := &ListenerSource{s: s, ln: ln, log: log}
	go src.acceptLoop()
	s.BindExternalWait(src.wait)
	return src
}

func (src *ListenerSource) acceptLoop() {
	for {
		conn, err := src.ln.Accept()
		if err != nil {
			src.log.WithError(err).Debug("extio: accept loop stopping")
			return
		}
		src.log.WithField("remote", conn.RemoteAddr()).Info("extio: accepted connection")
		src.mu.Lock()
		src.pending = append(src.pending, conn)
		src.mu.Unlock()
		src.s.OnExternalActivity()
	}
}

// Next pops the oldest accepted connection not yet claimed by the
// caller, or returns ok=false if none is pending.
func (src *ListenerSource) Next() (conn net.Conn, ok bool) {
	src.mu.Lock()
	defer src.mu.Unlock()
	if len(src.pending) == 0 {
		return nil, false
	}
	conn, src.pending = src.pending[0], src.pending[1:]
	return conn, true
}

// Close stops accepting new connections.
func (src *ListenerSource) Close() error {
	return src.ln.Close()
}

// wait implements the wait_fn shape bind_external_wait expects:
// block for up to timeoutMs, or indefinitely if timeoutMs < 0, or
// until OnExternalActivity fires.
func (src *ListenerSource) wait(timeoutMs int64) {
	if timeoutMs < 0 {
		<-src.s.Activity()
		return
	}
	select {
	case <-src.s.Activity():
	case <-time.After(time.Duration(timeoutMs) * time.Millisecond):
	}
}
