package syncx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEventSetBeforeWaitLatchesOnce(t *testing.T) {
	s := newTestScheduler(t)
	e := NewEvent(s)
	e.Set()

	var first int
	var second WaitResult
	tk := s.Spawn("waiter", nil, func(any) {
		first = e.Wait()
		second = e.WaitTimeout(10 * time.Millisecond)
	}, nil)

	s.Join(tk)
	require.Equal(t, 0, first)
	require.Equal(t, WaitTimedOut, second)
}

func TestEventSetWakesOnlyHeadWaiter(t *testing.T) {
	s := newTestScheduler(t)
	e := NewEvent(s)
	var order []string

	head := s.Spawn("head", nil, func(any) {
		e.Wait()
		order = append(order, "head")
	}, nil)
	tail := s.Spawn("tail", nil, func(any) {
		s.Sleep(1 * time.Millisecond)
		r := e.WaitTimeout(20 * time.Millisecond)
		order = append(order, "tail")
		require.Equal(t, WaitTimedOut, r)
	}, nil)
	setter := s.Spawn("setter", nil, func(any) {
		s.Sleep(5 * time.Millisecond)
		e.Set()
	}, nil)

	s.Join(head)
	s.Join(setter)
	s.Join(tail)

	require.Equal(t, []string{"head", "tail"}, order)
}

func TestEventWaitTimeoutElapses(t *testing.T) {
	s := newTestScheduler(t)
	e := NewEvent(s)

	var result WaitResult
	tk := s.Spawn("waiter", nil, func(any) {
		result = e.WaitTimeout(5 * time.Millisecond)
	}, nil)
	s.Join(tk)

	require.Equal(t, WaitTimedOut, result)
}

func TestEventWaitTimeoutPastDeadlineDoesNotSuspend(t *testing.T) {
	s := newTestScheduler(t)
	e := NewEvent(s)

	var result WaitResult
	tk := s.Spawn("waiter", nil, func(any) {
		result = e.WaitTimeout(0)
	}, nil)
	s.Join(tk)

	require.Equal(t, WaitTimedOut, result)
}

func TestEventCancelledWaitReturnsCancelled(t *testing.T) {
	s := newTestScheduler(t)
	e := NewEvent(s)

	var result int
	victim := s.Spawn("victim", nil, func(any) {
		result = e.Wait()
	}, nil)
	canceller := s.Spawn("canceller", nil, func(any) {
		s.CancelWait(victim)
	}, nil)

	s.Join(canceller)
	s.Join(victim)

	require.Equal(t, -1, result)

	// e's wait queue must no longer hold victim: a subsequent Set
	// should latch rather than waking anything.
	e.Set()
	tk2 := s.Spawn("probe", nil, func(any) {
		r := e.Wait()
		require.Equal(t, 0, r)
	}, nil)
	s.Join(tk2)
}
