package sched

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

func newTestScheduler(t *testing.T) *Scheduler {
	t.Helper()
	s := New()
	require.NoError(t, s.Init())
	return s
}

func TestInitTwiceFails(t *testing.T) {
	s := New()
	require.NoError(t, s.Init())
	require.ErrorIs(t, s.Init(), ErrAlreadyInitialized)
}

func TestYieldRoundRobin(t *testing.T) {
	s := newTestScheduler(t)
	var order []string

	a := s.Spawn("a", nil, func(any) {
		order = append(order, "a1")
		s.Yield()
		order = append(order, "a2")
	}, nil)
	b := s.Spawn("b", nil, func(any) {
		order = append(order, "b1")
		s.Yield()
		order = append(order, "b2")
	}, nil)

	s.Join(a)
	s.Join(b)

	require.Equal(t, []string{"a1", "b1", "a2", "b2"}, order)
}

func TestSleepOrdersByDeadline(t *testing.T) {
	s := newTestScheduler(t)
	var order []string

	short := s.Spawn("short", nil, func(any) {
		s.Sleep(5 * time.Millisecond)
		order = append(order, "short")
	}, nil)
	long := s.Spawn("long", nil, func(any) {
		s.Sleep(20 * time.Millisecond)
		order = append(order, "long")
	}, nil)

	s.Join(short)
	s.Join(long)

	require.Equal(t, []string{"short", "long"}, order)
}

func TestSleepZeroIsYield(t *testing.T) {
	s := newTestScheduler(t)
	var order []string

	a := s.Spawn("a", nil, func(any) {
		order = append(order, "a1")
		r := s.Sleep(0)
		require.Equal(t, 0, r)
		order = append(order, "a2")
	}, nil)
	b := s.Spawn("b", nil, func(any) {
		order = append(order, "b1")
	}, nil)

	s.Join(a)
	s.Join(b)

	require.Equal(t, []string{"a1", "b1", "a2"}, order)
}

func TestJoinAlreadyDeadReturnsImmediately(t *testing.T) {
	s := newTestScheduler(t)
	quick := s.Spawn("quick", nil, func(any) {}, nil)

	// Give quick a chance to run and die before main ever blocks on it.
	s.Yield()

	r := s.Join(quick)
	require.Equal(t, 0, r)
}

func TestCancelWaitDuringSleep(t *testing.T) {
	s := newTestScheduler(t)
	var result int

	victim := s.Spawn("victim", nil, func(any) {
		result = s.Sleep(time.Hour)
	}, nil)

	canceller := s.Spawn("canceller", nil, func(any) {
		s.CancelWait(victim)
	}, nil)

	s.Join(canceller)
	s.Join(victim)

	require.Equal(t, -1, result)
}

func TestCancelWaitIdempotentOnRunnable(t *testing.T) {
	s := newTestScheduler(t)
	t1 := s.Spawn("t1", nil, func(any) { s.Yield() }, nil)
	// t1 is runnable (queued, not yet run); cancelling it must be a no-op.
	s.CancelWait(t1)
	s.Join(t1)
}

func TestStatsReflectsRunQueue(t *testing.T) {
	s := newTestScheduler(t)
	s.Spawn("a", nil, func(any) {}, nil)
	s.Spawn("b", nil, func(any) {}, nil)

	st := s.Stats()
	want := Stats{RunQueue: 2, TasksMade: 2}
	if diff := cmp.Diff(want, st, cmpopts.IgnoreFields(Stats{}, "Runnable", "Sleeping", "Waiting", "Dead", "Switches")); diff != "" {
		t.Fatalf("Stats() mismatch (-want +got):\n%s", diff)
	}
}
