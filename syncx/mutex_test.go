package syncx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"corert/assertx"
	"corert/sched"
)

func newTestScheduler(t *testing.T) *sched.Scheduler {
	t.Helper()
	s := sched.New()
	require.NoError(t, s.Init())
	return s
}

func TestMutexFIFOAcquireOrder(t *testing.T) {
	s := newTestScheduler(t)
	m := NewMutex(s)
	var order []string

	a := s.Spawn("A", nil, func(any) {
		m.Lock()
		order = append(order, "A")
		s.Sleep(20 * time.Millisecond)
		m.Unlock()
	}, nil)
	b := s.Spawn("B", nil, func(any) {
		s.Sleep(1 * time.Millisecond)
		m.Lock()
		order = append(order, "B")
		m.Unlock()
	}, nil)
	c := s.Spawn("C", nil, func(any) {
		s.Sleep(2 * time.Millisecond)
		m.Lock()
		order = append(order, "C")
		m.Unlock()
	}, nil)

	s.Join(a)
	s.Join(b)
	s.Join(c)

	require.Equal(t, []string{"A", "B", "C"}, order)
}

func TestMutexUncontendedLockDoesNotSuspend(t *testing.T) {
	s := newTestScheduler(t)
	m := NewMutex(s)

	done := false
	tk := s.Spawn("t", nil, func(any) {
		r := m.Lock()
		require.Equal(t, 0, r)
		m.Unlock()
		done = true
	}, nil)
	s.Join(tk)
	require.True(t, done)
}

func TestMutexUnlockOfUnownedPanicsUnderDebug(t *testing.T) {
	if !assertx.Enabled {
		t.Skip("assertions compiled out in this build")
	}
	s := newTestScheduler(t)
	m := NewMutex(s)
	tk := s.Spawn("t", nil, func(any) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic unlocking an unowned mutex")
			}
		}()
		m.Unlock()
	}, nil)
	s.Join(tk)
}
