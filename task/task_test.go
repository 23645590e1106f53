package task

import (
	"testing"

	"corert/ctxswitch"
)

func TestNewIsRunnable(t *testing.T) {
	tk := New(1, "t", nil, func(any) {}, nil)
	if tk.State() != Runnable {
		t.Fatalf("State() = %v, want Runnable", tk.State())
	}
	if tk.TimerIndex != -1 {
		t.Fatalf("TimerIndex = %d, want -1", tk.TimerIndex)
	}
	if tk.RunHook.Value != tk {
		t.Fatal("RunHook.Value does not point back to the task")
	}
	if tk.WaitHook.Value != tk {
		t.Fatal("WaitHook.Value does not point back to the task")
	}
}

func TestSetState(t *testing.T) {
	tk := New(1, "t", nil, nil, nil)
	tk.SetState(Sleeping)
	if tk.State() != Sleeping {
		t.Fatalf("State() = %v, want Sleeping", tk.State())
	}
}

func TestBindContext(t *testing.T) {
	tk := New(1, "t", nil, nil, nil)
	if tk.Context() != nil {
		t.Fatal("Context() non-nil before BindContext")
	}
	c := ctxswitch.NewBare()
	tk.BindContext(c)
	if tk.Context() != c {
		t.Fatal("Context() does not return the bound context")
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		Runnable: "runnable",
		Sleeping: "sleeping",
		Waiting:  "waiting",
		Dead:     "dead",
		State(99): "unknown",
	}
	for s, want := range cases {
		if got := s.String(); got != want {
			t.Fatalf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
