package ctxswitch

import "testing"

func TestSwitchRendezvous(t *testing.T) {
	var got any
	done := make(chan struct{})

	from := NewBare()
	to := Make(func(transfer any) any {
		got = transfer
		close(done)
		SwitchAway(from, nil)
		return nil
	})

	Switch(from, to, "hello")
	<-done

	if got != "hello" {
		t.Fatalf("entry received %v, want %q", got, "hello")
	}
}

func TestSwitchReturnsTransferBack(t *testing.T) {
	from := NewBare()
	var toCtx *Context
	toCtx = Make(func(transfer any) any {
		// Hand a value back to from, then return, which ends this
		// goroutine: Switch's return path is exercised by the first
		// resume value only.
		SwitchAway(from, "reply")
		return nil
	})

	got := Switch(from, toCtx, "request")
	if got != "reply" {
		t.Fatalf("Switch() = %v, want %q", got, "reply")
	}
}

func TestSwitchAwayDoesNotParkCaller(t *testing.T) {
	done := make(chan struct{})
	to := Make(func(transfer any) any {
		close(done)
		return nil
	})
	// SwitchAway never blocks on a "from" context, so this call
	// returns as soon as to has been handed the value.
	SwitchAway(to, nil)
	<-done
}
