package sched

import (
	"container/heap"
	"time"

	"corert/task"
)

// timerHeap is the Timer Service: an ordered collection of
// (deadline, task) entries keyed by deadline, supporting insert,
// remove-by-task, and peek/pop-min in O(log n) (spec.md §3/§9: "a
// balanced BST on capable targets" — here, container/heap's binary
// heap, the same structure the teacher's TaskQueue uses in
// server/scheduler.go, extended with an index-tracking Swap so a task
// can be removed by reference rather than only popped from the top,
// which CancelWait and event timeouts both require).
type timerHeap struct {
	items []*task.Task
	seq   int64
}

func (h *timerHeap) Len() int { return len(h.items) }

func (h *timerHeap) Less(i, j int) bool {
	a, b := h.items[i], h.items[j]
	if a.Deadline.Equal(b.Deadline) {
		return a.TimerSeq < b.TimerSeq
	}
	return a.Deadline.Before(b.Deadline)
}

func (h *timerHeap) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.items[i].TimerIndex = i
	h.items[j].TimerIndex = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*task.Task)
	t.TimerIndex = len(h.items)
	h.items = append(h.items, t)
}

func (h *timerHeap) Pop() any {
	old := h.items
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.TimerIndex = -1
	h.items = old[:n-1]
	return t
}

// add inserts t with its Deadline already set, breaking ties with a
// monotonically increasing sequence number so expireDue wakes
// equal-deadline tasks in insertion order (spec.md §5).
func (h *timerHeap) add(t *task.Task) {
	h.seq++
	t.TimerSeq = h.seq
	heap.Push(h, t)
}

// remove drops t from the heap; a no-op if t isn't present.
func (h *timerHeap) remove(t *task.Task) {
	if t.TimerIndex < 0 {
		return
	}
	heap.Remove(h, t.TimerIndex)
}

// peekMin returns the earliest deadline in the heap, if any.
func (h *timerHeap) peekMin() (time.Time, bool) {
	if len(h.items) == 0 {
		return time.Time{}, false
	}
	return h.items[0].Deadline, true
}

// expireDue pops every entry whose deadline is <= now, in deadline
// (then insertion) order.
func (h *timerHeap) expireDue(now time.Time) []*task.Task {
	var due []*task.Task
	for len(h.items) > 0 && !h.items[0].Deadline.After(now) {
		due = append(due, heap.Pop(h).(*task.Task))
	}
	return due
}
