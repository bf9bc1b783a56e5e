package debounce

import (
	"testing"
	"time"
)

func TestSlotCoalesces(t *testing.T) {
	clock := &Manual{}
	runs := 0
	s := NewSlot(clock, 50*time.Millisecond, func() { runs++ })

	if !s.Trigger() {
		t.Fatal("first trigger should schedule")
	}
	for i := 0; i < 5; i++ {
		clock.Advance(5 * time.Millisecond)
		if s.Trigger() {
			t.Fatal("trigger while pending should coalesce")
		}
	}
	if clock.Pending() != 1 {
		t.Errorf("expected one timer, got %d", clock.Pending())
	}

	clock.Advance(50 * time.Millisecond)
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
	if s.Pending() {
		t.Error("slot should be idle after firing")
	}

	s.Trigger()
	clock.Advance(time.Second)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}
}

func TestSlotObservesStateAtFireTime(t *testing.T) {
	clock := &Manual{}
	value := 0
	seen := -1
	s := NewSlot(clock, 10*time.Millisecond, func() { seen = value })

	value = 1
	s.Trigger()
	value = 2
	s.Trigger()
	value = 3
	clock.Advance(10 * time.Millisecond)

	if seen != 3 {
		t.Errorf("task saw %d, want 3", seen)
	}
}

func TestSlotCancel(t *testing.T) {
	clock := &Manual{}
	runs := 0
	s := NewSlot(clock, 10*time.Millisecond, func() { runs++ })

	s.Trigger()
	s.Cancel()
	clock.Advance(time.Second)
	if runs != 0 {
		t.Errorf("cancelled slot ran %d times", runs)
	}
	if !s.Trigger() {
		t.Error("trigger after cancel should schedule")
	}
	clock.Advance(time.Second)
	if runs != 1 {
		t.Errorf("expected 1 run, got %d", runs)
	}
}

// lateScheduler delivers callbacks even after Stop, like a timer whose
// message is already queued on an event loop.
type lateScheduler struct {
	callbacks []func()
}

type lateTimer struct{}

func (lateTimer) Stop() bool { return false }

func (l *lateScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	l.callbacks = append(l.callbacks, f)
	return lateTimer{}
}

func TestSlotIgnoresStaleCallback(t *testing.T) {
	sched := &lateScheduler{}
	runs := 0
	s := NewSlot(sched, time.Millisecond, func() { runs++ })

	s.Trigger()
	s.Cancel()
	s.Trigger()
	for _, f := range sched.callbacks {
		f()
	}
	if runs != 1 {
		t.Errorf("expected exactly 1 run, got %d", runs)
	}
}

func TestSlotReplace(t *testing.T) {
	clock := &Manual{}
	got := ""
	s := NewSlot(clock, time.Millisecond, func() { got = "old" })
	s.Trigger()
	s.Replace(func() { got = "new" })
	clock.Advance(time.Millisecond)
	if got != "new" {
		t.Errorf("pending run used %q task", got)
	}
}

func TestManualOrdering(t *testing.T) {
	clock := &Manual{}
	var order []int
	clock.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })
	clock.AfterFunc(10*time.Millisecond, func() {
		order = append(order, 1)
		clock.AfterFunc(5*time.Millisecond, func() { order = append(order, 3) })
	})
	clock.Advance(30 * time.Millisecond)

	want := []int{1, 3, 2}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
