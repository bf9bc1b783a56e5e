// Package debounce coalesces bursts of triggers into a single deferred run.
package debounce

import (
	"sort"
	"time"
)

// Timer is a scheduled callback that can be stopped before it fires.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Clock schedules with time.AfterFunc. Callbacks run on their own
// goroutine, so callers that need a single event loop should use a
// Scheduler that posts back onto it.
type Clock struct{}

// AfterFunc implements Scheduler.
func (Clock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Slot owns at most one pending run of a task.
//
// Trigger schedules the task unless a run is already pending, in which case
// the trigger is absorbed by the pending run. The task observes whatever
// state exists when the timer fires, not when it was scheduled.
//
// A Slot is not safe for concurrent use; Trigger, Cancel and the timer
// callback must all run on the same event loop.
type Slot struct {
	sched Scheduler
	delay time.Duration
	task  func()

	timer   Timer
	pending bool
	gen     uint64
}

// NewSlot creates a slot running task delay after the first trigger of
// each quiet period.
func NewSlot(sched Scheduler, delay time.Duration, task func()) *Slot {
	return &Slot{sched: sched, delay: delay, task: task}
}

// Trigger schedules the task. It reports false when the trigger was
// coalesced into an already pending run.
func (s *Slot) Trigger() bool {
	if s.pending {
		return false
	}
	s.pending = true
	s.gen++
	gen := s.gen
	s.timer = s.sched.AfterFunc(s.delay, func() { s.fire(gen) })
	return true
}

func (s *Slot) fire(gen uint64) {
	// A cancelled or superseded timer may still deliver its callback.
	if !s.pending || gen != s.gen {
		return
	}
	s.pending = false
	s.timer = nil
	s.task()
}

// Pending reports whether a run is scheduled.
func (s *Slot) Pending() bool { return s.pending }

// Cancel drops the pending run, if any.
func (s *Slot) Cancel() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = nil
	s.pending = false
	s.gen++
}

// Replace swaps the task. A pending run executes the new task.
func (s *Slot) Replace(task func()) { s.task = task }

// Manual is a Scheduler driven by Advance, for tests and replay.
type Manual struct {
	now    time.Duration
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.seq++
	t := &manualTimer{at: m.now + d, seq: m.seq, f: f}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d, firing due timers in order.
// Timers scheduled by a firing callback run if they fall due within d.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		next := m.nextDue(target)
		if next == nil {
			break
		}
		m.now = next.at
		next.fired = true
		next.f()
	}
	m.now = target
	m.compact()
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (m *Manual) Pending() int {
	n := 0
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			n++
		}
	}
	return n
}

func (m *Manual) nextDue(target time.Duration) *manualTimer {
	var due []*manualTimer
	for _, t := range m.timers {
		if !t.fired && !t.stopped && t.at <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].at != due[j].at {
			return due[i].at < due[j].at
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

func (m *Manual) compact() {
	live := m.timers[:0]
	for _, t := range m.timers {
		if !t.fired && !t.stopped {
			live = append(live, t)
		}
	}
	m.timers = live
}
