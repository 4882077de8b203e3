// Package debounce provides a single-slot delayed-task scheduler.
//
// A Slot tracks one pending delayed task at a time as a generation counter:
// arming the slot invalidates whatever was pending before, and a fired task
// only runs if it still carries the current generation. The delay itself is
// owned by the caller (a timer, a tea.Tick, ...); the slot only decides
// whether a firing is still live. This keeps the primitive free of timer
// bookkeeping and makes it trivial to test.
package debounce

import "sync"

// Slot is a single-slot scheduler. The zero value is ready to use.
type Slot struct {
	mu    sync.Mutex
	gen   uint64
	armed bool
}

// Arm schedules a new task, cancelling any pending one, and returns the
// generation token the eventual firing must present.
func (s *Slot) Arm() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.armed = true
	return s.gen
}

// Cancel invalidates any pending task without arming a new one.
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.armed = false
}

// Fire consumes the slot. It returns true only when gen is the currently
// armed generation; superseded, cancelled, and repeated firings return
// false.
func (s *Slot) Fire(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.armed || gen != s.gen {
		return false
	}
	s.armed = false
	return true
}

// Pending reports whether a task is currently scheduled.
func (s *Slot) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}
