package state

import (
	"sync"
	"time"

	"github.com/printdeck/printdeck/internal/printbox"
)

// Snapshot is the latest connectivity view available to the UI.
type Snapshot struct {
	Printer             printbox.PrinterStatus
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Online reports whether the printer is effectively connected.
func (s Snapshot) Online() bool {
	return s.HasStatus && s.Printer.Online()
}

// Unreachable returns true when the daemon itself has been unreachable for
// multiple polls, as opposed to a reachable daemon reporting a disconnected
// printer.
func (s Snapshot) Unreachable() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. The background
// poller writes it; the UI reads it every frame tick.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored status. When err is non-nil the previously
// displayed status is kept unchanged so the indicator never flickers blank
// on a failed poll; only the error bookkeeping advances.
func (s *Store) Update(status *printbox.PrinterStatus, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	if status != nil {
		s.snapshot.Printer = *status
		s.snapshot.HasStatus = true
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}
