package debounce

import "testing"

func TestSlot_ReArmSupersedes(t *testing.T) {
	var s Slot

	first := s.Arm()
	second := s.Arm()

	if s.Fire(first) {
		t.Fatalf("superseded generation fired")
	}
	if !s.Fire(second) {
		t.Fatalf("current generation did not fire")
	}
}

func TestSlot_FireConsumes(t *testing.T) {
	var s Slot
	gen := s.Arm()

	if !s.Fire(gen) {
		t.Fatalf("first fire rejected")
	}
	if s.Fire(gen) {
		t.Fatalf("second fire of same generation accepted")
	}
	if s.Pending() {
		t.Fatalf("slot still pending after fire")
	}
}

func TestSlot_CancelInvalidates(t *testing.T) {
	var s Slot
	gen := s.Arm()
	if !s.Pending() {
		t.Fatalf("armed slot not pending")
	}

	s.Cancel()
	if s.Pending() {
		t.Fatalf("cancelled slot still pending")
	}
	if s.Fire(gen) {
		t.Fatalf("cancelled generation fired")
	}
}

func TestSlot_ZeroValueFiresNothing(t *testing.T) {
	var s Slot
	if s.Fire(0) {
		t.Fatalf("zero slot fired")
	}
	if s.Pending() {
		t.Fatalf("zero slot pending")
	}
}

func TestSlot_BurstYieldsSingleLiveGeneration(t *testing.T) {
	// A burst of rapid inputs arms the slot repeatedly; only the last
	// scheduled task may fire, and exactly once.
	var s Slot
	gens := make([]uint64, 0, 10)
	for i := 0; i < 10; i++ {
		gens = append(gens, s.Arm())
	}

	fired := 0
	for _, g := range gens {
		if s.Fire(g) {
			fired++
		}
	}
	if fired != 1 {
		t.Fatalf("fired %d times, want exactly 1", fired)
	}
}
