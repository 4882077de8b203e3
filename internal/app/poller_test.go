package app

import (
	"context"
	"errors"
	"testing"

	"github.com/printdeck/printdeck/internal/printbox"
	"github.com/printdeck/printdeck/internal/state"
)

type fakeSource struct {
	status *printbox.PrinterStatus
	err    error
	calls  int
}

func (f *fakeSource) PrinterStatus(ctx context.Context) (*printbox.PrinterStatus, error) {
	f.calls++
	return f.status, f.err
}

func TestRefresh_RecordsStatus(t *testing.T) {
	store := &state.Store{}
	src := &fakeSource{status: &printbox.PrinterStatus{Connected: true, Protocol: "startsp"}}

	Refresh(context.Background(), store, src)

	snap := store.Snapshot()
	if !snap.HasStatus || !snap.Online() {
		t.Fatalf("snapshot = %+v, want online", snap)
	}
	if snap.Printer.Protocol != "startsp" {
		t.Fatalf("protocol = %q", snap.Printer.Protocol)
	}
	if src.calls != 1 {
		t.Fatalf("calls = %d, want 1", src.calls)
	}
}

func TestRefresh_FailureKeepsIndicator(t *testing.T) {
	store := &state.Store{}

	Refresh(context.Background(), store, &fakeSource{status: &printbox.PrinterStatus{Connected: true}})
	Refresh(context.Background(), store, &fakeSource{err: errors.New("connection refused")})

	snap := store.Snapshot()
	if !snap.Online() {
		t.Fatalf("indicator changed on failed check: %+v", snap)
	}
	if snap.ConsecutiveFailures != 1 || snap.LastError == nil {
		t.Fatalf("failure not recorded: %+v", snap)
	}
}
