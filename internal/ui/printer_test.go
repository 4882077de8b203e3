package ui

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/printbox"
)

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestScanSpinnerClearsOnEveryExit(t *testing.T) {
	cases := []struct {
		name string
		msg  scanDoneMsg
	}{
		{"transport error", scanDoneMsg{err: &printbox.APIError{StatusCode: 500, Message: "adapter off"}}},
		{"server failure", scanDoneMsg{res: &printbox.ScanResult{Success: false, Error: "scan busy"}}},
		{"success", scanDoneMsg{res: &printbox.ScanResult{
			Success: true,
			Devices: []printbox.BluetoothDevice{{Name: "PT-210", MAC: "AA:BB:CC:DD:EE:FF"}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m, _ := testModel(t, http.NewServeMux())
			m.currentView = ViewPrinter
			m.printer.scanning = true

			tm, _ := m.Update(tc.msg)
			m = asModel(t, tm)
			require.False(t, m.printer.scanning)
			require.True(t, m.printer.scanned)
		})
	}
}

func TestScanGuardIgnoresSecondPress(t *testing.T) {
	m, _ := testModel(t, http.NewServeMux())
	m.currentView = ViewPrinter

	m, cmd := pressKey(t, m, keyRune('s'))
	require.True(t, m.printer.scanning)
	require.NotNil(t, cmd)

	m, cmd = pressKey(t, m, keyRune('s'))
	require.True(t, m.printer.scanning)
	require.Nil(t, cmd)
}

func TestReconnectLabelRestoredByTimerNotResponse(t *testing.T) {
	m, _ := testModel(t, http.NewServeMux())
	m.currentView = ViewPrinter

	m, cmd := pressKey(t, m, keyRune('r'))
	require.True(t, m.printer.reconnecting)
	require.NotNil(t, cmd)

	// A second press while the label shows "reconnecting" is a no-op.
	m, cmd = pressKey(t, m, keyRune('r'))
	require.True(t, m.printer.reconnecting)
	require.Nil(t, cmd)

	// The response arriving does not restore the label.
	tm, _ := m.Update(reconnectDoneMsg{res: &printbox.Result{Success: true}})
	m = asModel(t, tm)
	require.True(t, m.printer.reconnecting)

	tm, _ = m.Update(reconnectLabelMsg{})
	m = asModel(t, tm)
	require.False(t, m.printer.reconnecting)
}

func TestDisconnectCancelledConfirmIssuesNothing(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	m, _ := testModel(t, mux)
	m.currentView = ViewPrinter

	m, _ = pressKey(t, m, keyRune('d'))
	require.Equal(t, confirmDisconnect, m.confirm.kind)

	m, cmd := pressKey(t, m, keyRune('n'))
	require.Equal(t, confirmNone, m.confirm.kind)
	require.Nil(t, cmd)
	require.False(t, m.printer.disconnecting)
}

func TestConfirmedUnpairHitsEndpoint(t *testing.T) {
	var unpaired atomic.Int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/printer/bluetooth/unpair", func(w http.ResponseWriter, r *http.Request) {
		unpaired.Add(1)
		json.NewEncoder(w).Encode(printbox.Result{Success: true, Message: "unpaired"})
	})

	m, _ := testModel(t, mux)
	m.currentView = ViewPrinter

	m, _ = pressKey(t, m, keyRune('x'))
	require.Equal(t, confirmUnpair, m.confirm.kind)

	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	require.True(t, m.printer.unpairing)
	require.NotNil(t, cmd)

	msg := cmd()
	done, ok := msg.(unpairDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.EqualValues(t, 1, unpaired.Load())

	tm, _ := m.Update(done)
	m = asModel(t, tm)
	require.False(t, m.printer.unpairing)
}

func TestConnectErrorSurfacedVerbatim(t *testing.T) {
	m, _ := testModel(t, http.NewServeMux())
	m.currentView = ViewPrinter
	m.printer.connecting = true

	apiErr := &printbox.APIError{
		StatusCode: 500,
		Message:    "Failed to connect to AA:BB:CC:DD:EE:FF. Ensure device is paired.",
	}
	tm, _ := m.Update(connectDoneMsg{err: apiErr})
	m = asModel(t, tm)
	require.False(t, m.printer.connecting)
	require.Equal(t, apiErr.Message, m.printer.lastError)
}
