package printbox

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPrinterStatus_Online(t *testing.T) {
	cases := []struct {
		name      string
		connected bool
		status    string
		want      bool
	}{
		{"both unset", false, "", false},
		{"connected only", true, "", true},
		{"status only", false, "connected", true},
		{"both set", true, "connected", true},
		{"other status", false, "disconnected", false},
		{"connected with other status", true, "error", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := PrinterStatus{Connected: tc.connected, Status: tc.status}
			if got := s.Online(); got != tc.want {
				t.Fatalf("Online() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestImage_ModeLabel(t *testing.T) {
	cases := []struct {
		name string
		img  Image
		want string
	}{
		{"raw wins over method", Image{RawMode: true, DitherMethod: "atkinson"}, "RAW"},
		{"raw with empty method", Image{RawMode: true}, "RAW"},
		{"separators replaced", Image{DitherMethod: "floyd_steinberg"}, "FLOYD STEINBERG"},
		{"single word", Image{DitherMethod: "atkinson"}, "ATKINSON"},
		{"clustered", Image{DitherMethod: "clustered_dot"}, "CLUSTERED DOT"},
		{"unprocessed default", Image{}, "FLOYD STEINBERG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.img.ModeLabel(); got != tc.want {
				t.Fatalf("ModeLabel() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAssignments_JSONRoundTrip(t *testing.T) {
	in := Assignments{"1": "img-a", "2": "", "3": "img-a", "4": ""}

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"2":null`) || !strings.Contains(string(data), `"4":null`) {
		t.Fatalf("unassigned buttons not null: %s", data)
	}
	if strings.Contains(string(data), `""`) {
		t.Fatalf("empty strings leaked into wire format: %s", data)
	}

	var out Assignments
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for btn, id := range in {
		if out[btn] != id {
			t.Fatalf("roundtrip[%s] = %q, want %q", btn, out[btn], id)
		}
	}
}

func TestAssignments_ButtonsFor(t *testing.T) {
	a := Assignments{"1": "img-a", "2": "img-b", "3": "img-a", "4": ""}

	if got := a.ButtonsFor("img-a"); len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("ButtonsFor(img-a) = %v, want [1 3]", got)
	}
	if got := a.ButtonsFor("img-b"); len(got) != 1 || got[0] != "2" {
		t.Fatalf("ButtonsFor(img-b) = %v, want [2]", got)
	}
	if got := a.ButtonsFor("missing"); got != nil {
		t.Fatalf("ButtonsFor(missing) = %v, want nil", got)
	}
	// The empty id marks unassigned buttons and must never match.
	if got := a.ButtonsFor(""); got != nil {
		t.Fatalf("ButtonsFor(\"\") = %v, want nil", got)
	}
}

func TestAssignments_CloneCoversAllButtons(t *testing.T) {
	a := Assignments{"2": "img-b"}
	c := a.Clone()

	for _, btn := range ButtonIDs {
		if _, ok := c[btn]; !ok {
			t.Fatalf("clone missing button %s: %v", btn, c)
		}
	}
	c["2"] = "img-other"
	if a["2"] != "img-b" {
		t.Fatalf("clone aliases original map")
	}
}

func TestBluetoothDevice_Label(t *testing.T) {
	if got := (BluetoothDevice{Name: "TSP100", MAC: "AA:BB"}).Label(); got != "TSP100" {
		t.Fatalf("Label = %q, want TSP100", got)
	}
	if got := (BluetoothDevice{MAC: "AA:BB"}).Label(); got != "AA:BB" {
		t.Fatalf("Label = %q, want MAC fallback", got)
	}
}
