package printbox

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// DefaultDitherMethod is applied server-side when an image has never been
// processed with an explicit method.
const DefaultDitherMethod = "floyd_steinberg"

// DitherMethods lists the methods the daemon's processing pipeline accepts,
// in the order the console cycles through them.
var DitherMethods = []string{
	"floyd_steinberg",
	"atkinson",
	"ordered",
	"clustered_dot",
	"threshold",
	"none",
}

// ConnectionTypes and Protocols accepted by the printer endpoints.
const (
	ConnectionUSB       = "usb"
	ConnectionBluetooth = "bluetooth"

	ProtocolESCPOS  = "escpos"
	ProtocolStarTSP = "startsp"
)

// ButtonIDs is the fixed set of GPIO buttons the daemon exposes.
var ButtonIDs = []string{"1", "2", "3", "4"}

// Image mirrors one entry of the /api/images payload.
type Image struct {
	ID              string   `json:"id"`
	Filename        string   `json:"filename"`
	Timestamp       int64    `json:"timestamp"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Position        Position `json:"position"`
	AutoFit         bool     `json:"auto_fit"`
	DitherMethod    string   `json:"dither_method"`
	RawMode         bool     `json:"raw_mode"`
	Processed       bool     `json:"processed"`
	ProcessedWidth  int      `json:"processed_width"`
	ProcessedHeight int      `json:"processed_height"`
}

// Position is the manual placement offset applied during processing.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Uploaded returns the upload timestamp as time.Time.
func (i Image) Uploaded() time.Time {
	if i.Timestamp <= 0 {
		return time.Time{}
	}
	return time.Unix(i.Timestamp, 0)
}

// Method returns the image's dither method, falling back to the server
// default for images that have never been explicitly processed.
func (i Image) Method() string {
	if strings.TrimSpace(i.DitherMethod) == "" {
		return DefaultDitherMethod
	}
	return i.DitherMethod
}

// ModeLabel renders the processing badge shown next to an image. Raw mode
// wins over any dither method.
func (i Image) ModeLabel() string {
	if i.RawMode {
		return "RAW"
	}
	return strings.ToUpper(strings.ReplaceAll(i.Method(), "_", " "))
}

// ProcessRequest is the body of /api/images/{id}/process.
type ProcessRequest struct {
	XOffset      int    `json:"x_offset"`
	YOffset      int    `json:"y_offset"`
	AutoFit      bool   `json:"auto_fit"`
	DitherMethod string `json:"dither_method"`
	RawMode      bool   `json:"raw_mode"`
}

// Config mirrors /api/config.
type Config struct {
	ImageSettings     ImageSettings `json:"image_settings"`
	Printer           PrinterConfig `json:"printer"`
	ButtonAssignments Assignments   `json:"button_assignments"`
}

// ImageSettings is the processing-related subset of the daemon config.
type ImageSettings struct {
	MaxWidth int `json:"max_width"`
}

// PrinterConfig is the persisted printer identity.
type PrinterConfig struct {
	Type         string `json:"type"`
	Protocol     string `json:"protocol"`
	BluetoothMAC string `json:"bluetooth_mac"`
}

// ConfigUpdate is a partial write to /api/config. Only non-empty groups are
// serialized, so a button-assignment write never clobbers printer settings.
type ConfigUpdate struct {
	ButtonAssignments Assignments `json:"button_assignments,omitempty"`
}

// Assignments maps button identifiers ("1".."4") to image ids. An empty
// string means unassigned; it is serialized as JSON null to match the
// daemon's storage format.
type Assignments map[string]string

// MarshalJSON writes unassigned buttons as null.
func (a Assignments) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		if a[k] == "" {
			buf.WriteString("null")
			continue
		}
		val, err := json.Marshal(a[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON maps null values to the empty string.
func (a *Assignments) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Assignments, len(raw))
	for k, v := range raw {
		if v == nil {
			out[k] = ""
			continue
		}
		out[k] = *v
	}
	*a = out
	return nil
}

// ButtonsFor returns the sorted button ids currently mapped to the given
// image. Many buttons may point at the same image.
func (a Assignments) ButtonsFor(imageID string) []string {
	if imageID == "" {
		return nil
	}
	var buttons []string
	for btn, id := range a {
		if id == imageID {
			buttons = append(buttons, btn)
		}
	}
	sort.Strings(buttons)
	return buttons
}

// Clone returns an independent copy covering every known button, so a
// partial write always carries the full mapping.
func (a Assignments) Clone() Assignments {
	out := make(Assignments, len(ButtonIDs))
	for _, btn := range ButtonIDs {
		out[btn] = a[btn]
	}
	for btn, id := range a {
		out[btn] = id
	}
	return out
}

// PrinterStatus mirrors /api/printer/status.
type PrinterStatus struct {
	Connected      bool   `json:"connected"`
	Status         string `json:"status"`
	Protocol       string `json:"protocol"`
	ConnectionType string `json:"connection_type"`
	SimulationMode bool   `json:"simulation_mode"`
	BluetoothMAC   string `json:"bluetooth_mac"`
}

// Online reports the effective connectivity. The daemon has reported either
// field alone depending on backend version, so both are honored.
func (s PrinterStatus) Online() bool {
	return s.Connected || s.Status == "connected"
}

// Result is the generic acknowledgement returned by the mutating printer
// endpoints.
type Result struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	Error          string         `json:"error"`
	Protocol       string         `json:"protocol"`
	ConnectionType string         `json:"connection_type"`
	Status         *PrinterStatus `json:"status"`
}

// Reason returns the server-supplied explanation for a result, preferring
// the error text. Surfaced verbatim to the user.
func (r Result) Reason() string {
	if r.Error != "" {
		return r.Error
	}
	return r.Message
}

// BluetoothDevice is one discovery result. It only lives for the duration
// of a single scan's result list.
type BluetoothDevice struct {
	Name string `json:"name"`
	MAC  string `json:"mac"`
}

// Label returns a display name for a discovered device.
func (d BluetoothDevice) Label() string {
	if strings.TrimSpace(d.Name) == "" {
		return d.MAC
	}
	return d.Name
}

// ScanResult mirrors /api/printer/bluetooth/scan.
type ScanResult struct {
	Success bool              `json:"success"`
	Devices []BluetoothDevice `json:"devices"`
	Count   int               `json:"count"`
	Error   string            `json:"error"`
}

// GPIOStatus mirrors /api/gpio/status.
type GPIOStatus struct {
	Available      bool                  `json:"available"`
	SimulationMode bool                  `json:"simulation_mode"`
	Buttons        map[string]GPIOButton `json:"buttons"`
	Error          string                `json:"error"`
}

// GPIOButton is the live state of one physical button.
type GPIOButton struct {
	Pin     int  `json:"pin"`
	Pressed bool `json:"pressed"`
}
