package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Escape     key.Binding

	// Navigation
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding

	// Gallery
	Edit    key.Binding
	Upload  key.Binding
	Delete  key.Binding
	Print   key.Binding
	Reload  key.Binding
	Assign1 key.Binding
	Assign2 key.Binding
	Assign3 key.Binding
	Assign4 key.Binding

	// Editor
	Left       key.Binding
	Right      key.Binding
	AutoFit    key.Binding
	Dither     key.Binding
	RawMode    key.Binding
	NudgeUp    key.Binding
	NudgeDown  key.Binding

	// Printer
	Scan       key.Binding
	Connect    key.Binding
	ManualMAC  key.Binding
	Reconnect  key.Binding
	TestPrint  key.Binding
	ConnType   key.Binding
	Protocol   key.Binding
	Disconnect key.Binding
	Unpair     key.Binding

	// Buttons
	ClearButton key.Binding
	Simulate    key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Cycle views"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Cycle views (reverse)"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back to gallery"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Go to bottom"),
		),

		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Edit image settings"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "Upload image"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Delete image"),
		),
		Print: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Print image"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh"),
		),
		Assign1: key.NewBinding(key.WithKeys("1"), key.WithHelp("1-4", "Toggle button assignment")),
		Assign2: key.NewBinding(key.WithKeys("2")),
		Assign3: key.NewBinding(key.WithKeys("3")),
		Assign4: key.NewBinding(key.WithKeys("4")),

		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "X offset"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
		),
		NudgeUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑/↓", "Y offset"),
		),
		NudgeDown: key.NewBinding(
			key.WithKeys("down"),
		),
		AutoFit: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Toggle auto-fit"),
		),
		Dither: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Cycle dither method"),
		),
		RawMode: key.NewBinding(
			key.WithKeys("w"),
			key.WithHelp("w", "Toggle raw mode"),
		),

		Scan: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Scan for devices"),
		),
		Connect: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Connect to device"),
		),
		ManualMAC: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Enter MAC manually"),
		),
		Reconnect: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reconnect"),
		),
		TestPrint: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Test print"),
		),
		ConnType: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Toggle usb/bluetooth"),
		),
		Protocol: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Toggle protocol"),
		),
		Disconnect: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "Disconnect"),
		),
		Unpair: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Unpair device"),
		),

		ClearButton: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear assignment"),
		),
		Simulate: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Simulate press"),
		),
	}
}
