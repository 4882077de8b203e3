package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type helpSection struct {
	title    string
	bindings []key.Binding
}

func (m Model) renderHelp() string {
	sections := []helpSection{
		{"Global", []key.Binding{
			m.keys.Tab, m.keys.Help, m.keys.CycleTheme, m.keys.Quit,
		}},
		{"Gallery", []key.Binding{
			m.keys.Up, m.keys.Down, m.keys.Edit, m.keys.Upload,
			m.keys.Print, m.keys.Delete, m.keys.Assign1, m.keys.Reload,
		}},
		{"Editor", []key.Binding{
			m.keys.Left, m.keys.NudgeUp, m.keys.AutoFit, m.keys.Dither,
			m.keys.RawMode, m.keys.Escape,
		}},
		{"Printer", []key.Binding{
			m.keys.Scan, m.keys.Connect, m.keys.ManualMAC, m.keys.ConnType,
			m.keys.Protocol, m.keys.Reconnect, m.keys.TestPrint,
			m.keys.Disconnect, m.keys.Unpair,
		}},
		{"Buttons", []key.Binding{
			m.keys.ClearButton, m.keys.Simulate,
		}},
	}

	var b strings.Builder
	b.WriteString(m.styles.Logo.Render("printdeck help"))
	b.WriteString("\n\n")
	for _, sec := range sections {
		b.WriteString(m.styles.AccentText.Render(sec.title))
		b.WriteString("\n")
		for _, binding := range sec.bindings {
			h := binding.Help()
			if h.Key == "" {
				continue
			}
			b.WriteString("  ")
			b.WriteString(m.styles.Text.Render(padRight(h.Key, 12)))
			b.WriteString(m.styles.MutedText.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.FaintText.Render("esc to close"))
	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
