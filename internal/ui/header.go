package ui

import (
	"strings"
)

func (m Model) renderHeader() string {
	var parts []string
	parts = append(parts, m.styles.Logo.Render("printdeck"))

	for _, v := range []View{ViewGallery, ViewPrinter, ViewButtons} {
		label := v.String()
		active := m.currentView == v || (v == ViewGallery && m.currentView == ViewEditor)
		if active {
			parts = append(parts, m.styles.AccentText.Render("["+label+"]"))
		} else {
			parts = append(parts, m.styles.FaintText.Render(" "+label+" "))
		}
	}

	parts = append(parts, m.renderStatusIndicator())

	line := strings.Join(parts, "  ")
	if banner := m.renderUnreachableBanner(); banner != "" {
		return line + "\n" + banner
	}
	return line
}

// renderStatusIndicator condenses the polled printer state into a few
// characters. It reflects the last successful poll, not the last attempt.
func (m Model) renderStatusIndicator() string {
	if !m.snapshot.HasStatus {
		return m.styles.FaintText.Render("○ unknown")
	}
	p := m.snapshot.Printer

	var b strings.Builder
	if m.snapshot.Online() {
		b.WriteString(m.styles.SuccessText.Render("● online"))
	} else {
		b.WriteString(m.styles.DangerText.Render("● offline"))
	}
	if p.ConnectionType != "" {
		b.WriteString(m.styles.MutedText.Render(" " + p.ConnectionType))
	}
	if p.Protocol != "" {
		b.WriteString(m.styles.MutedText.Render("/" + p.Protocol))
	}
	if p.SimulationMode {
		b.WriteString(" " + m.styles.WarningText.Render("[SIM]"))
	}
	return b.String()
}

// renderUnreachableBanner warns when several polls in a row have failed.
// A single missed poll stays quiet; the stale indicator covers it.
func (m Model) renderUnreachableBanner() string {
	if !m.snapshot.Unreachable() {
		return ""
	}
	reason := classifyConnectionError(m.snapshot.LastError)
	return m.styles.DangerText.Render("daemon unreachable: " + reason)
}

func (m Model) renderCommandBar() string {
	var hints []string
	switch m.currentView {
	case ViewGallery:
		hints = []string{"enter edit", "u upload", "p print", "d delete", "1-4 assign", "r refresh"}
	case ViewEditor:
		hints = []string{"arrows offset", "a auto-fit", "f dither", "w raw", "p print", "esc back"}
	case ViewPrinter:
		hints = []string{"s scan", "enter connect", "m manual mac", "c type", "o protocol", "t test", "r reconnect"}
	case ViewButtons:
		hints = []string{"c clear", "s simulate", "r refresh"}
	}
	hints = append(hints, "tab views", "? help", "ctrl+c quit")
	return m.styles.FaintText.Render(strings.Join(hints, " · "))
}
