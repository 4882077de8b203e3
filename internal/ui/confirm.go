package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmDisconnect
	confirmUnpair
)

// confirmState is a modal yes/no prompt. While set, it captures all key
// input; the destructive request is only issued on explicit acceptance.
type confirmState struct {
	kind    confirmKind
	imageID string
	prompt  string
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		pending := m.confirm
		m.confirm = confirmState{}
		switch pending.kind {
		case confirmDelete:
			return m, m.deleteCmd(pending.imageID)
		case confirmDisconnect:
			m.printer.disconnecting = true
			return m, m.disconnectCmd()
		case confirmUnpair:
			m.printer.unpairing = true
			return m, m.unpairCmd()
		}
		return m, nil
	case "n", "esc":
		m.confirm = confirmState{}
		return m, nil
	}
	return m, nil
}

func (m Model) renderConfirm() string {
	body := m.styles.WarningText.Render(m.confirm.prompt) +
		"\n" + m.styles.FaintText.Render("y confirm / n cancel")
	return m.styles.Panel.Render(body)
}
