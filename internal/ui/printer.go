package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/printdeck/printdeck/internal/printbox"
)

// printerState tracks the printer management screen. The boolean guards
// exist because every control here drives real hardware; a second press
// while a request is in flight must be a no-op.
type printerState struct {
	scanning  bool
	spin      spinner.Model
	devices   []printbox.BluetoothDevice
	scanned   bool
	deviceSel int

	macInput textinput.Model
	macMode  bool

	connecting    bool
	reconnecting  bool
	disconnecting bool
	unpairing     bool
	switching     bool

	lastError string
	info      string
}

func newPrinterState(theme Theme) printerState {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))
	return printerState{
		spin:     sp,
		macInput: newTextInput("AA:BB:CC:DD:EE:FF", 17),
	}
}

func (m Model) updatePrinter(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case scanDoneMsg:
		// The spinner stops on every exit path, including transport errors
		// and server-side scan failures.
		m.printer.scanning = false
		m.printer.scanned = true
		if msg.err != nil {
			m.printer.lastError = "scan failed: " + errText(msg.err)
			return m, nil
		}
		if !msg.res.Success {
			m.printer.lastError = "scan failed: " + msg.res.Error
			return m, nil
		}
		m.printer.lastError = ""
		m.printer.devices = msg.res.Devices
		m.printer.deviceSel = 0
		m.printer.info = fmt.Sprintf("found %d device(s)", len(msg.res.Devices))
		return m, nil

	case connectDoneMsg:
		m.printer.connecting = false
		if msg.err != nil {
			m.printer.lastError = errText(msg.err)
			return m, m.pollNowCmd()
		}
		m.printer.lastError = ""
		m.printer.info = "connected"
		return m, tea.Batch(m.pollNowCmd(), m.reconcileCmd())

	case switchDoneMsg:
		m.printer.switching = false
		if msg.err != nil {
			m.printer.lastError = errText(msg.err)
		} else if !msg.res.Success {
			m.printer.lastError = msg.res.Reason()
		} else {
			m.printer.lastError = ""
			m.printer.info = "connection type switched"
		}
		return m, tea.Batch(m.pollNowCmd(), m.reconcileCmd())

	case protocolDoneMsg:
		m.printer.switching = false
		if msg.err != nil {
			m.printer.lastError = errText(msg.err)
			return m, nil
		}
		m.printer.lastError = ""
		m.printer.info = "protocol switched"
		return m, m.reconcileCmd()

	case reconnectDoneMsg:
		// Deliberately leaves the reconnecting flag set: the label is
		// restored by reconnectLabelMsg after its fixed delay, whether the
		// request succeeded, failed, or is still pending then.
		if msg.err != nil {
			m.printer.lastError = errText(msg.err)
		} else if !msg.res.Success {
			m.printer.lastError = msg.res.Reason()
		} else {
			m.printer.lastError = ""
			m.printer.info = "reconnected"
		}
		return m, m.pollNowCmd()

	case reconnectLabelMsg:
		m.printer.reconnecting = false
		return m, nil

	case disconnectDoneMsg:
		m.printer.disconnecting = false
		if msg.err != nil {
			m.printer.lastError = errText(msg.err)
		} else {
			m.printer.lastError = ""
			m.printer.info = "disconnected"
		}
		return m, m.pollNowCmd()

	case unpairDoneMsg:
		m.printer.unpairing = false
		if msg.err != nil {
			m.printer.lastError = errText(msg.err)
		} else {
			m.printer.lastError = ""
			m.printer.info = "device unpaired"
		}
		return m, tea.Batch(m.pollNowCmd(), m.reconcileCmd())

	case testPrintDoneMsg:
		switch {
		case msg.err != nil:
			m.flash = newFlash("test print failed: "+errText(msg.err), flashError)
		case !msg.res.Success:
			m.flash = newFlash("test print failed: "+msg.res.Reason(), flashError)
		default:
			m.flash = newFlash("test pattern sent", flashSuccess)
		}
		return m, nil

	case tea.KeyMsg:
		if m.printer.macMode {
			return m.updateMACInput(msg)
		}
		return m.handlePrinterKey(msg)

	case spinner.TickMsg:
		if m.printer.scanning {
			var cmd tea.Cmd
			m.printer.spin, cmd = m.printer.spin.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handlePrinterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.printer.deviceSel > 0 {
			m.printer.deviceSel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.printer.deviceSel < len(m.printer.devices)-1 {
			m.printer.deviceSel++
		}

	case key.Matches(msg, m.keys.Scan):
		if m.printer.scanning {
			return m, nil
		}
		m.printer.scanning = true
		m.printer.devices = nil
		m.printer.deviceSel = 0
		m.printer.lastError = ""
		m.printer.info = ""
		return m, tea.Batch(m.printer.spin.Tick, m.scanCmd())

	case key.Matches(msg, m.keys.Connect):
		if m.printer.connecting || len(m.printer.devices) == 0 {
			return m, nil
		}
		dev := m.printer.devices[m.printer.deviceSel]
		m.printer.connecting = true
		m.printer.info = "connecting to " + dev.Label() + "..."
		return m, m.connectCmd(dev.MAC)

	case key.Matches(msg, m.keys.ManualMAC):
		m.printer.macMode = true
		m.printer.macInput.SetValue("")
		m.printer.macInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Reconnect):
		if m.printer.reconnecting {
			return m, nil
		}
		m.printer.reconnecting = true
		m.printer.info = ""
		return m, tea.Batch(m.reconnectCmd(), reconnectLabelCmd())

	case key.Matches(msg, m.keys.TestPrint):
		m.flash = newFlash("sending test pattern...", flashInfo)
		return m, m.testPrintCmd()

	case key.Matches(msg, m.keys.ConnType):
		if m.printer.switching || m.serverCfg == nil {
			return m, nil
		}
		next := printbox.ConnectionBluetooth
		if m.serverCfg.Printer.Type == printbox.ConnectionBluetooth {
			next = printbox.ConnectionUSB
		}
		m.printer.switching = true
		return m, m.switchTypeCmd(next)

	case key.Matches(msg, m.keys.Protocol):
		if m.printer.switching || m.serverCfg == nil {
			return m, nil
		}
		next := printbox.ProtocolStarTSP
		if m.serverCfg.Printer.Protocol == printbox.ProtocolStarTSP {
			next = printbox.ProtocolESCPOS
		}
		m.printer.switching = true
		return m, m.switchProtocolCmd(next)

	case key.Matches(msg, m.keys.Disconnect):
		if !m.printer.disconnecting {
			m.confirm = confirmState{
				kind:   confirmDisconnect,
				prompt: "Disconnect from printer?",
			}
		}
	case key.Matches(msg, m.keys.Unpair):
		if !m.printer.unpairing {
			m.confirm = confirmState{
				kind:   confirmUnpair,
				prompt: "Unpair device and revert to USB?",
			}
		}
	}
	return m, nil
}

func (m Model) updateMACInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.printer.macMode = false
		m.printer.macInput.Blur()
		return m, nil
	case tea.KeyEnter:
		mac := strings.TrimSpace(m.printer.macInput.Value())
		m.printer.macMode = false
		m.printer.macInput.Blur()
		if mac == "" || m.printer.connecting {
			return m, nil
		}
		m.printer.connecting = true
		m.printer.info = "connecting to " + mac + "..."
		return m, m.connectCmd(mac)
	}
	var cmd tea.Cmd
	m.printer.macInput, cmd = m.printer.macInput.Update(msg)
	return m, cmd
}

func (m Model) renderPrinter() string {
	var b strings.Builder

	if m.confirm.kind != confirmNone {
		b.WriteString(m.renderConfirm())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderPrinterIdentity())
	b.WriteString("\n\n")

	if m.printer.macMode {
		b.WriteString(m.styles.AccentText.Render("Connect by MAC address"))
		b.WriteString("\n")
		b.WriteString(m.printer.macInput.View())
		b.WriteString("\n\n")
	}

	b.WriteString(m.renderDeviceList())

	if m.printer.lastError != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.DangerText.Render(m.printer.lastError))
	} else if m.printer.info != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render(m.printer.info))
	}
	return b.String()
}

func (m Model) renderPrinterIdentity() string {
	connType, protocol, mac := "-", "-", "-"
	if m.serverCfg != nil {
		connType = m.serverCfg.Printer.Type
		protocol = m.serverCfg.Printer.Protocol
		if m.serverCfg.Printer.BluetoothMAC != "" {
			mac = m.serverCfg.Printer.BluetoothMAC
		}
	}

	status := m.styles.DangerText.Render("offline")
	if m.snapshot.Online() {
		status = m.styles.SuccessText.Render("online")
	}
	if m.snapshot.HasStatus && m.snapshot.Printer.SimulationMode {
		status += " " + m.styles.WarningText.Render("[SIM]")
	}

	reconnectLabel := "r reconnect"
	if m.printer.reconnecting {
		reconnectLabel = "reconnecting..."
	}

	lines := []string{
		fmt.Sprintf("Status     %s", status),
		fmt.Sprintf("Type       %s", connType),
		fmt.Sprintf("Protocol   %s", protocol),
		fmt.Sprintf("Paired     %s", mac),
		m.styles.FaintText.Render(reconnectLabel),
	}
	return m.styles.Panel.Render(strings.Join(lines, "\n"))
}

func (m Model) renderDeviceList() string {
	var b strings.Builder
	if m.printer.scanning {
		b.WriteString(m.printer.spin.View())
		b.WriteString(m.styles.MutedText.Render(" scanning for devices..."))
		return b.String()
	}
	if !m.printer.scanned {
		b.WriteString(m.styles.FaintText.Render("press s to scan for bluetooth printers"))
		return b.String()
	}
	if len(m.printer.devices) == 0 {
		b.WriteString(m.styles.MutedText.Render("no devices found"))
		return b.String()
	}

	b.WriteString(m.styles.AccentText.Render("Discovered devices"))
	b.WriteString("\n")
	for i, dev := range m.printer.devices {
		row := fmt.Sprintf("  %-24s %s", truncate(dev.Label(), 24), dev.MAC)
		if i == m.printer.deviceSel {
			b.WriteString(m.styles.Selected.Render("▸" + row[1:]))
		} else {
			b.WriteString(m.styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}
