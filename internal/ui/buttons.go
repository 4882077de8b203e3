package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/printdeck/printdeck/internal/printbox"
)

// buttonsState tracks the GPIO button screen.
type buttonsState struct {
	sel       int
	gpio      *printbox.GPIOStatus
	lastError string
	info      string
}

func newButtonsState() buttonsState {
	return buttonsState{}
}

func (m Model) updateButtons(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case gpioMsg:
		if msg.err != nil {
			m.buttons.lastError = "gpio status unavailable: " + errText(msg.err)
			return m, nil
		}
		m.buttons.lastError = ""
		m.buttons.gpio = msg.status
		return m, nil

	case simulateDoneMsg:
		switch {
		case msg.err != nil:
			m.flash = newFlash("simulate failed: "+errText(msg.err), flashError)
		case !msg.res.Success:
			m.flash = newFlash("simulate failed: "+msg.res.Reason(), flashError)
		default:
			m.flash = newFlash(fmt.Sprintf("button %d pressed", msg.button), flashSuccess)
		}
		return m, m.gpioCmd()

	case tea.KeyMsg:
		return m.handleButtonsKey(msg)
	}
	return m, nil
}

func (m Model) handleButtonsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.buttons.sel > 0 {
			m.buttons.sel--
		}
	case key.Matches(msg, m.keys.Down):
		if m.buttons.sel < len(printbox.ButtonIDs)-1 {
			m.buttons.sel++
		}
	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.gpioCmd(), m.reconcileCmd())

	case key.Matches(msg, m.keys.ClearButton):
		if m.serverCfg == nil {
			return m, nil
		}
		btn := printbox.ButtonIDs[m.buttons.sel]
		if m.assignments[btn] == "" {
			return m, nil
		}
		next := m.assignments.Clone()
		next[btn] = ""
		m.assignments = next
		return m, m.assignCmd(next.Clone())

	case key.Matches(msg, m.keys.Simulate):
		n, err := strconv.Atoi(printbox.ButtonIDs[m.buttons.sel])
		if err != nil {
			return m, nil
		}
		return m, m.simulateCmd(n)
	}
	return m, nil
}

func (m Model) renderButtons() string {
	var b strings.Builder

	b.WriteString(m.styles.AccentText.Render("Hardware buttons"))
	b.WriteString("\n\n")

	for i, btn := range printbox.ButtonIDs {
		target := m.styles.MutedText.Render("unassigned")
		if id := m.assignments[btn]; id != "" {
			if img, ok := m.imageByID(id); ok {
				target = img.Filename
			} else {
				target = m.styles.WarningText.Render(shortID(id) + " (missing)")
			}
		}

		hw := ""
		if m.buttons.gpio != nil {
			if gb, ok := m.buttons.gpio.Buttons[btn]; ok {
				hw = fmt.Sprintf("pin %d", gb.Pin)
				if gb.Pressed {
					hw += " " + m.styles.SuccessText.Render("pressed")
				}
			}
		}

		row := fmt.Sprintf("  B%s  %-32s %s", btn, truncate(target, 32), hw)
		if i == m.buttons.sel {
			b.WriteString(m.styles.Selected.Render("▸" + row[1:]))
		} else {
			b.WriteString(m.styles.Text.Render(row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.buttons.gpio != nil {
		switch {
		case m.buttons.gpio.SimulationMode:
			b.WriteString(m.styles.WarningText.Render("GPIO in simulation mode"))
		case !m.buttons.gpio.Available:
			b.WriteString(m.styles.MutedText.Render("GPIO hardware not available"))
		default:
			b.WriteString(m.styles.SuccessText.Render("GPIO hardware active"))
		}
		b.WriteString("\n")
	}
	if m.buttons.lastError != "" {
		b.WriteString(m.styles.DangerText.Render(m.buttons.lastError))
		b.WriteString("\n")
	}
	return b.String()
}
