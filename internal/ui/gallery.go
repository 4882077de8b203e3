package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/printdeck/printdeck/internal/printbox"
)

func newTextInput(placeholder string, limit int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Width = 48
	return in
}

// errText prefers the daemon's own error text over a generic transport
// description.
func errText(err error) string {
	var apiErr *printbox.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return classifyConnectionError(err)
}

func (m Model) updateGallery(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case uploadDoneMsg:
		if msg.err != nil {
			m.flash = newFlash("upload failed: "+errText(msg.err), flashError)
			return m, nil
		}
		m.flash = newFlash("uploaded "+msg.img.Filename, flashSuccess)
		return m, m.reconcileCmd()

	case deleteDoneMsg:
		if msg.err != nil {
			m.flash = newFlash("delete failed: "+errText(msg.err), flashError)
			return m, nil
		}
		if m.editor.active && m.editor.imageID == msg.imageID {
			m = m.closeEditor()
		}
		m.flash = newFlash("image deleted", flashInfo)
		return m, m.reconcileCmd()

	case printDoneMsg:
		switch {
		case msg.err != nil:
			m.flash = newFlash("print failed: "+errText(msg.err), flashError)
		case !msg.res.Success:
			m.flash = newFlash("print failed: "+msg.res.Reason(), flashError)
		default:
			m.flash = newFlash("sent to printer", flashSuccess)
		}
		return m, nil

	case assignDoneMsg:
		if msg.err != nil {
			m.flash = newFlash("assignment failed: "+errText(msg.err), flashError)
		}
		// Reconcile on both outcomes so the optimistic copy is replaced by
		// whatever the daemon actually stored.
		return m, m.reconcileCmd()

	case tea.KeyMsg:
		return m.handleGalleryKey(msg)
	}
	return m, nil
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.images)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		if len(m.images) > 0 {
			m.selected = len(m.images) - 1
		}
	case key.Matches(msg, m.keys.Edit):
		if img, ok := m.selectedImage(); ok {
			return m.openEditor(img)
		}
	case key.Matches(msg, m.keys.Upload):
		m.uploadMode = true
		m.uploadInput.SetValue("")
		m.uploadInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		if img, ok := m.selectedImage(); ok {
			m.confirm = confirmState{
				kind:    confirmDelete,
				imageID: img.ID,
				prompt:  fmt.Sprintf("Delete %s?", img.Filename),
			}
		}
	case key.Matches(msg, m.keys.Print):
		if img, ok := m.selectedImage(); ok {
			m.flash = newFlash("printing "+img.Filename+"...", flashInfo)
			return m, m.printCmd(img.ID)
		}
	case key.Matches(msg, m.keys.Reload):
		return m, tea.Batch(m.reconcileCmd(), m.pollNowCmd())
	case key.Matches(msg, m.keys.Assign1):
		return m.toggleAssignment("1")
	case key.Matches(msg, m.keys.Assign2):
		return m.toggleAssignment("2")
	case key.Matches(msg, m.keys.Assign3):
		return m.toggleAssignment("3")
	case key.Matches(msg, m.keys.Assign4):
		return m.toggleAssignment("4")
	}
	return m, nil
}

// toggleAssignment flips one button's binding to the selected image. The
// write always carries the complete current assignment map so the three
// untouched buttons are preserved verbatim.
func (m Model) toggleAssignment(button string) (tea.Model, tea.Cmd) {
	img, ok := m.selectedImage()
	if !ok || m.serverCfg == nil {
		return m, nil
	}
	next := m.assignments.Clone()
	if next[button] == img.ID {
		next[button] = ""
	} else {
		next[button] = img.ID
	}
	m.assignments = next
	return m, m.assignCmd(next.Clone())
}

func (m Model) updateUploadInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape:
		m.uploadMode = false
		m.uploadInput.Blur()
		return m, nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.uploadInput.Value())
		m.uploadMode = false
		m.uploadInput.Blur()
		if path == "" {
			return m, nil
		}
		m.flash = newFlash("uploading...", flashInfo)
		return m, m.uploadCmd(path)
	}
	var cmd tea.Cmd
	m.uploadInput, cmd = m.uploadInput.Update(msg)
	return m, cmd
}

func (m Model) renderGallery() string {
	var b strings.Builder

	if m.uploadMode {
		b.WriteString(m.styles.AccentText.Render("Upload image"))
		b.WriteString("\n")
		b.WriteString(m.uploadInput.View())
		b.WriteString("\n\n")
	}

	if m.confirm.kind != confirmNone {
		b.WriteString(m.renderConfirm())
		b.WriteString("\n\n")
	}

	if !m.imagesLoaded {
		b.WriteString(m.styles.MutedText.Render("Loading images..."))
		return b.String()
	}
	if len(m.images) == 0 {
		b.WriteString(m.styles.MutedText.Render("No images uploaded yet. Press u to upload."))
		return b.String()
	}

	header := fmt.Sprintf("  %-10s %-28s %-11s %-16s %-12s %-5s",
		"ID", "FILENAME", "SIZE", "MODE", "BUTTONS", "AGE")
	b.WriteString(m.styles.FaintText.Render(header))
	b.WriteString("\n")

	for i, img := range m.images {
		dims := "-"
		if img.Width > 0 {
			dims = fmt.Sprintf("%dx%d", img.Width, img.Height)
		}
		badges := m.badgesFor(img.ID)
		row := fmt.Sprintf("  %-10s %-28s %-11s %-16s %-12s %-5s",
			shortID(img.ID),
			truncate(img.Filename, 28),
			dims,
			truncate(img.ModeLabel(), 16),
			badges,
			humanizeAge(img.Uploaded()),
		)
		if i == m.selected {
			b.WriteString(m.styles.Selected.Render("▸" + row[1:]))
		} else {
			b.WriteString(m.styles.Text.Render(row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// badgesFor renders the hardware-button badges for an image, e.g.
// "BTN 1 BTN 3".
func (m Model) badgesFor(imageID string) string {
	buttons := m.assignments.ButtonsFor(imageID)
	if len(buttons) == 0 {
		return ""
	}
	parts := make([]string, 0, len(buttons))
	for _, b := range buttons {
		parts = append(parts, "BTN "+b)
	}
	return strings.Join(parts, " ")
}
