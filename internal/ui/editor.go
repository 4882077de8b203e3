package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/printdeck/printdeck/internal/debounce"
	"github.com/printdeck/printdeck/internal/printbox"
)

// previewInfo is what we know about the last fetched preview render.
type previewInfo struct {
	size      int
	width     int
	height    int
	fetchedAt time.Time
}

// editorState holds the image settings editor. The slot coalesces bursts of
// setting changes into a single process request per quiet period.
type editorState struct {
	active   bool
	imageID  string
	x        int
	y        int
	autoFit  bool
	method   string
	rawMode  bool
	slot     *debounce.Slot
	applying bool
	preview  previewInfo
	err      string
}

func newEditorState() editorState {
	return editorState{slot: new(debounce.Slot)}
}

// openEditor seeds the editor from the image's current server-side settings.
func (m Model) openEditor(img printbox.Image) (tea.Model, tea.Cmd) {
	m.editor.active = true
	m.editor.imageID = img.ID
	m.editor.x = img.Position.X
	m.editor.y = img.Position.Y
	m.editor.autoFit = img.AutoFit
	m.editor.method = img.Method()
	m.editor.rawMode = img.RawMode
	m.editor.applying = false
	m.editor.preview = previewInfo{}
	m.editor.err = ""
	m.currentView = ViewEditor
	return m, m.previewCmd(img.ID)
}

// closeEditor cancels any pending write and returns to the gallery. A
// debounce tick already in flight will find its generation stale and do
// nothing.
func (m Model) closeEditor() Model {
	m.editor.slot.Cancel()
	m.editor.active = false
	m.editor.imageID = ""
	m.editor.applying = false
	m.editor.err = ""
	m.currentView = ViewGallery
	return m
}

// scheduleApply arms the debounce slot for the currently edited image.
func (m Model) scheduleApply() (tea.Model, tea.Cmd) {
	gen := m.editor.slot.Arm()
	return m, debounceCmd(m.debounce, gen, m.editor.imageID)
}

func (m Model) updateEditor(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case debounceFiredMsg:
		return m.handleDebounceFired(msg)

	case processDoneMsg:
		if !m.editor.active || m.editor.imageID != msg.imageID {
			return m, nil
		}
		m.editor.applying = false
		if msg.err != nil {
			m.editor.err = errText(msg.err)
			return m, nil
		}
		m.editor.err = ""
		return m, tea.Batch(m.reconcileCmd(), m.previewCmd(msg.imageID))

	case previewMsg:
		if !m.editor.active || m.editor.imageID != msg.imageID {
			return m, nil
		}
		if msg.err != nil {
			return m, nil
		}
		m.editor.preview = previewInfo{
			size:      msg.size,
			width:     msg.width,
			height:    msg.height,
			fetchedAt: time.Now(),
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleEditorKey(msg)
	}
	return m, nil
}

// handleDebounceFired turns a quiet period into one process request. Ticks
// from superseded or cancelled arms fail the generation check and are
// dropped. The image ID check guards against the slot having been re-armed
// for a different image between schedule and fire.
func (m Model) handleDebounceFired(msg debounceFiredMsg) (tea.Model, tea.Cmd) {
	if !m.editor.slot.Fire(msg.gen) {
		return m, nil
	}
	if !m.editor.active || m.editor.imageID != msg.imageID {
		return m, nil
	}
	m.editor.applying = true
	req := printbox.ProcessRequest{
		XOffset:      m.editor.x,
		YOffset:      m.editor.y,
		AutoFit:      m.editor.autoFit,
		DitherMethod: m.editor.method,
		RawMode:      m.editor.rawMode,
	}
	return m, m.processCmd(msg.imageID, req)
}

func (m Model) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.editor.active {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Escape):
		return m.closeEditor(), nil
	case key.Matches(msg, m.keys.Left):
		m.editor.x--
		return m.scheduleApply()
	case key.Matches(msg, m.keys.Right):
		m.editor.x++
		return m.scheduleApply()
	case key.Matches(msg, m.keys.NudgeUp):
		m.editor.y--
		return m.scheduleApply()
	case key.Matches(msg, m.keys.NudgeDown):
		m.editor.y++
		return m.scheduleApply()
	case key.Matches(msg, m.keys.AutoFit):
		m.editor.autoFit = !m.editor.autoFit
		return m.scheduleApply()
	case key.Matches(msg, m.keys.RawMode):
		m.editor.rawMode = !m.editor.rawMode
		return m.scheduleApply()
	case key.Matches(msg, m.keys.Dither):
		m.editor.method = nextDitherMethod(m.editor.method)
		return m.scheduleApply()
	case key.Matches(msg, m.keys.Print):
		m.flash = newFlash("printing...", flashInfo)
		return m, m.printCmd(m.editor.imageID)
	}
	return m, nil
}

func nextDitherMethod(current string) string {
	for i, method := range printbox.DitherMethods {
		if method == current {
			return printbox.DitherMethods[(i+1)%len(printbox.DitherMethods)]
		}
	}
	return printbox.DitherMethods[0]
}

func (m Model) renderEditor() string {
	img, ok := m.imageByID(m.editor.imageID)
	if !ok {
		return m.styles.MutedText.Render("image no longer available")
	}

	var b strings.Builder
	b.WriteString(m.styles.AccentText.Render("Editing " + img.Filename))
	b.WriteString("\n\n")

	onOff := func(v bool) string {
		if v {
			return m.styles.SuccessText.Render("on")
		}
		return m.styles.MutedText.Render("off")
	}

	rows := []string{
		fmt.Sprintf("  Offset    %+d, %+d", m.editor.x, m.editor.y),
		fmt.Sprintf("  Auto-fit  %s", onOff(m.editor.autoFit)),
		fmt.Sprintf("  Dither    %s", ternary(m.editor.rawMode,
			m.styles.MutedText.Render(m.editor.method),
			m.styles.Text.Render(m.editor.method))),
		fmt.Sprintf("  Raw mode  %s", onOff(m.editor.rawMode)),
	}
	b.WriteString(strings.Join(rows, "\n"))
	b.WriteString("\n\n")

	b.WriteString(m.renderPreviewPanel(img))

	if m.editor.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.DangerText.Render("processing failed: " + m.editor.err))
	}
	return b.String()
}

// renderPreviewPanel shows what the printer would produce. While a write is
// pending or in flight the panel is dimmed so stale output is never
// mistaken for current settings.
func (m Model) renderPreviewPanel(img printbox.Image) string {
	var lines []string
	if m.editor.preview.size > 0 {
		lines = append(lines, fmt.Sprintf("preview  %dx%d  %s",
			m.editor.preview.width,
			m.editor.preview.height,
			formatBytes(m.editor.preview.size)))
	} else {
		lines = append(lines, "preview pending")
	}
	if img.Processed {
		lines = append(lines, fmt.Sprintf("printed size %dx%d", img.ProcessedWidth, img.ProcessedHeight))
	}
	if m.serverCfg != nil && m.serverCfg.ImageSettings.MaxWidth > 0 {
		lines = append(lines, fmt.Sprintf("paper width %dpx", m.serverCfg.ImageSettings.MaxWidth))
	}

	panel := m.styles.Panel.Render(strings.Join(lines, "\n"))
	if m.editor.applying || m.editor.slot.Pending() {
		return m.styles.Dimmed.Render(panel) + "\n" + m.styles.MutedText.Render("applying...")
	}
	return panel
}
