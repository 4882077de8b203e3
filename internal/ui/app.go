package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/printdeck/printdeck/internal/config"
	"github.com/printdeck/printdeck/internal/prefs"
	"github.com/printdeck/printdeck/internal/printbox"
	"github.com/printdeck/printdeck/internal/state"
)

// View identifies one of the top-level screens.
type View int

const (
	ViewGallery View = iota
	ViewEditor
	ViewPrinter
	ViewButtons
)

func (v View) String() string {
	switch v {
	case ViewGallery:
		return "Gallery"
	case ViewEditor:
		return "Editor"
	case ViewPrinter:
		return "Printer"
	case ViewButtons:
		return "Buttons"
	default:
		return "Unknown"
	}
}

// Options configures the UI program.
type Options struct {
	Context   context.Context
	Client    *printbox.Client
	Store     *state.Store
	Config    *config.Config
	Refresh   func(context.Context)
	ThemeName string
	PrefsPath string
}

type flashLevel int

const (
	flashInfo flashLevel = iota
	flashSuccess
	flashError
)

type flash struct {
	text  string
	level flashLevel
	until time.Time
}

// Model is the top-level bubbletea model. All server interaction happens in
// commands; Update only moves state.
type Model struct {
	ctx       context.Context
	client    *printbox.Client
	store     *state.Store
	refresh   func(context.Context)
	prefsPath string

	pollEvery   time.Duration
	scanTimeout time.Duration
	debounce    time.Duration

	theme  Theme
	styles Styles
	keys   keyMap

	currentView View
	width       int
	height      int
	ready       bool
	showHelp    bool

	snapshot state.Snapshot

	// serverCfg and images are the last reconciled server view. assignments
	// is the optimistic working copy the UI edits ahead of confirmation.
	serverCfg    *printbox.Config
	assignments  printbox.Assignments
	images       []printbox.Image
	imagesLoaded bool

	selected    int
	uploadMode  bool
	uploadInput textinput.Model

	confirm confirmState
	editor  editorState
	printer printerState
	buttons buttonsState

	flash flash
}

// New builds the initial model from options, applying defaults for any
// unset durations.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		d := config.Default()
		cfg = &d
	}
	theme := GetTheme(opts.ThemeName)
	m := Model{
		ctx:         opts.Context,
		client:      opts.Client,
		store:       opts.Store,
		refresh:     opts.Refresh,
		prefsPath:   opts.PrefsPath,
		pollEvery:   cfg.PollEvery,
		scanTimeout: cfg.ScanTimeout,
		debounce:    cfg.Debounce,
		theme:       theme,
		styles:      theme.Styles(),
		keys:        DefaultKeyMap(),
		currentView: ViewGallery,
		uploadInput: newTextInput("path to image file", 256),
		editor:      newEditorState(),
		printer:     newPrinterState(theme),
		buttons:     newButtonsState(),
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.pollEvery <= 0 {
		m.pollEvery = 5 * time.Second
	}
	if m.scanTimeout <= 0 {
		m.scanTimeout = 20 * time.Second
	}
	if m.debounce <= 0 {
		m.debounce = 600 * time.Millisecond
	}
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.fetchSnapshotCmd(),
		m.reconcileCmd(),
		tickCmd(m.pollEvery),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchSnapshotCmd(), tickCmd(m.pollEvery))

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case reconciledMsg:
		return m.handleReconciled(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// View-scoped messages.
	switch msg.(type) {
	case debounceFiredMsg, processDoneMsg, previewMsg:
		return m.updateEditor(msg)
	case scanDoneMsg, switchDoneMsg, protocolDoneMsg, connectDoneMsg,
		reconnectDoneMsg, reconnectLabelMsg, disconnectDoneMsg,
		unpairDoneMsg, testPrintDoneMsg, spinner.TickMsg:
		return m.updatePrinter(msg)
	case gpioMsg, simulateDoneMsg:
		return m.updateButtons(msg)
	case uploadDoneMsg, deleteDoneMsg, printDoneMsg, assignDoneMsg:
		return m.updateGallery(msg)
	}
	return m, nil
}

// handleReconciled applies a fresh config + gallery pair. The optimistic
// assignment copy is replaced wholesale; any in-flight edit the server
// rejected simply disappears here.
func (m Model) handleReconciled(msg reconciledMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.flash = newFlash(classifyConnectionError(msg.err), flashError)
		return m, nil
	}
	m.serverCfg = msg.cfg
	m.assignments = msg.cfg.ButtonAssignments.Clone()
	m.images = msg.images
	m.imagesLoaded = true
	if m.selected >= len(m.images) {
		m.selected = len(m.images) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}

	var cmd tea.Cmd
	if m.editor.active {
		if _, ok := m.imageByID(m.editor.imageID); !ok {
			m = m.closeEditor()
		} else {
			cmd = m.previewCmd(m.editor.imageID)
		}
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Text entry modes swallow everything except their own exit keys.
	if m.uploadMode {
		return m.updateUploadInput(msg)
	}
	if m.printer.macMode {
		return m.updatePrinter(msg)
	}
	if m.confirm.kind != confirmNone {
		return m.updateConfirm(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help) && !m.editor.active:
		m.showHelp = !m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		return m.cycleTheme()
	case key.Matches(msg, m.keys.Tab):
		return m.switchView(1)
	case key.Matches(msg, m.keys.ShiftTab):
		return m.switchView(-1)
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	switch m.currentView {
	case ViewGallery:
		return m.updateGallery(msg)
	case ViewEditor:
		return m.updateEditor(msg)
	case ViewPrinter:
		return m.updatePrinter(msg)
	case ViewButtons:
		return m.updateButtons(msg)
	}
	return m, nil
}

// switchView cycles between Gallery, Printer, and Buttons. The editor is not
// part of the cycle; leaving it cancels any pending debounced write.
func (m Model) switchView(dir int) (tea.Model, tea.Cmd) {
	if m.editor.active {
		m = m.closeEditor()
	}
	order := []View{ViewGallery, ViewPrinter, ViewButtons}
	cur := 0
	for i, v := range order {
		if v == m.currentView {
			cur = i
			break
		}
	}
	m.currentView = order[(cur+dir+len(order))%len(order)]
	if m.currentView == ViewButtons {
		return m, m.gpioCmd()
	}
	return m, nil
}

func (m Model) cycleTheme() (tea.Model, tea.Cmd) {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.styles = m.theme.Styles()
	m.printer.spin.Style = m.styles.AccentText
	path := m.prefsPath
	name := m.theme.Name
	return m, func() tea.Msg {
		_ = prefs.Save(path, prefs.Prefs{Theme: name})
		return nil
	}
}

func (m Model) imageByID(id string) (printbox.Image, bool) {
	for _, img := range m.images {
		if img.ID == id {
			return img, true
		}
	}
	return printbox.Image{}, false
}

func (m Model) selectedImage() (printbox.Image, bool) {
	if m.selected < 0 || m.selected >= len(m.images) {
		return printbox.Image{}, false
	}
	return m.images[m.selected], true
}

func newFlash(text string, level flashLevel) flash {
	return flash{text: text, level: level, until: time.Now().Add(4 * time.Second)}
}

func (m Model) flashLine() string {
	if m.flash.text == "" || time.Now().After(m.flash.until) {
		return ""
	}
	switch m.flash.level {
	case flashError:
		return m.styles.DangerText.Render(m.flash.text)
	case flashSuccess:
		return m.styles.SuccessText.Render(m.flash.text)
	default:
		return m.styles.MutedText.Render(m.flash.text)
	}
}

func (m Model) View() string {
	if !m.ready {
		return "starting printdeck..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var body string
	switch m.currentView {
	case ViewGallery:
		body = m.renderGallery()
	case ViewEditor:
		body = m.renderEditor()
	case ViewPrinter:
		body = m.renderPrinter()
	case ViewButtons:
		body = m.renderButtons()
	}

	out := m.renderHeader() + "\n" + body
	if line := m.flashLine(); line != "" {
		out += "\n" + line
	}
	return out + "\n" + m.renderCommandBar()
}

// Run starts the UI and blocks until the user quits or ctx is cancelled.
func Run(opts Options) error {
	p := tea.NewProgram(New(opts),
		tea.WithAltScreen(),
		tea.WithContext(opts.Context),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	return nil
}
