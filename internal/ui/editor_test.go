package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/config"
	"github.com/printdeck/printdeck/internal/printbox"
)

func testModel(t *testing.T, handler http.Handler) (Model, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	client, err := printbox.NewClient(u.Host)
	require.NoError(t, err)

	cfg := config.Default()
	m := New(Options{Client: client, Config: &cfg})
	m.ready = true
	return m, srv
}

func asModel(t *testing.T, tm tea.Model) Model {
	t.Helper()
	m, ok := tm.(Model)
	require.True(t, ok)
	return m
}

func pressKey(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	tm, cmd := m.Update(k)
	return asModel(t, tm), cmd
}

func rightArrow() tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRight} }

func TestEditorBurstSendsSingleRequest(t *testing.T) {
	var processed atomic.Int64
	var lastReq printbox.ProcessRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/api/images/img-1/process", func(w http.ResponseWriter, r *http.Request) {
		processed.Add(1)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))
		json.NewEncoder(w).Encode(printbox.Image{ID: "img-1", Processed: true})
	})

	m, _ := testModel(t, mux)
	m.images = []printbox.Image{{ID: "img-1", Filename: "a.png"}}
	m.imagesLoaded = true

	tm, _ := m.openEditor(m.images[0])
	m = asModel(t, tm)
	require.True(t, m.editor.active)

	// Three rapid nudges arm the slot three times; only the last
	// generation survives.
	for i := 0; i < 3; i++ {
		var cmd tea.Cmd
		m, cmd = pressKey(t, m, rightArrow())
		require.NotNil(t, cmd)
	}
	require.Equal(t, 3, m.editor.x)

	// The first two timers fire with stale generations and are dropped.
	for gen := uint64(1); gen <= 2; gen++ {
		tm, cmd := m.Update(debounceFiredMsg{gen: gen, imageID: "img-1"})
		m = asModel(t, tm)
		require.Nil(t, cmd)
	}
	require.EqualValues(t, 0, processed.Load())

	tm2, cmd := m.Update(debounceFiredMsg{gen: 3, imageID: "img-1"})
	m = asModel(t, tm2)
	require.NotNil(t, cmd)
	require.True(t, m.editor.applying)

	msg := cmd()
	done, ok := msg.(processDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)
	require.EqualValues(t, 1, processed.Load())
	require.Equal(t, 3, lastReq.XOffset)
}

func TestEditorCloseDropsPendingWrite(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	m, _ := testModel(t, mux)
	m.images = []printbox.Image{{ID: "img-1", Filename: "a.png"}}
	m.imagesLoaded = true

	tm, _ := m.openEditor(m.images[0])
	m = asModel(t, tm)

	m, _ = pressKey(t, m, rightArrow())
	require.True(t, m.editor.slot.Pending())

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	require.False(t, m.editor.active)
	require.Equal(t, ViewGallery, m.currentView)

	tm2, cmd := m.Update(debounceFiredMsg{gen: 1, imageID: "img-1"})
	m = asModel(t, tm2)
	require.Nil(t, cmd)
	require.False(t, m.editor.applying)
}

func TestEditorFireForDifferentImageDropped(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	m, _ := testModel(t, mux)
	m.images = []printbox.Image{
		{ID: "img-1", Filename: "a.png"},
		{ID: "img-2", Filename: "b.png"},
	}
	m.imagesLoaded = true

	tm, _ := m.openEditor(m.images[0])
	m = asModel(t, tm)

	m, _ = pressKey(t, m, rightArrow())

	// The editor has moved on to another image by the time the timer
	// fires; the generation is current but the target is not.
	m.editor.imageID = "img-2"
	tm2, cmd := m.Update(debounceFiredMsg{gen: 1, imageID: "img-1"})
	m = asModel(t, tm2)
	require.Nil(t, cmd)
	require.False(t, m.editor.applying)
}

func TestEditorShowsServerErrorVerbatim(t *testing.T) {
	m, _ := testModel(t, http.NewServeMux())
	m.images = []printbox.Image{{ID: "img-1", Filename: "a.png"}}
	m.imagesLoaded = true
	tm, _ := m.openEditor(m.images[0])
	m = asModel(t, tm)
	m.editor.applying = true

	apiErr := &printbox.APIError{StatusCode: 500, Message: "dither method not supported"}
	tm2, _ := m.Update(processDoneMsg{imageID: "img-1", err: apiErr})
	m = asModel(t, tm2)
	require.False(t, m.editor.applying)
	require.Equal(t, "dither method not supported", m.editor.err)
}

func TestNextDitherMethodCycles(t *testing.T) {
	require.Equal(t, "atkinson", nextDitherMethod("floyd_steinberg"))
	require.Equal(t, "floyd_steinberg", nextDitherMethod("none"))
	require.Equal(t, "floyd_steinberg", nextDitherMethod("bogus"))
}
