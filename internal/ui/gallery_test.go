package ui

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/printdeck/printdeck/internal/printbox"
)

func galleryFixture(t *testing.T, handler http.Handler) Model {
	t.Helper()
	m, _ := testModel(t, handler)
	m.images = []printbox.Image{
		{ID: "img-a", Filename: "cat.png", Timestamp: 100},
		{ID: "img-b", Filename: "dog.png", Timestamp: 200},
		{ID: "img-c", Filename: "fox.png", Timestamp: 300},
	}
	m.imagesLoaded = true
	m.serverCfg = &printbox.Config{
		ButtonAssignments: printbox.Assignments{"1": "img-a", "2": "img-b", "3": "", "4": ""},
	}
	m.assignments = m.serverCfg.ButtonAssignments.Clone()
	return m
}

func TestAssignTogglePreservesSiblings(t *testing.T) {
	var body map[string]json.RawMessage
	var assignments map[string]*string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		require.NoError(t, json.Unmarshal(body["button_assignments"], &assignments))
		w.Write([]byte(`{"success": true}`))
	})

	m := galleryFixture(t, mux)
	m.selected = 2 // img-c

	m, cmd := pressKey(t, m, keyRune('2'))
	require.NotNil(t, cmd)

	// Optimistic copy updates before the server answers.
	require.Equal(t, "img-c", m.assignments["2"])
	require.Equal(t, "img-a", m.assignments["1"])

	msg := cmd()
	done, ok := msg.(assignDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.err)

	// The write carries the complete map: the untouched buttons are
	// present, and unassigned ones are null.
	require.Len(t, body, 1)
	require.Len(t, assignments, 4)
	require.Equal(t, "img-a", *assignments["1"])
	require.Equal(t, "img-c", *assignments["2"])
	require.Nil(t, assignments["3"])
	require.Nil(t, assignments["4"])
}

func TestAssignToggleClearsOwnBinding(t *testing.T) {
	m := galleryFixture(t, http.NewServeMux())
	m.selected = 0 // img-a, already bound to button 1

	m, cmd := pressKey(t, m, keyRune('1'))
	require.NotNil(t, cmd)
	require.Equal(t, "", m.assignments["1"])
	require.Equal(t, "img-b", m.assignments["2"])
}

func TestDeleteOfOpenImageClosesEditor(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(printbox.Config{})
	})
	mux.HandleFunc("/api/images", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	m := galleryFixture(t, mux)
	tm, _ := m.openEditor(m.images[0])
	m = asModel(t, tm)
	require.Equal(t, ViewEditor, m.currentView)

	tm, cmd := m.Update(deleteDoneMsg{imageID: "img-a"})
	m = asModel(t, tm)
	require.False(t, m.editor.active)
	require.Equal(t, ViewGallery, m.currentView)
	require.NotNil(t, cmd) // reconcile follows every delete
}

func TestReconcileClosesEditorWhenImageVanishes(t *testing.T) {
	m := galleryFixture(t, http.NewServeMux())
	tm, _ := m.openEditor(m.images[1])
	m = asModel(t, tm)

	tm, _ = m.Update(reconciledMsg{
		cfg: &printbox.Config{ButtonAssignments: printbox.Assignments{}},
		images: []printbox.Image{
			{ID: "img-a", Filename: "cat.png", Timestamp: 100},
		},
	})
	m = asModel(t, tm)
	require.False(t, m.editor.active)
	require.Equal(t, ViewGallery, m.currentView)
	require.Len(t, m.images, 1)
}

func TestReconcileClampsSelection(t *testing.T) {
	m := galleryFixture(t, http.NewServeMux())
	m.selected = 2

	tm, _ := m.Update(reconciledMsg{
		cfg:    &printbox.Config{ButtonAssignments: printbox.Assignments{}},
		images: []printbox.Image{{ID: "img-a", Filename: "cat.png"}},
	})
	m = asModel(t, tm)
	require.Equal(t, 0, m.selected)
}

func TestEmptyGalleryShowsUploadHint(t *testing.T) {
	m, _ := testModel(t, http.NewServeMux())
	m.imagesLoaded = true

	out := m.renderGallery()
	require.Contains(t, out, "No images uploaded yet")
}

func TestBadgesJoinSortedButtons(t *testing.T) {
	m := galleryFixture(t, http.NewServeMux())
	m.assignments = printbox.Assignments{"1": "img-x", "3": "img-x", "2": "", "4": ""}
	require.Equal(t, "BTN 1 BTN 3", m.badgesFor("img-x"))
	require.Equal(t, "", m.badgesFor("img-y"))
}

func TestGalleryRowShowsModeAndBadge(t *testing.T) {
	m, _ := testModel(t, http.NewServeMux())
	m.imagesLoaded = true
	m.images = []printbox.Image{
		{ID: "img-a", Filename: "cat.png", RawMode: true, DitherMethod: "atkinson"},
	}
	m.assignments = printbox.Assignments{"1": "img-a", "2": "", "3": "", "4": ""}

	out := m.renderGallery()
	require.Contains(t, out, "RAW")
	require.NotContains(t, out, "ATKINSON")
	require.Contains(t, out, "BTN 1")
}

func TestUploadInputEscapeCancels(t *testing.T) {
	m := galleryFixture(t, http.NewServeMux())

	m, _ = pressKey(t, m, keyRune('u'))
	require.True(t, m.uploadMode)

	m, cmd := pressKey(t, m, tea.KeyMsg{Type: tea.KeyEscape})
	require.False(t, m.uploadMode)
	require.Nil(t, cmd)
}

func TestViewCycleSkipsEditor(t *testing.T) {
	m := galleryFixture(t, http.NewServeMux())
	tm, _ := m.openEditor(m.images[0])
	m = asModel(t, tm)
	require.Equal(t, ViewEditor, m.currentView)

	m, _ = pressKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, ViewPrinter, m.currentView)
	require.False(t, m.editor.active)
}
