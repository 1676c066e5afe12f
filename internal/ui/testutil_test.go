package ui

import (
	"testing"
	"time"

	"dayboard/internal/config"
	"dayboard/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// testNow is a Monday.
var testNow = time.Date(2025, 12, 15, 12, 0, 0, 0, time.Local)

// setupTest disables colors so rendered output can be matched as text.
func setupTest(t *testing.T) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
}

// createTestStore returns an in-memory store whose clock is frozen at testNow.
func createTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store := storage.Open(
		storage.NewCodec(storage.NewMemorySlot("state"), nil),
		storage.WithClock(func() time.Time { return testNow }),
	)
	if err := store.LoadDiagnostic(); err != nil {
		t.Fatalf("fresh store reported %v", err)
	}
	return store
}

// createTestStyles creates a default Styles instance for testing.
func createTestStyles() *Styles {
	return NewStylesFromTheme(&config.ThemeConfig{})
}

// newTestApp builds an app without the welcome overlay or confirmations.
func newTestApp(t *testing.T, store *storage.Store, width int) *App {
	t.Helper()
	app := NewApp(store, createTestStyles(), &AppConfig{
		Keys:                  &config.KeysConfig{},
		NarrowLayoutThreshold: 80,
		HistoryDays:           7,
	})
	app.Update(tea.WindowSizeMsg{Width: width, Height: 30})
	runCmd(app, app.reloadAll(), 0)
	return app
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyUndo  = tea.KeyMsg{Type: tea.KeyCtrlZ}
	keyRedo  = tea.KeyMsg{Type: tea.KeyCtrlY}
)

// press sends each message to the app and runs the resulting commands.
func press(app *App, msgs ...tea.Msg) {
	for _, msg := range msgs {
		_, cmd := app.Update(msg)
		runCmd(app, cmd, 0)
	}
}

// isAppMsg reports whether msg is produced by a store or notifier command.
func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case todosLoadedMsg, todoAddedMsg, todoChangedMsg, todoDeletedMsg,
		habitsLoadedMsg, habitAddedMsg, habitToggledMsg, habitDeletedMsg,
		journalLoadedMsg, logSavedMsg, reminderMsg,
		historyMsg:
		return true
	}
	return false
}

// runCmd executes cmd and feeds store results back into the app until the
// chain settles. Timers and cursor blinks are dropped.
func runCmd(app *App, cmd tea.Cmd, depth int) {
	if cmd == nil || depth > 10 {
		return
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			runCmd(app, c, depth+1)
		}
		return
	}
	if !isAppMsg(msg) {
		return
	}
	_, next := app.Update(msg)
	runCmd(app, next, depth+1)
}
