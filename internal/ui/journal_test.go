package ui

import (
	"strings"
	"testing"

	"dayboard/internal/storage"
)

func newJournalPane(t *testing.T, store *storage.Store, days int) *JournalPane {
	t.Helper()
	pane := NewJournalPane(store, createTestStyles(), nil, testNow, days)
	pane.SetSize(60, 30)
	pane.SetFocused(true)
	pane.Update(pane.LoadCmd()())
	return pane
}

func TestJournalPaneView_Empty(t *testing.T) {
	setupTest(t)
	output := newJournalPane(t, createTestStore(t), 7).View()
	for _, want := range []string{"JOURNAL", "No entry", "Last 7 days", "Dec 15"} {
		if !strings.Contains(output, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestJournalPane_DefaultHistoryDays(t *testing.T) {
	pane := NewJournalPane(createTestStore(t), createTestStyles(), nil, testNow, 0)
	if pane.historyDays != 7 {
		t.Errorf("historyDays = %d, want 7", pane.historyDays)
	}
}

func TestJournalPane_HistoryBars(t *testing.T) {
	setupTest(t)
	store := createTestStore(t)
	read, _ := store.AddHabit("Read", "")
	if _, err := store.AddHabit("Run", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := store.ToggleHabit(read.ID, testNow); err != nil {
		t.Fatal(err)
	}

	pane := newJournalPane(t, store, 3)
	if len(pane.history) != 3 {
		t.Fatalf("history = %+v", pane.history)
	}
	output := pane.View()
	if !strings.Contains(output, " 50%") || !strings.Contains(output, "Dec 13") {
		t.Errorf("history chart:\n%s", output)
	}
	if strings.Contains(output, "Dec 12") {
		t.Error("chart should cover three days only")
	}
}

func TestJournalPane_EditSavesOnEsc(t *testing.T) {
	store := createTestStore(t)
	if err := store.UpdateLog(testNow, "draft"); err != nil {
		t.Fatal(err)
	}
	pane := newJournalPane(t, store, 7)

	pane.Update(keyRunes("e"))
	if !pane.IsEditing() || pane.editor.Value() != "draft" {
		t.Fatalf("editor = %v %q", pane.IsEditing(), pane.editor.Value())
	}

	pane.Update(keyRunes("!"))
	cmd := pane.Update(keyEsc)
	if pane.IsEditing() {
		t.Error("esc should close the editor")
	}
	if cmd == nil {
		t.Fatal("changed text should be saved")
	}
	saved, ok := cmd().(logSavedMsg)
	if !ok || saved.err != nil || saved.before != "draft" || saved.after != "draft!" {
		t.Fatalf("save result = %+v", saved)
	}
	if got := store.GetLog(testNow); got != "draft!" {
		t.Errorf("GetLog() = %q", got)
	}
}

func TestJournalPane_UnchangedTextIsNotSaved(t *testing.T) {
	pane := newJournalPane(t, createTestStore(t), 7)
	pane.Update(keyRunes("e"))
	if cmd := pane.Update(keyEsc); cmd != nil {
		t.Error("closing without changes should not write")
	}
}

func TestJournalPane_IgnoresStaleDay(t *testing.T) {
	pane := newJournalPane(t, createTestStore(t), 7)
	pane.Update(journalLoadedMsg{date: "2025-01-01", text: "old"})
	if pane.Text() != "" {
		t.Errorf("Text() = %q", pane.Text())
	}
}
