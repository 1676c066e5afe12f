package ui

import (
	"testing"

	"dayboard/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

func click(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}
}

func wheel(button tea.MouseButton) tea.MouseMsg {
	return tea.MouseMsg{X: 10, Y: 6, Button: button, Action: tea.MouseActionPress}
}

// At width 120 the panes start at columns 0, 40 and 79.
func TestApp_MousePaneSwitching(t *testing.T) {
	app := newTestApp(t, createTestStore(t), 120)

	if app.activePane != PaneTodos {
		t.Fatalf("initial pane = %v, want todos", app.activePane)
	}

	steps := []struct {
		x    int
		want PaneID
	}{
		{50, PaneHabits},
		{90, PaneJournal},
		{10, PaneTodos},
	}
	for _, s := range steps {
		press(app, click(s.x, 2))
		if app.activePane != s.want {
			t.Errorf("click at x=%d: pane = %v, want %v", s.x, app.activePane, s.want)
		}
	}
}

func TestApp_MouseNarrowTabs(t *testing.T) {
	app := newTestApp(t, createTestStore(t), 60)

	// The tab bar sits right above the content.
	press(app, click(45, app.contentTop-1))
	if app.activePane != PaneJournal {
		t.Errorf("pane = %v, want journal", app.activePane)
	}
	press(app, click(25, app.contentTop-1))
	if app.activePane != PaneHabits {
		t.Errorf("pane = %v, want habits", app.activePane)
	}
}

func TestApp_MouseClosesHelp(t *testing.T) {
	app := newTestApp(t, createTestStore(t), 120)
	app.Update(keyRunes("?"))

	press(app, click(90, 5))
	if app.showHelp {
		t.Error("click should close help")
	}
	if app.activePane != PaneTodos {
		t.Error("the closing click must not switch panes")
	}
}

func TestApp_MouseIgnoredWhileTyping(t *testing.T) {
	app := newTestApp(t, createTestStore(t), 120)
	app.Update(keyRunes("a"))

	press(app, click(90, 5))
	if app.activePane != PaneTodos || !app.todoPane.IsAdding() {
		t.Error("mouse should not interrupt input")
	}
}

func TestTodoPane_MouseSelectionAndToggle(t *testing.T) {
	store := createTestStore(t)
	for _, text := range []string{"First", "Second", "Third"} {
		if _, err := store.AddTodo(testNow, text, storage.PriorityLow, ""); err != nil {
			t.Fatal(err)
		}
	}
	app := newTestApp(t, store, 120)

	// Rows start below the title bar, the border, the title and the separator.
	press(app, click(20, 5))
	if app.todoPane.cursor != 1 {
		t.Errorf("cursor = %d, want 1", app.todoPane.cursor)
	}
	if store.GetTodos(testNow)[1].Completed {
		t.Error("clicking the text should only select")
	}

	press(app, click(4, 6))
	if app.todoPane.cursor != 2 {
		t.Errorf("cursor = %d, want 2", app.todoPane.cursor)
	}
	if !store.GetTodos(testNow)[2].Completed {
		t.Error("clicking the checkbox should toggle")
	}
}

func TestTodoPane_MouseScroll(t *testing.T) {
	store := createTestStore(t)
	for _, text := range []string{"a", "b", "c"} {
		if _, err := store.AddTodo(testNow, text, "", ""); err != nil {
			t.Fatal(err)
		}
	}
	app := newTestApp(t, store, 120)

	steps := []struct {
		button tea.MouseButton
		want   int
	}{
		{tea.MouseButtonWheelDown, 1},
		{tea.MouseButtonWheelDown, 2},
		{tea.MouseButtonWheelDown, 2},
		{tea.MouseButtonWheelUp, 1},
	}
	for _, s := range steps {
		press(app, wheel(s.button))
		if app.todoPane.cursor != s.want {
			t.Errorf("cursor = %d, want %d", app.todoPane.cursor, s.want)
		}
	}
}

func TestHabitsPane_MouseSelectionAndToggle(t *testing.T) {
	store := createTestStore(t)
	if _, err := store.AddHabit("Read", ""); err != nil {
		t.Fatal(err)
	}
	run, _ := store.AddHabit("Run", "")
	app := newTestApp(t, store, 120)

	// Habit rows have one blank line above them.
	press(app, click(43, 6))
	if app.activePane != PaneHabits {
		t.Fatalf("pane = %v, want habits", app.activePane)
	}
	if app.habitsPane.cursor != 1 {
		t.Errorf("cursor = %d, want 1", app.habitsPane.cursor)
	}
	if !store.IsHabitCompleted(run.ID, testNow) {
		t.Error("clicking the checkbox should complete the habit")
	}

	press(app, click(60, 5))
	if app.habitsPane.cursor != 0 {
		t.Errorf("cursor = %d, want 0", app.habitsPane.cursor)
	}
	if done, _ := store.CompletedHabits(testNow); done != 1 {
		t.Errorf("done = %d, clicking the name should not toggle", done)
	}
}

func TestApp_PaneAtPosition(t *testing.T) {
	app := newTestApp(t, createTestStore(t), 120)

	tests := []struct {
		x    int
		want PaneID
	}{
		{0, PaneTodos},
		{38, PaneTodos},
		{39, -1},
		{40, PaneHabits},
		{77, PaneHabits},
		{79, PaneJournal},
		{115, PaneJournal},
		{117, -1},
	}
	for _, tt := range tests {
		if got := app.paneAt(tt.x); got != tt.want {
			t.Errorf("paneAt(%d) = %v, want %v", tt.x, got, tt.want)
		}
	}

	app.Update(tea.WindowSizeMsg{Width: 60, Height: 30})
	app.setActivePane(PaneHabits)
	if got := app.paneAt(5); got != PaneHabits {
		t.Errorf("narrow paneAt() = %v, want the active pane", got)
	}
}
