package ui

import (
	"time"

	"dayboard/internal/notify"
	"dayboard/internal/storage"

	tea "github.com/charmbracelet/bubbletea"
)

// loadTodosCmd returns a command that reads the todos of date.
func loadTodosCmd(store *storage.Store, date time.Time) tea.Cmd {
	return func() tea.Msg {
		return todosLoadedMsg{date: storage.FormatDate(date), todos: store.GetTodos(date)}
	}
}

// addTodoCmd returns a command that appends a todo to date's list.
func addTodoCmd(store *storage.Store, date time.Time, text string) tea.Cmd {
	return func() tea.Msg {
		item, err := store.AddTodo(date, text, "", "")
		return todoAddedMsg{item: item, err: err}
	}
}

// changeTodoCmd returns a command that edits a todo through the store. edit
// sees the item as stored at that moment, and the store hands back the item
// before and after for undo.
func changeTodoCmd(store *storage.Store, date time.Time, id, verb string, edit func(storage.TodoItem) storage.TodoPatch) tea.Cmd {
	return func() tea.Msg {
		before, after, outcome, err := store.EditTodo(date, id, edit)
		return todoChangedMsg{date: date, verb: verb, before: before, after: after, outcome: outcome, err: err}
	}
}

// toggleTodoCmd flips a todo between done and todo.
func toggleTodoCmd(store *storage.Store, date time.Time, id string) tea.Cmd {
	return changeTodoCmd(store, date, id, "Toggled", func(cur storage.TodoItem) storage.TodoPatch {
		done := !cur.Completed
		return storage.TodoPatch{Completed: &done}
	})
}

// cycleStatusCmd advances a todo's status todo -> doing -> done -> todo.
func cycleStatusCmd(store *storage.Store, date time.Time, id string) tea.Cmd {
	return changeTodoCmd(store, date, id, "Status", func(cur storage.TodoItem) storage.TodoPatch {
		next := cur.Status.Next()
		return storage.TodoPatch{Status: &next}
	})
}

// cyclePriorityCmd advances a todo's priority low -> medium -> high -> low.
func cyclePriorityCmd(store *storage.Store, date time.Time, id string) tea.Cmd {
	return changeTodoCmd(store, date, id, "Priority", func(cur storage.TodoItem) storage.TodoPatch {
		next := cur.Priority.Next()
		return storage.TodoPatch{Priority: &next}
	})
}

// deleteTodoCmd returns a command that removes a todo, keeping the item and
// its position for undo.
func deleteTodoCmd(store *storage.Store, date time.Time, id string) tea.Cmd {
	return func() tea.Msg {
		item, index, outcome, err := store.RemoveTodo(date, id)
		return todoDeletedMsg{date: date, item: item, index: index, outcome: outcome, err: err}
	}
}

// loadHabitsCmd returns a command that reads the habit list.
func loadHabitsCmd(store *storage.Store) tea.Cmd {
	return func() tea.Msg {
		return habitsLoadedMsg{habits: store.Habits()}
	}
}

// addHabitCmd returns a command that creates a new habit.
func addHabitCmd(store *storage.Store, name, emoji string) tea.Cmd {
	return func() tea.Msg {
		habit, err := store.AddHabit(name, emoji)
		return habitAddedMsg{habit: habit, err: err}
	}
}

// toggleHabitCmd returns a command that toggles a habit's completion on date.
// The previous mark is the opposite of the one the toggle set.
func toggleHabitCmd(store *storage.Store, habit storage.Habit, date time.Time) tea.Cmd {
	return func() tea.Msg {
		isDone, err := store.ToggleHabit(habit.ID, date)
		return habitToggledMsg{habit: habit, date: date, isDone: isDone, wasCompleted: !isDone, err: err}
	}
}

// deleteHabitCmd returns a command that removes a habit. Completion marks
// stay in the store, so restoring the habit restores its history.
func deleteHabitCmd(store *storage.Store, id string) tea.Cmd {
	return func() tea.Msg {
		habit, index, outcome, err := store.RemoveHabit(id)
		return habitDeletedMsg{habit: habit, index: index, outcome: outcome, err: err}
	}
}

// loadJournalCmd returns a command that reads date's log and the trailing
// completion history.
func loadJournalCmd(store *storage.Store, date time.Time, days int) tea.Cmd {
	return func() tea.Msg {
		return journalLoadedMsg{
			date:    storage.FormatDate(date),
			text:    store.GetLog(date),
			history: store.GetCompletionHistory(days),
		}
	}
}

// saveLogCmd returns a command that writes date's log.
func saveLogCmd(store *storage.Store, date time.Time, before, after string) tea.Cmd {
	return func() tea.Msg {
		err := store.UpdateLog(date, after)
		return logSavedMsg{date: date, before: before, after: after, err: err}
	}
}

// historyCmd undoes, or redoes when redo is set, the latest action.
func historyCmd(m *UndoManager, redo bool) tea.Cmd {
	return func() tea.Msg {
		step := m.Undo
		if redo {
			step = m.Redo
		}
		desc, err := step()
		return historyMsg{redo: redo, desc: desc, err: err}
	}
}

// reminderCmd checks today's habits against the reminder. Returns nil when no
// reminder is configured.
func reminderCmd(r *notify.Reminder, store *storage.Store) tea.Cmd {
	if r == nil {
		return nil
	}
	return func() tea.Msg {
		now := store.Now()
		done, total := store.CompletedHabits(now)
		sent, err := r.Check(now, done, total)
		return reminderMsg{sent: sent, err: err}
	}
}
