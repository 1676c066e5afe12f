package ui

import (
	"time"

	"dayboard/internal/storage"
)

// Store commands report back with these messages. Mutations carry enough
// of the old state for the App to push an undo action.

type todosLoadedMsg struct {
	date  string // YYYY-MM-DD
	todos []storage.TodoItem
}

type todoAddedMsg struct {
	item storage.TodoItem
	err  error
}

// todoChangedMsg follows a toggle, status or priority change.
type todoChangedMsg struct {
	date          time.Time
	verb          string // "Toggled", "Status" or "Priority"
	before, after storage.TodoItem
	outcome       storage.Outcome
	err           error
}

type todoDeletedMsg struct {
	date    time.Time
	item    storage.TodoItem
	index   int // position before deletion, where undo puts it back
	outcome storage.Outcome
	err     error
}

type habitsLoadedMsg struct {
	habits []storage.Habit
}

type habitAddedMsg struct {
	habit storage.Habit
	err   error
}

// habitToggledMsg keeps the toggled day, which may differ from the
// selected day by the time it arrives.
type habitToggledMsg struct {
	habit        storage.Habit
	date         time.Time
	isDone       bool
	wasCompleted bool
	err          error
}

type habitDeletedMsg struct {
	habit   storage.Habit
	index   int
	outcome storage.Outcome
	err     error
}

// journalLoadedMsg carries a day's log and the completion history window.
type journalLoadedMsg struct {
	date    string
	text    string
	history []storage.HistoryPoint
}

type logSavedMsg struct {
	date          time.Time
	before, after string
	err           error
}

type reminderMsg struct {
	sent bool
	err  error
}

// historyMsg is the result of an undo, or a redo when redo is set. desc is
// empty when there was nothing to do.
type historyMsg struct {
	redo bool
	desc string
	err  error
}
