package ui

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"dayboard/internal/storage"

	"github.com/mattn/go-runewidth"
)

// maxHistorySize is how many actions Ctrl+Z can walk back through.
const maxHistorySize = 50

// UndoableAction is one reversible edit. Redo may be nil, in which case the
// action leaves the history once undone.
type UndoableAction struct {
	Description string
	Undo        func() error
	Redo        func() error
}

// UndoManager keeps the undo and redo stacks for a session. An action whose
// callback fails stays where it was, so the user can retry.
type UndoManager struct {
	mu   sync.Mutex
	done []*UndoableAction
	redo []*UndoableAction
}

func NewUndoManager() *UndoManager {
	return &UndoManager{}
}

// Push records a new action. Any redo history is discarded, and the oldest
// action is forgotten once the stack is full.
func (m *UndoManager) Push(action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.redo = nil
	if n := len(m.done); n >= maxHistorySize {
		m.done = append(m.done[:0], m.done[n-maxHistorySize+1:]...)
	}
	m.done = append(m.done, action)
}

func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.done) > 0
}

func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Undo reverts the latest action and returns its description. With nothing
// to undo it returns "" and nil.
func (m *UndoManager) Undo() (string, error) {
	return m.step(&m.done, &m.redo, func(a *UndoableAction) func() error { return a.Undo })
}

// Redo reapplies the latest undone action.
func (m *UndoManager) Redo() (string, error) {
	return m.step(&m.redo, &m.done, func(a *UndoableAction) func() error { return a.Redo })
}

// step pops from src, runs the callback outside the lock and, on success,
// moves the action to dst. Actions without a Redo are not moved to the redo
// stack.
func (m *UndoManager) step(src, dst *[]*UndoableAction, pick func(*UndoableAction) func() error) (string, error) {
	m.mu.Lock()
	n := len(*src)
	if n == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := (*src)[n-1]
	*src = (*src)[:n-1]
	m.mu.Unlock()

	err := pick(action)()

	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case err != nil:
		*src = append(*src, action)
		return "", err
	case dst == &m.redo && action.Redo == nil:
	default:
		*dst = append(*dst, action)
	}
	return action.Description, nil
}

// Clear forgets all history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.done, m.redo = nil, nil
}

// errGone means the item an action refers to has been removed since.
var errGone = errors.New("item no longer exists")

// requireApplied turns a NotFound outcome into errGone.
func requireApplied(outcome storage.Outcome, err error) error {
	if err != nil {
		return err
	}
	if outcome == storage.NotFound {
		return errGone
	}
	return nil
}

// todoFields builds a patch that sets every editable field of item.
func todoFields(item storage.TodoItem) storage.TodoPatch {
	return storage.TodoPatch{Text: &item.Text, Priority: &item.Priority, Status: &item.Status}
}

// NewChangeTodoAction reverts a toggle, status or priority change by writing
// back every field of before; redo writes after.
func NewChangeTodoAction(store *storage.Store, date time.Time, verb string, before, after storage.TodoItem) *UndoableAction {
	return &UndoableAction{
		Description: fmt.Sprintf("%s: %s", verb, truncateText(after.Text, 20)),
		Undo: func() error {
			return requireApplied(store.UpdateTodo(date, before.ID, todoFields(before)))
		},
		Redo: func() error {
			return requireApplied(store.UpdateTodo(date, after.ID, todoFields(after)))
		},
	}
}

// NewDeleteTodoAction puts a deleted todo back at index.
func NewDeleteTodoAction(store *storage.Store, date time.Time, item storage.TodoItem, index int) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted todo: " + truncateText(item.Text, 20),
		Undo: func() error {
			return store.RestoreTodo(date, item, index)
		},
		Redo: func() error {
			return requireApplied(store.DeleteTodo(date, item.ID))
		},
	}
}

// NewDeleteHabitAction puts a deleted habit back at index. Its completion
// marks survived the delete and count again once it is back.
func NewDeleteHabitAction(store *storage.Store, habit storage.Habit, index int) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted habit: " + truncateText(habit.Name, 20),
		Undo: func() error {
			return store.RestoreHabit(habit, index)
		},
		Redo: func() error {
			return requireApplied(store.DeleteHabit(habit.ID))
		},
	}
}

// NewToggleHabitAction sets the habit's mark on date back to wasCompleted.
func NewToggleHabitAction(store *storage.Store, habit storage.Habit, date time.Time, wasCompleted bool) *UndoableAction {
	desc := "Completed: " + truncateText(habit.Name, 20)
	if wasCompleted {
		desc = "Uncompleted: " + truncateText(habit.Name, 20)
	}
	return &UndoableAction{
		Description: desc,
		Undo: func() error {
			return store.SetHabitCompleted(habit.ID, date, wasCompleted)
		},
		Redo: func() error {
			return store.SetHabitCompleted(habit.ID, date, !wasCompleted)
		},
	}
}

// NewEditLogAction swaps the day's log text between before and after.
func NewEditLogAction(store *storage.Store, date time.Time, before, after string) *UndoableAction {
	return &UndoableAction{
		Description: "Edited log for " + storage.DisplayDate(date),
		Undo: func() error {
			return store.UpdateLog(date, before)
		},
		Redo: func() error {
			return store.UpdateLog(date, after)
		},
	}
}

// truncateText cuts text to maxLen cells, ending in "..".
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
