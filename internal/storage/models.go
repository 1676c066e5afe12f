package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Priority represents todo priority levels
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityLow
	}
}

// Status is the workflow state of a todo item.
type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDoing, StatusDone:
		return true
	}
	return false
}

// Next cycles todo -> doing -> done -> todo.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusDoing
	case StatusDoing:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Habit is a recurring activity tracked per calendar day.
type Habit struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// TodoItem is a dated task. Completed is persisted for compatibility with
// existing documents but always mirrors Status == StatusDone.
type TodoItem struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	Completed bool     `json:"completed"`
	Status    Status   `json:"status"`
	Priority  Priority `json:"priority"`
	CreatedAt string   `json:"createdAt"` // YYYY-MM-DD
}

// setStatus updates Status and keeps Completed derived from it.
func (t *TodoItem) setStatus(s Status) {
	t.Status = s
	t.Completed = s == StatusDone
}

// AppState is the whole persisted document.
type AppState struct {
	Habits      []Habit               `json:"habits"`
	Completions map[string]bool       `json:"completions"`
	Logs        map[string]string     `json:"logs"`
	Todos       map[string][]TodoItem `json:"todos"`
}

// DefaultState returns the empty document used for first runs and for
// recovering from unreadable content.
func DefaultState() *AppState {
	return &AppState{
		Habits:      []Habit{},
		Completions: map[string]bool{},
		Logs:        map[string]string{},
		Todos:       map[string][]TodoItem{},
	}
}

// Clone returns a deep copy of the state.
func (s *AppState) Clone() *AppState {
	out := &AppState{
		Habits:      make([]Habit, len(s.Habits)),
		Completions: make(map[string]bool, len(s.Completions)),
		Logs:        make(map[string]string, len(s.Logs)),
		Todos:       make(map[string][]TodoItem, len(s.Todos)),
	}
	copy(out.Habits, s.Habits)
	for k, v := range s.Completions {
		out.Completions[k] = v
	}
	for k, v := range s.Logs {
		out.Logs[k] = v
	}
	for k, items := range s.Todos {
		cp := make([]TodoItem, len(items))
		copy(cp, items)
		out.Todos[k] = cp
	}
	return out
}

// CompletionKey builds the completion map key for a habit on a day.
func CompletionKey(habitID, dateKey string) string {
	return habitID + "-" + dateKey
}

// SplitCompletionKey is the inverse of CompletionKey. The date is always the
// trailing ten characters, so habit ids containing '-' still split correctly.
// The habit part may be empty: the store marks any id it is given.
func SplitCompletionKey(key string) (habitID, dateKey string, ok bool) {
	if len(key) < len(dateLayout)+1 {
		return "", "", false
	}
	cut := len(key) - len(dateLayout)
	if key[cut-1] != '-' {
		return "", "", false
	}
	habitID, dateKey = key[:cut-1], key[cut:]
	if _, err := time.Parse(dateLayout, dateKey); err != nil {
		return "", "", false
	}
	return habitID, dateKey, true
}

// newID returns "<prefix>_<unix-millis>_<random>". The random suffix comes
// from a v4 UUID.
func newID(prefix string, now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s_%d_%s", prefix, now.UnixMilli(), suffix)
}

// uniqueID draws ids until one is not taken.
func uniqueID(prefix string, now time.Time, taken func(string) bool) string {
	for {
		id := newID(prefix, now)
		if !taken(id) {
			return id
		}
	}
}

// NewHabit builds a habit whose id is unique among existing.
func NewHabit(name, emoji string, existing []Habit, now time.Time) Habit {
	id := uniqueID("h", now, func(id string) bool {
		for _, h := range existing {
			if h.ID == id {
				return true
			}
		}
		return false
	})
	return Habit{ID: id, Name: name, Emoji: emoji}
}

// NewTodoItem builds a todo for the given day. Zero-value priority and status
// default to medium and todo; the id is unique among existing.
func NewTodoItem(date time.Time, text string, priority Priority, status Status, existing []TodoItem, now time.Time) TodoItem {
	if priority == "" {
		priority = PriorityMedium
	}
	if status == "" {
		status = StatusTodo
	}
	id := uniqueID("t", now, func(id string) bool {
		for _, t := range existing {
			if t.ID == id {
				return true
			}
		}
		return false
	})
	item := TodoItem{
		ID:        id,
		Text:      text,
		Priority:  priority,
		CreatedAt: FormatDate(date),
	}
	item.setStatus(status)
	return item
}
