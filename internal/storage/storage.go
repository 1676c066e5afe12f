// Package storage owns the dashboard's persisted data: habits, completion
// marks, daily logs and dated todos. A Store holds the single in-memory
// document and writes it through a Codec to a durable Slot after every change.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Outcome tells callers whether a mutation by id found its target.
type Outcome int

const (
	NotFound Outcome = iota
	Applied
)

func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "not found"
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for save diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now for date-relative queries and id generation.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.SetNowFunc(now) }
}

// change describes a mutation for log output.
type change struct {
	Operation string // add, toggle, update, delete, restore, prune, replace
	ItemType  string // habit, todo, log, completion, state
	ItemName  string
}

// Store owns the application state for the lifetime of the process.
// Methods are safe to call from Bubble Tea command goroutines.
type Store struct {
	mu      sync.Mutex
	codec   *Codec
	state   *AppState
	loadErr error
	now     func() time.Time // injectable clock for deterministic tests
	logger  *zap.Logger
}

// Open loads the state through codec. Loading never fails; if the durable
// content had to be recovered, LoadDiagnostic reports what happened.
func Open(codec *Codec, opts ...Option) *Store {
	s := &Store{codec: codec, now: time.Now, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.state, s.loadErr = codec.Load()
	return s
}

// SetNowFunc overrides the clock used by time-dependent operations.
// Passing nil resets it to time.Now.
func (s *Store) SetNowFunc(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// Now returns the current time according to the store clock.
func (s *Store) Now() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// LoadDiagnostic returns the recovery note produced when the state was
// loaded, or nil if the durable content was read cleanly.
func (s *Store) LoadDiagnostic() error {
	return s.loadErr
}

// SlotName returns the name of the durable slot behind the store.
func (s *Store) SlotName() string {
	return s.codec.Slot().Name()
}

// Close releases the slot if it holds resources.
func (s *Store) Close() error {
	if c, ok := s.codec.Slot().(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Store) persist(c change) error {
	if err := s.codec.Save(s.state); err != nil {
		s.logger.Error("save failed",
			zap.String("op", c.Operation),
			zap.String("type", c.ItemType),
			zap.String("name", c.ItemName),
			zap.Error(err))
		return err
	}
	s.logger.Debug("state saved",
		zap.String("op", c.Operation),
		zap.String("type", c.ItemType),
		zap.String("name", c.ItemName))
	return nil
}

// truncateName shortens s for log output.
func truncateName(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-1]) + "…"
}

// ============================================================================
// Snapshot
// ============================================================================

// Snapshot returns a deep copy of the whole document.
func (s *Store) Snapshot() *AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Replace swaps in a whole document, e.g. when restoring a backup.
func (s *Store) Replace(state *AppState) error {
	if state == nil {
		return errors.New("state is required")
	}
	next := state.Clone()
	if err := normalize(next); err != nil {
		return fmt.Errorf("invalid state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	return s.persist(change{Operation: "replace", ItemType: "state"})
}

// ============================================================================
// Logs
// ============================================================================

// GetLog returns the log text for date, or "" if there is none.
func (s *Store) GetLog(date time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Logs[FormatDate(date)]
}

// UpdateLog overwrites the log entry for date. An empty text is stored too.
func (s *Store) UpdateLog(date time.Time, text string) error {
	key := FormatDate(date)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Logs[key] = text
	return s.persist(change{Operation: "update", ItemType: "log", ItemName: key})
}

// ============================================================================
// Todos
// ============================================================================

// TodoPatch carries the fields UpdateTodo should change. Nil fields are left
// alone. Status takes precedence over Completed when both are set.
type TodoPatch struct {
	Text      *string
	Priority  *Priority
	Status    *Status
	Completed *bool
}

func (p TodoPatch) validate() error {
	if p.Priority != nil && !p.Priority.Valid() {
		return fmt.Errorf("invalid priority %q: must be low, medium, or high", *p.Priority)
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("invalid status %q: must be todo, doing, or done", *p.Status)
	}
	return nil
}

// GetTodos returns a copy of date's todos in display order.
func (s *Store) GetTodos(date time.Time) []TodoItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.state.Todos[FormatDate(date)]
	out := make([]TodoItem, len(items))
	copy(out, items)
	return out
}

// AddTodo appends a todo to date's list. Empty priority and status default to
// medium and todo.
func (s *Store) AddTodo(date time.Time, text string, priority Priority, status Status) (TodoItem, error) {
	if priority != "" && !priority.Valid() {
		return TodoItem{}, fmt.Errorf("invalid priority %q: must be low, medium, or high", priority)
	}
	if status != "" && !status.Valid() {
		return TodoItem{}, fmt.Errorf("invalid status %q: must be todo, doing, or done", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item := NewTodoItem(date, text, priority, status, s.allTodos(), s.Now())
	key := item.CreatedAt
	s.state.Todos[key] = append(s.state.Todos[key], item)

	return item, s.persist(change{Operation: "add", ItemType: "todo", ItemName: truncateName(text, 50)})
}

// ToggleTodo flips a todo between done and todo.
func (s *Store) ToggleTodo(date time.Time, id string) (Outcome, error) {
	_, _, outcome, err := s.editTodo("toggle", date, id, func(cur TodoItem) TodoPatch {
		done := !cur.Completed
		return TodoPatch{Completed: &done}
	})
	return outcome, err
}

// UpdateTodo merges patch into the matching todo.
func (s *Store) UpdateTodo(date time.Time, id string, patch TodoPatch) (Outcome, error) {
	if err := patch.validate(); err != nil {
		return NotFound, err
	}
	_, _, outcome, err := s.editTodo("update", date, id, func(TodoItem) TodoPatch { return patch })
	return outcome, err
}

// EditTodo derives a patch from the todo as it currently is and applies it in
// one step, returning the item before and after.
func (s *Store) EditTodo(date time.Time, id string, edit func(TodoItem) TodoPatch) (before, after TodoItem, outcome Outcome, err error) {
	return s.editTodo("update", date, id, edit)
}

func (s *Store) editTodo(op string, date time.Time, id string, edit func(TodoItem) TodoPatch) (before, after TodoItem, outcome Outcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := s.findTodo(FormatDate(date), id)
	if item == nil {
		return TodoItem{}, TodoItem{}, NotFound, nil
	}
	patch := edit(*item)
	if err := patch.validate(); err != nil {
		return *item, *item, NotFound, err
	}
	before = *item
	if patch.Text != nil {
		item.Text = *patch.Text
	}
	if patch.Priority != nil {
		item.Priority = *patch.Priority
	}
	switch {
	case patch.Status != nil:
		item.setStatus(*patch.Status)
	case patch.Completed != nil && *patch.Completed:
		item.setStatus(StatusDone)
	case patch.Completed != nil:
		item.setStatus(StatusTodo)
	}
	return before, *item, Applied, s.persist(change{Operation: op, ItemType: "todo", ItemName: truncateName(item.Text, 50)})
}

// DeleteTodo removes a todo from date's list.
func (s *Store) DeleteTodo(date time.Time, id string) (Outcome, error) {
	_, _, outcome, err := s.RemoveTodo(date, id)
	return outcome, err
}

// RemoveTodo is DeleteTodo that also returns the removed item and the index
// it had, for putting it back later.
func (s *Store) RemoveTodo(date time.Time, id string) (item TodoItem, index int, outcome Outcome, err error) {
	key := FormatDate(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.state.Todos[key]
	for i := range items {
		if items[i].ID == id {
			item = items[i]
			s.state.Todos[key] = append(items[:i:i], items[i+1:]...)
			return item, i, Applied, s.persist(change{Operation: "delete", ItemType: "todo", ItemName: truncateName(item.Text, 50)})
		}
	}
	return TodoItem{}, -1, NotFound, nil
}

// RestoreTodo puts a previously deleted todo back at index (clamped) in
// date's list. It is used by undo and keeps the original id.
func (s *Store) RestoreTodo(date time.Time, item TodoItem, index int) error {
	if item.ID == "" {
		return errors.New("todo id is required")
	}
	if item.Priority == "" {
		item.Priority = PriorityMedium
	}
	if !item.Priority.Valid() {
		return fmt.Errorf("invalid priority %q", item.Priority)
	}
	if !item.Status.Valid() {
		return fmt.Errorf("invalid status %q", item.Status)
	}
	item.setStatus(item.Status)
	key := FormatDate(date)
	if item.CreatedAt == "" {
		item.CreatedAt = key
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.allTodos() {
		if existing.ID == item.ID {
			return fmt.Errorf("todo already exists: %s", item.ID)
		}
	}
	items := s.state.Todos[key]
	index = max(0, min(index, len(items)))
	items = append(items, TodoItem{})
	copy(items[index+1:], items[index:])
	items[index] = item
	s.state.Todos[key] = items

	return s.persist(change{Operation: "restore", ItemType: "todo", ItemName: truncateName(item.Text, 50)})
}

func (s *Store) findTodo(key, id string) *TodoItem {
	items := s.state.Todos[key]
	for i := range items {
		if items[i].ID == id {
			return &items[i]
		}
	}
	return nil
}

func (s *Store) allTodos() []TodoItem {
	var all []TodoItem
	for _, items := range s.state.Todos {
		all = append(all, items...)
	}
	return all
}

// ============================================================================
// Habits
// ============================================================================

// Habits returns a copy of the habit list in display order.
func (s *Store) Habits() []Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Habit, len(s.state.Habits))
	copy(out, s.state.Habits)
	return out
}

// Habit looks up a habit by id.
func (s *Store) Habit(id string) (Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.state.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// AddHabit appends a new habit.
func (s *Store) AddHabit(name, emoji string) (Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habit := NewHabit(name, emoji, s.state.Habits, s.Now())
	s.state.Habits = append(s.state.Habits, habit)
	return habit, s.persist(change{Operation: "add", ItemType: "habit", ItemName: truncateName(name, 50)})
}

// DeleteHabit removes a habit. Its completion marks are kept, so history
// survives and an undo brings the habit back with its record intact.
func (s *Store) DeleteHabit(id string) (Outcome, error) {
	_, _, outcome, err := s.RemoveHabit(id)
	return outcome, err
}

// RemoveHabit is DeleteHabit that also returns the habit and its index.
func (s *Store) RemoveHabit(id string) (habit Habit, index int, outcome Outcome, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Habits {
		if s.state.Habits[i].ID == id {
			habit = s.state.Habits[i]
			s.state.Habits = append(s.state.Habits[:i:i], s.state.Habits[i+1:]...)
			return habit, i, Applied, s.persist(change{Operation: "delete", ItemType: "habit", ItemName: truncateName(habit.Name, 50)})
		}
	}
	return Habit{}, -1, NotFound, nil
}

// RestoreHabit reinserts a deleted habit at index (clamped), keeping its id.
func (s *Store) RestoreHabit(habit Habit, index int) error {
	if habit.ID == "" {
		return errors.New("habit id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.state.Habits {
		if existing.ID == habit.ID {
			return fmt.Errorf("habit already exists: %s", habit.ID)
		}
	}
	habits := s.state.Habits
	index = max(0, min(index, len(habits)))
	habits = append(habits, Habit{})
	copy(habits[index+1:], habits[index:])
	habits[index] = habit
	s.state.Habits = habits

	return s.persist(change{Operation: "restore", ItemType: "habit", ItemName: truncateName(habit.Name, 50)})
}

// IsHabitCompleted reports the completion mark for habitID on date.
func (s *Store) IsHabitCompleted(habitID string, date time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Completions[CompletionKey(habitID, FormatDate(date))]
}

// ToggleHabit flips the completion mark for habitID on date and returns the
// new value. The habit does not need to exist.
func (s *Store) ToggleHabit(habitID string, date time.Time) (bool, error) {
	key := CompletionKey(habitID, FormatDate(date))

	s.mu.Lock()
	defer s.mu.Unlock()

	done := !s.state.Completions[key]
	s.state.Completions[key] = done
	return done, s.persist(change{Operation: "toggle", ItemType: "completion", ItemName: key})
}

// SetHabitCompleted sets the completion mark to an explicit value.
func (s *Store) SetHabitCompleted(habitID string, date time.Time, done bool) error {
	key := CompletionKey(habitID, FormatDate(date))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Completions[key] = done
	return s.persist(change{Operation: "update", ItemType: "completion", ItemName: key})
}

// PruneCompletions drops marks whose habit no longer exists and returns how
// many were removed.
func (s *Store) PruneCompletions() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := make(map[string]struct{}, len(s.state.Habits))
	for _, h := range s.state.Habits {
		live[h.ID] = struct{}{}
	}
	removed := 0
	for key := range s.state.Completions {
		habitID, _, ok := SplitCompletionKey(key)
		if !ok {
			continue
		}
		if _, exists := live[habitID]; !exists {
			delete(s.state.Completions, key)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}
	return removed, s.persist(change{Operation: "prune", ItemType: "completion", ItemName: fmt.Sprintf("%d marks", removed)})
}

// ============================================================================
// Completion rates
// ============================================================================

// GetCompletionRate returns round(100 * done / habits) for date, or 0 when
// there are no habits.
func (s *Store) GetCompletionRate(date time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.completionRate(FormatDate(date))
}

func (s *Store) completionRate(dateKey string) int {
	total := len(s.state.Habits)
	if total == 0 {
		return 0
	}
	done := 0
	for _, h := range s.state.Habits {
		if s.state.Completions[CompletionKey(h.ID, dateKey)] {
			done++
		}
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}
