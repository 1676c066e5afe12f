package ui

import (
	"strings"

	"dayboard/internal/config"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// splitKeys reads a comma-separated override from the config file, such as
// "q, ctrl+c". "space" names the space bar. An empty or blank override keeps
// the defaults.
func splitKeys(override string, defaults []string) []string {
	var keys []string
	for _, k := range strings.Split(override, ",") {
		switch k = strings.TrimSpace(k); k {
		case "":
		case "space":
			keys = append(keys, " ")
		default:
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return defaults
	}
	return keys
}

// bind makes a binding whose keys come from override when set. The help
// label always shows the default key.
func bind(override, label, desc string, defaults ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(splitKeys(override, defaults)...),
		key.WithHelp(label, desc),
	)
}

func orEmpty(cfg *config.KeysConfig) *config.KeysConfig {
	if cfg == nil {
		return &config.KeysConfig{}
	}
	return cfg
}

// GlobalKeyMap holds the keys that work in every pane outside text input.
type GlobalKeyMap struct {
	Quit, Help, NextPane    key.Binding
	Pane1, Pane2, Pane3     key.Binding
	PrevDay, NextDay, Today key.Binding
	Undo, Redo              key.Binding
}

func NewGlobalKeyMap(cfg *config.KeysConfig) GlobalKeyMap {
	cfg = orEmpty(cfg)
	return GlobalKeyMap{
		Quit:     bind(cfg.Quit, "q", "quit", "q", "ctrl+c"),
		Help:     bind(cfg.Help, "?", "help", "?"),
		NextPane: bind(cfg.NextPane, "tab", "next pane", "tab"),
		Pane1:    bind(cfg.Pane1, "1", "todos", "1"),
		Pane2:    bind(cfg.Pane2, "2", "habits", "2"),
		Pane3:    bind(cfg.Pane3, "3", "journal", "3"),
		PrevDay:  bind(cfg.PrevDay, "[", "prev day", "["),
		NextDay:  bind(cfg.NextDay, "]", "next day", "]"),
		Today:    bind(cfg.Today, "t", "today", "t"),
		Undo:     bind(cfg.Undo, "ctrl+z", "undo", "ctrl+z", "u"),
		Redo:     bind(cfg.Redo, "ctrl+y", "redo", "ctrl+y"),
	}
}

// NavigationKeyMap moves the cursor in the list panes.
type NavigationKeyMap struct {
	Up, Down, Top, Bottom key.Binding
}

func NewNavigationKeyMap(cfg *config.KeysConfig) NavigationKeyMap {
	cfg = orEmpty(cfg)
	return NavigationKeyMap{
		Up:     bind(cfg.Up, "k/↑", "up", "k", "up"),
		Down:   bind(cfg.Down, "j/↓", "down", "j", "down"),
		Top:    bind(cfg.Top, "g", "top", "g"),
		Bottom: bind(cfg.Bottom, "G", "bottom", "G"),
	}
}

// navigate applies a navigation key to cursor over n items. ok is false when
// msg is not a navigation key.
func (k NavigationKeyMap) navigate(msg tea.KeyMsg, cursor, n int) (next int, ok bool) {
	if n == 0 {
		return 0, key.Matches(msg, k.Up, k.Down, k.Top, k.Bottom)
	}
	switch {
	case key.Matches(msg, k.Down):
		return min(cursor+1, n-1), true
	case key.Matches(msg, k.Up):
		return max(cursor-1, 0), true
	case key.Matches(msg, k.Top):
		return 0, true
	case key.Matches(msg, k.Bottom):
		return n - 1, true
	}
	return cursor, false
}

// InputKeyMap applies while a text field has focus.
type InputKeyMap struct {
	Confirm, Cancel key.Binding
}

func NewInputKeyMap(cfg *config.KeysConfig) InputKeyMap {
	cfg = orEmpty(cfg)
	return InputKeyMap{
		Confirm: bind(cfg.Confirm, "enter", "confirm", "enter"),
		Cancel:  bind(cfg.Cancel, "esc", "cancel", "esc"),
	}
}

type TodoKeyMap struct {
	Add, Toggle, CycleStatus, CyclePriority, Delete key.Binding
	NavigationKeyMap
}

func NewTodoKeyMap(cfg *config.KeysConfig) TodoKeyMap {
	cfg = orEmpty(cfg)
	return TodoKeyMap{
		Add:              bind(cfg.Add, "a", "add todo", "a"),
		Toggle:           bind(cfg.Toggle, "d/space", "toggle done", "d", "enter", " "),
		CycleStatus:      bind(cfg.CycleStatus, "s", "status", "s"),
		CyclePriority:    bind(cfg.CyclePriority, "p", "priority", "p"),
		Delete:           bind(cfg.Delete, "x", "delete", "x"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

type HabitKeyMap struct {
	Add, Toggle, Delete key.Binding
	NavigationKeyMap
}

func NewHabitKeyMap(cfg *config.KeysConfig) HabitKeyMap {
	cfg = orEmpty(cfg)
	return HabitKeyMap{
		Add:              bind(cfg.Add, "a", "add habit", "a"),
		Toggle:           bind(cfg.Toggle, "space", "toggle", " ", "enter", "d"),
		Delete:           bind(cfg.Delete, "x", "delete", "x"),
		NavigationKeyMap: NewNavigationKeyMap(cfg),
	}
}

// JournalKeyMap starts and ends editing. Save is always esc because enter
// inserts a newline while editing.
type JournalKeyMap struct {
	Edit, Save key.Binding
}

func NewJournalKeyMap(cfg *config.KeysConfig) JournalKeyMap {
	cfg = orEmpty(cfg)
	return JournalKeyMap{
		Edit: bind(cfg.EditLog, "e", "edit log", "e", "enter"),
		Save: bind("", "esc", "save", "esc"),
	}
}

// HelpKeyMap closes the help overlay. It is not configurable.
type HelpKeyMap struct {
	Close key.Binding
}

func DefaultHelpKeyMap() HelpKeyMap {
	return HelpKeyMap{
		Close: bind("", "any key", "close", "?", "esc", "q", "enter", " "),
	}
}
