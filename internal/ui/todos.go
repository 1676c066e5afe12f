package ui

import (
	"fmt"
	"strings"
	"time"

	"dayboard/internal/config"
	"dayboard/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	// todoRowsTop is the row of the first todo: border, title and rule.
	todoRowsTop = 3
	// todoChrome is every row of the pane that is not a todo.
	todoChrome = 6
	// todoCheckEnd is the first column past the priority mark and checkbox.
	todoCheckEnd = 8
)

// TodoPane is the selected day's todo list. Todos are added with a one-line
// prompt and changed in place through the store.
type TodoPane struct {
	store  *storage.Store
	styles *Styles
	date   time.Time

	todos         []storage.TodoItem
	cursor        int
	focused       bool
	width, height int

	adding  bool
	input   textinput.Model
	keys    TodoKeyMap
	editing InputKeyMap
}

func NewTodoPane(store *storage.Store, styles *Styles, keyCfg *config.KeysConfig, date time.Time) *TodoPane {
	input := textinput.New()
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 200
	input.Width = 40

	return &TodoPane{
		store:   store,
		styles:  styles,
		date:    date,
		todos:   []storage.TodoItem{},
		focused: true,
		input:   input,
		keys:    NewTodoKeyMap(keyCfg),
		editing: NewInputKeyMap(keyCfg),
	}
}

func (p *TodoPane) LoadCmd() tea.Cmd { return loadTodosCmd(p.store, p.date) }

// SetDate moves the pane to date and returns the command loading it.
func (p *TodoPane) SetDate(date time.Time) tea.Cmd {
	p.date, p.cursor = date, 0
	return p.LoadCmd()
}

func (p *TodoPane) SetFocused(focused bool) { p.focused = focused }

func (p *TodoPane) SetSize(width, height int) {
	p.width, p.height = width, height
	p.input.Width = max(10, width-6)
}

// IsAdding reports whether a todo is being typed in.
func (p *TodoPane) IsAdding() bool { return p.adding }

// Selected returns the todo under the cursor.
func (p *TodoPane) Selected() (storage.TodoItem, bool) {
	if p.cursor < 0 || p.cursor >= len(p.todos) {
		return storage.TodoItem{}, false
	}
	return p.todos[p.cursor], true
}

// Stats returns how many of the day's todos are completed.
func (p *TodoPane) Stats() (done, total int) {
	for _, item := range p.todos {
		if item.Completed {
			done++
		}
	}
	return done, len(p.todos)
}

// setTodos takes a loaded list. A list for another day arrived after the
// pane moved on and is dropped.
func (p *TodoPane) setTodos(date string, todos []storage.TodoItem) {
	if date != storage.FormatDate(p.date) {
		return
	}
	p.todos = todos
	p.cursor = min(p.cursor, max(0, len(todos)-1))
}

func (p *TodoPane) stopAdding() {
	p.adding = false
	p.input.Reset()
}

func (p *TodoPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		p.setTodos(msg.date, msg.todos)
		return nil
	case todoAddedMsg, todoChangedMsg, todoDeletedMsg:
		return p.LoadCmd()
	}

	if p.adding {
		return p.updateAdding(msg)
	}
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)
	case tea.KeyMsg:
		if next, ok := p.keys.navigate(msg, p.cursor, len(p.todos)); ok {
			p.cursor = next
			return nil
		}
		if key.Matches(msg, p.keys.Add) {
			p.adding = true
			p.input.Focus()
			return textinput.Blink
		}
		item, ok := p.Selected()
		if !ok {
			return nil
		}
		switch {
		case key.Matches(msg, p.keys.Toggle):
			return toggleTodoCmd(p.store, p.date, item.ID)
		case key.Matches(msg, p.keys.CycleStatus):
			return cycleStatusCmd(p.store, p.date, item.ID)
		case key.Matches(msg, p.keys.CyclePriority):
			return cyclePriorityCmd(p.store, p.date, item.ID)
		case key.Matches(msg, p.keys.Delete):
			return deleteTodoCmd(p.store, p.date, item.ID)
		}
	}
	return nil
}

// updateAdding feeds the prompt. Enter on blank text just closes it.
func (p *TodoPane) updateAdding(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, p.editing.Cancel):
			p.stopAdding()
			return nil
		case key.Matches(km, p.editing.Confirm):
			text := strings.TrimSpace(p.input.Value())
			p.stopAdding()
			if text == "" {
				return nil
			}
			return addTodoCmd(p.store, p.date, text)
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// rows is how many todos fit in the pane; never fewer than three.
func (p *TodoPane) rows() int {
	if n := p.height - todoChrome; n >= 3 {
		return n
	}
	return 5
}

// firstVisible is the index of the top row, scrolled so the cursor shows.
func (p *TodoPane) firstVisible() int {
	return max(0, p.cursor-p.rows()+1)
}

// handleMouse scrolls with the wheel and selects on click. A click left of
// the text also toggles the todo.
func (p *TodoPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.todos) == 0 {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.todos)-1)
	case tea.MouseButtonLeft:
		row := msg.Y - todoRowsTop
		if msg.Action != tea.MouseActionPress || row < 0 || row >= p.rows() {
			return nil
		}
		idx := p.firstVisible() + row
		if idx >= len(p.todos) {
			return nil
		}
		p.cursor = idx
		if msg.X < todoCheckEnd {
			return toggleTodoCmd(p.store, p.date, p.todos[idx].ID)
		}
	}
	return nil
}

func (p *TodoPane) View() string {
	muted := p.styles.StatLabelStyle.Render
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("✅ TODOS") + "\n")
	rule := p.width - 4
	if rule < 10 {
		rule = 30
	}
	b.WriteString(fg(p.styles.ColorMuted).Render(strings.Repeat("─", rule)) + "\n")

	if len(p.todos) == 0 && !p.adding {
		empty := fg(p.styles.ColorTextMuted).Italic(true)
		b.WriteString(empty.Render("  Nothing planned. Press 'a' to add a todo.") + "\n")
	} else {
		top := p.firstVisible()
		for i := top; i < min(len(p.todos), top+p.rows()); i++ {
			b.WriteString(p.renderRow(p.todos[i], i == p.cursor) + "\n")
		}
		done, total := p.Stats()
		b.WriteString("\n  " + muted(fmt.Sprintf("%d/%d complete", done, total)) + "\n")
	}

	if p.adding {
		b.WriteString("\n" + p.styles.InputPromptStyle.Render("+ ") + p.input.View() + "\n")
	}

	frame := p.styles.PaneStyle
	if p.focused {
		frame = p.styles.PaneFocusedStyle
	}
	return frame.Width(p.width).Height(p.height).Render(b.String())
}

// renderRow draws priority mark, checkbox and text, with the status word
// pushed to the right edge.
func (p *TodoPane) renderRow(item storage.TodoItem, atCursor bool) string {
	mark, status := p.priorityMark(item.Priority), p.statusWord(item.Status)
	box := p.styles.TaskCheckboxPending
	if item.Completed {
		box = p.styles.TaskCheckboxDone
	}

	room := max(5, p.width-4-(lipgloss.Width(status)+7))
	text := runewidth.Truncate(item.Text, room, "..")
	gap := strings.Repeat(" ", max(1, room-runewidth.StringWidth(text)))

	if atCursor && p.focused && !p.adding {
		return p.styles.TaskSelectedStyle.Render(" " + mark + box + " " + text + gap + status + " ")
	}
	if item.Completed {
		text = p.styles.TaskDoneStyle.Render(text)
	} else {
		text = p.styles.TaskPendingStyle.Render(text)
	}
	return " " + mark + box + " " + text + gap + status
}

// priorityMark is "!" for high, "~" for medium and blank for low.
func (p *TodoPane) priorityMark(priority storage.Priority) string {
	switch priority {
	case storage.PriorityHigh:
		return p.styles.PriorityHighStyle.Render("!")
	case storage.PriorityMedium:
		return p.styles.PriorityMediumStyle.Render("~")
	}
	return " "
}

func (p *TodoPane) statusWord(status storage.Status) string {
	switch status {
	case storage.StatusDoing:
		return p.styles.StatusDoingStyle.Render("doing")
	case storage.StatusDone:
		return p.styles.StatusDoneStyle.Render("done")
	}
	return p.styles.StatusTodoStyle.Render("todo")
}
