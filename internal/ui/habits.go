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
)

// habitField is the prompt the add flow is on. A habit is added in two
// steps: the name, then an optional emoji.
type habitField int

const (
	fieldNone habitField = iota
	fieldName
	fieldEmoji
)

var habitPrompts = map[habitField]struct {
	label, placeholder string
	limit              int
}{
	fieldName:  {"Name: ", "Habit name (e.g., Exercise)", 40},
	fieldEmoji: {"Emoji: ", "Emoji (e.g., 🏃), optional", 8},
}

// habitRowsTop is the row of the first habit inside the pane: border, title,
// rule and a blank line.
const habitRowsTop = 4

// HabitsPane lists the habits with their completion on the selected day,
// the seven days leading up to it and the current streak.
type HabitsPane struct {
	store  *storage.Store
	styles *Styles
	date   time.Time

	habits        []storage.Habit
	cursor        int
	focused       bool
	width, height int

	field   habitField
	name    string
	input   textinput.Model
	keys    HabitKeyMap
	editing InputKeyMap
}

func NewHabitsPane(store *storage.Store, styles *Styles, keyCfg *config.KeysConfig, date time.Time) *HabitsPane {
	p := &HabitsPane{
		store:   store,
		styles:  styles,
		date:    date,
		habits:  []storage.Habit{},
		input:   textinput.New(),
		keys:    NewHabitKeyMap(keyCfg),
		editing: NewInputKeyMap(keyCfg),
	}
	p.input.Width = 30
	p.prompt(fieldName)
	p.field = fieldNone
	return p
}

func (p *HabitsPane) LoadCmd() tea.Cmd { return loadHabitsCmd(p.store) }

func (p *HabitsPane) SetDate(date time.Time) { p.date = date }

func (p *HabitsPane) SetFocused(focused bool) { p.focused = focused }

func (p *HabitsPane) SetSize(width, height int) {
	p.width, p.height = width, height
	p.input.Width = max(10, width-10)
}

// IsAdding reports whether a habit is being typed in.
func (p *HabitsPane) IsAdding() bool { return p.field != fieldNone }

// Selected returns the habit under the cursor.
func (p *HabitsPane) Selected() (storage.Habit, bool) {
	if p.cursor < 0 || p.cursor >= len(p.habits) {
		return storage.Habit{}, false
	}
	return p.habits[p.cursor], true
}

// CompletionRate returns how many habits are done on the selected day.
func (p *HabitsPane) CompletionRate() (done, total int) {
	return p.store.CompletedHabits(p.date)
}

// setHabits replaces the list and keeps the cursor on it.
func (p *HabitsPane) setHabits(habits []storage.Habit) {
	p.habits = habits
	p.cursor = min(p.cursor, max(0, len(habits)-1))
}

// prompt switches the input to field and clears it.
func (p *HabitsPane) prompt(f habitField) {
	p.field = f
	p.input.Reset()
	if spec, ok := habitPrompts[f]; ok {
		p.input.Placeholder = spec.placeholder
		p.input.CharLimit = spec.limit
	}
}

func (p *HabitsPane) cancelAdd() {
	p.name = ""
	p.prompt(fieldName)
	p.field = fieldNone
}

func (p *HabitsPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case habitsLoadedMsg:
		p.setHabits(msg.habits)
		return nil
	case habitAddedMsg, habitDeletedMsg:
		return p.LoadCmd()
	case habitToggledMsg:
		// View reads completion from the store.
		return nil
	}

	if p.IsAdding() {
		return p.updateAdding(msg)
	}
	if !p.focused {
		return nil
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		return p.handleMouse(msg)
	case tea.KeyMsg:
		if next, ok := p.keys.navigate(msg, p.cursor, len(p.habits)); ok {
			p.cursor = next
			return nil
		}
		habit, selected := p.Selected()
		switch {
		case key.Matches(msg, p.keys.Add):
			p.prompt(fieldName)
			p.input.Focus()
			return textinput.Blink
		case key.Matches(msg, p.keys.Toggle) && selected:
			return toggleHabitCmd(p.store, habit, p.date)
		case key.Matches(msg, p.keys.Delete) && selected:
			return deleteHabitCmd(p.store, habit.ID)
		}
	}
	return nil
}

func (p *HabitsPane) updateAdding(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, p.editing.Cancel):
			p.cancelAdd()
			return nil
		case key.Matches(km, p.editing.Confirm):
			value := strings.TrimSpace(p.input.Value())
			if p.field == fieldName {
				// A blank name keeps the prompt open.
				if value != "" {
					p.name = value
					p.prompt(fieldEmoji)
				}
				return nil
			}
			name := p.name
			p.cancelAdd()
			return addHabitCmd(p.store, name, value)
		}
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// handleMouse scrolls with the wheel and selects on click. A click on the
// checkbox column also toggles the habit.
func (p *HabitsPane) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if len(p.habits) == 0 {
		return nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		p.cursor = max(p.cursor-1, 0)
	case tea.MouseButtonWheelDown:
		p.cursor = min(p.cursor+1, len(p.habits)-1)
	case tea.MouseButtonLeft:
		row := msg.Y - habitRowsTop
		if msg.Action != tea.MouseActionPress || row < 0 || row >= len(p.habits) {
			return nil
		}
		p.cursor = row
		// border, padding, "▶ " and "[x]"
		if msg.X < 7 {
			return toggleHabitCmd(p.store, p.habits[row], p.date)
		}
	}
	return nil
}

func (p *HabitsPane) View() string {
	muted := p.styles.StatLabelStyle.Render
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("🔥 HABITS") + "\n")
	rule := p.width - 4
	if rule < 10 {
		rule = 30
	}
	b.WriteString(muted(strings.Repeat("─", rule)) + "\n\n")

	switch {
	case len(p.habits) == 0 && !p.IsAdding():
		b.WriteString(muted("  No habits yet.") + "\n")
		b.WriteString(muted("  Press 'a' to add one.") + "\n")
	case len(p.habits) > 0:
		best := 0
		for i, habit := range p.habits {
			streak := p.store.HabitStreak(habit.ID, p.date)
			best = max(best, streak)
			b.WriteString(p.renderRow(habit, streak, i == p.cursor) + "\n")
		}

		done, total := p.CompletionRate()
		summary := fmt.Sprintf("%d/%d done · %d%%", done, total, p.store.GetCompletionRate(p.date))
		b.WriteString("\n  " + muted(summary) + "\n")
		if best > 0 {
			days := p.styles.HabitStreakStyle.Render(fmt.Sprintf("%d days", best))
			b.WriteString("  " + muted("Best streak: ") + days + "\n")
		}
	}

	if p.IsAdding() {
		label := p.styles.InputPromptStyle.Render(habitPrompts[p.field].label)
		b.WriteString("\n  " + label + p.input.View() + "\n")
	}

	frame := p.styles.PaneStyle
	if p.focused {
		frame = p.styles.PaneFocusedStyle
	}
	return frame.Width(p.width).Height(p.height).Render(b.String())
}

// renderRow draws one habit: cursor, checkbox for the selected day, name,
// the week ending on that day and the streak when it is longer than one day.
func (p *HabitsPane) renderRow(habit storage.Habit, streak int, atCursor bool) string {
	highlight := atCursor && p.focused && !p.IsAdding()

	var row strings.Builder
	if highlight {
		row.WriteString("▶ ")
	} else {
		row.WriteString("  ")
	}
	if p.store.IsHabitCompleted(habit.ID, p.date) {
		row.WriteString(p.styles.TaskCheckboxDone)
	} else {
		row.WriteString(p.styles.TaskCheckboxPending)
	}

	label := habit.Name
	if habit.Emoji != "" {
		label = habit.Emoji + " " + label
	}
	row.WriteString(" " + truncateText(label, max(8, p.width-30)) + "  ")

	for _, done := range p.store.HabitWeek(habit.ID, p.date) {
		if done {
			row.WriteString(p.styles.HabitDoneIcon)
		} else {
			row.WriteString(p.styles.HabitUndoneIcon)
		}
	}
	if streak > 1 {
		row.WriteString(" " + p.styles.HabitStreakStyle.Render(fmt.Sprintf("🔥%d", streak)))
	}

	if highlight {
		return p.styles.TaskSelectedStyle.Render(row.String())
	}
	return row.String()
}
