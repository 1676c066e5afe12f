// Package ui is the dayboard terminal dashboard: a Bubble Tea program with
// a todo pane, a habits pane and a journal pane for one selected day.
//
// Panes never touch the store directly from Update. They return commands
// that call the Store and report back with a message (see messages.go), and
// App pushes an undo action for every mutation that went through.
package ui

import (
	"fmt"
	"strings"
	"time"

	"dayboard/internal/config"
	"dayboard/internal/notify"
	"dayboard/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// PaneID is a pane's position, left to right.
type PaneID int

const (
	PaneTodos PaneID = iota
	PaneHabits
	PaneJournal
)

// AppConfig carries the settings from the config file that the TUI uses.
type AppConfig struct {
	Keys                  *config.KeysConfig
	ConfirmDeletions      bool
	ShowOnboarding        bool
	NarrowLayoutThreshold int
	HistoryDays           int

	// Reminder, when set, is checked once a minute against today's habits.
	Reminder *notify.Reminder
}

// App is the root model. It owns the selected day and hands it to the
// panes, routes keys and store results, and draws the frame around them.
type App struct {
	store  *storage.Store
	styles *Styles
	config *AppConfig
	keys   GlobalKeyMap

	todoPane    *TodoPane
	habitsPane  *HabitsPane
	journalPane *JournalPane
	activePane  PaneID
	date        time.Time

	undoManager *UndoManager
	undoBusy    bool // an undo or redo command is in flight

	// Overlays, in drawing priority.
	showWelcome bool
	confirmDel  *confirmDeleteState
	showHelp    bool
	helpOverlay *HelpOverlay
	helpKeys    HelpKeyMap

	status   statusLine
	quitting bool

	lastReminderCheck time.Time

	width, height int
	layoutMode    LayoutMode
	// Column range of each pane and the first row below the header, for
	// mouse hit testing.
	paneStart, paneEnd [3]int
	contentTop         int
}

// NewApp builds the dashboard on today's date. A nil cfg uses the config
// defaults. Nothing is read from the store until Init.
func NewApp(store *storage.Store, styles *Styles, cfg *AppConfig) *App {
	if cfg == nil {
		cfg = &AppConfig{
			ConfirmDeletions:      true,
			ShowOnboarding:        true,
			NarrowLayoutThreshold: defaultNarrowThreshold,
			HistoryDays:           config.DefaultHistoryDays,
		}
	}
	if cfg.Keys == nil {
		cfg.Keys = &config.KeysConfig{}
	}

	today := storage.StartOfDay(store.Now())

	app := &App{
		store:       store,
		styles:      styles,
		config:      cfg,
		todoPane:    NewTodoPane(store, styles, cfg.Keys, today),
		habitsPane:  NewHabitsPane(store, styles, cfg.Keys, today),
		journalPane: NewJournalPane(store, styles, cfg.Keys, today, cfg.HistoryDays),
		helpOverlay: NewHelpOverlay(styles),
		undoManager: NewUndoManager(),
		date:        today,
		showWelcome: cfg.ShowOnboarding && isFirstRun(store),
		keys:        NewGlobalKeyMap(cfg.Keys),
		helpKeys:    DefaultHelpKeyMap(),
	}
	app.setActivePane(PaneTodos)
	return app
}

// isFirstRun reports whether the store holds nothing at all.
func isFirstRun(store *storage.Store) bool {
	state := store.Snapshot()
	return len(state.Habits) == 0 && len(state.Completions) == 0 &&
		len(state.Logs) == 0 && len(state.Todos) == 0
}

// tickMsg drives status expiry and the reminder check.
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the clock and loads all panes asynchronously.
func (a *App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), a.reloadAll())
}

// reloadAll refreshes every pane from the store.
func (a *App) reloadAll() tea.Cmd {
	return tea.Batch(
		a.todoPane.LoadCmd(),
		a.habitsPane.LoadCmd(),
		a.journalPane.LoadCmd(),
	)
}

// Date returns the selected day.
func (a *App) Date() time.Time {
	return a.date
}

// setDate moves every pane to date.
func (a *App) setDate(date time.Time) tea.Cmd {
	a.date = storage.StartOfDay(date)
	a.habitsPane.SetDate(a.date)
	return tea.Batch(
		a.todoPane.SetDate(a.date),
		a.journalPane.SetDate(a.date),
	)
}

// inInputMode reports whether a pane is capturing keystrokes.
func (a *App) inInputMode() bool {
	return a.todoPane.IsAdding() || a.habitsPane.IsAdding() || a.journalPane.IsEditing()
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Store results go to their pane whichever pane is active.
	switch msg := msg.(type) {
	case todosLoadedMsg:
		return a, a.todoPane.Update(msg)

	case todoAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add todo: "+msg.err.Error(), true)
		}
		return a, a.todoPane.Update(msg)

	case todoChangedMsg:
		switch {
		case msg.err != nil:
			a.SetStatus(msg.verb+": "+msg.err.Error(), true)
		case msg.outcome == storage.NotFound:
			a.SetStatus("Todo not found", true)
		default:
			a.undoManager.Push(NewChangeTodoAction(a.store, msg.date, msg.verb, msg.before, msg.after))
		}
		return a, a.todoPane.Update(msg)

	case todoDeletedMsg:
		switch {
		case msg.err != nil:
			a.SetStatus("Delete todo: "+msg.err.Error(), true)
		case msg.outcome == storage.Applied:
			a.undoManager.Push(NewDeleteTodoAction(a.store, msg.date, msg.item, msg.index))
		}
		return a, a.todoPane.Update(msg)

	case habitsLoadedMsg:
		return a, a.habitsPane.Update(msg)

	case habitAddedMsg:
		if msg.err != nil {
			a.SetStatus("Add habit: "+msg.err.Error(), true)
		}
		return a, tea.Batch(a.habitsPane.Update(msg), a.journalPane.LoadCmd())

	case habitToggledMsg:
		if msg.err != nil {
			a.SetStatus("Toggle habit: "+msg.err.Error(), true)
		} else {
			a.undoManager.Push(NewToggleHabitAction(a.store, msg.habit, msg.date, msg.wasCompleted))
		}
		return a, tea.Batch(a.habitsPane.Update(msg), a.journalPane.LoadCmd())

	case habitDeletedMsg:
		switch {
		case msg.err != nil:
			a.SetStatus("Delete habit: "+msg.err.Error(), true)
		case msg.outcome == storage.Applied:
			a.undoManager.Push(NewDeleteHabitAction(a.store, msg.habit, msg.index))
		}
		return a, tea.Batch(a.habitsPane.Update(msg), a.journalPane.LoadCmd())

	case journalLoadedMsg:
		return a, a.journalPane.Update(msg)

	case logSavedMsg:
		if msg.err != nil {
			a.SetStatus("Save log: "+msg.err.Error(), true)
		} else {
			a.undoManager.Push(NewEditLogAction(a.store, msg.date, msg.before, msg.after))
			a.SetStatus("Log saved", false)
		}
		return a, a.journalPane.Update(msg)

	case reminderMsg:
		if msg.err != nil {
			a.SetStatus("Reminder: "+msg.err.Error(), true)
		}
		return a, nil

	case historyMsg:
		a.undoBusy = false
		verb, done, none := "Undo", "Undid: ", "Nothing to undo"
		if msg.redo {
			verb, done, none = "Redo", "Redid: ", "Nothing to redo"
		}
		switch {
		case msg.err != nil:
			a.SetStatus(verb+" failed: "+msg.err.Error(), true)
		case msg.desc != "":
			a.SetStatus(done+msg.desc, false)
		default:
			a.SetStatus(none, false)
		}
		return a, a.reloadAll()
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.updateLayout()
		return a, nil

	case tea.MouseMsg:
		return a, a.handleMouse(msg)

	case tickMsg:
		now := time.Time(msg)
		a.status.expire(now)
		cmds := []tea.Cmd{tickCmd()}
		if a.config.Reminder != nil && now.Sub(a.lastReminderCheck) >= time.Minute {
			a.lastReminderCheck = now
			cmds = append(cmds, reminderCmd(a.config.Reminder, a.store))
		}
		return a, tea.Batch(cmds...)
	}

	if a.showHelp {
		return a, nil
	}
	return a, a.activePaneUpdate(msg)
}

// activePaneUpdate forwards msg to the focused pane.
func (a *App) activePaneUpdate(msg tea.Msg) tea.Cmd {
	switch a.activePane {
	case PaneHabits:
		return a.habitsPane.Update(msg)
	case PaneJournal:
		return a.journalPane.Update(msg)
	default:
		return a.todoPane.Update(msg)
	}
}

// handleKey processes overlay and global keys. handled is false when the key
// should fall through to the active pane.
func (a *App) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, handled bool) {
	if a.showWelcome {
		a.showWelcome = false
		return nil, true
	}

	if a.confirmDel != nil {
		switch msg.String() {
		case "y", "Y", "enter":
			cmd := a.confirmDel.cmd
			a.confirmDel = nil
			return cmd, true
		case "n", "N", "esc":
			a.confirmDel = nil
			a.SetStatus("Canceled", false)
		}
		return nil, true
	}

	if a.showHelp {
		if key.Matches(msg, a.helpKeys.Close) {
			a.showHelp = false
		}
		return nil, true
	}

	if a.inInputMode() {
		return nil, false
	}

	if a.config.ConfirmDeletions {
		if cmd, ok := a.confirmDeletion(msg); ok {
			return cmd, true
		}
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		a.quitting = true
		return tea.Quit, true

	case key.Matches(msg, a.keys.Help):
		a.showHelp = true
		return nil, true

	case key.Matches(msg, a.keys.NextPane):
		a.setActivePane((a.activePane + 1) % 3)
		return nil, true

	case key.Matches(msg, a.keys.Pane1):
		a.setActivePane(PaneTodos)
		return nil, true

	case key.Matches(msg, a.keys.Pane2):
		a.setActivePane(PaneHabits)
		return nil, true

	case key.Matches(msg, a.keys.Pane3):
		a.setActivePane(PaneJournal)
		return nil, true

	case key.Matches(msg, a.keys.PrevDay):
		return a.setDate(a.date.AddDate(0, 0, -1)), true

	case key.Matches(msg, a.keys.NextDay):
		return a.setDate(a.date.AddDate(0, 0, 1)), true

	case key.Matches(msg, a.keys.Today):
		return a.setDate(a.store.Now()), true

	case key.Matches(msg, a.keys.Undo, a.keys.Redo):
		redo := key.Matches(msg, a.keys.Redo)
		if a.undoBusy {
			// One step at a time keeps the stacks in order.
			a.SetStatus("Busy, try again", true)
			return nil, true
		}
		a.undoBusy = true
		return historyCmd(a.undoManager, redo), true
	}

	return nil, false
}

// confirmDeletion intercepts the delete key and opens the confirmation
// overlay for the selected todo or habit.
func (a *App) confirmDeletion(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch a.activePane {
	case PaneTodos:
		if !key.Matches(msg, a.todoPane.keys.Delete) {
			return nil, false
		}
		item, ok := a.todoPane.Selected()
		if !ok {
			a.SetStatus("No todo selected", true)
			return nil, true
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete todo?",
			body:  truncateText(item.Text, 60),
			cmd:   deleteTodoCmd(a.store, a.date, item.ID),
		}
		return nil, true

	case PaneHabits:
		if !key.Matches(msg, a.habitsPane.keys.Delete) {
			return nil, false
		}
		habit, ok := a.habitsPane.Selected()
		if !ok {
			a.SetStatus("No habit selected", true)
			return nil, true
		}
		a.confirmDel = &confirmDeleteState{
			title: "Delete habit?",
			body:  truncateText(habit.Name, 60) + "\n(completion history is kept)",
			cmd:   deleteHabitCmd(a.store, habit.ID),
		}
		return nil, true
	}
	return nil, false
}

// handleMouse routes clicks and wheel events to panes.
func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.showWelcome || a.confirmDel != nil || a.showHelp {
		if msg.Action == tea.MouseActionPress {
			if a.confirmDel != nil {
				a.SetStatus("Canceled", false)
			}
			a.showWelcome = false
			a.confirmDel = nil
			a.showHelp = false
		}
		return nil
	}
	if a.inInputMode() {
		return nil
	}

	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		if a.layoutMode == LayoutNarrow && msg.Y == a.contentTop-1 {
			tabWidth := max(1, a.width/3)
			a.setActivePane(PaneID(min(2, msg.X/tabWidth)))
			return nil
		}
		if clicked := a.paneAt(msg.X); clicked >= 0 && clicked != a.activePane {
			a.setActivePane(clicked)
		}
	}

	if msg.Y < a.contentTop {
		return nil
	}
	local := msg
	local.Y = msg.Y - a.contentTop
	if a.layoutMode == LayoutWide {
		local.X = msg.X - a.paneStart[a.activePane]
	}
	return a.activePaneUpdate(local)
}

// setActivePane focuses pane and blurs the others.
func (a *App) setActivePane(pane PaneID) {
	a.activePane = pane
	a.todoPane.SetFocused(pane == PaneTodos)
	a.habitsPane.SetFocused(pane == PaneHabits)
	a.journalPane.SetFocused(pane == PaneJournal)
}

func (a *App) View() string {
	switch {
	case a.quitting:
		return a.renderGoodbye()
	case a.showWelcome:
		return a.renderWelcome()
	case a.confirmDel != nil:
		return a.renderConfirmDelete()
	case a.showHelp:
		return a.helpOverlay.View()
	}
	return a.renderTitleBar() + "\n" + a.renderContent() + "\n" + a.renderHelpBar()
}

// dayLabel describes the selected day relative to today.
func (a *App) dayLabel() string {
	today := storage.StartOfDay(a.store.Now())
	label := a.date.Format("Mon Jan 2")
	days := int(a.date.Sub(today).Round(24*time.Hour).Hours() / 24)
	switch {
	case days == 0:
		return label + " · today"
	case days == -1:
		return label + " · yesterday"
	case days == 1:
		return label + " · tomorrow"
	case days < 0:
		return fmt.Sprintf("%s · %d days ago", label, -days)
	default:
		return fmt.Sprintf("%s · in %d days", label, days)
	}
}

// renderTitleBar shows the app name, the selected day's counts and the
// day itself at the right edge.
func (a *App) renderTitleBar() string {
	title := a.styles.TitleStyle.Render(" dayboard ")

	var counts []string
	if done, total := a.todoPane.Stats(); total > 0 {
		counts = append(counts, fmt.Sprintf("Todos: %d/%d", done, total))
	}
	if done, total := a.habitsPane.CompletionRate(); total > 0 {
		counts = append(counts, fmt.Sprintf("Habits: %d/%d", done, total))
	}
	stats := a.styles.StatLabelStyle.Render(strings.Join(counts, "  "))

	date := a.styles.DateStyle.Render(a.dayLabel())

	used := lipgloss.Width(title) + lipgloss.Width(stats) + lipgloss.Width(date)
	spacer := strings.Repeat(" ", max(2, a.width-used-4))

	return title + "  " + stats + spacer + date
}

// paneHints is the help bar for each pane outside text input.
var paneHints = [...][]string{
	PaneTodos:   {"a", "add", "d", "done", "s", "status", "p", "prio", "x", "del", "[/]", "day", "?", "help"},
	PaneHabits:  {"a", "add", "space", "toggle", "x", "del", "[/]", "day", "tab", "pane", "?", "help"},
	PaneJournal: {"e", "edit", "[/]", "day", "t", "today", "tab", "pane", "?", "help"},
}

// renderHelpBar shows the status message if there is one, otherwise the
// keys that apply right now.
func (a *App) renderHelpBar() string {
	if line := a.status.view(a.styles); line != "" {
		return line
	}
	switch {
	case a.todoPane.IsAdding():
		return a.styles.RenderHelp("enter", "save", "esc", "cancel")
	case a.habitsPane.IsAdding():
		return a.styles.RenderHelp("enter", "next/save", "esc", "cancel")
	case a.journalPane.IsEditing():
		return a.styles.RenderHelp("esc", "save", "enter", "new line")
	}
	return a.styles.RenderHelp(paneHints[a.activePane]...)
}

// SetStatus shows msg in place of the help bar for a few seconds.
func (a *App) SetStatus(msg string, isErr bool) {
	a.status.set(msg, isErr, time.Now())
}

// Run shows the dashboard full screen until the user quits.
func Run(store *storage.Store, styles *Styles, cfg *AppConfig) error {
	_, err := tea.NewProgram(NewApp(store, styles, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	).Run()
	return err
}
