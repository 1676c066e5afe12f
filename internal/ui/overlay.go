package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmDeleteState is a pending deletion waiting for y or n.
type confirmDeleteState struct {
	title string
	body  string
	cmd   tea.Cmd
}

// renderOverlay draws a centered box in the border color with a title, a
// body and a muted hint line.
func (a *App) renderOverlay(border lipgloss.Color, title, body, hint string) string {
	width := 60
	if a.width > 0 {
		width = min(60, max(20, a.width-4))
	}
	content := strings.Join([]string{
		boldFg(border).Render(title),
		fg(a.styles.ColorText).Render(body),
		fg(a.styles.ColorTextMuted).Italic(true).Render(hint),
	}, "\n\n")
	box := pane(border).Padding(1, 2).Width(width).Render(content)
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, box)
}

func (a *App) renderWelcome() string {
	return a.renderOverlay(a.styles.ColorPrimary,
		"Welcome to dayboard",
		"Todos, habits and a journal for each day.\n"+
			"Tab switches panes, [ and ] move between days, ? opens help.\n"+
			"Add your first todo with 'a'.",
		"Press any key to continue")
}

func (a *App) renderConfirmDelete() string {
	return a.renderOverlay(a.styles.ColorDanger,
		a.confirmDel.title, a.confirmDel.body,
		"[y/enter] delete    [n/esc] cancel")
}

// renderGoodbye is the last frame after quitting: today's progress, if
// there is any.
func (a *App) renderGoodbye() string {
	today := a.store.Now()
	todos := a.store.GetTodos(today)
	finished := 0
	for _, t := range todos {
		if t.Completed {
			finished++
		}
	}
	habitsDone, habits := a.store.CompletedHabits(today)

	var b strings.Builder
	b.WriteString("\n  See you tomorrow!\n\n")
	if len(todos) == 0 && habits == 0 {
		return b.String()
	}
	b.WriteString("  Today's progress:\n")
	if len(todos) > 0 {
		fmt.Fprintf(&b, "     Todos:  %d/%d\n", finished, len(todos))
	}
	if habits > 0 {
		fmt.Fprintf(&b, "     Habits: %d/%d (%d%%)\n", habitsDone, habits, a.store.GetCompletionRate(today))
	}
	b.WriteString("\n")
	return b.String()
}
