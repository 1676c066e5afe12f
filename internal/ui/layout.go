package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// LayoutMode is how the panes share the terminal.
type LayoutMode int

const (
	// LayoutWide puts the three panes side by side.
	LayoutWide LayoutMode = iota
	// LayoutNarrow shows the focused pane under a tab bar.
	LayoutNarrow
)

const defaultNarrowThreshold = 80

var paneLabels = [...]string{"Todos", "Habits", "Journal"}

// paneWidths splits the usable width between todos, habits and the journal,
// leaving a column between panes. On very wide terminals each pane is
// capped so lines stay readable.
func paneWidths(total int) [3]int {
	if total < 120 {
		todos, habits := total*34/100, total*33/100
		return [3]int{todos, habits, total - todos - habits - 2}
	}
	todos := min(total*35/100, 60)
	habits := min(total*33/100, 55)
	return [3]int{todos, habits, min(total-todos-habits-2, 60)}
}

// updateLayout sizes the panes for the current terminal and records where
// each one sits for mouse hit testing.
func (a *App) updateLayout() {
	a.helpOverlay.SetSize(a.width, a.height)

	// Title bar above, help bar below.
	height := max(10, a.height-4)
	usable := a.width - 4

	threshold := a.config.NarrowLayoutThreshold
	if threshold <= 0 {
		threshold = defaultNarrowThreshold
	}

	if a.width < threshold {
		a.layoutMode = LayoutNarrow
		a.contentTop = 2 // title and tab bar
		w, h := max(20, usable), max(8, height-1)
		for i := range a.paneStart {
			a.paneStart[i], a.paneEnd[i] = 0, a.width
		}
		a.todoPane.SetSize(w, h)
		a.habitsPane.SetSize(w, h)
		a.journalPane.SetSize(w, h)
		return
	}

	a.layoutMode = LayoutWide
	a.contentTop = 1
	widths := paneWidths(usable)
	x := 0
	for i, w := range widths {
		a.paneStart[i], a.paneEnd[i] = x, x+w
		x += w + 1
	}
	a.todoPane.SetSize(widths[PaneTodos], height)
	a.habitsPane.SetSize(widths[PaneHabits], height)
	a.journalPane.SetSize(widths[PaneJournal], height)
}

// paneAt returns the pane under column x, or -1 between panes. In the
// narrow layout it is always the visible pane.
func (a *App) paneAt(x int) PaneID {
	if a.layoutMode == LayoutNarrow {
		return a.activePane
	}
	for i := range a.paneStart {
		if x >= a.paneStart[i] && x < a.paneEnd[i] {
			return PaneID(i)
		}
	}
	return -1
}

func (a *App) renderContent() string {
	if a.layoutMode == LayoutWide {
		return lipgloss.JoinHorizontal(lipgloss.Top,
			a.todoPane.View(), " ", a.habitsPane.View(), " ", a.journalPane.View())
	}

	var body string
	switch a.activePane {
	case PaneHabits:
		body = a.habitsPane.View()
	case PaneJournal:
		body = a.journalPane.View()
	default:
		body = a.todoPane.View()
	}
	return a.renderPaneTabs() + "\n" + body
}

// renderPaneTabs draws the centered tab bar of the narrow layout, the
// active tab in brackets.
func (a *App) renderPaneTabs() string {
	active := boldFg(a.styles.ColorPrimary)
	inactive := fg(a.styles.ColorTextMuted)

	tabs := make([]string, len(paneLabels))
	for i, label := range paneLabels {
		if PaneID(i) == a.activePane {
			tabs[i] = active.Render("[" + label + "]")
		} else {
			tabs[i] = inactive.Render(" " + label + " ")
		}
	}
	bar := strings.Join(tabs, "  ")
	if pad := (a.width - lipgloss.Width(bar)) / 2; pad > 0 {
		bar = strings.Repeat(" ", pad) + bar
	}
	return bar
}
