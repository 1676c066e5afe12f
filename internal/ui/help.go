package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type helpSection struct {
	title string
	rows  [][2]string
}

var helpSections = []helpSection{
	{"Global", [][2]string{
		{"Tab", "Switch pane"},
		{"1 / 2 / 3", "Jump to pane"},
		{"[ / ]", "Previous / next day"},
		{"t", "Back to today"},
		{"ctrl+z / y", "Undo / redo"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}},
	{"Todos", [][2]string{
		{"a", "Add todo"},
		{"d / Space", "Toggle done"},
		{"s", "Cycle status"},
		{"p", "Cycle priority"},
		{"x", "Delete todo"},
		{"j / k", "Move down / up"},
		{"g / G", "First / last"},
	}},
	{"Habits", [][2]string{
		{"a", "Add habit"},
		{"Space / d", "Toggle for the day"},
		{"x", "Delete habit"},
		{"j / k", "Move down / up"},
	}},
	{"Journal", [][2]string{
		{"e", "Edit the day's log"},
		{"Esc", "Save and close editor"},
	}},
	{"Input Mode", [][2]string{
		{"Enter", "Save"},
		{"Esc", "Cancel"},
	}},
}

// HelpOverlay is the full keyboard reference shown with "?".
type HelpOverlay struct {
	width, height int
	styles        *Styles
}

func NewHelpOverlay(styles *Styles) *HelpOverlay {
	return &HelpOverlay{styles: styles}
}

func (h *HelpOverlay) SetSize(width, height int) {
	h.width, h.height = width, height
}

// View renders the reference centered in the terminal. The box is at most
// 60 columns and shrinks with the terminal down to 20.
func (h *HelpOverlay) View() string {
	boxWidth := 60
	if h.width > 0 {
		boxWidth = min(60, max(20, h.width-4))
	}
	s := h.styles
	heading := boldFg(s.ColorAccent).MarginTop(1)
	keyCol := fg(s.ColorWarning).Width(12)
	desc := fg(s.ColorText)

	var b strings.Builder
	b.WriteString(boldFg(s.ColorPrimary).MarginBottom(1).Render("📖 dayboard - Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, sec := range helpSections {
		b.WriteString(heading.Render(sec.title) + "\n")
		for _, row := range sec.rows {
			b.WriteString(keyCol.Render(row[0]) + desc.Render(row[1]) + "\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(fg(s.ColorTextMuted).Italic(true).Render("Press ? or Esc to close"))

	box := pane(s.ColorPrimary).Padding(1, 2).Width(boxWidth).Render(b.String())
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, box)
}
