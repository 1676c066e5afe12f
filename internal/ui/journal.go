package ui

import (
	"fmt"
	"strings"
	"time"

	"dayboard/internal/config"
	"dayboard/internal/storage"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// JournalPane shows the selected day's log and the completion history.
type JournalPane struct {
	store       *storage.Store
	styles      *Styles
	date        time.Time
	text        string
	history     []storage.HistoryPoint
	historyDays int
	editing     bool
	editor      textarea.Model
	focused     bool
	width       int
	height      int

	keys JournalKeyMap
}

// NewJournalPane creates a journal pane for date showing historyDays of
// completion history.
func NewJournalPane(store *storage.Store, styles *Styles, keyCfg *config.KeysConfig, date time.Time, historyDays int) *JournalPane {
	ta := textarea.New()
	ta.Placeholder = "How did the day go?"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	if historyDays <= 0 {
		historyDays = config.DefaultHistoryDays
	}
	return &JournalPane{
		store:       store,
		styles:      styles,
		date:        date,
		historyDays: historyDays,
		editor:      ta,
		keys:        NewJournalKeyMap(keyCfg),
	}
}

// LoadCmd returns a command that loads the log and history.
func (p *JournalPane) LoadCmd() tea.Cmd {
	return loadJournalCmd(p.store, p.date, p.historyDays)
}

// SetDate switches the pane to another day. The editor must be closed.
func (p *JournalPane) SetDate(date time.Time) tea.Cmd {
	p.date = date
	return p.LoadCmd()
}

// SetSize sets the pane dimensions.
func (p *JournalPane) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.editor.SetWidth(max(10, width-4))
	p.editor.SetHeight(max(3, p.logRows()))
}

// SetFocused sets whether this pane is focused.
func (p *JournalPane) SetFocused(focused bool) {
	p.focused = focused
}

// IsEditing returns whether the log editor is open.
func (p *JournalPane) IsEditing() bool {
	return p.editing
}

// Text returns the loaded log for the selected day.
func (p *JournalPane) Text() string {
	return p.text
}

// logRows splits the pane height between the log and the chart.
func (p *JournalPane) logRows() int {
	return max(3, (p.height-6)/2)
}

// StartEditing opens the editor on the current log.
func (p *JournalPane) StartEditing() tea.Cmd {
	p.editing = true
	p.editor.SetValue(p.text)
	return p.editor.Focus()
}

// finishEditing closes the editor and saves when the text changed.
func (p *JournalPane) finishEditing() tea.Cmd {
	p.editing = false
	p.editor.Blur()
	after := p.editor.Value()
	if after == p.text {
		return nil
	}
	before := p.text
	p.text = after
	return saveLogCmd(p.store, p.date, before, after)
}

// Update handles messages for the journal pane.
func (p *JournalPane) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case journalLoadedMsg:
		if msg.date == storage.FormatDate(p.date) {
			p.text = msg.text
			p.history = msg.history
		}
		return nil

	case logSavedMsg:
		return p.LoadCmd()
	}

	if p.editing {
		if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, p.keys.Save) {
			return p.finishEditing()
		}
		var cmd tea.Cmd
		p.editor, cmd = p.editor.Update(msg)
		return cmd
	}

	if !p.focused {
		return nil
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, p.keys.Edit) {
		return p.StartEditing()
	}
	return nil
}

// View renders the journal pane.
func (p *JournalPane) View() string {
	var b strings.Builder

	b.WriteString(p.styles.PaneTitleStyle.Render("📓 JOURNAL"))
	b.WriteString("\n")

	sepWidth := p.width - 4
	if sepWidth < 10 {
		sepWidth = 30
	}
	sep := p.styles.StatLabelStyle.Render(strings.Repeat("─", sepWidth))
	b.WriteString(sep)
	b.WriteString("\n")

	switch {
	case p.editing:
		b.WriteString(p.editor.View())
	case p.text == "":
		b.WriteString(lipgloss.NewStyle().Foreground(p.styles.ColorTextMuted).Italic(true).Render("  No entry. Press 'e' to write."))
	default:
		b.WriteString(p.renderLog())
	}
	b.WriteString("\n\n")

	b.WriteString(p.styles.StatLabelStyle.Render(fmt.Sprintf("Last %d days", p.historyDays)))
	b.WriteString("\n")
	b.WriteString(p.renderHistory())

	style := p.styles.PaneStyle
	if p.focused {
		style = p.styles.PaneFocusedStyle
	}
	return style.Width(p.width).Height(p.height).Render(b.String())
}

// renderLog wraps the log to the pane width and clips it to its rows.
func (p *JournalPane) renderLog() string {
	wrapped := p.styles.JournalTextStyle.Width(max(10, p.width-4)).Render(p.text)
	lines := strings.Split(wrapped, "\n")
	if rows := p.logRows(); len(lines) > rows {
		lines = append(lines[:rows-1], p.styles.StatLabelStyle.Render("…"))
	}
	return strings.Join(lines, "\n")
}

// renderHistory draws one bar per day, newest last. When the window is
// taller than the pane, only the most recent days are shown.
func (p *JournalPane) renderHistory() string {
	points := p.history
	if p.height > 0 {
		if room := max(1, p.height-p.logRows()-7); len(points) > room {
			points = points[len(points)-room:]
		}
	}

	selected := storage.FormatDate(p.date)
	barWidth := max(5, p.width-20)
	var b strings.Builder
	for i, pt := range points {
		if i > 0 {
			b.WriteString("\n")
		}
		filled := pt.Rate * barWidth / 100
		label := p.styles.HistoryLabelStyle.Render(pt.Date)
		if pt.Key == selected {
			label = p.styles.TodayMarkerStyle.Width(7).Render(pt.Date)
		}
		b.WriteString(label)
		b.WriteString(p.styles.HistoryBarStyle.Render(strings.Repeat("█", filled)))
		b.WriteString(p.styles.HistoryEmptyStyle.Render(strings.Repeat("░", barWidth-filled)))
		b.WriteString(fmt.Sprintf(" %3d%%", pt.Rate))
	}
	return b.String()
}
