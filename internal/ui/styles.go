package ui

import (
	"dayboard/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colors every style is derived from. Five of them
// come from the theme section of the config file; the rest are fixed so
// that warnings and errors read the same under any theme.
type Palette struct {
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorMuted     lipgloss.Color
	ColorAccent    lipgloss.Color
	ColorBg        lipgloss.Color
	ColorText      lipgloss.Color

	ColorDanger    lipgloss.Color
	ColorWarning   lipgloss.Color
	ColorSuccess   lipgloss.Color
	ColorBgLight   lipgloss.Color
	ColorTextMuted lipgloss.Color
}

const (
	defaultPrimary    = "#7C3AED"
	defaultSecondary  = "#10B981"
	defaultMuted      = "#6B7280"
	defaultAccent     = "#3B82F6"
	defaultBackground = "#1F2937"
	defaultText       = "#F9FAFB"
)

// NewPalette fills unset theme colors with the defaults.
func NewPalette(theme *config.ThemeConfig) Palette {
	pick := func(hex, fallback string) lipgloss.Color {
		if hex == "" {
			hex = fallback
		}
		return lipgloss.Color(hex)
	}
	return Palette{
		ColorPrimary:   pick(theme.Primary, defaultPrimary),
		ColorSecondary: pick(theme.Accent, defaultSecondary),
		ColorMuted:     pick(theme.Muted, defaultMuted),
		ColorAccent:    pick(theme.Accent, defaultAccent),
		ColorBg:        pick(theme.Background, defaultBackground),
		ColorText:      pick(theme.Text, defaultText),

		ColorDanger:    "#EF4444",
		ColorWarning:   "#F59E0B",
		ColorSuccess:   "#10B981",
		ColorBgLight:   "#374151",
		ColorTextMuted: "#9CA3AF",
	}
}

// Styles is the rendered look of the dashboard, grouped by the part of the
// screen that uses it.
type Styles struct {
	Palette

	// Frame
	TitleStyle       lipgloss.Style
	DateStyle        lipgloss.Style
	PaneStyle        lipgloss.Style
	PaneFocusedStyle lipgloss.Style
	PaneTitleStyle   lipgloss.Style
	HelpStyle        lipgloss.Style
	HelpKeyStyle     lipgloss.Style
	StatusStyle      lipgloss.Style
	ErrorStyle       lipgloss.Style
	InputPromptStyle lipgloss.Style
	StatLabelStyle   lipgloss.Style

	// Todos
	TaskDoneStyle       lipgloss.Style
	TaskPendingStyle    lipgloss.Style
	TaskSelectedStyle   lipgloss.Style
	TaskCheckboxDone    string
	TaskCheckboxPending string
	PriorityHighStyle   lipgloss.Style
	PriorityMediumStyle lipgloss.Style
	PriorityLowStyle    lipgloss.Style
	StatusTodoStyle     lipgloss.Style
	StatusDoingStyle    lipgloss.Style
	StatusDoneStyle     lipgloss.Style

	// Habits
	HabitDoneIcon    string
	HabitUndoneIcon  string
	HabitStreakStyle lipgloss.Style

	// Journal and history chart
	JournalTextStyle  lipgloss.Style
	HistoryBarStyle   lipgloss.Style
	HistoryEmptyStyle lipgloss.Style
	HistoryLabelStyle lipgloss.Style
	TodayMarkerStyle  lipgloss.Style
}

// NewStyles builds the styles for cfg's theme.
func NewStyles(cfg *config.Config) *Styles {
	return NewStylesFromTheme(&cfg.Theme)
}

// NewStylesFromTheme builds the styles for a theme. Empty colors fall back
// to the defaults.
func NewStylesFromTheme(theme *config.ThemeConfig) *Styles {
	s := &Styles{Palette: NewPalette(theme)}
	s.frame()
	s.todos()
	s.habits()
	s.journal()
	return s
}

func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

func boldFg(c lipgloss.Color) lipgloss.Style {
	return fg(c).Bold(true)
}

func pane(border lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func (s *Styles) frame() {
	s.TitleStyle = boldFg(s.ColorText).Background(s.ColorPrimary).Padding(0, 1)
	s.DateStyle = fg(s.ColorTextMuted)

	s.PaneStyle = pane(s.ColorMuted)
	s.PaneFocusedStyle = pane(s.ColorPrimary)
	s.PaneTitleStyle = boldFg(s.ColorPrimary).MarginBottom(1)

	s.HelpStyle = fg(s.ColorTextMuted)
	s.HelpKeyStyle = boldFg(s.ColorAccent)
	s.StatusStyle = fg(s.ColorSuccess).Italic(true)
	s.ErrorStyle = boldFg(s.ColorDanger)
	s.InputPromptStyle = boldFg(s.ColorPrimary)
	s.StatLabelStyle = fg(s.ColorTextMuted)
}

func (s *Styles) todos() {
	s.TaskDoneStyle = fg(s.ColorTextMuted).Strikethrough(true)
	s.TaskPendingStyle = fg(s.ColorText)
	s.TaskSelectedStyle = boldFg(s.ColorText).Background(s.ColorBgLight)
	s.TaskCheckboxDone = fg(s.ColorSuccess).Render("[✓]")
	s.TaskCheckboxPending = fg(s.ColorMuted).Render("[ ]")

	s.PriorityHighStyle = boldFg(s.ColorDanger)
	s.PriorityMediumStyle = fg(s.ColorWarning)
	s.PriorityLowStyle = fg(s.ColorMuted)

	s.StatusTodoStyle = fg(s.ColorTextMuted)
	s.StatusDoingStyle = boldFg(s.ColorWarning)
	s.StatusDoneStyle = fg(s.ColorSuccess)
}

func (s *Styles) habits() {
	s.HabitDoneIcon = fg(s.ColorSuccess).Render("●")
	s.HabitUndoneIcon = fg(s.ColorMuted).Render("○")
	s.HabitStreakStyle = boldFg(s.ColorWarning)
}

func (s *Styles) journal() {
	s.JournalTextStyle = fg(s.ColorText)
	s.HistoryBarStyle = fg(s.ColorSecondary)
	s.HistoryEmptyStyle = fg(s.ColorBgLight)
	s.HistoryLabelStyle = fg(s.ColorTextMuted).Width(7)
	s.TodayMarkerStyle = boldFg(s.ColorAccent)
}

// RenderHelp renders key/description pairs as "[k] desc" separated by two
// spaces. A trailing key without a description is dropped.
func (s *Styles) RenderHelp(pairs ...string) string {
	var b []byte
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b = append(b, "  "...)
		}
		b = append(b, s.HelpKeyStyle.Render("["+pairs[i]+"]")...)
		b = append(b, ' ')
		b = append(b, s.HelpStyle.Render(pairs[i+1])...)
	}
	return string(b)
}
