package reports

import (
	"fmt"
	"strings"

	"dayboard/internal/storage"
)

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report: %s\n\n", r.Date.Format("Monday, January 2, 2006"))

	b.WriteString("## Todos\n\n")
	if r.Todos.TotalCount == 0 {
		b.WriteString("_Nothing planned._\n\n")
	} else {
		fmt.Fprintf(&b, "%d of %d done.\n\n", r.Todos.DoneCount, r.Todos.TotalCount)
		for _, item := range r.Todos.Done {
			fmt.Fprintf(&b, "- [x] %s%s\n", item.Text, priorityTag(item.Priority))
		}
		for _, item := range r.Todos.Doing {
			fmt.Fprintf(&b, "- [ ] %s%s _(doing)_\n", item.Text, priorityTag(item.Priority))
		}
		for _, item := range r.Todos.Open {
			fmt.Fprintf(&b, "- [ ] %s%s\n", item.Text, priorityTag(item.Priority))
		}
		b.WriteString("\n")
	}

	b.WriteString("## Habits\n\n")
	if r.Habits.TotalCount == 0 {
		b.WriteString("_No habits tracked._\n\n")
	} else {
		fmt.Fprintf(&b, "%d of %d completed (%d%%).\n\n", r.Habits.CompletedCount, r.Habits.TotalCount, r.Habits.CompletionRate)
		for _, h := range r.Habits.Habits {
			mark := " "
			if h.Done {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s", mark, habitLabel(h.Emoji, h.Name))
			if h.Streak > 1 {
				fmt.Fprintf(&b, " (%d day streak)", h.Streak)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Log\n\n")
	if strings.TrimSpace(r.Log) == "" {
		b.WriteString("_No entry._\n")
	} else {
		for _, line := range strings.Split(strings.TrimRight(r.Log, "\n"), "\n") {
			b.WriteString("> " + line + "\n")
		}
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report: %s - %s\n\n",
		r.StartDate.Format("Jan 2"), r.EndDate.Format("Jan 2, 2006"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Todos done: %d of %d\n", r.Todos.TotalCompleted, r.Todos.TotalPlanned)
	fmt.Fprintf(&b, "- Habit completion: %d%% (%d of %d)\n", r.Habits.OverallRate, r.Habits.TotalCompleted, r.Habits.TotalExpected)
	logged := 0
	for _, d := range r.DailyBreakdown {
		if d.HasLog {
			logged++
		}
	}
	fmt.Fprintf(&b, "- Days with a log: %d\n\n", logged)

	if len(r.Habits.Habits) > 0 {
		b.WriteString("## Habits\n\n")
		b.WriteString("| Habit | Sun | Mon | Tue | Wed | Thu | Fri | Sat | Rate |\n")
		b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
		for _, h := range r.Habits.Habits {
			fmt.Fprintf(&b, "| %s |", escapeCell(habitLabel(h.Emoji, h.Name)))
			for _, done := range h.DaysCompleted {
				if done {
					b.WriteString(" ✓ |")
				} else {
					b.WriteString(" · |")
				}
			}
			fmt.Fprintf(&b, " %d%% |\n", h.CompletionRate)
		}
		b.WriteString("\n")
	}

	if len(r.Todos.ByPriority) > 0 {
		b.WriteString("## Todos by priority\n\n")
		for _, p := range r.Todos.ByPriority {
			fmt.Fprintf(&b, "- %s: %d of %d done\n", p.Priority, p.Done, p.Total)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Daily breakdown\n\n")
	b.WriteString("| Day | Date | Todos | Habits | Log |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, d := range r.DailyBreakdown {
		log := ""
		if d.HasLog {
			log = "✓"
		}
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %d/%d (%d%%) | %s |\n",
			d.DayOfWeek, d.Date, d.TodosDone, d.TodosTotal,
			d.HabitsComplete, d.HabitsTotal, d.CompletionRate, log)
	}

	b.WriteString("\n---\n")
	fmt.Fprintf(&b, "_Generated %s_\n", r.GeneratedAt.Format("2006-01-02 15:04"))
	return b.String()
}

func priorityTag(p storage.Priority) string {
	if p == storage.PriorityHigh {
		return " **!**"
	}
	return ""
}

func habitLabel(emoji, name string) string {
	if emoji == "" {
		return name
	}
	return emoji + " " + name
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
