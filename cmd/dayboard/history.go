package main

import (
	"fmt"
	"strings"

	"github.com/muesli/termenv"

	"dayboard/internal/config"
	"dayboard/internal/storage"
)

// barWidth is the number of cells a 100% day fills.
const barWidth = 20

func historyCmd() *Command {
	fs := newFlagSet("history")
	days := fs.IntP("days", "n", 0, "number of days to show, ending today (default from config, 7)")

	return &Command{
		Flags: fs,
		Usage: "history [--days N]",
		Short: "Print the daily habit completion chart",
		Long: `DESCRIPTION:
    Prints one bar per day with the share of habits completed that day,
    oldest first and ending today. The same chart is shown in the journal
    pane of the dashboard.

EXAMPLES:
    # The configured window
    dayboard history

    # The last month
    dayboard history --days 30
`,
		Exec: func(o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if fs.Changed("days") && (*days < 1 || *days > config.MaxHistoryDays) {
				return fmt.Errorf("--days must be between 1 and %d", config.MaxHistoryDays)
			}

			s, err := openSession(o)
			if err != nil {
				return err
			}
			defer s.Close()

			n := *days
			if n == 0 {
				n = s.cfg.History.Days
			}
			if len(s.store.Habits()) == 0 {
				o.Println("No habits tracked yet.")
				return nil
			}

			out := termenv.NewOutput(o.out)
			printHistory(o, out, s.store.GetCompletionHistory(n))
			return nil
		},
	}
}

// printHistory renders one colored bar per point. Color is dropped when out
// is not a terminal.
func printHistory(o *IO, out *termenv.Output, points []storage.HistoryPoint) {
	total := 0
	for _, p := range points {
		filled := p.Rate * barWidth / 100
		bar := out.String(strings.Repeat("█", filled)).Foreground(out.Color(rateColor(p.Rate)))
		rest := out.String(strings.Repeat("░", barWidth-filled)).Faint()
		o.Printf("%-6s  %s%s %3d%%\n", p.Date, bar, rest, p.Rate)
		total += p.Rate
	}
	if len(points) > 0 {
		o.Printf("\nAverage: %d%% over %d days\n", total/len(points), len(points))
	}
}

func rateColor(rate int) string {
	switch {
	case rate >= 80:
		return "#22c55e"
	case rate >= 50:
		return "#eab308"
	default:
		return "#ef4444"
	}
}
