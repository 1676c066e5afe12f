// Package main is the entry point for the dayboard application.
// It loads configuration, opens the state store, and starts the TUI or runs
// a subcommand.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"dayboard/internal/notify"
	"dayboard/internal/ui"
)

// Version information - set by GoReleaser during build
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const helpHeader = `dayboard - Habits, todos and a journal for your terminal

USAGE:
    dayboard [OPTIONS]
    dayboard <command> [ARGS]

COMMANDS:
`

const helpBody = `
OPTIONS:
    -h, --help       Show this help message
    -v, --version    Show version information

DESCRIPTION:
    dayboard is a keyboard-driven dashboard for one day at a time: the
    todos you planned, the habits you kept, and a journal entry, with a
    rolling chart of how many habits you completed each day.

KEYBINDINGS:
    Global:
        Tab          Switch between panes
        1, 2, 3      Jump to specific pane
        [ / ]        Previous / next day
        t            Back to today
        ?            Show help overlay
        Ctrl+Z       Undo last action
        Ctrl+Y       Redo
        q            Quit

    Todos Pane:
        j/k, ↓/↑     Navigate
        a            Add todo
        d/Space      Toggle done
        s            Cycle status (todo, doing, done)
        p            Cycle priority
        x            Delete todo

    Habits Pane:
        j/k, ↓/↑     Navigate
        a            Add habit (name, then emoji)
        d/Space      Toggle completion for the selected day
        x            Delete habit

    Journal Pane:
        e/Enter      Edit the day's entry
        Esc          Save and stop editing

DATA STORAGE:
    State lives in ~/.dayboard/ as a single JSON document (state.json), or
    in dayboard.db when storage.backend is sqlite.

CONFIGURATION:
    Optional config file: ~/.config/dayboard/config.yaml
    Run 'dayboard config --init' to create one with the defaults.

EXAMPLES:
    # Start the app
    dayboard

    # Create a backup
    dayboard backup

    # Generate this week's report as JSON
    dayboard export --weekly --format json

    # Show the last 14 days of habit completion
    dayboard history --days 14
`

func main() {
	os.Exit(run(os.Stdin, os.Stdout, os.Stderr, os.Args[1:]))
}

// commands returns every subcommand, in help order.
func commands() []*Command {
	return []*Command{
		backupCmd(),
		restoreCmd(),
		exportCmd(),
		importCmd(),
		historyCmd(),
		pruneCmd(),
		configCmd(),
	}
}

// run dispatches args to a subcommand or the TUI and returns the exit code.
func run(in io.Reader, out, errOut io.Writer, args []string) int {
	o := NewIO(in, out, errOut)

	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		for _, cmd := range commands() {
			if cmd.Name() == args[0] {
				return cmd.Run(o, args[1:])
			}
		}
		o.ErrPrintf("Error: unknown command %q\n\n", args[0])
		printUsage(errOut)
		return 1
	}

	fs := newFlagSet("dayboard")
	fs.SetOutput(io.Discard)
	showVersion := fs.BoolP("version", "v", false, "show version information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			printUsage(out)
			return 0
		}
		o.ErrPrintf("Error: %v\n\n", err)
		printUsage(errOut)
		return 1
	}

	if fs.NArg() > 0 {
		o.ErrPrintf("Error: unknown arguments: %v\n\n", fs.Args())
		printUsage(errOut)
		return 1
	}

	if *showVersion {
		o.Printf("dayboard version %s\n", version)
		o.Printf("  commit: %s\n", commit)
		o.Printf("  built:  %s\n", date)
		return 0
	}

	if err := runTUI(o); err != nil {
		o.ErrPrintln("Error:", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, helpHeader)
	for _, cmd := range commands() {
		fmt.Fprintln(w, cmd.HelpLine())
	}
	fmt.Fprint(w, helpBody)
}

// runTUI opens the store and runs the dashboard until the user quits.
func runTUI(o *IO) error {
	s, err := openSession(o)
	if err != nil {
		return err
	}
	defer s.Close()

	cfg := s.cfg
	appCfg := &ui.AppConfig{
		Keys:                  &cfg.Keys,
		ConfirmDeletions:      cfg.UX.ConfirmDeletions,
		ShowOnboarding:        cfg.UX.ShowOnboarding,
		NarrowLayoutThreshold: cfg.UX.NarrowLayoutThreshold,
		HistoryDays:           cfg.History.Days,
	}

	if cfg.Notifications.Enabled {
		reminder, err := notify.NewReminder(notify.New(), cfg.Notifications.HabitReminder, cfg.Notifications.Sound)
		if err != nil {
			// Bad reminder time only disables the reminder.
			o.ErrPrintf("Warning: habit reminder disabled: %v\n", err)
		} else {
			appCfg.Reminder = reminder
		}
	}

	if err := ui.Run(s.store, ui.NewStylesFromTheme(&cfg.Theme), appCfg); err != nil {
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}
