package main

import (
	"errors"
	"fmt"
	"time"

	"dayboard/internal/backup"
)

func backupCmd() *Command {
	fs := newFlagSet("backup")
	list := fs.BoolP("list", "l", false, "list available backups")
	keep := fs.IntP("keep", "k", 0, "after creating, delete all but the `N` newest backups")

	return &Command{
		Flags: fs,
		Usage: "backup [--list] [--keep N]",
		Short: "Create a backup, or list existing ones",
		Long: `DESCRIPTION:
    Creates a timestamped snapshot of the whole state (habits, completions,
    logs and todos). Backups are stored in ~/.dayboard/backups/ and can be
    restored later with 'dayboard restore'.

EXAMPLES:
    # Create a new backup
    dayboard backup

    # List all available backups
    dayboard backup --list

    # Create a backup and keep only the ten newest
    dayboard backup --keep 10
`,
		Exec: func(o *IO, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unexpected arguments: %v", args)
			}
			if *keep < 0 || (*list && *keep > 0) {
				return errors.New("--keep takes a positive count and cannot be combined with --list")
			}
			s, err := openSession(o)
			if err != nil {
				return err
			}
			defer s.Close()

			manager := backup.NewManager(s.store, s.dataDir, version)
			if *list {
				return listBackups(o, manager)
			}
			if err := createBackup(o, manager); err != nil {
				return err
			}
			if *keep > 0 {
				removed, err := manager.Prune(*keep)
				if err != nil {
					return fmt.Errorf("pruning backups: %w", err)
				}
				if removed > 0 {
					o.Printf("✓ Removed %d old backup(s)\n", removed)
				}
			}
			return nil
		},
	}
}

// createBackup creates a new backup and displays the result.
func createBackup(o *IO, manager *backup.Manager) error {
	name, err := manager.Create()
	if err != nil {
		return fmt.Errorf("creating backup: %w", err)
	}

	info, err := manager.GetBackup(name)
	if err != nil {
		return fmt.Errorf("reading backup info: %w", err)
	}

	o.Printf("✓ Backup created: %s\n", name)
	o.Printf("  %s\n", info.Stats)
	o.Printf("  Location: %s\n", info.Path)
	return nil
}

// listBackups lists all available backups.
func listBackups(o *IO, manager *backup.Manager) error {
	backups, err := manager.List()
	if err != nil {
		return fmt.Errorf("listing backups: %w", err)
	}

	if len(backups) == 0 {
		o.Println("No backups available.")
		o.Println("Run 'dayboard backup' to create one.")
		return nil
	}

	o.Println("Available backups:")
	now := time.Now()
	for _, b := range backups {
		o.Printf("  %s  (%s)   %s\n", b.Name, formatAge(now.Sub(b.CreatedAt)), b.Stats)
	}
	return nil
}

// formatAge returns a human-readable age string.
func formatAge(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute")
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour")
	case d < 7*24*time.Hour:
		return plural(int(d.Hours()/24), "day")
	default:
		return plural(int(d.Hours()/24/7), "week")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
