package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"dayboard/internal/backup"
)

func restoreCmd() *Command {
	fs := newFlagSet("restore")
	latest := fs.BoolP("latest", "l", false, "restore from the most recent backup")
	force := fs.BoolP("force", "f", false, "skip the confirmation prompt")

	return &Command{
		Flags: fs,
		Usage: "restore NAME|--latest",
		Short: "Restore the state from a backup",
		Long: `DESCRIPTION:
    Replaces the current state with a backup. The backup is checked before
    anything changes, and the current state is saved as a new backup first,
    so a restore can itself be undone with another restore.

EXAMPLES:
    # Restore from the most recent backup
    dayboard restore --latest

    # Restore a specific backup without prompting
    dayboard restore 2025-12-15_143022_042 --force

    # See what is available
    dayboard backup --list
`,
		Exec: func(o *IO, args []string) error {
			if !*latest && len(args) == 0 {
				o.ErrPrintln("Use 'dayboard restore BACKUP_NAME' or 'dayboard restore --latest'")
				o.ErrPrintln("Run 'dayboard backup --list' to see available backups.")
				return errors.New("no backup specified")
			}
			if *latest && len(args) > 0 {
				return errors.New("--latest does not take a backup name")
			}
			if len(args) > 1 {
				return fmt.Errorf("unexpected arguments: %v", args[1:])
			}

			s, err := openSession(o)
			if err != nil {
				return err
			}
			defer s.Close()

			manager := backup.NewManager(s.store, s.dataDir, version)

			var info *backup.BackupInfo
			if *latest {
				info, err = manager.Latest()
			} else {
				info, err = manager.GetBackup(args[0])
			}
			if err != nil {
				return err
			}
			name := info.Name

			o.Printf("Restoring from backup: %s\n", info.Name)
			o.Printf("  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			o.Printf("  %s\n\n", info.Stats)

			if !*force && !confirm(o, "⚠ This will overwrite your current data.\nContinue? [y/N] ") {
				o.Println("Restore cancelled.")
				return nil
			}

			safety, err := manager.Restore(name)
			if err != nil {
				return fmt.Errorf("restoring backup: %w", err)
			}

			o.Printf("✓ Safety backup created: %s\n", safety)
			o.Printf("✓ Restored successfully from %s\n", name)
			return nil
		},
	}
}

// confirm prints prompt and reports whether the user answered yes.
func confirm(o *IO, prompt string) bool {
	o.Printf("%s", prompt)
	response, err := bufio.NewReader(o.in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
