package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"dayboard/internal/importer"
	"dayboard/internal/storage"
)

// previewLimit caps how many todos a dry run prints.
const previewLimit = 20

func importCmd() *Command {
	fs := newFlagSet("import")
	dryRun := fs.Bool("dry-run", false, "preview import without making changes")

	return &Command{
		Flags: fs,
		Usage: "import [--dry-run] FORMAT FILE",
		Short: "Import todos from Todoist or Taskwarrior",
		Long: `FORMATS:
    todoist      Import from a Todoist CSV backup
    taskwarrior  Import from a Taskwarrior JSON export

DESCRIPTION:
    Adds the tasks of another tool as todos on their due day, or on today
    when they have none. A todo whose text already exists on that day is
    skipped, so importing the same file twice adds nothing.

    TODOIST:
      Export your tasks from Todoist via Settings → Backups.

    TASKWARRIOR:
      Export your tasks using: task export > tasks.json
      Both JSON array and newline-delimited JSON formats are supported.

FIELD MAPPING:
    Todoist:
      - CONTENT → todo text
      - PRIORITY: 1,2 → high, 3 → medium, 4 → low
      - DATE → day
      - Notes are skipped

    Taskwarrior:
      - description → todo text, prefixed with the project
      - priority: H → high, M → medium, L → low
      - due → day (end for completed tasks)
      - status: completed → done, started → doing
      - Deleted tasks are skipped

EXAMPLES:
    # Import from Todoist
    dayboard import todoist ~/Downloads/Todoist_backup.csv

    # Preview before importing
    dayboard import --dry-run taskwarrior tasks.json
`,
		Exec: func(o *IO, args []string) error {
			if len(args) != 2 {
				o.ErrPrintf("Formats: %s\n", strings.Join(importer.SupportedFormats(), ", "))
				return errors.New("expected FORMAT and FILE")
			}

			format := strings.ToLower(args[0])
			imp := importer.GetImporter(format)
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)",
					format, strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			s, err := openSession(o)
			if err != nil {
				return err
			}
			defer s.Close()

			if *dryRun {
				todos, err := imp.Preview(file)
				if err != nil {
					return fmt.Errorf("parsing file: %w", err)
				}
				printPreview(o, todos, s.store)
				return nil
			}

			result, err := imp.Import(file, s.store)
			if err != nil {
				return fmt.Errorf("importing: %w", err)
			}
			s.logger.Info("import finished",
				zap.String("format", imp.Name()),
				zap.Int("imported", result.Imported),
				zap.Int("skipped", result.Skipped),
				zap.Int("errors", len(result.Errors)))

			o.Println("Import complete!")
			o.Printf("  Imported: %d todos\n", result.Imported)
			if result.Skipped > 0 {
				o.Printf("  Skipped:  %d already present\n", result.Skipped)
			}
			if len(result.Errors) > 0 {
				o.Printf("  Errors:   %d\n", len(result.Errors))
				for _, e := range result.Errors {
					o.Printf("    - %s\n", e)
				}
			}
			return nil
		},
	}
}

// printPreview lists the todos an import would add and the day each lands on.
func printPreview(o *IO, todos []importer.PreviewTodo, store *storage.Store) {
	if len(todos) == 0 {
		o.Println("No tasks found to import.")
		return
	}

	o.Printf("Preview: %d todos to import\n", len(todos))
	o.Println("────────────────────────────")

	today := store.Now()
	for i, todo := range todos {
		if i == previewLimit {
			o.Printf("  ... and %d more\n", len(todos)-previewLimit)
			break
		}
		details := []string{storage.FormatDate(todo.Day(today))}
		if todo.Priority != "" {
			details = append(details, string(todo.Priority))
		}
		if todo.Status != "" && todo.Status != storage.StatusTodo {
			details = append(details, string(todo.Status))
		}
		o.Printf("  %s (%s)\n", todo.Label(), strings.Join(details, ", "))
	}

	o.Println()
	o.Println("Run without --dry-run to import.")
}
