// Package importer migrates tasks from other productivity tools such as
// Todoist and Taskwarrior into dated todos.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"dayboard/internal/storage"
)

// ImportResult contains statistics about an import operation.
type ImportResult struct {
	Imported int      // todos added
	Skipped  int      // already present on their day
	Errors   []string // per-todo failures
}

// PreviewTodo is a parsed todo before it is added to the store.
type PreviewTodo struct {
	Date     *time.Time // nil means the import day
	Text     string
	Project  string
	Priority storage.Priority // empty means the store default
	Status   storage.Status
}

// Importer turns one foreign export format into todos.
type Importer interface {
	// Name is the format name used on the command line.
	Name() string

	// Preview parses the export without touching the store.
	Preview(reader io.Reader) ([]PreviewTodo, error)

	// Import parses the export and files every todo in the store.
	Import(reader io.Reader, store *storage.Store) (*ImportResult, error)
}

// formats lists the importers in the order they are advertised.
var formats = []Importer{
	&TodoistImporter{},
	&TaskwarriorImporter{},
}

// GetImporter returns the importer for format, or nil if none matches.
func GetImporter(format string) Importer {
	for _, imp := range formats {
		if strings.EqualFold(imp.Name(), format) {
			return imp
		}
	}
	return nil
}

// SupportedFormats returns the names accepted by GetImporter.
func SupportedFormats() []string {
	names := make([]string, len(formats))
	for i, imp := range formats {
		names[i] = imp.Name()
	}
	return names
}

// Label is the todo text stored for p; the project, if any, becomes a
// prefix.
func (p PreviewTodo) Label() string {
	if p.Project == "" {
		return p.Text
	}
	return p.Project + ": " + p.Text
}

// Day returns the day the todo is filed under, using today when the source
// had no date.
func (p PreviewTodo) Day(today time.Time) time.Time {
	if p.Date != nil {
		return storage.StartOfDay(*p.Date)
	}
	return storage.StartOfDay(today)
}

// fileTodos files todos under their days. A todo whose text already exists on
// its day is skipped, so running the same import twice adds nothing.
func fileTodos(store *storage.Store, todos []PreviewTodo) *ImportResult {
	result := &ImportResult{}
	today := store.Now()
	seen := map[string]bool{}   // date + lowercased text
	loaded := map[string]bool{} // dates whose existing todos are in seen

	for _, todo := range todos {
		day := todo.Day(today)
		dateKey := storage.FormatDate(day)
		text := todo.Label()

		if !loaded[dateKey] {
			for _, existing := range store.GetTodos(day) {
				seen[dateKey+"\x00"+strings.ToLower(existing.Text)] = true
			}
			loaded[dateKey] = true
		}
		key := dateKey + "\x00" + strings.ToLower(text)
		if seen[key] {
			result.Skipped++
			continue
		}

		if _, err := store.AddTodo(day, text, todo.Priority, todo.Status); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", text, err))
			continue
		}
		seen[key] = true
		result.Imported++
	}
	return result
}
