package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"dayboard/internal/storage"
)

// TodoistImporter reads the CSV produced by Todoist's project backups.
//
// Rows of TYPE "task" become todos. A "section" row names the section the
// tasks below it belong to, and that name is kept as the todo's project.
// Notes and any other row types are ignored.
type TodoistImporter struct{}

func (t *TodoistImporter) Name() string { return "todoist" }

func (t *TodoistImporter) Import(reader io.Reader, store *storage.Store) (*ImportResult, error) {
	todos, err := t.Preview(reader)
	if err != nil {
		return nil, err
	}
	return fileTodos(store, todos), nil
}

func (t *TodoistImporter) Preview(reader io.Reader) ([]PreviewTodo, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty CSV: no header row")
	}
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	cols, err := todoistColumnsFrom(header)
	if err != nil {
		return nil, err
	}

	todos := []PreviewTodo{}
	section := ""
	for line := 2; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return todos, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV row %d: %w", line, err)
		}

		content := cols.get(record, cols.content)
		switch strings.ToLower(cols.get(record, cols.kind)) {
		case "section":
			section = content
		case "task":
			if content == "" {
				continue
			}
			todos = append(todos, PreviewTodo{
				Text:     content,
				Project:  section,
				Priority: todoistPriority(cols.get(record, cols.priority)),
				Date:     parseTodoistDate(cols.get(record, cols.date)),
			})
		}
	}
}

// todoistColumns holds the index of each column we read, -1 when absent.
type todoistColumns struct {
	kind, content, priority, date int
}

func todoistColumnsFrom(header []string) (todoistColumns, error) {
	cols := todoistColumns{kind: -1, content: -1, priority: -1, date: -1}
	for i, name := range header {
		// Some exports start with a UTF-8 byte order mark.
		name = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		switch name {
		case "TYPE":
			cols.kind = i
		case "CONTENT":
			cols.content = i
		case "PRIORITY":
			cols.priority = i
		case "DATE":
			cols.date = i
		}
	}
	if cols.kind < 0 {
		return cols, errors.New("missing required column: TYPE")
	}
	if cols.content < 0 {
		return cols, errors.New("missing required column: CONTENT")
	}
	return cols, nil
}

// get returns the trimmed field at idx, or "" for absent columns and short
// rows.
func (c todoistColumns) get(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// todoistPriority maps Todoist's 1 (urgent) to 4 (normal) scale. Anything
// else is left empty so the store default applies.
func todoistPriority(p string) storage.Priority {
	switch p {
	case "1", "2":
		return storage.PriorityHigh
	case "3":
		return storage.PriorityMedium
	case "4":
		return storage.PriorityLow
	}
	return ""
}

var todoistDateLayouts = []string{
	"2006-01-02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"01/02/2006",
}

// parseTodoistDate reads the DATE column in the local zone. Recurring
// phrases such as "every day" have no fixed day and yield nil.
func parseTodoistDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range todoistDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
