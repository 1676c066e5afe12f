package importer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"dayboard/internal/storage"
)

// TaskwarriorImporter reads the output of `task export`, either a JSON array
// or one JSON object per line.
type TaskwarriorImporter struct{}

// taskwarriorTask holds the exported fields we map. Dates are in
// Taskwarrior's compact ISO form, e.g. 20251214T080000Z.
type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Project     string `json:"project"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
	End         string `json:"end"`
	Start       string `json:"start"`
}

func (t *TaskwarriorImporter) Name() string { return "taskwarrior" }

func (t *TaskwarriorImporter) Import(reader io.Reader, store *storage.Store) (*ImportResult, error) {
	todos, err := t.Preview(reader)
	if err != nil {
		return nil, err
	}
	return fileTodos(store, todos), nil
}

// Preview decodes the export as a stream of task objects. A leading '['
// switches to array mode; otherwise the objects are read back to back,
// which covers newline-delimited output.
func (t *TaskwarriorImporter) Preview(reader io.Reader) ([]PreviewTodo, error) {
	br := bufio.NewReader(reader)
	first, err := peekNonSpace(br)
	if errors.Is(err, io.EOF) {
		return nil, errors.New("empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	dec := json.NewDecoder(br)
	array := first == '['
	if array {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("parse JSON array: %w", err)
		}
	}

	todos := []PreviewTodo{}
	for n := 1; ; n++ {
		if array && !dec.More() {
			break
		}
		var task taskwarriorTask
		err := dec.Decode(&task)
		if !array && errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode task %d: %w", n, err)
		}
		if todo, ok := task.todo(); ok {
			todos = append(todos, todo)
		}
	}

	if array {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("parse JSON array: %w", err)
		}
	}
	return todos, nil
}

// peekNonSpace skips leading whitespace and returns the next byte without
// consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return b, br.UnreadByte()
	}
}

// todo maps one task. Deleted and blank tasks are dropped. The day is the
// due date, or the end date for completed tasks.
func (tw taskwarriorTask) todo() (PreviewTodo, bool) {
	text := strings.TrimSpace(tw.Description)
	if tw.Status == "deleted" || text == "" {
		return PreviewTodo{}, false
	}

	todo := PreviewTodo{
		Text:     text,
		Project:  strings.TrimSpace(tw.Project),
		Priority: taskwarriorPriority(tw.Priority),
		Status:   storage.StatusTodo,
		Date:     parseTaskwarriorDate(tw.Due),
	}
	switch {
	case tw.Status == "completed":
		todo.Status = storage.StatusDone
		if todo.Date == nil {
			todo.Date = parseTaskwarriorDate(tw.End)
		}
	case tw.Start != "":
		todo.Status = storage.StatusDoing
	}
	return todo, true
}

func taskwarriorPriority(p string) storage.Priority {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "H":
		return storage.PriorityHigh
	case "M":
		return storage.PriorityMedium
	case "L":
		return storage.PriorityLow
	}
	return ""
}

// parseTaskwarriorDate reads UTC timestamps into the local zone so the todo
// lands on the user's calendar day. Zone-less values are already local.
func parseTaskwarriorDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"20060102T150405Z", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			local := t.Local()
			return &local
		}
	}
	for _, layout := range []string{"20060102T150405", "2006-01-02T15:04:05", time.DateOnly} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
