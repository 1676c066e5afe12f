package importer

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dayboard/internal/storage"
)

var testNow = time.Date(2025, 12, 15, 9, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.Open(
		storage.NewCodec(storage.NewMemorySlot("state"), nil),
		storage.WithClock(func() time.Time { return testNow }),
	)
}

func day(todo PreviewTodo) string {
	return storage.FormatDate(todo.Day(testNow))
}

func TestTodoistPreview(t *testing.T) {
	input := `TYPE,CONTENT,DESCRIPTION,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE
task,Buy groceries,,4,1,,,2025-12-20,en,America/New_York
task,Review PR,,1,1,,,,,
note,This is a note,,4,1,,,,,
section,Errands,,,,,,,,
task,Call mom,,3,1,,,every day,en,
task,  ,,4,1,,,,,`

	todos, err := (&TodoistImporter{}).Preview(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, todos, 3, "notes, sections and blank tasks are not todos")

	assert.Equal(t, "Buy groceries", todos[0].Label())
	assert.Equal(t, "2025-12-20", day(todos[0]))
	assert.Equal(t, storage.PriorityLow, todos[0].Priority)

	assert.Nil(t, todos[1].Date)
	assert.Equal(t, storage.PriorityHigh, todos[1].Priority)

	assert.Equal(t, "Errands: Call mom", todos[2].Label(), "tasks below a section carry its name")
	assert.Equal(t, "2025-12-15", day(todos[2]), "recurring dates fall back to the import day")
	assert.Empty(t, todos[2].Status)
}

func TestTodoistPreview_HeaderVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"byte order mark", "\ufeffTYPE,CONTENT,PRIORITY\ntask,With BOM,4\n", []string{"With BOM"}},
		{"lowercase and padded", " type , content \ntask,Lower\n", []string{"Lower"}},
		{"ragged rows", "TYPE,CONTENT,PRIORITY\ntask,One,4,EXTRA,EXTRA2\ntask,Two\n", []string{"One", "Two"}},
		{"header only", "TYPE,CONTENT\n", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			todos, err := (&TodoistImporter{}).Preview(strings.NewReader(tt.input))
			require.NoError(t, err)
			got := []string{}
			for _, todo := range todos {
				got = append(got, todo.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTodoistPreview_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty CSV"},
		{"no TYPE", "CONTENT,PRIORITY\nBuy groceries,4", "missing required column: TYPE"},
		{"no CONTENT", "TYPE,PRIORITY\ntask,4", "missing required column: CONTENT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&TodoistImporter{}).Preview(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestTodoistPriority(t *testing.T) {
	for in, want := range map[string]storage.Priority{
		"1": storage.PriorityHigh,
		"2": storage.PriorityHigh,
		"3": storage.PriorityMedium,
		"4": storage.PriorityLow,
		"":  "",
		"5": "",
	} {
		assert.Equal(t, want, todoistPriority(in), "priority %q", in)
	}
}

func TestParseTodoistDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-12-20", "2025-12-20"},
		{"Jan 2 2025", "2025-01-02"},
		{"Jan 2, 2025", "2025-01-02"},
		{"2 Jan 2025", "2025-01-02"},
		{"12/20/2025", "2025-12-20"},
		{"", ""},
		{"every monday", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := parseTodoistDate(tt.in)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, storage.FormatDate(*got))
		})
	}
}

func TestTaskwarriorPreview(t *testing.T) {
	array := `[
		{"description":"Buy milk","status":"pending","project":"Home","priority":"H"},
		{"description":"Review code","status":"completed","project":"Work"},
		{"description":"Deleted task","status":"deleted"}
	]`
	ndjson := `{"description":"Buy milk","status":"pending","project":"Home","priority":"H"}

{"description":"Review code","status":"completed","project":"Work"}
{"description":"Deleted task","status":"deleted"}
`
	for name, input := range map[string]string{"array": array, "ndjson": ndjson} {
		t.Run(name, func(t *testing.T) {
			todos, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(input))
			require.NoError(t, err)
			require.Len(t, todos, 2, "deleted tasks are dropped")

			assert.Equal(t, "Home: Buy milk", todos[0].Label())
			assert.Equal(t, storage.PriorityHigh, todos[0].Priority)
			assert.Equal(t, storage.StatusTodo, todos[0].Status)

			assert.Equal(t, "Work: Review code", todos[1].Label())
			assert.Equal(t, storage.StatusDone, todos[1].Status)
		})
	}
}

func TestTaskwarriorPreview_Status(t *testing.T) {
	input := `[
		{"description":"Pending","status":"pending"},
		{"description":"Completed","status":"completed"},
		{"description":"Waiting","status":"waiting"},
		{"description":"Started","status":"pending","start":"20251214T080000Z"},
		{"description":"Deleted","status":"deleted"}
	]`

	todos, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(input))
	require.NoError(t, err)

	got := []storage.Status{}
	for _, todo := range todos {
		got = append(got, todo.Status)
	}
	assert.Equal(t, []storage.Status{
		storage.StatusTodo, storage.StatusDone, storage.StatusTodo, storage.StatusDoing,
	}, got)
}

func TestTaskwarriorPreview_Day(t *testing.T) {
	input := `[
		{"description":"Due","status":"pending","due":"2025-12-20"},
		{"description":"Finished","status":"completed","end":"2025-12-10"},
		{"description":"Finished and due","status":"completed","due":"2025-12-11","end":"2025-12-10"},
		{"description":"Open","status":"pending","end":"2025-12-10"}
	]`

	todos, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(input))
	require.NoError(t, err)

	got := []string{}
	for _, todo := range todos {
		got = append(got, day(todo))
	}
	assert.Equal(t, []string{"2025-12-20", "2025-12-10", "2025-12-11", "2025-12-15"}, got)
}

func TestTaskwarriorPreview_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty input"},
		{"blank", " \n\t", "empty input"},
		{"bad line", "{\"description\":\"Task 1\"}\n{invalid json}\n", "decode task 2"},
		{"unterminated array", `[{"description":"Task 1"}`, "parse JSON array"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(tt.input))
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestTaskwarriorPreview_LongLine(t *testing.T) {
	desc := strings.Repeat("a", 70_000)
	input := fmt.Sprintf("{\"description\":%q,\"status\":\"pending\"}\n", desc)

	todos, err := (&TaskwarriorImporter{}).Preview(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, todos, 1)
	assert.Len(t, todos[0].Text, len(desc))
}

func TestTaskwarriorPriority(t *testing.T) {
	for in, want := range map[string]storage.Priority{
		"H": storage.PriorityHigh, "h": storage.PriorityHigh,
		"M": storage.PriorityMedium, "m": storage.PriorityMedium,
		"L": storage.PriorityLow, " l ": storage.PriorityLow,
		"": "",
	} {
		assert.Equal(t, want, taskwarriorPriority(in), "priority %q", in)
	}
}

func TestParseTaskwarriorDate(t *testing.T) {
	for _, in := range []string{
		"20251220T120000Z",
		"20251220T120000",
		"2025-12-20T12:00:00Z",
		"2025-12-20T12:00:00+01:00",
		"2025-12-20",
	} {
		assert.NotNil(t, parseTaskwarriorDate(in), in)
	}
	assert.Nil(t, parseTaskwarriorDate(""))
	assert.Nil(t, parseTaskwarriorDate("invalid"))

	local := parseTaskwarriorDate("2025-12-20T23:30:00")
	require.NotNil(t, local)
	assert.Equal(t, "2025-12-20", storage.FormatDate(*local), "zone-less times stay on their day")
}

func TestGetImporter(t *testing.T) {
	assert.Equal(t, []string{"todoist", "taskwarrior"}, SupportedFormats())
	for _, name := range SupportedFormats() {
		imp := GetImporter(name)
		require.NotNil(t, imp, name)
		assert.Equal(t, name, imp.Name())
	}
	assert.NotNil(t, GetImporter("Todoist"))
	assert.Nil(t, GetImporter("things"))
}

func TestImport_FilesTodosByDay(t *testing.T) {
	store := newTestStore(t)
	input := `TYPE,CONTENT,PRIORITY,INDENT,AUTHOR,RESPONSIBLE,DATE,DATE_LANG,TIMEZONE
task,Test task 1,1,1,,,,,
task,Test task 2,,1,,,2025-12-20,,`

	result, err := (&TodoistImporter{}).Import(strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Imported: 2}, result)

	today := store.GetTodos(testNow)
	require.Len(t, today, 1)
	assert.Equal(t, "Test task 1", today[0].Text)
	assert.Equal(t, storage.PriorityHigh, today[0].Priority)

	due := store.GetTodos(time.Date(2025, 12, 20, 0, 0, 0, 0, time.Local))
	require.Len(t, due, 1)
	assert.Equal(t, storage.PriorityMedium, due[0].Priority, "missing priority takes the store default")
	assert.Equal(t, storage.StatusTodo, due[0].Status)
}

func TestImport_SkipsDuplicates(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddTodo(testNow, "home: buy milk", "", "")
	require.NoError(t, err)

	input := `{"description":"Buy milk","project":"Home","status":"pending"}
{"description":"Call mom","status":"completed","end":"2025-12-15T10:00:00"}
{"description":"Call mom","status":"pending"}`
	imp := &TaskwarriorImporter{}

	result, err := imp.Import(strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Skipped, "case-insensitive match on the same day, then a repeat within the file")

	todos := store.GetTodos(testNow)
	require.Len(t, todos, 2)
	assert.Equal(t, "Call mom", todos[1].Text)
	assert.True(t, todos[1].Completed)

	again, err := imp.Import(strings.NewReader(input), store)
	require.NoError(t, err)
	assert.Equal(t, &ImportResult{Skipped: 3}, again)
}

func TestImport_ParseErrorChangesNothing(t *testing.T) {
	store := newTestStore(t)
	_, err := (&TaskwarriorImporter{}).Import(strings.NewReader("{\"description\":\"ok\"}\n{bad"), store)
	require.Error(t, err)
	assert.Empty(t, store.GetTodos(testNow))
}
