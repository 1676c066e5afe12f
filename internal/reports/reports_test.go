package reports

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"dayboard/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNow is Wednesday; its week runs Sunday Dec 14 to Saturday Dec 20.
var testNow = time.Date(2025, 12, 17, 9, 0, 0, 0, time.Local)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.Open(
		storage.NewCodec(storage.NewMemorySlot("state"), nil),
		storage.WithClock(func() time.Time { return testNow }),
	)
}

// seed adds two habits, a few todos and a log around testNow.
func seed(t *testing.T, store *storage.Store) (read, run storage.Habit) {
	t.Helper()
	var err error
	read, err = store.AddHabit("Read", "📚")
	require.NoError(t, err)
	run, err = store.AddHabit("Run", "")
	require.NoError(t, err)

	// Read: Mon, Tue, Wed. Run: Wed only.
	for _, offset := range []int{-2, -1, 0} {
		_, err := store.ToggleHabit(read.ID, testNow.AddDate(0, 0, offset))
		require.NoError(t, err)
	}
	_, err = store.ToggleHabit(run.ID, testNow)
	require.NoError(t, err)

	_, err = store.AddTodo(testNow, "Ship release", storage.PriorityHigh, storage.StatusDone)
	require.NoError(t, err)
	_, err = store.AddTodo(testNow, "Review PR", storage.PriorityMedium, storage.StatusDoing)
	require.NoError(t, err)
	_, err = store.AddTodo(testNow, "Water plants", storage.PriorityLow, "")
	require.NoError(t, err)
	_, err = store.AddTodo(testNow.AddDate(0, 0, -2), "Groceries", storage.PriorityMedium, storage.StatusDone)
	require.NoError(t, err)
	// Outside the week.
	_, err = store.AddTodo(testNow.AddDate(0, 0, -7), "Old", storage.PriorityHigh, "")
	require.NoError(t, err)

	require.NoError(t, store.UpdateLog(testNow, "Shipped it.\nTired."))
	return read, run
}

func TestGenerateDaily(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	r := NewGenerator(store).GenerateDaily(testNow)

	assert.Equal(t, storage.StartOfDay(testNow), r.Date)
	assert.Equal(t, testNow, r.GeneratedAt)
	assert.Equal(t, "Shipped it.\nTired.", r.Log)

	assert.Equal(t, 3, r.Todos.TotalCount)
	assert.Equal(t, 1, r.Todos.DoneCount)
	require.Len(t, r.Todos.Done, 1)
	assert.Equal(t, "Ship release", r.Todos.Done[0].Text)
	require.Len(t, r.Todos.Doing, 1)
	require.Len(t, r.Todos.Open, 1)
	assert.Equal(t, []PriorityCount{
		{Priority: storage.PriorityHigh, Total: 1, Done: 1},
		{Priority: storage.PriorityMedium, Total: 1},
		{Priority: storage.PriorityLow, Total: 1},
	}, r.Todos.ByPriority)

	assert.Equal(t, 2, r.Habits.CompletedCount)
	assert.Equal(t, 2, r.Habits.TotalCount)
	assert.Equal(t, 100, r.Habits.CompletionRate)
	require.Len(t, r.Habits.Habits, 2)
	assert.Equal(t, 3, r.Habits.Habits[0].Streak)
	assert.Equal(t, 1, r.Habits.Habits[1].Streak)
}

func TestGenerateDaily_Empty(t *testing.T) {
	r := NewGenerator(newTestStore(t)).GenerateDaily(testNow)

	assert.Zero(t, r.Todos.TotalCount)
	assert.Empty(t, r.Todos.ByPriority)
	assert.Zero(t, r.Habits.CompletionRate)

	out := FormatDailyMarkdown(r)
	assert.Contains(t, out, "_Nothing planned._")
	assert.Contains(t, out, "_No habits tracked._")
	assert.Contains(t, out, "_No entry._")
}

func TestGenerateWeekly(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	r := NewGenerator(store).GenerateWeekly(testNow)

	assert.Equal(t, "2025-12-14", storage.FormatDate(r.StartDate))
	assert.Equal(t, "2025-12-20", storage.FormatDate(r.EndDate))
	assert.Equal(t, 4, r.Todos.TotalPlanned, "the previous week's todo is excluded")
	assert.Equal(t, 2, r.Todos.TotalCompleted)

	require.Len(t, r.Habits.Habits, 2)
	read := r.Habits.Habits[0]
	assert.Equal(t, []bool{false, true, true, true, false, false, false}, read.DaysCompleted)
	assert.Equal(t, 3, read.CompletedCount)
	assert.Equal(t, 43, read.CompletionRate)
	assert.Equal(t, 4, r.Habits.TotalCompleted)
	assert.Equal(t, 14, r.Habits.TotalExpected)
	assert.Equal(t, 29, r.Habits.OverallRate)

	require.Len(t, r.DailyBreakdown, 7)
	mon := r.DailyBreakdown[1]
	assert.Equal(t, "Mon", mon.DayOfWeek)
	assert.Equal(t, DailySummary{
		Date: "2025-12-15", DayOfWeek: "Mon",
		TodosDone: 1, TodosTotal: 1,
		HabitsComplete: 1, HabitsTotal: 2, CompletionRate: 50,
	}, mon)
	assert.True(t, r.DailyBreakdown[3].HasLog)
}

func TestStateGenerator(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	state := store.Snapshot()

	// Later changes to the store do not reach a fixed document.
	require.NoError(t, store.UpdateLog(testNow, "changed"))

	r := NewStateGenerator(state, func() time.Time { return testNow }).GenerateDaily(testNow)
	assert.Equal(t, "Shipped it.\nTired.", r.Log)
}

func TestFormatDailyMarkdown(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	out := FormatDailyMarkdown(NewGenerator(store).GenerateDaily(testNow))

	for _, want := range []string{
		"# Daily Report: Wednesday, December 17, 2025",
		"1 of 3 done.",
		"- [x] Ship release **!**",
		"- [ ] Review PR _(doing)_",
		"- [ ] Water plants",
		"2 of 2 completed (100%).",
		"- [x] 📚 Read (3 day streak)",
		"- [x] Run\n",
		"> Shipped it.\n> Tired.\n",
		"_Generated 2025-12-17 09:00_",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatWeeklyMarkdown(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)

	out := FormatWeeklyMarkdown(NewGenerator(store).GenerateWeekly(testNow))

	for _, want := range []string{
		"# Weekly Report: Dec 14 - Dec 20, 2025",
		"- Todos done: 2 of 4",
		"- Habit completion: 29% (4 of 14)",
		"- Days with a log: 1",
		"| 📚 Read | · | ✓ | ✓ | ✓ | · | · | · | 43% |",
		"- high: 1 of 1 done",
		"| Wed | 2025-12-17 | 1/3 | 2/2 (100%) | ✓ |",
	} {
		assert.Contains(t, out, want)
	}
}

func TestFormatJSON(t *testing.T) {
	store := newTestStore(t)
	seed(t, store)
	gen := NewGenerator(store)

	data, err := FormatJSON(gen.GenerateDaily(testNow))
	require.NoError(t, err)
	var daily map[string]any
	require.NoError(t, json.Unmarshal(data, &daily))
	assert.Contains(t, daily, "todos")
	assert.Contains(t, daily, "habits")
	assert.Equal(t, "Shipped it.\nTired.", daily["log"])

	data, err = FormatJSON(gen.GenerateWeekly(testNow))
	require.NoError(t, err)
	var weekly map[string]any
	require.NoError(t, json.Unmarshal(data, &weekly))
	breakdown, ok := weekly["daily_breakdown"].([]any)
	require.True(t, ok)
	assert.Len(t, breakdown, 7)
}

func TestFormatJSON_KeepsText(t *testing.T) {
	store := newTestStore(t)
	_, err := store.AddTodo(testNow, "Q&A <prep>", "", "")
	require.NoError(t, err)

	data, err := FormatJSON(NewGenerator(store).GenerateDaily(testNow))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Q&A <prep>")
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `a\|b`, escapeCell("a|b"))
}
