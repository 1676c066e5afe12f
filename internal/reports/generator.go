package reports

import (
	"math"
	"time"

	"dayboard/internal/storage"
)

// Generator creates reports from a state snapshot.
type Generator struct {
	snapshot func() *storage.AppState
	now      func() time.Time
}

// NewGenerator creates a report generator over the store's current state.
func NewGenerator(store *storage.Store) *Generator {
	return &Generator{snapshot: store.Snapshot, now: store.Now}
}

// NewStateGenerator creates a generator over a fixed document, such as a
// backup that has not been restored.
func NewStateGenerator(state *storage.AppState, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{snapshot: func() *storage.AppState { return state }, now: now}
}

// GenerateDaily generates a report for a specific date.
func (g *Generator) GenerateDaily(date time.Time) *DailyReport {
	state := g.snapshot()
	date = storage.StartOfDay(date)
	key := storage.FormatDate(date)

	return &DailyReport{
		Date:        date,
		Todos:       todoSummary(state.Todos[key]),
		Habits:      habitSummary(state, date),
		Log:         state.Logs[key],
		GeneratedAt: g.now(),
	}
}

// GenerateWeekly generates a report for the Sunday-to-Saturday week that
// contains date.
func (g *Generator) GenerateWeekly(date time.Time) *WeeklyReport {
	state := g.snapshot()
	start := storage.StartOfWeek(date)
	end := start.AddDate(0, 0, 7)

	var weekTodos []storage.TodoItem
	breakdown := make([]DailySummary, 0, 7)
	for i := range 7 {
		day := start.AddDate(0, 0, i)
		key := storage.FormatDate(day)
		todos := state.Todos[key]
		weekTodos = append(weekTodos, todos...)

		summary := todoSummary(todos)
		habits := habitSummary(state, day)
		breakdown = append(breakdown, DailySummary{
			Date:           key,
			DayOfWeek:      day.Format("Mon"),
			TodosDone:      summary.DoneCount,
			TodosTotal:     summary.TotalCount,
			HabitsComplete: habits.CompletedCount,
			HabitsTotal:    habits.TotalCount,
			CompletionRate: habits.CompletionRate,
			HasLog:         state.Logs[key] != "",
		})
	}

	week := todoSummary(weekTodos)
	return &WeeklyReport{
		StartDate: start,
		EndDate:   end.Add(-time.Nanosecond),
		Todos: WeeklyTodos{
			TotalCompleted: week.DoneCount,
			TotalPlanned:   week.TotalCount,
			ByPriority:     week.ByPriority,
		},
		Habits:         weeklyHabits(state, start),
		DailyBreakdown: breakdown,
		GeneratedAt:    g.now(),
	}
}

// todoSummary groups todos by status. Priorities are listed high to low and
// only when present.
func todoSummary(todos []storage.TodoItem) TodoSummary {
	summary := TodoSummary{
		Done:       []storage.TodoItem{},
		Doing:      []storage.TodoItem{},
		Open:       []storage.TodoItem{},
		TotalCount: len(todos),
		ByPriority: []PriorityCount{},
	}

	counts := map[storage.Priority]*PriorityCount{}
	for _, item := range todos {
		switch item.Status {
		case storage.StatusDone:
			summary.Done = append(summary.Done, item)
		case storage.StatusDoing:
			summary.Doing = append(summary.Doing, item)
		default:
			summary.Open = append(summary.Open, item)
		}

		c, ok := counts[item.Priority]
		if !ok {
			c = &PriorityCount{Priority: item.Priority}
			counts[item.Priority] = c
		}
		c.Total++
		if item.Completed {
			c.Done++
		}
	}
	summary.DoneCount = len(summary.Done)

	for _, p := range []storage.Priority{storage.PriorityHigh, storage.PriorityMedium, storage.PriorityLow} {
		if c, ok := counts[p]; ok {
			summary.ByPriority = append(summary.ByPriority, *c)
		}
	}
	return summary
}

// habitSummary reports each habit's mark on date.
func habitSummary(state *storage.AppState, date time.Time) HabitSummary {
	key := storage.FormatDate(date)
	summary := HabitSummary{Habits: []HabitStatus{}, TotalCount: len(state.Habits)}

	for _, habit := range state.Habits {
		done := state.Completions[storage.CompletionKey(habit.ID, key)]
		if done {
			summary.CompletedCount++
		}
		summary.Habits = append(summary.Habits, HabitStatus{
			ID:     habit.ID,
			Name:   habit.Name,
			Emoji:  habit.Emoji,
			Done:   done,
			Streak: streakAt(state, habit.ID, date),
		})
	}
	summary.CompletionRate = percent(summary.CompletedCount, summary.TotalCount)
	return summary
}

// weeklyHabits reports every habit over the seven days from start. Every
// habit is expected daily.
func weeklyHabits(state *storage.AppState, start time.Time) WeeklyHabits {
	weekly := WeeklyHabits{Habits: []WeeklyHabitStatus{}}
	last := start.AddDate(0, 0, 6)

	for _, habit := range state.Habits {
		days := make([]bool, 7)
		count := 0
		for i := range days {
			key := storage.FormatDate(start.AddDate(0, 0, i))
			days[i] = state.Completions[storage.CompletionKey(habit.ID, key)]
			if days[i] {
				count++
			}
		}
		weekly.TotalCompleted += count
		weekly.TotalExpected += 7
		weekly.Habits = append(weekly.Habits, WeeklyHabitStatus{
			ID:             habit.ID,
			Name:           habit.Name,
			Emoji:          habit.Emoji,
			DaysCompleted:  days,
			CompletedCount: count,
			CompletionRate: percent(count, 7),
			Streak:         streakAt(state, habit.ID, last),
		})
	}
	weekly.OverallRate = percent(weekly.TotalCompleted, weekly.TotalExpected)
	return weekly
}

// streakAt counts consecutive completed days ending at date, or ending the
// day before when date itself is not marked.
func streakAt(state *storage.AppState, habitID string, date time.Time) int {
	day := storage.StartOfDay(date)
	done := func(d time.Time) bool {
		return state.Completions[storage.CompletionKey(habitID, storage.FormatDate(d))]
	}
	if !done(day) {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for done(day) {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}
