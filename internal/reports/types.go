// Package reports summarizes todos, habits and logs into daily and weekly
// reports, rendered as Markdown or JSON.
package reports

import (
	"time"

	"dayboard/internal/storage"
)

// DailyReport contains aggregated data for a single day.
type DailyReport struct {
	Date        time.Time    `json:"date"`
	Todos       TodoSummary  `json:"todos"`
	Habits      HabitSummary `json:"habits"`
	Log         string       `json:"log"`
	GeneratedAt time.Time    `json:"generated_at"`
}

// WeeklyReport contains aggregated data for a Sunday-to-Saturday week.
type WeeklyReport struct {
	StartDate      time.Time      `json:"start_date"`
	EndDate        time.Time      `json:"end_date"`
	Todos          WeeklyTodos    `json:"todos"`
	Habits         WeeklyHabits   `json:"habits"`
	DailyBreakdown []DailySummary `json:"daily_breakdown"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

// TodoSummary contains the day's todos grouped by status.
type TodoSummary struct {
	Done       []storage.TodoItem `json:"done"`
	Doing      []storage.TodoItem `json:"doing"`
	Open       []storage.TodoItem `json:"open"`
	DoneCount  int                `json:"done_count"`
	TotalCount int                `json:"total_count"`
	ByPriority []PriorityCount    `json:"by_priority"`
}

// PriorityCount counts todos of one priority.
type PriorityCount struct {
	Priority storage.Priority `json:"priority"`
	Total    int              `json:"total"`
	Done     int              `json:"done"`
}

// HabitSummary contains habit statistics for a day.
type HabitSummary struct {
	Habits         []HabitStatus `json:"habits"`
	CompletedCount int           `json:"completed_count"`
	TotalCount     int           `json:"total_count"`
	CompletionRate int           `json:"completion_rate"` // 0..100
}

// HabitStatus represents a habit and its completion on the report day.
type HabitStatus struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Emoji  string `json:"emoji"`
	Done   bool   `json:"done"`
	Streak int    `json:"streak"`
}

// WeeklyTodos contains todo statistics for a week.
type WeeklyTodos struct {
	TotalCompleted int             `json:"total_completed"`
	TotalPlanned   int             `json:"total_planned"`
	ByPriority     []PriorityCount `json:"by_priority"`
}

// WeeklyHabits contains habit statistics for a week.
type WeeklyHabits struct {
	Habits         []WeeklyHabitStatus `json:"habits"`
	OverallRate    int                 `json:"overall_rate"`
	TotalCompleted int                 `json:"total_completed"`
	TotalExpected  int                 `json:"total_expected"`
}

// WeeklyHabitStatus represents a habit's completion over a week.
type WeeklyHabitStatus struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Emoji          string `json:"emoji"`
	DaysCompleted  []bool `json:"days_completed"` // Sunday first
	CompletedCount int    `json:"completed_count"`
	CompletionRate int    `json:"completion_rate"`
	Streak         int    `json:"streak"`
}

// DailySummary provides a quick overview of a single day within a week.
type DailySummary struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	TodosDone      int    `json:"todos_done"`
	TodosTotal     int    `json:"todos_total"`
	HabitsComplete int    `json:"habits_complete"`
	HabitsTotal    int    `json:"habits_total"`
	CompletionRate int    `json:"completion_rate"`
	HasLog         bool   `json:"has_log"`
}
