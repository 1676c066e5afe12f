package storage

import "time"

// HistoryPoint is one day of the rolling completion history.
type HistoryPoint struct {
	Date string `json:"date"` // display label, e.g. "Jan 2"
	Key  string `json:"key"`  // YYYY-MM-DD
	Rate int    `json:"rate"` // 0..100
}

// GetCompletionHistory returns one point per day for the trailing window of
// days ending today, oldest first.
func (s *Store) GetCompletionHistory(days int) []HistoryPoint {
	return s.CompletionHistoryAt(s.Now(), days)
}

// CompletionHistoryAt is GetCompletionHistory with an explicit end day.
func (s *Store) CompletionHistoryAt(end time.Time, days int) []HistoryPoint {
	if days <= 0 {
		return []HistoryPoint{}
	}
	end = StartOfDay(end)

	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]HistoryPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := end.AddDate(0, 0, -i)
		key := FormatDate(day)
		points = append(points, HistoryPoint{
			Date: DisplayDate(day),
			Key:  key,
			Rate: s.completionRate(key),
		})
	}
	return points
}

// HabitStreak counts consecutive completed days for a habit ending at at.
// If at itself is not completed, counting starts from the previous day.
func (s *Store) HabitStreak(habitID string, at time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	date := StartOfDay(at)
	done := func(d time.Time) bool {
		return s.state.Completions[CompletionKey(habitID, FormatDate(d))]
	}
	if !done(date) {
		date = date.AddDate(0, 0, -1)
	}
	streak := 0
	for done(date) {
		streak++
		date = date.AddDate(0, 0, -1)
	}
	return streak
}

// HabitWeek returns the seven days ending at at, oldest first.
func (s *Store) HabitWeek(habitID string, at time.Time) []bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	week := make([]bool, 7)
	day := StartOfDay(at)
	for i := 0; i < 7; i++ {
		d := day.AddDate(0, 0, -(6 - i))
		week[i] = s.state.Completions[CompletionKey(habitID, FormatDate(d))]
	}
	return week
}

// CompletedHabits returns how many of the current habits are done on date.
func (s *Store) CompletedHabits(date time.Time) (done, total int) {
	key := FormatDate(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	total = len(s.state.Habits)
	for _, h := range s.state.Habits {
		if s.state.Completions[CompletionKey(h.ID, key)] {
			done++
		}
	}
	return done, total
}
