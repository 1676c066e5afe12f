package storage

import (
	"testing"
	"time"
)

func TestFormatDate(t *testing.T) {
	pst := time.FixedZone("PST", -8*3600)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"midday", time.Date(2025, 1, 2, 12, 0, 0, 0, time.Local), "2025-01-02"},
		{"just after midnight", time.Date(2025, 1, 2, 0, 0, 1, 0, time.Local), "2025-01-02"},
		{"just before midnight", time.Date(2025, 1, 2, 23, 59, 59, 0, time.Local), "2025-01-02"},
		{"own location", time.Date(2025, 12, 31, 23, 30, 0, 0, pst), "2025-12-31"},
		{"single digit padding", time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC), "2025-03-07"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDate(tt.in); got != tt.want {
				t.Errorf("FormatDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-02-28")
	if err != nil {
		t.Fatal(err)
	}
	if FormatDate(got) != "2025-02-28" || got.Hour() != 0 {
		t.Errorf("ParseDate() = %v", got)
	}
	if _, err := ParseDate("2025-02-30"); err == nil {
		t.Error("ParseDate() should reject impossible dates")
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate(time.Date(2025, 1, 2, 0, 0, 0, 0, time.Local)); got != "Jan 2" {
		t.Errorf("DisplayDate() = %q, want Jan 2", got)
	}
}

func TestStartOfWeek(t *testing.T) {
	wed := time.Date(2025, 12, 17, 15, 0, 0, 0, time.Local)
	got := StartOfWeek(wed)
	if got.Weekday() != time.Sunday || FormatDate(got) != "2025-12-14" {
		t.Errorf("StartOfWeek() = %v", got)
	}
}

func TestSplitCompletionKey(t *testing.T) {
	tests := []struct {
		key       string
		wantHabit string
		wantDate  string
		ok        bool
	}{
		{"h_1-2025-01-02", "h_1", "2025-01-02", true},
		{"morning-run-2025-01-02", "morning-run", "2025-01-02", true},
		{CompletionKey("a", "2024-02-29"), "a", "2024-02-29", true},
		{"-2025-01-02", "", "2025-01-02", true},
		{"2025-01-02", "", "", false},
		{"x2025-01-02", "", "", false},
		{"h_1_2025-01-02", "", "", false},
		{"h_1-2025-13-02", "", "", false},
		{"short", "", "", false},
	}
	for _, tt := range tests {
		habit, date, ok := SplitCompletionKey(tt.key)
		if habit != tt.wantHabit || date != tt.wantDate || ok != tt.ok {
			t.Errorf("SplitCompletionKey(%q) = %q, %q, %v", tt.key, habit, date, ok)
		}
	}
}

func TestEnumCycles(t *testing.T) {
	if PriorityLow.Next() != PriorityMedium || PriorityMedium.Next() != PriorityHigh || PriorityHigh.Next() != PriorityLow {
		t.Error("priority cycle broken")
	}
	if StatusTodo.Next() != StatusDoing || StatusDoing.Next() != StatusDone || StatusDone.Next() != StatusTodo {
		t.Error("status cycle broken")
	}
	if Priority("").Valid() || Status("x").Valid() {
		t.Error("unknown values should be invalid")
	}
}
