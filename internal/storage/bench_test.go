package storage

import (
	"fmt"
	"testing"
	"time"
)

func createBenchStore(b *testing.B) *Store {
	b.Helper()
	store, _ := createTestStore(b)
	return store
}

// BenchmarkAddTodo measures todo creation including the save.
func BenchmarkAddTodo(b *testing.B) {
	store := createBenchStore(b)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.AddTodo(testNow, fmt.Sprintf("Todo %d", i), "", ""); err != nil {
			b.Fatalf("AddTodo failed: %v", err)
		}
	}
}

// BenchmarkToggleHabit measures a toggle plus save on a populated document.
func BenchmarkToggleHabit(b *testing.B) {
	store := createBenchStore(b)
	for i := 0; i < 10; i++ {
		if _, err := store.AddHabit(fmt.Sprintf("Habit %d", i), ""); err != nil {
			b.Fatal(err)
		}
	}
	id := store.Habits()[0].ID

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.ToggleHabit(id, testNow); err != nil {
			b.Fatalf("ToggleHabit failed: %v", err)
		}
	}
}

// BenchmarkCompletionHistory measures the history window with varying sizes.
func BenchmarkCompletionHistory(b *testing.B) {
	for _, days := range []int{7, 30, 365} {
		b.Run(fmt.Sprintf("days_%d", days), func(b *testing.B) {
			store := Open(NewCodec(NewMemorySlot("bench"), nil), WithClock(func() time.Time { return testNow }))
			for i := 0; i < 5; i++ {
				h, _ := store.AddHabit(fmt.Sprintf("Habit %d", i), "")
				for d := 0; d < days; d += 2 {
					_, _ = store.ToggleHabit(h.ID, testNow.AddDate(0, 0, -d))
				}
			}

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = store.GetCompletionHistory(days)
			}
		})
	}
}

// BenchmarkDecode measures parsing a document with a year of data.
func BenchmarkDecode(b *testing.B) {
	store := Open(NewCodec(NewMemorySlot("bench"), nil), WithClock(func() time.Time { return testNow }))
	for d := 0; d < 365; d++ {
		day := testNow.AddDate(0, 0, -d)
		_ = store.UpdateLog(day, "entry")
		_, _ = store.AddTodo(day, "todo", "", "")
	}
	data, err := Encode(store.Snapshot())
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(data); err != nil {
			b.Fatal(err)
		}
	}
}
