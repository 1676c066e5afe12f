package storage

import (
	"strings"
	"testing"
	"time"
)

// FuzzDecode feeds arbitrary documents to Decode to make sure it never
// panics and that anything it accepts survives a round trip.
func FuzzDecode(f *testing.F) {
	f.Add([]byte(sampleDoc))
	f.Add([]byte(`{}`))
	f.Add([]byte(`null`))
	f.Add([]byte(`{"habits": [{"id": ""}]}`))
	f.Add([]byte(`{"todos": {"2025-01-02": null}}`))
	f.Add([]byte(`{"completions": {"x-2025-02-30": true}}`))
	f.Add([]byte("\x00\x01{"))

	f.Fuzz(func(t *testing.T, data []byte) {
		state, err := Decode(data)
		if err != nil {
			return
		}
		encoded, err := Encode(state)
		if err != nil {
			t.Fatalf("Encode() of a decoded state failed: %v", err)
		}
		if _, err := Decode(encoded); err != nil {
			t.Fatalf("re-Decode() failed: %v\n%s", err, encoded)
		}
	})
}

// FuzzAddTodo checks that arbitrary todo text is stored verbatim and that the
// status and completed flag never disagree.
func FuzzAddTodo(f *testing.F) {
	f.Add("Buy milk", "high", "todo")
	f.Add("", "", "")
	f.Add("Task\nwith\nnewlines", "low", "done")
	f.Add("Task with unicode: 🎉🚀", "medium", "doing")
	f.Add("\x00\x01\x02", "urgent", "todo")
	f.Add(strings.Repeat("a", 4096), "", "blocked")

	f.Fuzz(func(t *testing.T, text, priority, status string) {
		store := Open(NewCodec(NewMemorySlot("fuzz"), nil), WithClock(func() time.Time { return testNow }))

		item, err := store.AddTodo(testNow, text, Priority(priority), Status(status))
		validPrio := priority == "" || Priority(priority).Valid()
		validStatus := status == "" || Status(status).Valid()
		if !validPrio || !validStatus {
			if err == nil {
				t.Fatalf("AddTodo(%q, %q) should fail", priority, status)
			}
			return
		}
		if err != nil {
			t.Fatalf("AddTodo() error = %v", err)
		}
		if item.Text != text {
			t.Errorf("Text = %q, want %q", item.Text, text)
		}
		if item.Completed != (item.Status == StatusDone) {
			t.Errorf("Completed = %v with status %q", item.Completed, item.Status)
		}

		if _, err := store.ToggleTodo(testNow, item.ID); err != nil {
			t.Fatal(err)
		}
		got := store.GetTodos(testNow)[0]
		if got.Completed == item.Completed {
			t.Error("ToggleTodo() did not flip completed")
		}
	})
}
