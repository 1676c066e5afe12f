package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tailscale/hujson"
	"go.uber.org/zap"
)

// Codec moves AppState in and out of a Slot.
type Codec struct {
	slot   Slot
	logger *zap.Logger
}

// NewCodec returns a codec over slot. A nil logger discards output.
func NewCodec(slot Slot, logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{slot: slot, logger: logger}
}

// Slot returns the underlying durable slot.
func (c *Codec) Slot() Slot { return c.slot }

// Load reads the slot and always returns a usable state. A missing slot
// yields the default state with a nil error. Unreadable or invalid content is
// replaced by the backup (when the slot keeps one and it decodes) or by the
// default state; the returned error then describes what was recovered and is
// informational only.
func (c *Codec) Load() (*AppState, error) {
	data, err := c.slot.Read()
	if errors.Is(err, ErrSlotEmpty) {
		return DefaultState(), nil
	}
	if err != nil {
		// Moved aside like corrupt content, so the next save cannot
		// overwrite data that is only temporarily out of reach.
		return c.recoverCorrupt(fmt.Errorf("read %s: %w", c.slot.Name(), err))
	}

	state, err := Decode(data)
	if err == nil {
		return state, nil
	}
	return c.recoverCorrupt(fmt.Errorf("parse %s: %w", c.slot.Name(), err))
}

func (c *Codec) recoverCorrupt(cause error) (*AppState, error) {
	state := DefaultState()
	note := "reset to defaults"

	if b, ok := c.slot.(BackupSlot); ok {
		if data, err := b.ReadBackup(); err == nil {
			if recovered, err := Decode(data); err == nil {
				state = recovered
				note = "recovered from backup"
			}
		}
	}

	if q, ok := c.slot.(QuarantineSlot); ok {
		if where, err := q.Quarantine(); err == nil {
			note += "; original moved to " + where
		} else {
			c.logger.Warn("quarantine failed", zap.String("slot", c.slot.Name()), zap.Error(err))
		}
	}

	if err := c.Save(state); err != nil {
		c.logger.Error("rewrite after recovery failed", zap.String("slot", c.slot.Name()), zap.Error(err))
	}

	c.logger.Warn("state recovered",
		zap.String("slot", c.slot.Name()),
		zap.String("outcome", note),
		zap.Error(cause))
	return state, fmt.Errorf("%w (%s)", cause, note)
}

// Save overwrites the slot with the full state.
func (c *Codec) Save(state *AppState) error {
	data, err := Encode(state)
	if err != nil {
		return err
	}
	return c.slot.Write(data)
}

// Encode serializes the state as indented JSON.
func Encode(state *AppState) ([]byte, error) {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize state: %w", err)
	}
	return data, nil
}

// Decode parses a state document. Comments and trailing commas are accepted so
// hand-edited files still load. The result is validated and normalized.
func Decode(data []byte) (*AppState, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("document is empty")
	}
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if trimmed := bytes.TrimSpace(standardized); len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, errors.New("document is not an object")
	}

	var state AppState
	if err := json.Unmarshal(standardized, &state); err != nil {
		return nil, fmt.Errorf("invalid state: %w", err)
	}
	if err := normalize(&state); err != nil {
		return nil, err
	}
	return &state, nil
}

// normalize fills missing collections, checks keys and ids, and makes every
// todo's Completed agree with its Status.
func normalize(s *AppState) error {
	if s.Habits == nil {
		s.Habits = []Habit{}
	}
	if s.Completions == nil {
		s.Completions = map[string]bool{}
	}
	if s.Logs == nil {
		s.Logs = map[string]string{}
	}
	if s.Todos == nil {
		s.Todos = map[string][]TodoItem{}
	}

	seen := make(map[string]struct{}, len(s.Habits))
	for i, h := range s.Habits {
		if h.ID == "" {
			return fmt.Errorf("habit %d has no id", i)
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("duplicate habit id %q", h.ID)
		}
		seen[h.ID] = struct{}{}
	}

	for key := range s.Completions {
		if _, _, ok := SplitCompletionKey(key); !ok {
			return fmt.Errorf("invalid completion key %q", key)
		}
	}

	for key := range s.Logs {
		if !isDateKey(key) {
			return fmt.Errorf("invalid log date %q", key)
		}
	}

	for key, items := range s.Todos {
		if !isDateKey(key) {
			return fmt.Errorf("invalid todo date %q", key)
		}
		if items == nil {
			s.Todos[key] = []TodoItem{}
			continue
		}
		ids := make(map[string]struct{}, len(items))
		for i := range items {
			item := &items[i]
			if item.ID == "" {
				return fmt.Errorf("todo %d on %s has no id", i, key)
			}
			if _, dup := ids[item.ID]; dup {
				return fmt.Errorf("duplicate todo id %q on %s", item.ID, key)
			}
			ids[item.ID] = struct{}{}

			if item.Priority == "" {
				item.Priority = PriorityMedium
			}
			if !item.Priority.Valid() {
				return fmt.Errorf("todo %q has invalid priority %q", item.ID, item.Priority)
			}
			status := item.Status
			if status == "" {
				status = StatusTodo
				if item.Completed {
					status = StatusDone
				}
			}
			if !status.Valid() {
				return fmt.Errorf("todo %q has invalid status %q", item.ID, item.Status)
			}
			item.setStatus(status)

			if item.CreatedAt == "" {
				item.CreatedAt = key
			} else if !isDateKey(item.CreatedAt) {
				return fmt.Errorf("todo %q has invalid createdAt %q", item.ID, item.CreatedAt)
			}
		}
	}
	return nil
}

func isDateKey(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}
