package notify

import (
	"fmt"
	"sync"
	"time"
)

// Reminder nudges about unfinished habits once per day after a configured
// time of day.
type Reminder struct {
	notifier Notifier
	hour     int
	minute   int
	sound    bool

	mu       sync.Mutex
	lastSent string
}

// NewReminder parses hhmm ("20:30") and returns a reminder that sends through
// n. An empty hhmm returns nil, nil: no reminder configured.
func NewReminder(n Notifier, hhmm string, sound bool) (*Reminder, error) {
	if hhmm == "" {
		return nil, nil
	}
	at, err := time.Parse("15:04", hhmm)
	if err != nil {
		return nil, fmt.Errorf("habit reminder %q: want HH:MM", hhmm)
	}
	if n == nil {
		n = noopNotifier{}
	}
	return &Reminder{
		notifier: n,
		hour:     at.Hour(),
		minute:   at.Minute(),
		sound:    sound,
	}, nil
}

// Check sends the reminder when now is past the reminder time, some of total
// habits are still open, and no reminder went out today. It reports whether a
// notification was sent.
func (r *Reminder) Check(now time.Time, done, total int) (bool, error) {
	if r == nil || total == 0 || done >= total {
		return false, nil
	}
	due := time.Date(now.Year(), now.Month(), now.Day(), r.hour, r.minute, 0, 0, now.Location())
	if now.Before(due) {
		return false, nil
	}

	day := now.Format("2006-01-02")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastSent == day {
		return false, nil
	}

	title := "Habits pending"
	msg := fmt.Sprintf("%d of %d habits left for today", total-done, total)
	var err error
	if r.sound {
		err = r.notifier.SendWithSound(title, msg)
	} else {
		err = r.notifier.Send(title, msg)
	}
	if err != nil {
		return false, err
	}
	r.lastSent = day
	return true, nil
}
