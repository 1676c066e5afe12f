package ui

import "time"

// Status messages replace the help bar until they expire. Errors stay up
// longer.
const (
	statusTTL      = 5 * time.Second
	errorStatusTTL = 8 * time.Second
)

type statusLine struct {
	text  string
	isErr bool
	until time.Time
}

func (s *statusLine) set(text string, isErr bool, now time.Time) {
	ttl := statusTTL
	if isErr {
		ttl = errorStatusTTL
	}
	*s = statusLine{text: text, isErr: isErr, until: now.Add(ttl)}
}

// expire clears the message once its time is up.
func (s *statusLine) expire(now time.Time) {
	if s.text != "" && now.After(s.until) {
		*s = statusLine{}
	}
}

// view renders the message, or "" when there is none.
func (s *statusLine) view(styles *Styles) string {
	switch {
	case s.text == "":
		return ""
	case s.isErr:
		return styles.ErrorStyle.Render(s.text)
	default:
		return styles.StatusStyle.Render(s.text)
	}
}
