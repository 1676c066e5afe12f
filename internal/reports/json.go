package reports

import (
	"bytes"
	"encoding/json"
)

// FormatJSON renders a DailyReport or WeeklyReport as indented JSON with a
// trailing newline. Text is written as typed, so "&" and "<" in todos stay
// readable.
func FormatJSON(report any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
