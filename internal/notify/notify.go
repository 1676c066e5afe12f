// Package notify sends desktop notifications through the platform's command
// line tool: osascript on macOS and notify-send on Linux. Other platforms get
// a notifier that does nothing.
package notify

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"
)

// AppName is the application name shown by the notification daemon.
const AppName = "dayboard"

// Notifier defines the interface for sending desktop notifications.
type Notifier interface {
	// Send sends a notification with the given title and message.
	Send(title, message string) error

	// SendWithSound sends a notification with sound.
	SendWithSound(title, message string) error

	// IsSupported returns true if notifications are supported on this platform.
	IsSupported() bool
}

// New returns the notifier for this platform, or one that does nothing when
// the platform tool is missing.
func New() Notifier {
	if n := platformNotifier(); n != nil && n.IsSupported() {
		return n
	}
	return noopNotifier{}
}

type noopNotifier struct{}

func (noopNotifier) Send(string, string) error          { return nil }
func (noopNotifier) SendWithSound(string, string) error { return nil }
func (noopNotifier) IsSupported() bool                  { return false }

// execNotifier runs tool with the arguments built by args.
type execNotifier struct {
	tool string
	args func(title, message string, sound bool) []string
}

func (n *execNotifier) Send(title, message string) error {
	return n.run(title, message, false)
}

func (n *execNotifier) SendWithSound(title, message string) error {
	return n.run(title, message, true)
}

func (n *execNotifier) IsSupported() bool {
	_, err := exec.LookPath(n.tool)
	return err == nil
}

func (n *execNotifier) run(title, message string, sound bool) error {
	out, err := exec.Command(n.tool, n.args(title, message, sound)...).CombinedOutput()
	if err != nil {
		if msg := bytes.TrimSpace(out); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", n.tool, err, msg)
		}
		return fmt.Errorf("%s: %w", n.tool, err)
	}
	return nil
}

// osascriptArgs builds a `display notification` script. Sound uses the
// system default alert.
func osascriptArgs(title, message string, sound bool) []string {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(message), escapeAppleScript(title))
	if sound {
		script += ` sound name "default"`
	}
	return []string{"-e", script}
}

// notifySendArgs builds notify-send arguments. Whether a sound plays is up to
// the notification daemon; normal urgency is the closest hint.
func notifySendArgs(title, message string, sound bool) []string {
	args := []string{"--app-name=" + AppName}
	if sound {
		args = append(args, "--urgency=normal")
	}
	// "--" keeps a title starting with a dash from being read as a flag.
	return append(args, "--", title, message)
}

// escapeAppleScript escapes backslashes and quotes for an AppleScript string
// literal.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
