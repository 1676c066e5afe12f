//go:build darwin

package notify

func platformNotifier() Notifier {
	return &execNotifier{tool: "osascript", args: osascriptArgs}
}
