//go:build linux

package notify

func platformNotifier() Notifier {
	return &execNotifier{tool: "notify-send", args: notifySendArgs}
}
