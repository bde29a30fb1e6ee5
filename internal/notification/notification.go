// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"fmt"

	"github.com/gen2brain/beeep"

	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/room"
)

// AppName is the title of every notification.
const AppName = "bilicli"

var notifier = beeep.Notify

// SetNotifier replaces the function that delivers notifications.
func SetNotifier(fn func(title, message string, icon any) error) {
	notifier = fn
}

// ResetNotifier restores beeep as the delivery function.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title, "message", message)
	// Empty icon lets beeep pick the platform default
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// Announce notifies about paid events: super chats and guard purchases.
// Other events are ignored and report false.
func Announce(ev room.Event) (bool, error) {
	switch ev.Category {
	case room.CategoryPaidChat:
		p, err := room.Decode[room.PaidChatPayload](ev)
		if err != nil {
			return false, err
		}
		return true, Send(AppName, fmt.Sprintf("%s ¥%d: %s", p.User.Name, p.Price, p.Content))
	case room.CategoryMembership:
		p, err := room.Decode[room.MembershipPayload](ev)
		if err != nil {
			return false, err
		}
		return true, Send(AppName, fmt.Sprintf("%s 开通了%s", p.User.Name, p.GiftName))
	default:
		return false, nil
	}
}
