//go:build linux

package notify

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName  = "org.freedesktop.Notifications"
	busPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	desktop  = "taplist"
	appLabel = "Taplist"
)

type busNotifier struct {
	obj dbus.BusObject
}

// New connects to the session bus notification server.
func New() (Notifier, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return &busNotifier{obj: conn.Object(busName, busPath)}, nil
}

func (b *busNotifier) Post(n Notification) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency":       dbus.MakeVariant(byte(n.Urgency)),
		"desktop-entry": dbus.MakeVariant(desktop),
	}
	var id uint32
	err := b.obj.Call(busName+".Notify", 0,
		appLabel, n.Replaces, n.Icon, n.Summary, n.Body,
		[]string{}, hints, n.expireMillis(),
	).Store(&id)
	if err != nil {
		return 0, fmt.Errorf("notify %q: %w", n.Summary, err)
	}
	return id, nil
}

func (b *busNotifier) Dismiss(id uint32) error {
	return b.obj.Call(busName+".CloseNotification", 0, id).Err
}
