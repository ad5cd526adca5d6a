// Package notify posts desktop notifications for track changes and failed
// playlist loads.
package notify

import (
	"errors"
	"time"
)

// ErrUnavailable is returned by New when no notification server can be
// reached.
var ErrUnavailable = errors.New("notification server unavailable")

// Urgency is the freedesktop urgency hint.
type Urgency byte

const (
	Low Urgency = iota
	Normal
	Critical
)

// Notification is one desktop notification.
type Notification struct {
	Summary string
	Body    string
	Icon    string        // icon name or image path
	Expire  time.Duration // zero lets the server decide
	Sticky  bool          // stays until dismissed, overrides Expire
	Urgency Urgency

	// Replaces is the id of a shown notification to update in place.
	Replaces uint32
}

// expireMillis is the expire_timeout argument of the Notify call.
func (n Notification) expireMillis() int32 {
	switch {
	case n.Sticky:
		return 0
	case n.Expire > 0:
		return int32(n.Expire.Milliseconds())
	default:
		return -1
	}
}

// Notifier posts notifications. Post returns the id the server assigned,
// which a later Notification can name in Replaces.
type Notifier interface {
	Post(n Notification) (uint32, error)
	Dismiss(id uint32) error
}
