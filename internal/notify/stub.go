//go:build !linux

package notify

// New reports ErrUnavailable; desktop notifications use the session bus.
func New() (Notifier, error) {
	return nil, ErrUnavailable
}
