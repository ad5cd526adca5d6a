// Package errmsg turns failures into the one-line messages shown in the
// status bar and printed by the command line.
package errmsg

import "fmt"

// Op names what the user was trying to do, phrased to follow "Failed to".
type Op string

const (
	LoadPlaylist  Op = "load playlist"
	SelectTrack   Op = "select track"
	StartPlayback Op = "start playback"
	OpenSession   Op = "open session store"
	SaveSession   Op = "save session"
	ClearSession  Op = "clear session"
)

// Error is a failed Op, optionally about a named Subject such as an
// archive identifier.
type Error struct {
	Op      Op
	Subject string
	Err     error
}

func (e *Error) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("Failed to %s '%s': %v", e.Op, e.Subject, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap returns err as an *Error, or nil when err is nil.
func Wrap(op Op, subject string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Subject: subject, Err: err}
}

// Message is the text of Wrap(op, subject, err), or "" when err is nil.
func Message(op Op, subject string, err error) string {
	if err == nil {
		return ""
	}
	return Wrap(op, subject, err).Error()
}
