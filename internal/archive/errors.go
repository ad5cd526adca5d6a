package archive

import (
	"errors"
	"fmt"
)

// ErrEmptyIdentifier is returned before any request when the identifier is blank.
var ErrEmptyIdentifier = errors.New("empty identifier")

// NetworkError reports a transport failure or a non-2xx status. It is
// retried; after the last attempt it is returned to the caller.
type NetworkError struct {
	Identifier string
	StatusCode int // 0 for transport failures
	Attempts   int // attempts made when returned from Fetch
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.Identifier, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.Identifier, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a body that is not a usable file listing.
// It is never retried.
type MalformedResponseError struct {
	Identifier string
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed listing for %s: %v", e.Identifier, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// IsRetryable reports whether err should be retried.
func IsRetryable(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
