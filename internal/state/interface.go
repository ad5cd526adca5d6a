// internal/state/interface.go
package state

import "time"

// KV is a durable string key-value backend for session fields.
type KV interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Interface defines the session store contract for dependency injection and testing.
type Interface interface {
	Load() Session
	Save(p Partial) error
	SaveSourceID(id string) error
	SaveTrack(index int) error
	SaveElapsed(elapsed time.Duration) error
	SaveSpeed(speed float64) error
	Clear() error
}

// Verify implementations at compile time.
var (
	_ Interface = (*Store)(nil)
	_ KV        = (*Manager)(nil)
	_ KV        = (*BoltKV)(nil)
	_ KV        = (*Memory)(nil)
)
