package state

import "fmt"

// Backend names accepted by OpenBackend.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
	BackendMemory = "memory"
)

// OpenBackend opens the named KV backend. An empty path selects the default
// file for persistent backends.
func OpenBackend(backend, path string) (KV, error) {
	switch backend {
	case BackendSQLite, "":
		return Open(path)
	case BackendBolt:
		return OpenBolt(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown state backend %q", backend)
	}
}
