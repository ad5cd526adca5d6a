package state

import (
	"errors"
	"maps"
	"sync"
)

// ErrClosed is returned by Memory after Close.
var ErrClosed = errors.New("state: store closed")

// Memory is an in-process session backend. Nothing survives the process.
type Memory struct {
	mu      sync.Mutex
	values  map[string]string
	closed  bool
	failGet map[string]error
	failSet map[string]error
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		values:  make(map[string]string),
		failGet: make(map[string]error),
		failSet: make(map[string]error),
	}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", false, ErrClosed
	}
	if err := m.failGet[key]; err != nil {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := m.failSet[key]; err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if err := m.failSet[key]; err != nil {
		return err
	}
	delete(m.values, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// FailGet makes reads of key return err. A nil err clears the failure.
func (m *Memory) FailGet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGet[key] = err
}

// FailSet makes writes and deletes of key return err. A nil err clears the failure.
func (m *Memory) FailSet(key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet[key] = err
}

// Snapshot returns a copy of the stored values.
func (m *Memory) Snapshot() map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return maps.Clone(m.values)
}
