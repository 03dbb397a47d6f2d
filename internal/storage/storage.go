// Package storage provides the key-value slots that hold the task snapshot.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Load when nothing has been saved under the key
var ErrNotFound = errors.New("storage: key not found")

// Backend is a key-value store holding opaque byte values
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Memory is an in-process Backend
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte

	// SaveErr, when set, is returned by every Save
	SaveErr error
}

// NewMemory creates an empty in-memory backend
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Load returns a copy of the value stored under key
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save stores a copy of value under key
func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}
