package store

import (
	"errors"
	"slices"
	"sync"
)

// ErrNotFound is returned by a Backend for a collection name it has never stored.
var ErrNotFound = errors.New("collection not found")

// Backend is a durable string-per-name table, the local-storage half of a Store.
// Put must be all-or-nothing: after an error the previous value is still readable.
type Backend interface {
	Get(name string) ([]byte, error)
	Put(name string, data []byte) error
	Close() error
}

// Lister is a Backend that can enumerate the collections it holds.
type Lister interface {
	Names() ([]string, error)
}

// Memory is a Backend kept in process memory. Nothing survives the process.
type Memory struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: map[string][]byte{}}
}

func (m *Memory) Get(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[name]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), b...), nil
}

func (m *Memory) Put(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[name] = append([]byte(nil), data...)
	return nil
}

// Names lists the stored collections, sorted.
func (m *Memory) Names() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.data))
	for name := range m.data {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (m *Memory) Close() error { return nil }
