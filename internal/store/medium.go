// Package store implements the durable per-project context store: seven
// named documents cached in-process and persisted through a pluggable
// key-value medium.
package store

import (
	"fmt"
	"sync"

	"github.com/buildmind/buildmind/internal/memory"
)

// Medium is the persistence contract the store writes through. Any
// key-value backend satisfying it (SQLite table, browser storage,
// remote document store) is substitutable without changing the store.
type Medium interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// Key builds the per-project, per-document storage key.
func Key(projectID string, doc memory.DocKey) string {
	return fmt.Sprintf("ai-context-%s-%s", projectID, doc)
}

// MapMedium is an in-memory Medium used by tests and as the default
// when no database is wired.
type MapMedium struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMapMedium creates an empty in-memory medium.
func NewMapMedium() *MapMedium {
	return &MapMedium{data: map[string]string{}}
}

func (m *MapMedium) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MapMedium) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MapMedium) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
