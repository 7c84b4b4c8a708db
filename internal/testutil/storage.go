package testutil

import (
	"context"
	"sort"
	"sync"
)

// MemoryStorage is an in-memory key-value store for tests.
//
// It satisfies calculator.Storage. Every successful Set and Delete is
// counted, and FailWith makes subsequent writes fail, so tests can observe
// when and whether the engine persists.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemoryStorage struct {
	mu      sync.Mutex
	data    map[string]string
	writes  int
	failErr error
}

// NewMemoryStorage returns a store pre-populated with seed (which may be nil).
func NewMemoryStorage(seed map[string]string) *MemoryStorage {
	data := make(map[string]string, len(seed))
	for k, v := range seed {
		data[k] = v
	}
	return &MemoryStorage{data: data}
}

// Get returns the value for key.
func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key, or returns the configured failure.
func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	m.data[key] = value
	m.writes++
	return nil
}

// Delete removes key, or returns the configured failure.
func (m *MemoryStorage) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	delete(m.data, key)
	m.writes++
	return nil
}

// FailWith makes every later Set and Delete return err. Pass nil to recover.
func (m *MemoryStorage) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failErr = err
}

// Writes returns the number of successful Set and Delete calls.
func (m *MemoryStorage) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// Value returns the stored value for key without going through Get.
func (m *MemoryStorage) Value(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

// Keys returns the stored keys in sorted order.
func (m *MemoryStorage) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
