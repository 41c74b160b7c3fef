package mocks

import (
	"context"
	"sync"
)

// MockStore is a call-recording implementation of kv.Store for testing
type MockStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// For tracking calls in tests
	SetCalls    []SetCall
	RemoveCalls []string

	GetErr    error
	SetErr    error
	RemoveErr error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value []byte
}

// NewMockStore creates a new MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		data:     make(map[string][]byte),
		SetCalls: make([]SetCall, 0),
	}
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: append([]byte(nil), value...)})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MockStore) Remove(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RemoveCalls = append(m.RemoveCalls, key)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	delete(m.data, key)
	return nil
}

// SetRaw stores bytes directly, bypassing call tracking (e.g. to seed corrupt data)
func (m *MockStore) SetRaw(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = []byte(value)
}

// Raw returns the stored bytes for key as a string
func (m *MockStore) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return string(value), ok
}

// Reset clears all data and recorded calls
func (m *MockStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	m.SetCalls = make([]SetCall, 0)
	m.RemoveCalls = nil
	m.GetErr = nil
	m.SetErr = nil
	m.RemoveErr = nil
}
