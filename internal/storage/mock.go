package storage

import (
	"fmt"
	"sync"
)

// MockStorage keeps all payloads in memory.
type MockStorage struct {
	mutex    *sync.RWMutex
	Elements map[string][]byte
}

func NewMockStorage() *MockStorage {
	return &MockStorage{
		mutex:    new(sync.RWMutex),
		Elements: make(map[string][]byte),
	}
}

func (m *MockStorage) Save(path string, payload []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	b := make([]byte, len(payload))
	copy(b, payload)
	m.Elements[path] = b
	return nil
}

func (m *MockStorage) Load(path string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	b, ok := m.Elements[path]
	if !ok {
		return nil, fmt.Errorf("file '%s': %w", path, NotFoundErr)
	}
	payload := make([]byte, len(b))
	copy(payload, b)
	return payload, nil
}
