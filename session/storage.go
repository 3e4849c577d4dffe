package session

import (
	"context"
	"sync"
)

// Storage is per-visitor key-value persistence for session state.
type Storage interface {
	Get(ctx context.Context, visitor, key string) (string, error)
	Set(ctx context.Context, visitor, key, value string) error
	Clear(ctx context.Context, visitor string) error
}

type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]map[string]string)}
}

func (m *MemoryStorage) Get(ctx context.Context, visitor, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[visitor][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStorage) Set(ctx context.Context, visitor, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values[visitor] == nil {
		m.values[visitor] = make(map[string]string)
	}
	m.values[visitor][key] = value
	return nil
}

func (m *MemoryStorage) Clear(ctx context.Context, visitor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, visitor)
	return nil
}
