package storage

import (
	"context"
	"sync"
)

// MemoryAdapter keeps items in process memory. Values are lost on restart.
type MemoryAdapter struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{items: make(map[string]string)}
}

func (m *MemoryAdapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	value, ok := m.items[key]
	return value, ok, nil
}

func (m *MemoryAdapter) SetItem(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *MemoryAdapter) Ping(ctx context.Context) error {
	return ctx.Err()
}
