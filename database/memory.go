package database

import (
	"context"
	"sync"
)

// MemoryStore 进程内存储，用于测试和 memory 驱动
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemory() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) LoadRaw(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return nil, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, nil
}

func (m *MemoryStore) SaveRaw(ctx context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}
