package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

type item struct {
	data      []byte
	expiresAt time.Time
}

type Memory struct {
	items map[string]item
	mutex sync.Mutex
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]item),
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string, dst any) (bool, error) {
	m.mutex.Lock()
	it, ok := m.items[key]
	if ok && m.now().After(it.expiresAt) {
		delete(m.items, key)
		ok = false
	}
	m.mutex.Unlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(it.data, dst); err != nil {
		return false, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

func (m *Memory) Set(_ context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.items[key] = item{data: data, expiresAt: m.now().Add(ttlOrDefault(ttl))}
	return nil
}

func (m *Memory) Invalidate(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.items, key)
	return nil
}

func (m *Memory) Close() error {
	return nil
}
