package store

import (
	"context"
	"sync"

	"github.com/patrickmn/go-cache"
)

// Memory is a process-local KV. Nothing outlives the process.
type Memory struct {
	mu    sync.RWMutex
	items *cache.Cache
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: cache.New(cache.NoExpiration, 0)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items.Get(key)
	if !ok {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Set stores value under key.
func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items.Set(key, value, cache.NoExpiration)
	return nil
}

// Remove deletes key.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items.Delete(key)
	return nil
}

// SetMany applies writes and removals while holding the write lock.
func (m *Memory) SetMany(_ context.Context, set map[string]string, remove []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, value := range set {
		m.items.Set(key, value, cache.NoExpiration)
	}
	for _, key := range remove {
		m.items.Delete(key)
	}
	return nil
}
