package cache

import (
	"context"
	"sync"
	"time"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
)

type entry struct {
	value     string
	expiresAt time.Time
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string]entry
}

func NewMemory() core.IResultCache {
	return &memoryCache{entries: make(map[string]entry)}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return "", nil
	}
	if time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return "", nil
	}
	return e.value, nil
}

func (m *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}
