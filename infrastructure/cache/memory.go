// Package cache provides the Cache port adapters: an in-process map for
// single-instance deployments and a redis client for shared ones.
package cache

import (
	"context"
	"sync"
	"time"

	"orgapi/application/ports"
)

type memoryItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// Memory is an in-process ports.Cache with lazy and periodic expiry.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	done  chan struct{}
}

// NewMemory creates a Memory cache and starts its cleanup loop.
func NewMemory() *Memory {
	m := &Memory{
		items: make(map[string]memoryItem),
		done:  make(chan struct{}),
	}
	go m.cleanupLoop(time.Minute)
	return m
}

// Get implements ports.Cache.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	item, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || item.expired(time.Now()) {
		return nil, ports.ErrCacheMiss
	}
	return item.value, nil
}

// Set implements ports.Cache.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := memoryItem{value: value}
	if ttl > 0 {
		item.expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = item
	m.mu.Unlock()
	return nil
}

// Del implements ports.Cache.
func (m *Memory) Del(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
	return nil
}

// Close stops the cleanup loop.
func (m *Memory) Close() error {
	close(m.done)
	return nil
}

func (m *Memory) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case now := <-ticker.C:
			m.mu.Lock()
			for key, item := range m.items {
				if item.expired(now) {
					delete(m.items, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
