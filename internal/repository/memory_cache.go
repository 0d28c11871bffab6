package repository

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/nikolayk812/cartstore/internal/port"
)

// MemoryCache does not survive restarts; it backs tests and throwaway runs.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

var _ port.PersistentCache = (*MemoryCache)(nil)

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string][]byte),
	}
}

func (c *MemoryCache) Read(_ context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("key is empty")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	value, ok := c.entries[key]
	if !ok {
		return nil, port.ErrCacheMiss
	}

	return slices.Clone(value), nil
}

func (c *MemoryCache) Write(_ context.Context, key string, value []byte) error {
	if key == "" {
		return fmt.Errorf("key is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = slices.Clone(value)
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[key]
	delete(c.entries, key)
	return ok, nil
}
