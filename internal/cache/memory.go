package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// Memory is the in-process backend
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates the in-process backend. Entries carry their own
// TTL, so the default expiration is irrelevant.
func NewMemory() *Memory {
	return &Memory{
		cache: gocache.New(gocache.NoExpiration, cleanupInterval),
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if val, found := m.cache.Get(key); found {
		return val.([]byte), true, nil
	}
	return nil, false, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.cache.Set(key, value, ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.cache.Delete(key)
	return nil
}

func (m *Memory) Close() error {
	m.cache.Flush()
	return nil
}
