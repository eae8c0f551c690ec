// Package cache stores finished risk profiles keyed by a content
// fingerprint of the request. Two backends: in-process for a single
// node, Redis when several instances share results.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/akozyrev/redflag/internal/model"
)

// Store is the caching interface. Get's second return distinguishes a
// miss from a backend error; a miss is not an error.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// New selects a backend from config
func New(cfg model.CacheConfig) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(cfg)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
