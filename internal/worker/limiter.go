// Package worker holds the per-user rate limiter and the worker pool
// used for batch analysis.
package worker

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// UserLimiter enforces a minimum interval between analyses per user.
// Limiters are created lazily on first sight of a user and allow one
// immediate request (burst 1), then one per interval.
type UserLimiter struct {
	limiters map[int64]*rate.Limiter
	mu       sync.RWMutex
	limit    rate.Limit
}

// NewUserLimiter creates a limiter with the given minimum interval
// between requests from the same user
func NewUserLimiter(minInterval time.Duration) *UserLimiter {
	if minInterval <= 0 {
		minInterval = time.Second
	}
	return &UserLimiter{
		limiters: make(map[int64]*rate.Limiter),
		limit:    rate.Every(minInterval),
	}
}

// Allow reports whether the user may proceed now, consuming the slot
// if so
func (l *UserLimiter) Allow(userID int64) bool {
	return l.getLimiter(userID).Allow()
}

// Wait blocks until the user's next slot or ctx expiry
func (l *UserLimiter) Wait(ctx context.Context, userID int64) error {
	return l.getLimiter(userID).Wait(ctx)
}

func (l *UserLimiter) getLimiter(userID int64) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[userID]
	l.mu.RUnlock()
	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[userID]; exists {
		return limiter
	}
	limiter = rate.NewLimiter(l.limit, 1)
	l.limiters[userID] = limiter
	return limiter
}
