package worker

import (
	"sync"
	"testing"
	"time"
)

func TestUserLimiterFirstRequestAllowed(t *testing.T) {
	limiter := NewUserLimiter(30 * time.Second)
	if !limiter.Allow(1) {
		t.Error("first request denied")
	}
}

func TestUserLimiterSecondRequestDenied(t *testing.T) {
	limiter := NewUserLimiter(30 * time.Second)
	limiter.Allow(1)
	if limiter.Allow(1) {
		t.Error("second request inside the interval allowed")
	}
}

func TestUserLimiterUsersIndependent(t *testing.T) {
	limiter := NewUserLimiter(30 * time.Second)
	limiter.Allow(1)
	if !limiter.Allow(2) {
		t.Error("user 2 throttled by user 1's request")
	}
}

func TestUserLimiterRecoversAfterInterval(t *testing.T) {
	limiter := NewUserLimiter(10 * time.Millisecond)
	limiter.Allow(1)
	time.Sleep(25 * time.Millisecond)
	if !limiter.Allow(1) {
		t.Error("request denied after the interval elapsed")
	}
}

func TestUserLimiterConcurrentAccess(t *testing.T) {
	limiter := NewUserLimiter(time.Hour)

	var wg sync.WaitGroup
	var allowed int64
	var mu sync.Mutex
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(user int64) {
			defer wg.Done()
			if limiter.Allow(user % 5) {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}(int64(i))
	}
	wg.Wait()

	// Burst of 1 per user, 5 users
	if allowed != 5 {
		t.Errorf("allowed = %d, want exactly one per user", allowed)
	}
}
