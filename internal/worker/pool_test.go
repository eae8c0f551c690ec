package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestPoolRunsEveryIndexOnce(t *testing.T) {
	pool := NewPool(4)
	const n = 100

	var mu sync.Mutex
	seen := make(map[int]int)
	pool.Run(context.Background(), n, func(_ context.Context, i int) {
		mu.Lock()
		seen[i]++
		mu.Unlock()
	})

	if len(seen) != n {
		t.Fatalf("ran %d distinct indexes, want %d", len(seen), n)
	}
	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d ran %d times", i, count)
		}
	}
}

func TestPoolResultsByIndex(t *testing.T) {
	pool := NewPool(8)
	results := make([]int, 50)

	pool.Run(context.Background(), len(results), func(_ context.Context, i int) {
		results[i] = i * i
	})

	for i, v := range results {
		if v != i*i {
			t.Errorf("results[%d] = %d, want %d", i, v, i*i)
		}
	}
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(3)

	var current, peak int64
	pool.Run(context.Background(), 30, func(_ context.Context, _ int) {
		n := atomic.AddInt64(&current, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		atomic.AddInt64(&current, -1)
	})

	if peak > 3 {
		t.Errorf("peak concurrency = %d, want at most 3", peak)
	}
}

func TestPoolStopsOnCancel(t *testing.T) {
	pool := NewPool(1)
	ctx, cancel := context.WithCancel(context.Background())

	var started int64
	pool.Run(ctx, 1000, func(_ context.Context, i int) {
		atomic.AddInt64(&started, 1)
		if i == 3 {
			cancel()
		}
	})

	if got := atomic.LoadInt64(&started); got >= 1000 {
		t.Errorf("started = %d, cancellation did not stop dispatch", got)
	}
}

func TestPoolZeroTasks(t *testing.T) {
	// Must return promptly without touching fn
	NewPool(4).Run(context.Background(), 0, func(_ context.Context, _ int) {
		t.Error("fn called for empty batch")
	})
}
