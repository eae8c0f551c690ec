package worker

import (
	"context"
	"sync"
)

// Pool fans a batch of indexed tasks over a fixed number of workers.
// Callers collect results by index into a preallocated slice, which
// keeps batch output in input order without channels in the caller.
type Pool struct {
	workers int
}

// NewPool creates a pool with the specified number of workers
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes fn for every index in [0, n). It returns once all
// started tasks finish; on ctx cancellation the remaining indexes are
// never started, but fn is responsible for honoring ctx itself.
func (p *Pool) Run(ctx context.Context, n int, fn func(ctx context.Context, i int)) {
	if n <= 0 {
		return
	}

	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > n {
		workers = n
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				fn(ctx, i)
			}
		}()
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			close(indexes)
			wg.Wait()
			return
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
}
