package engine

import (
	"context"

	"github.com/akozyrev/redflag/internal/model"
)

// BatchResult pairs one batch item's outcome with its input index
type BatchResult struct {
	Result *Result
	Err    error
}

// RunBatch fans a set of requests over the worker pool and returns
// results in input order. Items fail independently; one rate-limited
// or invalid request does not affect its neighbors. Callers that want
// throttled items processed anyway set BlockOnRateLimit on them.
func (e *Engine) RunBatch(ctx context.Context, reqs []*model.AnalysisRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))
	e.pool.Run(ctx, len(reqs), func(ctx context.Context, i int) {
		res, err := e.Run(ctx, reqs[i])
		results[i] = BatchResult{Result: res, Err: err}
	})
	return results
}
