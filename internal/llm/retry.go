package llm

import (
	"context"
	"math/rand"
	"time"
)

// retrySleep is the wait function between retries (injectable for tests)
var retrySleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Client wraps a Provider with the local retry policy: transient
// transport failures are retried with exponential backoff and jitter,
// deliberate upstream rejections escalate immediately.
type Client struct {
	provider   Provider
	maxRetries int

	// Timeout is the per-call budget the provider was configured with.
	// The orchestrator uses it to skip providers that cannot finish
	// inside the caller's remaining deadline.
	Timeout time.Duration

	// OnRetry, when set, is called before each transport-error retry
	OnRetry func(provider string, attempt int)
}

// NewClient creates a retrying client around p
func NewClient(p Provider, maxRetries int) *Client {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Client{provider: p, maxRetries: maxRetries}
}

// Name returns the wrapped provider's name
func (c *Client) Name() string { return c.provider.Name() }

// Complete calls the provider, retrying transport errors up to the
// configured count. The last error is returned when retries run out.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		resp, err := c.provider.Complete(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !IsTransport(err) {
			return nil, err
		}
		lastErr = err
		if attempt < c.maxRetries-1 {
			if c.OnRetry != nil {
				c.OnRetry(c.Name(), attempt+1)
			}
			if serr := retrySleep(ctx, backoff(attempt)); serr != nil {
				return nil, &TransportError{Provider: c.Name(), Err: serr}
			}
		}
	}
	return nil, lastErr
}

// backoff returns 1s, 2s, 4s... plus up to 50% jitter
func backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	jitter := time.Duration(rand.Int63n(int64(base / 2)))
	return base + jitter
}
