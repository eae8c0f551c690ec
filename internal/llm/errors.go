package llm

import (
	"errors"
	"fmt"
)

// TransportError is a network-level failure (timeout, refused
// connection, 5xx, 429). These are transient: the client retries them
// locally before the orchestrator moves on to the next provider.
type TransportError struct {
	Provider string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError is a deliberate rejection by the provider (bad request,
// invalid key, content policy). Retrying the same call would not help,
// so the orchestrator escalates to the next provider immediately.
type UpstreamError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream (%d): %s", e.Provider, e.StatusCode, e.Message)
}

// IsTransport reports whether err is (or wraps) a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}

// transientStatus reports whether an HTTP status indicates a failure
// worth retrying rather than a deliberate rejection
func transientStatus(code int) bool {
	return code == 408 || code == 429 || (code >= 500 && code < 600)
}
