package forwarder

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned when no internal backend URL has been set.
var ErrNotConfigured = errors.New("forward destination not configured")

// TransportError wraps a network-level failure (connection refused, DNS,
// attempt timeout). The request never produced an HTTP status.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("forward transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UpstreamError reports a non-2xx response from the internal backend. The
// status and body are preserved so callers can relay them verbatim.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream responded %d", e.Status)
}
