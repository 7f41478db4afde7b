package forwarder

import "time"

// RetryPolicy controls how many forwarding attempts are made and how long
// to wait between them. One policy instance is shared by every request a
// Forwarder handles.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
	Timeout     time.Duration
}

// LinearBackoff returns a backoff function that waits attempt*step between
// attempts: 1s after the first failure, 2s after the second, and so on for
// a one second step.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// DefaultPolicy is the standard policy for M-Pesa callbacks: three attempts,
// linear one second backoff, 30s per-attempt timeout.
func DefaultPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		Backoff:     LinearBackoff(time.Second),
		Timeout:     30 * time.Second,
	}
}

// Result is the outcome of a successful forward.
type Result struct {
	Status   int
	Body     []byte
	Attempts int
}
