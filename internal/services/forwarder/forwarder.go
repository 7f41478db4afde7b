// Package forwarder relays payment-provider callbacks to the internal
// backend with bounded retry. It keeps no state across requests; the only
// shared resources are the HTTP client and the destination base URL.
package forwarder

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Forwarder posts callback payloads to the internal backend. All
// dependencies are injected at construction so instances are independently
// testable.
type Forwarder struct {
	baseURL string
	client  *http.Client
	policy  RetryPolicy
	logger  *zap.Logger
	sleep   func(time.Duration)
	newID   func() string
}

// Option customizes a Forwarder.
type Option func(*Forwarder)

// WithSleep replaces the inter-attempt delay function. Tests use this to
// record backoff durations instead of waiting them out.
func WithSleep(sleep func(time.Duration)) Option {
	return func(f *Forwarder) { f.sleep = sleep }
}

// WithRequestID replaces the correlation ID generator.
func WithRequestID(newID func() string) Option {
	return func(f *Forwarder) { f.newID = newID }
}

// New creates a Forwarder. An empty baseURL is allowed; forwarding is then
// reported (or logged) as not configured rather than attempted.
func New(baseURL string, client *http.Client, policy RetryPolicy, logger *zap.Logger, opts ...Option) *Forwarder {
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = DefaultPolicy().MaxAttempts
	}
	if policy.Backoff == nil {
		policy.Backoff = DefaultPolicy().Backoff
	}
	if policy.Timeout <= 0 {
		policy.Timeout = DefaultPolicy().Timeout
	}

	f := &Forwarder{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  client,
		policy:  policy,
		logger:  logger,
		sleep:   time.Sleep,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Configured reports whether an internal backend URL has been set.
func (f *Forwarder) Configured() bool { return f.baseURL != "" }

// Forward makes a single forwarding attempt and returns the backend's
// response. Used by endpoints that relay the backend's answer to the
// original caller. Errors are *TransportError, *UpstreamError or
// ErrNotConfigured.
func (f *Forwarder) Forward(ctx context.Context, path string, payload []byte) (*Result, error) {
	if !f.Configured() {
		return nil, ErrNotConfigured
	}
	return f.attempt(ctx, path, payload, 1)
}

// ForwardWithRetry forwards with the retry policy and never reports back:
// the provider already received its ack. On retry exhaustion it emits a
// single structured failure record and drops the payload. Runs to
// completion; there is no cancellation path once forwarding begins.
func (f *Forwarder) ForwardWithRetry(ctx context.Context, path string, payload []byte) {
	if !f.Configured() {
		f.logger.Warn("webhook forward skipped, destination not configured",
			zap.String("path", path))
		return
	}

	requestID := f.newID()
	var lastErr error
	for attempt := 1; attempt <= f.policy.MaxAttempts; attempt++ {
		res, err := f.attempt(ctx, path, payload, attempt)
		if err == nil {
			f.logger.Info("webhook forwarded",
				zap.String("request_id", requestID),
				zap.String("path", path),
				zap.Int("attempt", attempt),
				zap.Int("status", res.Status))
			return
		}

		lastErr = err
		f.logger.Warn("webhook forward attempt failed",
			zap.String("request_id", requestID),
			zap.String("path", path),
			zap.Int("attempt", attempt),
			zap.Error(err))

		if attempt < f.policy.MaxAttempts {
			f.sleep(f.policy.Backoff(attempt))
		}
	}

	// Terminal failure: the payload is observable only through this record.
	f.logger.Error("webhook forward failed, dropping payload",
		zap.String("request_id", requestID),
		zap.String("path", path),
		zap.Int("attempts", f.policy.MaxAttempts),
		zap.Error(lastErr),
		zap.ByteString("payload", payload),
		zap.Time("failed_at", time.Now()))
}

func (f *Forwarder) attempt(ctx context.Context, path string, payload []byte, n int) (*Result, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.policy.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, f.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: body}
	}
	return &Result{Status: resp.StatusCode, Body: body, Attempts: n}, nil
}

// InternalPath maps an inbound callback path to its internal backend
// destination by substring, defaulting to the generic webhook path.
func InternalPath(inbound string) string {
	switch {
	case strings.Contains(inbound, "stk-callback"):
		return "/api/mpesa/stk-callback"
	case strings.Contains(inbound, "b2c-callback"):
		return "/api/mpesa/b2c-callback"
	case strings.Contains(inbound, "b2b-callback"):
		return "/api/mpesa/b2b-callback"
	case strings.Contains(inbound, "queue-timeout"):
		return "/api/mpesa/queue-timeout"
	default:
		return "/api/mpesa/webhook"
	}
}
