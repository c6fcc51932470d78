// Package inference provides the narrow contract the scoring pipeline uses
// to talk to a text-inference service, plus a Gemini-backed implementation
// and the tolerant JSON extraction used on model output.
package inference

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Request is a single text-inference call
type Request struct {
	Prompt       string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
	Model        string // model hint, implementation may ignore
}

// Response is the outcome of a text-inference call
type Response struct {
	Success      bool
	Text         string
	TokensUsed   int
	FinishReason string
	Error        string
}

// Client is the only surface the scoring engine depends on. Implementations
// own retry, backoff and per-call timeouts; callers only see the final
// Response. Generate must respect ctx cancellation.
type Client interface {
	Generate(ctx context.Context, req Request) Response
}

// ErrNonRetryable wraps errors that must abort immediately instead of being
// retried: authentication, authorization and quota-class failures.
var ErrNonRetryable = errors.New("non-retryable inference error")

// RetryPolicy bounds the retry loop around a fallible call
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	CallTimeout    time.Duration
}

// DefaultRetryPolicy returns the bounds used in production: three attempts,
// exponential backoff from one second, 60s per call.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		CallTimeout:    60 * time.Second,
	}
}

// withRetry runs fn under the policy: each attempt gets its own timeout,
// backoff doubles between attempts, and wrapped ErrNonRetryable aborts the
// loop at once.
func withRetry(ctx context.Context, policy RetryPolicy, fn func(ctx context.Context) error) error {
	backoff := policy.InitialBackoff
	var lastErr error

	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attemptCtx := ctx
		var cancel context.CancelFunc
		if policy.CallTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, policy.CallTimeout)
		}

		err := fn(attemptCtx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrNonRetryable) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		lastErr = err
	}

	return fmt.Errorf("inference failed after %d attempts: %w", policy.MaxAttempts, lastErr)
}
