package llm

import (
	"context"
	"fmt"
	"time"
)

// retryingGenerator wraps a TextGenerator with exponential backoff. Retrying
// lives here, at the external-call boundary; the planning core never retries.
type retryingGenerator struct {
	inner     TextGenerator
	attempts  int
	baseDelay time.Duration
}

// WithRetry decorates a TextGenerator so transient API failures are retried
// with exponential backoff (baseDelay, 2*baseDelay, 4*baseDelay, ...).
func WithRetry(inner TextGenerator, attempts int, baseDelay time.Duration) TextGenerator {
	if attempts < 1 {
		attempts = 1
	}
	return &retryingGenerator{inner: inner, attempts: attempts, baseDelay: baseDelay}
}

func (r *retryingGenerator) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	var lastErr error
	delay := r.baseDelay
	for attempt := 0; attempt < r.attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ContentResponse{}, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		resp, err := r.inner.GenerateContent(ctx, prompt)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return ContentResponse{}, fmt.Errorf("giving up after %d attempts: %w", r.attempts, lastErr)
}
