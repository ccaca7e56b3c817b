package services

import (
	"context"
	"log/slog"
	"time"
)

const (
	// Per-attempt budget for one AI gateway call
	aiCallTimeout = 60 * time.Second
	maxAIAttempts = 3
	retryBaseWait = 2 * time.Second
)

// callWithRetry runs fn with a per-attempt timeout and linear backoff.
// The last error wins; callers decide how a failure degrades.
func callWithRetry(ctx context.Context, attempts int, fn func(ctx context.Context) (string, error)) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, aiCallTimeout)
		result, err := fn(attemptCtx)
		cancel()

		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		if attempt < attempts {
			wait := retryBaseWait * time.Duration(attempt)
			slog.Warn("AI call failed, retrying", "attempt", attempt, "wait", wait, "error", err)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
	}

	return "", lastErr
}
