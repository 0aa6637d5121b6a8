// internal/utils/retry.go
package utils

import (
	"context"
	"math"
	"math/rand"
	"time"
)

// Retry executes op with exponential backoff + jitter. It respects context
// cancellation between attempts. Used around persistence calls; the wrapped
// operation is the only side effect.
func Retry(ctx context.Context, maxRetries int, baseDelay time.Duration, op func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op()
		if lastErr == nil {
			return nil
		}

		if attempt < maxRetries {
			backoff := time.Duration(math.Pow(2, float64(attempt))) * baseDelay
			jitter := time.Duration(rand.Int63n(int64(backoff/2) + 1))
			wait := backoff + jitter

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return lastErr
}
