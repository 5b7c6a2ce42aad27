package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrRetryable marks an attempt failure that may succeed if repeated.
var ErrRetryable = errors.New("retryable failure")

// Retry runs fn until it succeeds, returns a non-retryable error, or the
// attempt budget (1 + MaxRetries) is spent. Delays grow linearly per attempt.
func Retry(ctx context.Context, cfg RetryConfig, fn func(ctx context.Context, attempt int) error) error {
	cfg = NormalizeRetryConfig(cfg)

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return errors.Join(lastErr, err)
			}
			return err
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return nil
		}
		if !errors.Is(lastErr, ErrRetryable) || attempt == cfg.MaxRetries {
			return lastErr
		}

		if err := sleep(ctx, backoff(cfg, attempt)); err != nil {
			return errors.Join(lastErr, err)
		}
	}

	return lastErr
}

func backoff(cfg RetryConfig, attempt int) time.Duration {
	delay := time.Duration(attempt+1) * cfg.BaseDelay
	if delay > cfg.MaxDelay {
		return cfg.MaxDelay
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
