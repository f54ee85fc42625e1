package backoff

import (
	"context"
	"errors"
	"syscall"
	"time"
)

// Retry executes f up to attempts times, doubling the pause after every failure.
// It stops at the first success, at an error shouldRetry rejects or when ctx is done.
func Retry(ctx context.Context, attempts int, sleep time.Duration, f func() error, shouldRetry func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}
	if sleep <= 0 {
		sleep = time.Second
	}
	var lastErr error
	for cur := 0; cur < attempts; cur++ {
		err := f()
		if err == nil {
			return nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return err
		}
		if cur == attempts-1 {
			break
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return errors.Join(lastErr, ctx.Err())
		case <-timer.C:
		}
		sleep *= 2
	}
	return lastErr
}

// IsTransientIOError reports errors a shared or network file system may clear on its own
func IsTransientIOError(err error) bool {
	return errors.Is(err, syscall.EBUSY) ||
		errors.Is(err, syscall.EAGAIN) ||
		errors.Is(err, syscall.EINTR) ||
		errors.Is(err, syscall.ESTALE)
}
