package backoff

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	permanent := errors.New("permanent")
	transient := &os.PathError{Op: "rename", Path: "table.parquet", Err: syscall.EBUSY}

	tests := []struct {
		name     string
		attempts int
		failures []error
		calls    int
		expected error
	}{
		{name: "first attempt succeeds", attempts: 3, calls: 1},
		{name: "recovers from transient errors", attempts: 3, failures: []error{transient, transient}, calls: 3},
		{name: "gives up after attempts", attempts: 2, failures: []error{transient, transient, transient}, calls: 2, expected: transient},
		{name: "stops at permanent error", attempts: 3, failures: []error{permanent}, calls: 1, expected: permanent},
		{name: "at least one attempt", attempts: 0, failures: []error{transient}, calls: 1, expected: transient},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tc.attempts, time.Millisecond, func() error {
				calls++
				if calls <= len(tc.failures) {
					return tc.failures[calls-1]
				}
				return nil
			}, IsTransientIOError)

			assert.Equal(t, tc.calls, calls)
			if tc.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.expected)
			}
		})
	}
}

func TestRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, 5, time.Hour, func() error {
		calls++
		cancel()
		return syscall.EAGAIN
	}, IsTransientIOError)

	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, err, syscall.EAGAIN)
}

func TestIsTransientIOError(t *testing.T) {
	assert.True(t, IsTransientIOError(fmt.Errorf("write: %w", syscall.ESTALE)))
	assert.False(t, IsTransientIOError(os.ErrPermission))
	assert.False(t, IsTransientIOError(nil))
}
