package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := New(3, 50*time.Millisecond)

	assert.True(t, cb.CanExecute())
	cb.RecordFailure()
	cb.RecordFailure()
	assert.Equal(t, StateClosed, cb.CurrentState())
	cb.RecordFailure()

	assert.Equal(t, StateOpen, cb.CurrentState())
	assert.False(t, cb.CanExecute())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := New(1, 10*time.Millisecond)
	cb.RecordFailure()
	require.Equal(t, StateOpen, cb.CurrentState())

	time.Sleep(15 * time.Millisecond)
	assert.True(t, cb.CanExecute())
	assert.Equal(t, StateHalfOpen, cb.CurrentState())

	cb.RecordSuccess()
	assert.Equal(t, StateClosed, cb.CurrentState())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := New(1, 10*time.Millisecond)
	cb.RecordFailure()
	time.Sleep(15 * time.Millisecond)
	require.True(t, cb.CanExecute())

	cb.RecordFailure()
	assert.Equal(t, StateOpen, cb.CurrentState())
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(errors.New("connection reset by peer")))
	assert.True(t, IsRetryable(errors.New("rate limit exceeded")))
	assert.False(t, IsRetryable(errors.New("invalid argument")))
	assert.False(t, IsRetryable(nil))
}

func TestRetrierDoRetriesUntilSuccess(t *testing.T) {
	r := Retrier{MaxRetries: 2, Strategy: StrategyImmediate}
	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("temporary failure")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetrierDoStopsOnNonRetryable(t *testing.T) {
	r := Retrier{MaxRetries: 5, Strategy: StrategyImmediate}
	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("invalid request")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetrierDoExhaustsRetries(t *testing.T) {
	r := Retrier{MaxRetries: 2, Strategy: StrategyImmediate}
	attempts := 0
	err := r.Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("timeout")
	})
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestBackoffForCapsExponential(t *testing.T) {
	r := DefaultRetrier(10)
	assert.Equal(t, time.Second, r.BackoffFor(0))
	assert.Equal(t, 2*time.Second, r.BackoffFor(1))
	assert.Equal(t, 60*time.Second, r.BackoffFor(10))
}
