package breaker

import (
	"context"
	"time"
)

// Strategy is one of the three backoff strategies a Retrier can apply
// between attempts.
type Strategy string

const (
	StrategyExponential Strategy = "exponential"
	StrategyLinear      Strategy = "linear"
	StrategyImmediate   Strategy = "immediate"
)

// Retrier bounds the number of attempts a subagent makes against a flaky
// dependency and spaces them out per the configured Strategy.
type Retrier struct {
	MaxRetries       int
	Strategy         Strategy
	ExponentialCapS  float64
	LinearStepS      float64
	LinearCapS       float64
	ImmediateDelayS  float64
}

// DefaultRetrier returns a Retrier configured with the exponential strategy,
// the default per spec.md's Open Questions resolution.
func DefaultRetrier(maxRetries int) Retrier {
	return Retrier{
		MaxRetries:      maxRetries,
		Strategy:        StrategyExponential,
		ExponentialCapS: 60,
		LinearStepS:     5,
		LinearCapS:      30,
		ImmediateDelayS: 0,
	}
}

// BackoffFor returns the delay to wait before attempt number `attempt`
// (0-indexed, where attempt 0 is the first retry after an initial failure).
func (r Retrier) BackoffFor(attempt int) time.Duration {
	switch r.Strategy {
	case StrategyLinear:
		secs := float64(attempt+1) * r.LinearStepS
		if secs > r.LinearCapS {
			secs = r.LinearCapS
		}
		return time.Duration(secs * float64(time.Second))
	case StrategyImmediate:
		return time.Duration(r.ImmediateDelayS * float64(time.Second))
	case StrategyExponential:
		fallthrough
	default:
		secs := float64(int(1) << uint(attempt))
		if secs > r.ExponentialCapS {
			secs = r.ExponentialCapS
		}
		return time.Duration(secs * float64(time.Second))
	}
}

// Do runs fn, retrying up to MaxRetries times on retryable errors, honoring
// ctx cancellation between attempts. Non-retryable errors return
// immediately.
func (r Retrier) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == r.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.BackoffFor(attempt)):
		}
	}
	return lastErr
}
