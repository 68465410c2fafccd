// Package breaker implements the per-subagent circuit breaker and the
// bounded retry/backoff strategies the subagent execution envelope wraps
// around every search call.
package breaker

import (
	"strings"
	"sync"
	"time"
)

// State is one of the three circuit breaker states.
type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

// CircuitBreaker trips after a run of consecutive failures and refuses
// further calls until a recovery timeout elapses, at which point it allows a
// single probe call through (half-open) before fully re-closing on success.
type CircuitBreaker struct {
	mu              sync.Mutex
	state           State
	failureCount    int
	threshold       int
	recoveryTimeout time.Duration
	openedAt        time.Time
}

// New creates a CircuitBreaker with the given failure threshold and recovery
// timeout.
func New(threshold int, recoveryTimeout time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = 5
	}
	return &CircuitBreaker{
		state:           StateClosed,
		threshold:       threshold,
		recoveryTimeout: recoveryTimeout,
	}
}

// CanExecute reports whether a call should be allowed through right now. A
// half-open breaker allows exactly one probe: calling CanExecute transitions
// it to half-open and the caller must report the outcome via RecordSuccess
// or RecordFailure.
func (b *CircuitBreaker) CanExecute() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateOpen:
		if time.Since(b.openedAt) >= b.recoveryTimeout {
			b.state = StateHalfOpen
			return true
		}
		return false
	case StateHalfOpen:
		return false
	default:
		return true
	}
}

// RecordSuccess resets the breaker to closed.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failureCount = 0
	b.state = StateClosed
}

// RecordFailure increments the failure count and opens the breaker once the
// threshold is reached (or immediately, if the failing call was itself the
// half-open probe).
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen {
		b.state = StateOpen
		b.openedAt = time.Now()
		return
	}

	b.failureCount++
	if b.failureCount >= b.threshold {
		b.state = StateOpen
		b.openedAt = time.Now()
	}
}

// CurrentState returns the breaker's state, mostly for metrics/logging.
func (b *CircuitBreaker) CurrentState() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// retryableSubstrings mirrors the original subagent's _is_retryable_error
// classifier: any of these substrings appearing in the lowercased error
// message marks it as transient.
var retryableSubstrings = []string{
	"timeout",
	"connection",
	"rate limit",
	"temporary",
	"unavailable",
	"too many requests",
	"network",
}

// IsRetryable reports whether err's message matches a known-transient
// pattern.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range retryableSubstrings {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
