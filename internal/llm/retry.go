package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// RetryConfig holds retry configuration for provider calls. Retries live
// entirely inside this package: callers make one Analyze call and either get
// a result or a terminal error.
type RetryConfig struct {
	MaxRetries        int           // Maximum number of retries (default: 3)
	InitialBackoff    time.Duration // First backoff duration (default: 1s)
	MaxBackoff        time.Duration // Backoff ceiling (default: 30s)
	BackoffMultiplier float64       // Backoff growth factor (default: 2.0)
	Timeout           time.Duration // Per-attempt timeout (default: 60s)

	// Circuit breaker settings
	CircuitBreakerEnabled bool          // Enable circuit breaker (default: true)
	FailureThreshold      int           // Failures before opening (default: 5)
	SuccessThreshold      int           // Half-open successes before closing (default: 2)
	OpenTimeout           time.Duration // How long to stay open (default: 30s)

	// MaxConcurrentCalls caps in-flight provider calls (default: 3, 0 = unlimited)
	MaxConcurrentCalls int
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:            3,
		InitialBackoff:        1 * time.Second,
		MaxBackoff:            30 * time.Second,
		BackoffMultiplier:     2.0,
		Timeout:               60 * time.Second,
		CircuitBreakerEnabled: true,
		FailureThreshold:      5,
		SuccessThreshold:      2,
		OpenTimeout:           30 * time.Second,
		MaxConcurrentCalls:    3,
	}
}

// ErrCircuitOpen is returned when the circuit breaker is rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitState represents the state of the circuit breaker.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // normal operation
	CircuitOpen                         // failing fast after repeated failures
	CircuitHalfOpen                     // probing for recovery
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitOpen:
		return "OPEN"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	}
	return "UNKNOWN"
}

// CircuitBreaker fails provider calls fast once the backend looks down,
// instead of burning the full retry schedule on every generation run.
type CircuitBreaker struct {
	mu sync.Mutex

	state            CircuitState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
}

// NewCircuitBreaker creates a closed circuit breaker.
func NewCircuitBreaker(failureThreshold, successThreshold int, openTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            CircuitClosed,
		failureThreshold: failureThreshold,
		successThreshold: successThreshold,
		openTimeout:      openTimeout,
	}
}

// Allow reports whether a call may proceed. An open circuit transitions to
// half-open once the open timeout has elapsed.
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitOpen:
		if time.Since(cb.lastFailureTime) > cb.openTimeout {
			cb.transition(CircuitHalfOpen)
			return nil
		}
		return ErrCircuitOpen
	default:
		return nil
	}
}

// RecordSuccess counts a successful call toward recovery.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount = 0
	case CircuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.transition(CircuitClosed)
		}
	}
}

// RecordFailure counts a failed call. Any failure while half-open reopens
// the circuit immediately.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.lastFailureTime = time.Now()

	switch cb.state {
	case CircuitClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.transition(CircuitOpen)
		}
	case CircuitHalfOpen:
		cb.transition(CircuitOpen)
	}
}

// State returns the current state.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Metrics returns the current state and counters.
func (cb *CircuitBreaker) Metrics() (state CircuitState, failures, successes int) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state, cb.failureCount, cb.successCount
}

// transition moves to a new state. Must be called with the lock held.
func (cb *CircuitBreaker) transition(to CircuitState) {
	from := cb.state
	cb.state = to
	cb.successCount = 0
	if to == CircuitClosed {
		cb.failureCount = 0
	}
	fmt.Fprintf(os.Stderr, "LLM circuit breaker: %s -> %s\n", from, to)
}

// retryWithBackoff runs one provider operation under the analyzer's retry
// schedule: concurrency slot, circuit breaker check, per-attempt timeout,
// exponential backoff between retriable failures.
func (a *Analyzer) retryWithBackoff(ctx context.Context, operation string, fn func(context.Context) error) error {
	if a.concurrencySem != nil {
		if err := a.concurrencySem.Acquire(ctx, 1); err != nil {
			return fmt.Errorf("acquiring concurrency slot for %s: %w", operation, err)
		}
		defer a.concurrencySem.Release(1)
	}

	var lastErr error
	backoff := a.retry.InitialBackoff

	for attempt := 0; attempt <= a.retry.MaxRetries; attempt++ {
		if a.circuitBreaker != nil {
			if err := a.circuitBreaker.Allow(); err != nil {
				state, failures, _ := a.circuitBreaker.Metrics()
				fmt.Fprintf(os.Stderr, "LLM %s blocked by circuit breaker (state=%s, failures=%d)\n",
					operation, state, failures)
				return fmt.Errorf("%s failed: %w", operation, err)
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, a.retry.Timeout)
		err := fn(attemptCtx)
		cancel()

		if err == nil {
			if a.circuitBreaker != nil {
				a.circuitBreaker.RecordSuccess()
			}
			if attempt > 0 {
				fmt.Fprintf(os.Stderr, "LLM %s succeeded after %d retries\n", operation, attempt)
			}
			return nil
		}

		lastErr = err

		// Only transient failures count against the breaker: an auth error
		// says nothing about backend health.
		if !isRetriableError(err) {
			fmt.Fprintf(os.Stderr, "LLM %s failed with non-retriable error: %v\n", operation, err)
			return err
		}
		if a.circuitBreaker != nil {
			a.circuitBreaker.RecordFailure()
		}

		if attempt == a.retry.MaxRetries {
			break
		}
		if ctx.Err() != nil {
			return fmt.Errorf("%s failed: context canceled: %w", operation, ctx.Err())
		}

		fmt.Fprintf(os.Stderr, "LLM %s failed (attempt %d/%d), retrying in %v: %v\n",
			operation, attempt+1, a.retry.MaxRetries+1, backoff, err)

		select {
		case <-time.After(backoff):
			backoff = time.Duration(float64(backoff) * a.retry.BackoffMultiplier)
			if backoff > a.retry.MaxBackoff {
				backoff = a.retry.MaxBackoff
			}
		case <-ctx.Done():
			return fmt.Errorf("%s failed: context canceled during backoff: %w", operation, ctx.Err())
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operation, a.retry.MaxRetries+1, lastErr)
}

// isRetriableError reports whether an error is transient. Provider SDKs
// surface HTTP failures as wrapped errors, so this matches on status codes
// and common network failure strings.
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := err.Error()

	// Rate limits are retriable.
	if strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit") {
		return true
	}

	// Server-side failures are retriable.
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "bad gateway") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "gateway timeout") {
		return true
	}

	// Connection-level failures are retriable.
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "network") {
		return true
	}

	// Remaining 4xx client errors will not succeed on retry.
	return false
}
