package ai

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// RetryConfig holds retry and circuit breaker settings for provider calls.
type RetryConfig struct {
	MaxRetries        int           // attempts beyond the first (default: 3)
	InitialBackoff    time.Duration // default: 1s
	MaxBackoff        time.Duration // default: 30s
	BackoffMultiplier float64       // default: 2.0
	Timeout           time.Duration // per-request timeout (default: 90s)

	FailureThreshold int           // failures before the circuit opens (default: 5)
	SuccessThreshold int           // half-open successes before it closes (default: 2)
	OpenTimeout      time.Duration // how long the circuit stays open (default: 30s)
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
		Timeout:           90 * time.Second,
		FailureThreshold:  5,
		SuccessThreshold:  2,
		OpenTimeout:       30 * time.Second,
	}
}

// ErrCircuitOpen is returned when the provider has failed repeatedly and
// calls are being shed instead of attempted.
var ErrCircuitOpen = errors.New("provider circuit breaker is open")

type circuitState int

const (
	circuitClosed circuitState = iota
	circuitOpen
	circuitHalfOpen
)

// circuitBreaker fails fast once a provider is clearly down, instead of
// making every caller sit through a full retry ladder.
type circuitBreaker struct {
	mu sync.Mutex

	state            circuitState
	failureCount     int
	successCount     int
	lastStateChange  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
}

func newCircuitBreaker(cfg RetryConfig) *circuitBreaker {
	return &circuitBreaker{
		state:            circuitClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
		lastStateChange:  time.Now(),
	}
}

func (cb *circuitBreaker) allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == circuitOpen {
		if time.Since(cb.lastStateChange) < cb.openTimeout {
			return ErrCircuitOpen
		}
		cb.state = circuitHalfOpen
		cb.successCount = 0
		cb.lastStateChange = time.Now()
	}
	return nil
}

func (cb *circuitBreaker) recordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case circuitHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.successThreshold {
			cb.state = circuitClosed
			cb.failureCount = 0
			cb.lastStateChange = time.Now()
		}
	case circuitClosed:
		cb.failureCount = 0
	}
}

func (cb *circuitBreaker) recordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	switch cb.state {
	case circuitHalfOpen:
		cb.state = circuitOpen
		cb.lastStateChange = time.Now()
	case circuitClosed:
		cb.failureCount++
		if cb.failureCount >= cb.failureThreshold {
			cb.state = circuitOpen
			cb.lastStateChange = time.Now()
		}
	}
}

// retryWithBackoff runs fn with exponential backoff on failure. Each attempt
// gets its own timeout context. Context cancellation stops the ladder
// immediately; retries are for transient provider errors, not for the caller
// changing its mind.
func (p *Planner) retryWithBackoff(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	if err := p.breaker.allow(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	backoff := p.retry.InitialBackoff
	var lastErr error
	for attempt := 0; attempt <= p.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * p.retry.BackoffMultiplier)
			if backoff > p.retry.MaxBackoff {
				backoff = p.retry.MaxBackoff
			}
		}

		attemptCtx, cancel := context.WithTimeout(ctx, p.retry.Timeout)
		err := fn(attemptCtx)
		cancel()
		if err == nil {
			p.breaker.recordSuccess()
			return nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	p.breaker.recordFailure()
	return fmt.Errorf("%s failed after %d attempts: %w", op, p.retry.MaxRetries+1, lastErr)
}
