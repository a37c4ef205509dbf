// Package circuitbreaker wraps sony/gobreaker with typed execution.
package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/DappGoose-Labs/arbagent/internal/apperror"
)

// Config holds circuit breaker configuration.
type Config struct {
	Name        string
	MaxRequests uint32        // requests allowed while half-open
	Interval    time.Duration // closed-state count reset interval
	Timeout     time.Duration // open-state cool-down before half-open
	// FailureThreshold is the consecutive-failure count that trips the breaker.
	FailureThreshold uint32
}

// DefaultConfig returns sensible defaults for an external data source.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// CircuitBreaker guards calls to an external collaborator.
type CircuitBreaker[T any] struct {
	cb *gobreaker.CircuitBreaker[T]
}

// New creates a CircuitBreaker from config.
func New[T any](cfg Config) *CircuitBreaker[T] {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
	}
	return &CircuitBreaker[T]{
		cb: gobreaker.NewCircuitBreaker[T](settings),
	}
}

// Execute runs fn through the breaker. An open breaker returns an
// AppError with CodeCircuitOpen instead of invoking fn.
func (c *CircuitBreaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return result, apperror.New(apperror.CodeCircuitOpen,
				apperror.WithContext(c.cb.Name()),
				apperror.WithCause(err))
		}
		return result, err
	}
	return result, nil
}

// State returns the current breaker state as a string.
func (c *CircuitBreaker[T]) State() string {
	return c.cb.State().String()
}
