// Package breaker wraps sony/gobreaker for calls to managed AWS services.
package breaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned when the breaker rejects a call without running it.
var ErrOpen = errors.New("circuit breaker open")

// Breaker runs calls through a circuit breaker.
type Breaker interface {
	Execute(fn func() error) error
}

type circuitBreaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker that opens after maxFailures consecutive failures and
// probes again after timeout.
func New(name string, timeout time.Duration, maxFailures uint32) Breaker {
	if maxFailures == 0 {
		maxFailures = 1
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
	}
	return &circuitBreaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn unless the breaker is open.
func (b *circuitBreaker) Execute(fn func() error) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, fn()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s: %w", b.cb.Name(), ErrOpen)
	}
	return err
}

// Noop returns a Breaker that always runs fn.
func Noop() Breaker {
	return noop{}
}

type noop struct{}

func (noop) Execute(fn func() error) error { return fn() }
