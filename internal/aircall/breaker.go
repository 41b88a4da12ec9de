package aircall

import (
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// BreakerState mirrors gobreaker's state for health reporting.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerHalfOpen BreakerState = "half-open"
	BreakerOpen     BreakerState = "open"
)

// BreakerSettings configures the circuit breaker guarding the transport.
type BreakerSettings struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureRatio     float64
	ConsecutiveFails uint32
}

type breaker struct {
	cb     *gobreaker.CircuitBreaker
	logger *zap.Logger
}

func newBreaker(s BreakerSettings, logger *zap.Logger) *breaker {
	settings := gobreaker.Settings{
		Name:        "aircall-transport",
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= s.ConsecutiveFails && failureRatio >= s.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &breaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

func (b *breaker) execute(fn func() (map[string]any, error)) (map[string]any, error) {
	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			b.logger.Warn("Circuit breaker rejected request", zap.Error(err))
			return nil, &APIError{Message: fmt.Sprintf("service unavailable: %v", err), Err: err}
		}
		return nil, err
	}

	return result.(map[string]any), nil
}

func (b *breaker) state() BreakerState {
	switch b.cb.State() {
	case gobreaker.StateHalfOpen:
		return BreakerHalfOpen
	case gobreaker.StateOpen:
		return BreakerOpen
	default:
		return BreakerClosed
	}
}

func (b *breaker) counts() (requests, failures uint32) {
	counts := b.cb.Counts()
	return counts.Requests, counts.TotalFailures
}
