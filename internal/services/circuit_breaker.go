package services

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// NewCircuitBreaker guards the stats site. It opens after threshold
// consecutive failed fetches and retries after timeout. A threshold of
// zero disables the breaker.
func NewCircuitBreaker(name string, threshold int, timeout time.Duration, logger *logrus.Entry) *gobreaker.CircuitBreaker {
	if threshold <= 0 {
		return nil
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(threshold)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}
	return gobreaker.NewCircuitBreaker(settings)
}
