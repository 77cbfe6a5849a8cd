package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ErrCircuitOpen is returned when the breaker refuses a call.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerState represents the current state of the circuit breaker
type CircuitBreakerState int

const (
	Closed CircuitBreakerState = iota
	Open
	HalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds configuration for the circuit breaker
type CircuitBreakerConfig struct {
	FailureThreshold int           `json:"failure_threshold"` // Consecutive failures before opening
	SuccessThreshold int           `json:"success_threshold"` // Successes needed to close from half-open
	Timeout          time.Duration `json:"timeout"`           // Time to wait before trying half-open
	MaxRequests      int           `json:"max_requests"`      // Concurrent probes allowed in half-open state
	ResetTimeout     time.Duration `json:"reset_timeout"`     // Quiet period that forgives old failures
}

// CircuitBreakerStats holds statistics for the circuit breaker
type CircuitBreakerStats struct {
	TotalRequests      int64     `json:"total_requests"`
	SuccessfulRequests int64     `json:"successful_requests"`
	FailedRequests     int64     `json:"failed_requests"`
	RejectedRequests   int64     `json:"rejected_requests"`
	LastFailureTime    time.Time `json:"last_failure_time"`
	LastSuccessTime    time.Time `json:"last_success_time"`
	StateChanges       int64     `json:"state_changes"`
}

// CircuitBreaker protects the simulation engine from a stampede of calls
// while it is failing. The guarded function runs outside the lock, so slow
// simulations from different sessions do not serialize on the breaker.
type CircuitBreaker struct {
	name            string
	config          CircuitBreakerConfig
	logger          *logrus.Logger
	mu              sync.Mutex
	state           CircuitBreakerState
	failureCount    int
	successCount    int
	inFlightProbes  int
	lastFailureTime time.Time
	lastStateChange time.Time
	stats           CircuitBreakerStats
	now             func() time.Time
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(name string, config CircuitBreakerConfig, logger *logrus.Logger) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRequests <= 0 {
		config.MaxRequests = 1
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 5 * time.Minute
	}

	return &CircuitBreaker{
		name:            name,
		config:          config,
		logger:          logger,
		state:           Closed,
		lastStateChange: time.Now(),
		now:             time.Now,
	}
}

// Execute runs fn unless the breaker is open. Cancellation by the caller is
// neither a success nor a failure of the engine.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	probe, err := cb.admit()
	if err != nil {
		return err
	}

	start := cb.now()
	err = fn(ctx)
	duration := cb.now().Sub(start)

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if probe {
		cb.inFlightProbes--
	}

	switch {
	case err == nil:
		cb.onSuccess(duration)
	case errors.Is(err, context.Canceled):
		cb.logger.WithField("circuit_breaker", cb.name).Debug("Circuit breaker: call cancelled by caller")
	default:
		cb.onFailure(err, duration)
	}
	return err
}

// admit decides whether a call may proceed and whether it is a half-open probe.
func (cb *CircuitBreaker) admit() (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.stats.TotalRequests++
	now := cb.now()

	switch cb.state {
	case Closed:
		// Reset failure count if enough time has passed
		if cb.failureCount > 0 && now.Sub(cb.lastFailureTime) > cb.config.ResetTimeout {
			cb.failureCount = 0
		}
		return false, nil

	case Open:
		if now.Sub(cb.lastStateChange) <= cb.config.Timeout {
			return false, cb.reject()
		}
		cb.setState(HalfOpen)
		cb.successCount = 0
		cb.inFlightProbes = 0
	}

	// Half-open: allow a limited number of concurrent probes
	if cb.inFlightProbes >= cb.config.MaxRequests {
		return false, cb.reject()
	}
	cb.inFlightProbes++
	return true, nil
}

func (cb *CircuitBreaker) reject() error {
	cb.stats.RejectedRequests++
	cb.logger.WithFields(logrus.Fields{
		"circuit_breaker": cb.name,
		"state":           cb.state.String(),
		"failure_count":   cb.failureCount,
	}).Warn("Circuit breaker is open, rejecting request")
	return ErrCircuitOpen
}

// onSuccess handles successful execution
func (cb *CircuitBreaker) onSuccess(duration time.Duration) {
	cb.stats.SuccessfulRequests++
	cb.stats.LastSuccessTime = cb.now()

	switch cb.state {
	case Closed:
		cb.failureCount = 0

	case HalfOpen:
		cb.successCount++
		if cb.successCount >= cb.config.SuccessThreshold {
			cb.setState(Closed)
			cb.failureCount = 0
			cb.successCount = 0
		}
	}

	cb.logger.WithFields(logrus.Fields{
		"circuit_breaker": cb.name,
		"state":           cb.state.String(),
		"duration_ms":     duration.Milliseconds(),
	}).Debug("Circuit breaker: successful execution")
}

// onFailure handles failed execution
func (cb *CircuitBreaker) onFailure(err error, duration time.Duration) {
	cb.stats.FailedRequests++
	cb.stats.LastFailureTime = cb.now()
	cb.lastFailureTime = cb.now()
	cb.failureCount++

	switch cb.state {
	case Closed:
		if cb.failureCount >= cb.config.FailureThreshold {
			cb.setState(Open)
		}

	case HalfOpen:
		// Any failure while probing opens the circuit again
		cb.setState(Open)
		cb.successCount = 0
	}

	cb.logger.WithFields(logrus.Fields{
		"circuit_breaker": cb.name,
		"state":           cb.state.String(),
		"error":           err.Error(),
		"duration_ms":     duration.Milliseconds(),
		"failure_count":   cb.failureCount,
	}).Warn("Circuit breaker: failed execution")
}

// setState changes the circuit breaker state
func (cb *CircuitBreaker) setState(newState CircuitBreakerState) {
	if cb.state == newState {
		return
	}
	oldState := cb.state
	cb.state = newState
	cb.lastStateChange = cb.now()
	cb.stats.StateChanges++

	cb.logger.WithFields(logrus.Fields{
		"circuit_breaker": cb.name,
		"old_state":       oldState.String(),
		"new_state":       newState.String(),
		"failure_count":   cb.failureCount,
	}).Info("Circuit breaker state changed")
}

// GetState returns the current state of the circuit breaker
func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// GetStats returns the current statistics
func (cb *CircuitBreaker) GetStats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stats
}

// IsOpen returns true if the circuit breaker is open
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.GetState() == Open
}

// Reset manually resets the circuit breaker to closed state
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.setState(Closed)
	cb.failureCount = 0
	cb.successCount = 0
	cb.inFlightProbes = 0

	cb.logger.WithField("circuit_breaker", cb.name).Info("Circuit breaker manually reset")
}
