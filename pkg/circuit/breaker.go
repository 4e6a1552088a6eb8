package circuit

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State represents circuit breaker state
type State int

const (
	StateClosed   State = iota // Normal operation - requests pass through
	StateOpen                  // Circuit is open - requests fail fast
	StateHalfOpen              // Testing if service recovered
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Errors
var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config defines circuit breaker configuration
type Config struct {
	Threshold        int           // Failures before opening circuit
	Timeout          time.Duration // Time to wait before half-open
	SuccessThreshold int           // Successes needed to close from half-open
	MaxHalfOpen      int           // Max concurrent requests in half-open
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Threshold:        5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 3,
		MaxHalfOpen:      3,
	}
}

// Breaker implements the circuit breaker pattern
type Breaker struct {
	mu              sync.RWMutex
	state           State
	config          Config
	failures        int
	successes       int
	halfOpenActive  int
	lastStateChange time.Time
	logger          *zap.Logger
	name            string
}

// NewBreaker creates a circuit breaker
func NewBreaker(name string, config Config, logger *zap.Logger) *Breaker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Threshold <= 0 {
		config = DefaultConfig()
	}

	return &Breaker{
		state:           StateClosed,
		config:          config,
		lastStateChange: time.Now(),
		logger:          logger,
		name:            name,
	}
}

// State returns the current state, transitioning open→half-open when the
// timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stateLocked()
}

func (b *Breaker) stateLocked() State {
	if b.state == StateOpen && time.Since(b.lastStateChange) >= b.config.Timeout {
		b.transitionLocked(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) transitionLocked(to State) {
	if b.state == to {
		return
	}

	b.logger.Info("Circuit breaker state change",
		zap.String("breaker", b.name),
		zap.String("from", b.state.String()),
		zap.String("to", to.String()),
	)

	b.state = to
	b.lastStateChange = time.Now()
	b.failures = 0
	b.successes = 0
	b.halfOpenActive = 0
}

// Execute runs fn through the breaker
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	switch b.stateLocked() {
	case StateOpen:
		b.mu.Unlock()
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.halfOpenActive >= b.config.MaxHalfOpen {
			b.mu.Unlock()
			return ErrTooManyRequests
		}
		b.halfOpenActive++
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateHalfOpen && b.halfOpenActive > 0 {
		b.halfOpenActive--
	}

	if err != nil {
		b.recordFailureLocked()
		return err
	}

	b.recordSuccessLocked()
	return nil
}

func (b *Breaker) recordFailureLocked() {
	b.failures++

	switch b.state {
	case StateClosed:
		if b.failures >= b.config.Threshold {
			b.transitionLocked(StateOpen)
		}
	case StateHalfOpen:
		// Any failure while probing reopens the circuit
		b.transitionLocked(StateOpen)
	}
}

func (b *Breaker) recordSuccessLocked() {
	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.transitionLocked(StateClosed)
		}
	}
}

// Stats returns breaker statistics
func (b *Breaker) Stats() map[string]interface{} {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return map[string]interface{}{
		"name":      b.name,
		"state":     b.state.String(),
		"failures":  b.failures,
		"successes": b.successes,
	}
}
