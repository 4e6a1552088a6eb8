package circuit

import (
	"errors"
	"testing"
	"time"
)

var errProbe = errors.New("probe failed")

func failingCall() error { return errProbe }
func healthyCall() error { return nil }

func TestNewBreaker_StartsClosed(t *testing.T) {
	b := NewBreaker("test", DefaultConfig(), nil)

	if b.State() != StateClosed {
		t.Errorf("Expected initial state CLOSED, got %s", b.State())
	}
}

func TestBreaker_OpensAfterThreshold(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	b := NewBreaker("test", config, nil)

	for i := 0; i < 3; i++ {
		if err := b.Execute(failingCall); !errors.Is(err, errProbe) {
			t.Fatalf("Expected probe error, got %v", err)
		}
	}

	if b.State() != StateOpen {
		t.Errorf("Expected state OPEN after %d failures, got %s", config.Threshold, b.State())
	}

	if err := b.Execute(healthyCall); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen while open, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	config := Config{
		Threshold:        3,
		Timeout:          time.Second,
		SuccessThreshold: 2,
		MaxHalfOpen:      2,
	}
	b := NewBreaker("test", config, nil)

	_ = b.Execute(failingCall)
	_ = b.Execute(failingCall)
	_ = b.Execute(healthyCall)
	_ = b.Execute(failingCall)
	_ = b.Execute(failingCall)

	if b.State() != StateClosed {
		t.Errorf("Expected state CLOSED after interleaved success, got %s", b.State())
	}
}

func TestBreaker_HalfOpenAfterTimeout(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 1,
		MaxHalfOpen:      1,
	}
	b := NewBreaker("test", config, nil)

	_ = b.Execute(failingCall)
	if b.State() != StateOpen {
		t.Fatalf("Expected OPEN, got %s", b.State())
	}

	time.Sleep(30 * time.Millisecond)

	if b.State() != StateHalfOpen {
		t.Errorf("Expected HALF_OPEN after timeout, got %s", b.State())
	}
}

func TestBreaker_ClosesAfterHalfOpenSuccesses(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      3,
	}
	b := NewBreaker("test", config, nil)

	_ = b.Execute(failingCall)
	time.Sleep(30 * time.Millisecond)

	if err := b.Execute(healthyCall); err != nil {
		t.Fatalf("Expected success in half-open, got %v", err)
	}
	if err := b.Execute(healthyCall); err != nil {
		t.Fatalf("Expected success in half-open, got %v", err)
	}

	if b.State() != StateClosed {
		t.Errorf("Expected CLOSED after %d half-open successes, got %s", config.SuccessThreshold, b.State())
	}
}

func TestBreaker_ReopensOnHalfOpenFailure(t *testing.T) {
	config := Config{
		Threshold:        1,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 2,
		MaxHalfOpen:      3,
	}
	b := NewBreaker("test", config, nil)

	_ = b.Execute(failingCall)
	time.Sleep(30 * time.Millisecond)

	if err := b.Execute(failingCall); !errors.Is(err, errProbe) {
		t.Fatalf("Expected probe error in half-open, got %v", err)
	}

	if b.State() != StateOpen {
		t.Errorf("Expected OPEN after half-open failure, got %s", b.State())
	}
}
