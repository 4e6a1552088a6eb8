package pool

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestPool_SubmitRunsTask(t *testing.T) {
	p := New(Config{Workers: 2, QueueSize: 4}, nil)
	defer p.Shutdown()

	ran := false
	err := p.Submit(context.Background(), func() error {
		ran = true
		return nil
	})
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !ran {
		t.Error("Expected task to run")
	}
}

func TestPool_SubmitPropagatesTaskError(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1}, nil)
	defer p.Shutdown()

	want := errors.New("task failed")
	err := p.Submit(context.Background(), func() error {
		return want
	})
	if !errors.Is(err, want) {
		t.Errorf("Expected task error, got %v", err)
	}
}

func TestPool_SubmitHonorsContext(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1}, nil)
	defer p.Shutdown()

	// Occupy the only worker
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = p.Submit(context.Background(), func() error {
			<-release
			return nil
		})
	}()

	// Give the blocking task time to be picked up
	time.Sleep(50 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := p.Submit(ctx, func() error { return nil })
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}

	close(release)
	wg.Wait()
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1}, nil)
	p.Shutdown()

	err := p.Submit(context.Background(), func() error { return nil })
	if !errors.Is(err, ErrPoolClosed) {
		t.Errorf("Expected ErrPoolClosed, got %v", err)
	}
}

func TestPool_Stats(t *testing.T) {
	p := New(Config{Workers: 2, QueueSize: 4}, nil)
	defer p.Shutdown()

	for i := 0; i < 3; i++ {
		if err := p.Submit(context.Background(), func() error { return nil }); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}

	stats := p.Stats()
	if stats["submitted"].(int64) != 3 {
		t.Errorf("Expected 3 submitted, got %v", stats["submitted"])
	}
	if stats["workers"].(int) != 2 {
		t.Errorf("Expected 2 workers, got %v", stats["workers"])
	}
}

func TestPool_ShutdownIsIdempotent(t *testing.T) {
	p := New(Config{Workers: 1, QueueSize: 1}, nil)
	p.Shutdown()
	p.Shutdown()
}
