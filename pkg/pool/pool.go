package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// ErrPoolClosed is returned by Submit after Shutdown
var ErrPoolClosed = errors.New("worker pool is closed")

// Config defines worker pool configuration
type Config struct {
	Workers   int `json:"workers"`
	QueueSize int `json:"queue_size"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Workers:   4,
		QueueSize: 64,
	}
}

type task struct {
	ctx  context.Context
	fn   func() error
	done chan error
}

// Pool runs CPU-bound work (password hashing) on a fixed set of worker
// goroutines so a slow computation cannot stall the request-accepting path.
type Pool struct {
	tasks   chan task
	workers int
	logger  *zap.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	timedOut  atomic.Int64
}

// New creates a worker pool and starts its workers
func New(config Config, logger *zap.Logger) *Pool {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Workers <= 0 {
		config.Workers = DefaultConfig().Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultConfig().QueueSize
	}

	p := &Pool{
		tasks:   make(chan task, config.QueueSize),
		workers: config.Workers,
		logger:  logger,
	}

	for i := 0; i < config.Workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}

	logger.Info("Worker pool started",
		zap.Int("workers", config.Workers),
		zap.Int("queue_size", config.QueueSize),
	)

	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for t := range p.tasks {
		// Skip work whose caller already gave up
		if err := t.ctx.Err(); err != nil {
			p.timedOut.Add(1)
			t.done <- err
			continue
		}

		t.done <- t.fn()
		p.completed.Add(1)
	}
}

// Submit runs fn on a pool worker and waits for it to finish. The caller's
// context deadline is honored both while queued and while the caller waits;
// a deadline hit returns the context error, never a result from fn.
func (p *Pool) Submit(ctx context.Context, fn func() error) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.mu.Unlock()

	p.submitted.Add(1)

	t := task{
		ctx:  ctx,
		fn:   fn,
		done: make(chan error, 1),
	}

	select {
	case p.tasks <- t:
	case <-ctx.Done():
		p.timedOut.Add(1)
		return ctx.Err()
	}

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		p.timedOut.Add(1)
		return ctx.Err()
	}
}

// Stats returns pool statistics
func (p *Pool) Stats() map[string]interface{} {
	return map[string]interface{}{
		"workers":   p.workers,
		"submitted": p.submitted.Load(),
		"completed": p.completed.Load(),
		"timed_out": p.timedOut.Load(),
		"queued":    len(p.tasks),
	}
}

// Shutdown stops accepting work and waits for in-flight tasks to drain
func (p *Pool) Shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("Worker pool stopped")
}
