package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SessionSweeper periodically removes expired session rows. Expiry is
// enforced on every claim regardless; the sweeper only keeps the table
// from growing.
type SessionSweeper struct {
	auth     *AuthService
	interval time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

func NewSessionSweeper(auth *AuthService, interval time.Duration, logger *zap.Logger) *SessionSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionSweeper{
		auth:     auth,
		interval: interval,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in its own goroutine
func (s *SessionSweeper) Start() {
	s.logger.Info("Session sweeper started",
		zap.Duration("interval", s.interval),
	)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.sweep()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *SessionSweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cleaned, err := s.auth.SweepExpiredSessions(ctx)
	if err != nil {
		s.logger.Error("Session sweep failed", zap.Error(err))
		return
	}

	if cleaned > 0 {
		s.logger.Info("Session sweep completed",
			zap.Int64("cleaned_count", cleaned),
		)
	}
}

// Stop halts the sweep loop and waits for it to exit
func (s *SessionSweeper) Stop() {
	close(s.stop)
	<-s.done
	s.logger.Info("Session sweeper stopped")
}
