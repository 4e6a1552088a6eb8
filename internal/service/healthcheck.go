package service

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/devhub-platform/portal/internal/model"
	"github.com/devhub-platform/portal/pkg/circuit"
	"go.uber.org/zap"
)

// HealthProber periodically probes catalog services that declare a health
// check URL and records the outcome. Each target gets its own circuit
// breaker so one flapping service cannot burn probe capacity.
type HealthProber struct {
	catalog  *CatalogService
	client   *http.Client
	interval time.Duration
	logger   *zap.Logger

	breakers map[uint]*circuit.Breaker

	stop chan struct{}
	done chan struct{}
}

func NewHealthProber(catalog *CatalogService, interval time.Duration, logger *zap.Logger) *HealthProber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HealthProber{
		catalog:  catalog,
		client:   &http.Client{Timeout: 10 * time.Second},
		interval: interval,
		logger:   logger,
		breakers: make(map[uint]*circuit.Breaker),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the probe loop in its own goroutine
func (p *HealthProber) Start() {
	p.logger.Info("Health prober started",
		zap.Duration("interval", p.interval),
	)

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.probeAll()
			case <-p.stop:
				return
			}
		}
	}()
}

func (p *HealthProber) probeAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	targets, err := p.catalog.ProbeTargets(ctx)
	if err != nil {
		p.logger.Error("Failed to load probe targets", zap.Error(err))
		return
	}

	for _, svc := range targets {
		select {
		case <-p.stop:
			return
		default:
		}
		p.probe(ctx, &svc)
	}
}

func (p *HealthProber) breakerFor(serviceID uint, name string) *circuit.Breaker {
	if b, ok := p.breakers[serviceID]; ok {
		return b
	}
	b := circuit.NewBreaker(name, circuit.DefaultConfig(), p.logger)
	p.breakers[serviceID] = b
	return b
}

func (p *HealthProber) probe(ctx context.Context, svc *model.Service) {
	breaker := p.breakerFor(svc.ID, svc.Name)

	status := model.HealthStatusHealthy
	err := breaker.Execute(func() error {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, svc.HealthCheckURL, nil)
		if reqErr != nil {
			return reqErr
		}

		resp, doErr := p.client.Do(req)
		if doErr != nil {
			return doErr
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			return fmt.Errorf("health endpoint returned %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		status = model.HealthStatusUnhealthy
		p.logger.Warn("Service health probe failed",
			zap.Uint("service_id", svc.ID),
			zap.String("service", svc.Name),
			zap.Error(err),
		)
	}

	if err := p.catalog.RecordHealth(ctx, svc.ID, status, time.Now()); err != nil {
		p.logger.Error("Failed to record probe result",
			zap.Uint("service_id", svc.ID),
			zap.Error(err),
		)
	}
}

// Stop halts the probe loop and waits for it to exit
func (p *HealthProber) Stop() {
	close(p.stop)
	<-p.done
	p.logger.Info("Health prober stopped")
}
