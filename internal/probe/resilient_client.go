package probe

import (
	"context"
	"errors"
	"time"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/resilience"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// ResilientClient retries transient failures and stops calling a service
// that keeps failing. Rejected readings are returned immediately.
type ResilientClient struct {
	client         Client
	circuitBreaker *resilience.CircuitBreaker
	retryAttempts  int
	retryDelay     time.Duration
}

type ResilientClientConfig struct {
	Client        Client
	MaxFailures   int
	Timeout       time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	OnStateChange func(name string, from, to resilience.State)
}

func NewResilientClient(cfg ResilientClientConfig) *ResilientClient {
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 500 * time.Millisecond
	}

	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
		Name:          "probe",
		MaxFailures:   cfg.MaxFailures,
		Timeout:       cfg.Timeout,
		OnStateChange: cfg.OnStateChange,
	})

	return &ResilientClient{
		client:         cfg.Client,
		circuitBreaker: cb,
		retryAttempts:  cfg.RetryAttempts,
		retryDelay:     cfg.RetryDelay,
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, ErrRejected) || errors.Is(err, context.Canceled)
}

func (c *ResilientClient) Predict(ctx context.Context, reading models.SensorReading) (*models.ClassificationResult, error) {
	var result *models.ClassificationResult

	err := c.circuitBreaker.ExecuteWithFilter(func() error {
		var lastErr error
		for attempt := 1; attempt <= c.retryAttempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return err
			}

			var err error
			result, err = c.client.Predict(ctx, reading)
			if err == nil {
				return nil
			}
			if isPermanent(err) {
				return err
			}

			lastErr = err
			logger.Warnf("Prediction attempt %d/%d failed: %v", attempt, c.retryAttempts, err)

			if attempt < c.retryAttempts {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(c.retryDelay):
				}
			}
		}
		return lastErr
	}, isPermanent)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *ResilientClient) HealthCheck(ctx context.Context) error {
	return c.client.HealthCheck(ctx)
}

func (c *ResilientClient) Close() error {
	return c.client.Close()
}

func (c *ResilientClient) CircuitState() resilience.State {
	return c.circuitBreaker.State()
}
