// Package predictor runs the classifier on behalf of the service layer and
// reports each prediction to metrics, the log and the event bus.
package predictor

import (
	"context"
	"time"

	"github.com/OldStager01/grid-fault-predictor/internal/classifier"
	"github.com/OldStager01/grid-fault-predictor/internal/events"
	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/metrics"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

type Predictor struct {
	publisher *events.Publisher
	metrics   *metrics.Metrics
	classify  func(models.SensorReading) *models.ClassificationResult
}

type Option func(*Predictor)

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Predictor) { p.metrics = m }
}

// New returns a Predictor publishing to bus. A nil bus disables events.
func New(bus *events.EventBus, opts ...Option) *Predictor {
	p := &Predictor{
		metrics:  metrics.Get(),
		classify: classifier.Classify,
	}
	if bus != nil {
		p.publisher = events.NewPublisher(bus)
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Predict classifies reading. The result is never nil; ctx only carries the
// trace id.
func (p *Predictor) Predict(ctx context.Context, reading models.SensorReading) *models.ClassificationResult {
	start := time.Now()
	result := p.classify(reading)
	p.metrics.SetClassifyLatency(time.Since(start))

	p.metrics.IncPrediction(result.Prediction)
	highRisk := result.IsHighRisk()
	if highRisk {
		p.metrics.IncHighRisk(result.Prediction)
	}

	entry := logger.WithPrediction(ctx, string(result.Prediction)).WithFields(map[string]interface{}{
		"confidence": models.Round4(result.Confidence),
		"severity":   result.FaultDetails.Severity,
		"risk_level": result.FaultDetails.RiskLevel,
	})
	if highRisk {
		entry.Warn("High risk fault predicted")
	} else {
		entry.Debug("Prediction made")
	}

	if p.publisher != nil {
		pub := p.publisher.WithTraceID(logger.TraceIDFromContext(ctx))
		pub.PredictionMade(result)
		if highRisk {
			pub.HighRiskFault(result)
		}
	}

	return result
}
