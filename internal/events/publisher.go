package events

import (
	"fmt"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// PredictionData is the payload carried by prediction events.
type PredictionData struct {
	Prediction models.FaultCategory `json:"prediction"`
	Confidence float64              `json:"confidence"`
	Severity   models.Severity      `json:"severity"`
	RiskLevel  models.RiskLevel     `json:"risk_level"`
	Reading    models.SensorReading `json:"input_features"`
	Details    *models.FaultDetails `json:"fault_details,omitempty"`
}

func predictionData(result *models.ClassificationResult) *PredictionData {
	details := result.FaultDetails
	return &PredictionData{
		Prediction: result.Prediction,
		Confidence: result.Confidence,
		Severity:   details.Severity,
		RiskLevel:  details.RiskLevel,
		Reading:    result.InputFeatures,
		Details:    &details,
	}
}

type Publisher struct {
	bus     *EventBus
	traceID string
}

func NewPublisher(bus *EventBus) *Publisher {
	return &Publisher{bus: bus}
}

func (p *Publisher) WithTraceID(traceID string) *Publisher {
	return &Publisher{
		bus:     p.bus,
		traceID: traceID,
	}
}

func (p *Publisher) publish(event *models.Event) {
	if p.traceID != "" {
		event.TraceID = p.traceID
	}
	p.bus.Publish(event)
}

func (p *Publisher) PredictionMade(result *models.ClassificationResult) {
	msg := fmt.Sprintf("Prediction: %s (confidence %.4f)", result.Prediction, result.Confidence)
	event := models.NewEvent(models.EventTypePredictionMade, result.Prediction, msg).
		WithData(predictionData(result))
	p.publish(event)
}

func (p *Publisher) HighRiskFault(result *models.ClassificationResult) {
	msg := fmt.Sprintf("High risk %s detected", result.Prediction)
	event := models.NewEvent(models.EventTypeHighRiskFault, result.Prediction, msg).
		WithSeverity(models.EventSeverityFor(result.FaultDetails.Severity)).
		WithData(predictionData(result))
	p.publish(event)
}

func (p *Publisher) Error(message string, err error) {
	event := models.NewEvent(models.EventTypeError, "", message).
		WithSeverity(models.EventSeverityCritical).
		WithData(map[string]interface{}{
			"error": err.Error(),
		})
	p.publish(event)
}
