package models

import "time"

type EventType string

const (
	EventTypePredictionMade EventType = "prediction_made"
	EventTypeHighRiskFault  EventType = "high_risk_fault"
	EventTypeError          EventType = "error"
)

// AllEventTypes lists every event type the bus can carry.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypePredictionMade,
		EventTypeHighRiskFault,
		EventTypeError,
	}
}

type EventSeverity string

const (
	EventSeverityInfo     EventSeverity = "info"
	EventSeverityWarning  EventSeverity = "warning"
	EventSeverityCritical EventSeverity = "critical"
)

// EventSeverityFor maps an advisory severity onto an event severity.
func EventSeverityFor(s Severity) EventSeverity {
	switch s {
	case SeverityHigh:
		return EventSeverityCritical
	case SeverityModerate, SeverityMedium:
		return EventSeverityWarning
	default:
		return EventSeverityInfo
	}
}

// Event represents an internal system event
type Event struct {
	ID        string        `json:"id"`
	Type      EventType     `json:"type"`
	Severity  EventSeverity `json:"severity"`
	Category  FaultCategory `json:"category,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Message   string        `json:"message"`
	Data      interface{}   `json:"data,omitempty"`
	TraceID   string        `json:"trace_id,omitempty"`
}

func NewEvent(eventType EventType, category FaultCategory, message string) *Event {
	return &Event{
		ID:        NewUUID(),
		Type:      eventType,
		Severity:  EventSeverityInfo,
		Category:  category,
		Timestamp: time.Now(),
		Message:   message,
	}
}

func (e *Event) WithSeverity(severity EventSeverity) *Event {
	e.Severity = severity
	return e
}

func (e *Event) WithData(data interface{}) *Event {
	e.Data = data
	return e
}

func (e *Event) WithTraceID(traceID string) *Event {
	e.TraceID = traceID
	return e
}
