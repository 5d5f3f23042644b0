package websocket

import (
	"encoding/json"
	"time"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

type MessageType string

const (
	MessageTypePrediction         MessageType = "prediction"
	MessageTypeAlert              MessageType = "alert"
	MessageTypeError              MessageType = "error"
	MessageTypeSubscriptionUpdate MessageType = "subscription_update"
)

// OutgoingMessage is every frame sent to feed clients.
type OutgoingMessage struct {
	Type      MessageType          `json:"type"`
	Category  models.FaultCategory `json:"category,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
	Severity  string               `json:"severity,omitempty"`
	Message   string               `json:"message,omitempty"`
	TraceID   string               `json:"trace_id,omitempty"`
	Data      interface{}          `json:"data,omitempty"`
}

func NewMessage(msgType MessageType, category models.FaultCategory, data interface{}) *OutgoingMessage {
	return &OutgoingMessage{
		Type:      msgType,
		Category:  category,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func (m *OutgoingMessage) JSON() []byte {
	data, _ := json.Marshal(m)
	return data
}

// IncomingMessage is a client control frame, for example
// {"type":"subscribe","category":"Overheating"}.
type IncomingMessage struct {
	Type     string `json:"type"`
	Category string `json:"category,omitempty"`
}

type SubscriptionData struct {
	Action   string `json:"action"`
	Category string `json:"category"`
}

// parseCategory accepts a fault category or System Normal.
func parseCategory(s string) (models.FaultCategory, bool) {
	if s == string(models.CategorySystemNormal) {
		return models.CategorySystemNormal, true
	}
	for _, c := range models.FaultCategories() {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
