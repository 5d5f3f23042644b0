package models

import (
	"encoding/json"
	"fmt"
)

type FaultCategory string

const (
	CategorySystemNormal       FaultCategory = "System Normal"
	CategoryLineBreakage       FaultCategory = "Line Breakage"
	CategoryTransformerFailure FaultCategory = "Transformer Failure"
	CategoryOverheating        FaultCategory = "Overheating"
)

// FaultCategories returns the three fault categories in evaluation order.
func FaultCategories() []FaultCategory {
	return []FaultCategory{
		CategoryLineBreakage,
		CategoryTransformerFailure,
		CategoryOverheating,
	}
}

func (c FaultCategory) IsFault() bool {
	switch c {
	case CategoryLineBreakage, CategoryTransformerFailure, CategoryOverheating:
		return true
	default:
		return false
	}
}

type Severity string

const (
	SeverityHigh     Severity = "HIGH"
	SeverityModerate Severity = "MODERATE"
	SeverityMedium   Severity = "MEDIUM"
	SeverityNone     Severity = "NONE"
)

type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// Probabilities maps each fault category to its probability mass.
// "System Normal" never appears as a key.
type Probabilities map[FaultCategory]float64

// Sum returns the total probability mass.
func (p Probabilities) Sum() float64 {
	var total float64
	for _, v := range p {
		total += v
	}
	return total
}

// AffectedComponents encodes to the literal string "None" when empty.
type AffectedComponents []string

const noComponents = "None"

func (a AffectedComponents) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return json.Marshal(noComponents)
	}
	return json.Marshal([]string(a))
}

func (a *AffectedComponents) UnmarshalJSON(data []byte) error {
	var literal string
	if err := json.Unmarshal(data, &literal); err == nil {
		if literal != noComponents {
			return fmt.Errorf("affected_components: unexpected literal %q", literal)
		}
		*a = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("affected_components: %w", err)
	}
	*a = list
	return nil
}

// FaultDetails is the advisory record attached to a classification.
type FaultDetails struct {
	FaultType          FaultCategory      `json:"fault_type"`
	Severity           Severity           `json:"severity"`
	RiskLevel          RiskLevel          `json:"risk_level"`
	EstimatedDowntime  string             `json:"estimated_downtime"`
	Description        string             `json:"description"`
	RecommendedActions []string           `json:"recommended_actions"`
	ImmediateSteps     []string           `json:"immediate_steps"`
	AffectedComponents AffectedComponents `json:"affected_components" swaggertype:"array,string"`
}

// ClassificationResult is the outcome of classifying one SensorReading.
type ClassificationResult struct {
	Prediction    FaultCategory `json:"prediction"`
	Confidence    float64       `json:"confidence"`
	Probabilities Probabilities `json:"probabilities"`
	InputFeatures SensorReading `json:"input_features"`
	FaultDetails  FaultDetails  `json:"fault_details"`
}

// IsHighRisk reports whether the advisory carries a HIGH risk level.
func (r *ClassificationResult) IsHighRisk() bool {
	return r.FaultDetails.RiskLevel == RiskHigh
}

// Rounded returns a copy with confidence, probabilities and the echoed
// reading rounded to four decimals.
func (r *ClassificationResult) Rounded() *ClassificationResult {
	out := *r
	out.Confidence = Round4(r.Confidence)

	out.Probabilities = make(Probabilities, len(r.Probabilities))
	for c, p := range r.Probabilities {
		out.Probabilities[c] = Round4(p)
	}

	in := r.InputFeatures
	out.InputFeatures = SensorReading{
		Voltage:         Round4(in.Voltage),
		Current:         Round4(in.Current),
		PowerLoad:       Round4(in.PowerLoad),
		Temperature:     Round4(in.Temperature),
		WindSpeed:       Round4(in.WindSpeed),
		DurationOfFault: Round4(in.DurationOfFault),
		DownTime:        Round4(in.DownTime),
	}
	return &out
}
