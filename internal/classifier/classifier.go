// Package classifier turns a grid sensor reading into a fault prediction using
// fixed step-function risk factors. It keeps no state and performs no I/O, so
// Classify may be called concurrently without coordination.
package classifier

import (
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// Confidence and per-category probability reported for an all-zero reading.
const zeroReadingProbability = 0.1

// Category weights applied to the risk factors.
const (
	OverheatingWeight  = 0.4
	TransformerWeight  = 0.4
	LineBreakageWeight = 0.3
)

// Step thresholds shared by the factors and the advisory severities.
const (
	TempHigh      = 35.0
	TempElevated  = 30.0
	VoltageLow    = 1900.0
	VoltageSag    = 2100.0
	CurrentHigh   = 240.0
	CurrentRaised = 220.0
	WindHigh      = 30.0
	WindRaised    = 20.0
)

// RiskFactors are the step-function factors derived from a reading.
type RiskFactors struct {
	Temp    float64 `json:"temp_factor"`
	Voltage float64 `json:"voltage_factor"`
	Current float64 `json:"current_factor"`
	Wind    float64 `json:"wind_factor"`
}

// CategoryScores are the unnormalized per-category scores.
type CategoryScores struct {
	LineBreakage float64
	Transformer  float64
	Overheating  float64
}

// Total returns the sum of the three scores.
func (s CategoryScores) Total() float64 {
	return s.LineBreakage + s.Transformer + s.Overheating
}

// Factors computes the four risk factors for a reading.
func Factors(r models.SensorReading) RiskFactors {
	return RiskFactors{
		Temp:    tempFactor(r.Temperature),
		Voltage: voltageFactor(r.Voltage),
		Current: currentFactor(r.Current),
		Wind:    windFactor(r.WindSpeed),
	}
}

func tempFactor(temperature float64) float64 {
	switch {
	case temperature > TempHigh:
		return 1.0
	case temperature > TempElevated:
		return 0.8
	default:
		return 0.3
	}
}

// Lower voltage means higher transformer risk.
func voltageFactor(voltage float64) float64 {
	switch {
	case voltage < VoltageLow:
		return 1.0
	case voltage < VoltageSag:
		return 0.7
	default:
		return 0.2
	}
}

func currentFactor(current float64) float64 {
	switch {
	case current > CurrentHigh:
		return 1.0
	case current > CurrentRaised:
		return 0.6
	default:
		return 0.2
	}
}

func windFactor(windSpeed float64) float64 {
	switch {
	case windSpeed > WindHigh:
		return 0.8
	case windSpeed > WindRaised:
		return 0.4
	default:
		return 0.1
	}
}

// Scores weights the risk factors into raw category scores.
func Scores(f RiskFactors) CategoryScores {
	return CategoryScores{
		LineBreakage: (f.Current + f.Wind) * LineBreakageWeight,
		Transformer:  f.Voltage * TransformerWeight,
		Overheating:  f.Temp * OverheatingWeight,
	}
}

// Normalize divides each score by the total. The factors have positive lower
// bounds, so the total is never zero.
func Normalize(s CategoryScores) models.Probabilities {
	total := s.Total()
	return models.Probabilities{
		models.CategoryLineBreakage:       s.LineBreakage / total,
		models.CategoryTransformerFailure: s.Transformer / total,
		models.CategoryOverheating:        s.Overheating / total,
	}
}

// Decide picks the most probable category. On a tie the category that comes
// first in models.FaultCategories wins.
func Decide(p models.Probabilities) (models.FaultCategory, float64) {
	categories := models.FaultCategories()
	best := categories[0]
	bestProb := p[best]
	for _, c := range categories[1:] {
		if p[c] > bestProb {
			best = c
			bestProb = p[c]
		}
	}
	return best, bestProb
}

// Classify predicts the fault category for a reading and attaches the
// matching advisory record.
func Classify(r models.SensorReading) *models.ClassificationResult {
	if r.IsZero() {
		return &models.ClassificationResult{
			Prediction: models.CategorySystemNormal,
			Confidence: zeroReadingProbability,
			Probabilities: models.Probabilities{
				models.CategoryLineBreakage:       zeroReadingProbability,
				models.CategoryTransformerFailure: zeroReadingProbability,
				models.CategoryOverheating:        zeroReadingProbability,
			},
			InputFeatures: r,
			FaultDetails:  Advisory(models.CategorySystemNormal, r),
		}
	}

	probabilities := Normalize(Scores(Factors(r)))
	prediction, confidence := Decide(probabilities)

	return &models.ClassificationResult{
		Prediction:    prediction,
		Confidence:    confidence,
		Probabilities: probabilities,
		InputFeatures: r,
		FaultDetails:  Advisory(prediction, r),
	}
}
