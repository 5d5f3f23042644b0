package classifier

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

func baseline() models.SensorReading {
	return models.SensorReading{
		Voltage:         2200,
		Current:         150,
		PowerLoad:       50,
		Temperature:     20,
		WindSpeed:       10,
		DurationOfFault: 1,
		DownTime:        1,
	}
}

func TestFactors(t *testing.T) {
	tests := []struct {
		name     string
		reading  models.SensorReading
		expected RiskFactors
	}{
		{
			name:     "baseline reading",
			reading:  baseline(),
			expected: RiskFactors{Temp: 0.3, Voltage: 0.2, Current: 0.2, Wind: 0.1},
		},
		{
			name:     "all factors at maximum",
			reading:  models.SensorReading{Voltage: 1800, Current: 250, Temperature: 38, WindSpeed: 35},
			expected: RiskFactors{Temp: 1.0, Voltage: 1.0, Current: 1.0, Wind: 0.8},
		},
		{
			name:     "middle band",
			reading:  models.SensorReading{Voltage: 2000, Current: 230, Temperature: 32, WindSpeed: 25},
			expected: RiskFactors{Temp: 0.8, Voltage: 0.7, Current: 0.6, Wind: 0.4},
		},
		{
			name:     "thresholds are exclusive",
			reading:  models.SensorReading{Voltage: 1900, Current: 240, Temperature: 35, WindSpeed: 30},
			expected: RiskFactors{Temp: 0.8, Voltage: 0.7, Current: 0.6, Wind: 0.4},
		},
		{
			name:     "lower band edges",
			reading:  models.SensorReading{Voltage: 2100, Current: 220, Temperature: 30, WindSpeed: 20},
			expected: RiskFactors{Temp: 0.3, Voltage: 0.2, Current: 0.2, Wind: 0.1},
		},
		{
			name:     "negative voltage counts as low",
			reading:  models.SensorReading{Voltage: -10},
			expected: RiskFactors{Temp: 0.3, Voltage: 1.0, Current: 0.2, Wind: 0.1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Factors(tt.reading))
		})
	}
}

func TestScores_Baseline(t *testing.T) {
	s := Scores(Factors(baseline()))

	assert.InDelta(t, 0.12, s.Overheating, 1e-12)
	assert.InDelta(t, 0.08, s.Transformer, 1e-12)
	assert.InDelta(t, 0.09, s.LineBreakage, 1e-12)
	assert.InDelta(t, 0.29, s.Total(), 1e-12)
}

func TestClassify_Scenarios(t *testing.T) {
	tests := []struct {
		name               string
		reading            models.SensorReading
		expectedPrediction models.FaultCategory
		expectedConfidence float64
		expectedSeverity   models.Severity
	}{
		{
			name:               "baseline predicts overheating",
			reading:            baseline(),
			expectedPrediction: models.CategoryOverheating,
			expectedConfidence: 0.12 / 0.29,
			expectedSeverity:   models.SeverityModerate,
		},
		{
			name:               "low voltage predicts transformer failure",
			reading:            models.SensorReading{Voltage: 1800, Current: 100, PowerLoad: 50, Temperature: 20, WindSpeed: 5, DurationOfFault: 1, DownTime: 1},
			expectedPrediction: models.CategoryTransformerFailure,
			expectedConfidence: 0.4 / 0.61,
			expectedSeverity:   models.SeverityHigh,
		},
		{
			name:               "high current and wind predict line breakage",
			reading:            models.SensorReading{Voltage: 2200, Current: 250, PowerLoad: 50, Temperature: 20, WindSpeed: 35, DurationOfFault: 1, DownTime: 1},
			expectedPrediction: models.CategoryLineBreakage,
			expectedConfidence: 0.54 / 0.74,
			expectedSeverity:   models.SeverityHigh,
		},
		{
			name:               "high temperature predicts severe overheating",
			reading:            models.SensorReading{Voltage: 2200, Current: 150, PowerLoad: 50, Temperature: 38, WindSpeed: 5, DurationOfFault: 1, DownTime: 1},
			expectedPrediction: models.CategoryOverheating,
			expectedConfidence: 0.4 / 0.57,
			expectedSeverity:   models.SeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(tt.reading)

			assert.Equal(t, tt.expectedPrediction, result.Prediction)
			assert.InDelta(t, tt.expectedConfidence, result.Confidence, 1e-9)
			assert.Equal(t, tt.expectedSeverity, result.FaultDetails.Severity)
			assert.Equal(t, tt.expectedPrediction, result.FaultDetails.FaultType)
			assert.Equal(t, tt.reading, result.InputFeatures)
		})
	}
}

func TestClassify_BaselineProbabilities(t *testing.T) {
	result := Classify(baseline())

	assert.InDelta(t, 0.310, result.Probabilities[models.CategoryLineBreakage], 1e-3)
	assert.InDelta(t, 0.276, result.Probabilities[models.CategoryTransformerFailure], 1e-3)
	assert.InDelta(t, 0.414, result.Probabilities[models.CategoryOverheating], 1e-3)
}

func TestClassify_AllZero(t *testing.T) {
	result := Classify(models.SensorReading{})

	assert.Equal(t, models.CategorySystemNormal, result.Prediction)
	assert.Equal(t, 0.1, result.Confidence)
	assert.Equal(t, models.Probabilities{
		models.CategoryLineBreakage:       0.1,
		models.CategoryTransformerFailure: 0.1,
		models.CategoryOverheating:        0.1,
	}, result.Probabilities)
	assert.Equal(t, models.SeverityNone, result.FaultDetails.Severity)
	assert.Equal(t, models.RiskLow, result.FaultDetails.RiskLevel)
	assert.Empty(t, result.FaultDetails.AffectedComponents)
}

func TestClassify_ProbabilitiesNormalized(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		r := models.SensorReading{
			Voltage:         rng.Float64()*4000 + 1000,
			Current:         rng.Float64() * 500,
			PowerLoad:       rng.Float64() * 200,
			Temperature:     rng.Float64()*150 - 50,
			WindSpeed:       rng.Float64() * 200,
			DurationOfFault: rng.Float64() * 24,
			DownTime:        rng.Float64() * 24,
		}

		result := Classify(r)

		require.Len(t, result.Probabilities, 3)
		for _, p := range result.Probabilities {
			assert.GreaterOrEqual(t, p, 0.0)
		}
		assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-9)
		assert.True(t, result.Prediction.IsFault())
		assert.Equal(t, result.Probabilities[result.Prediction], result.Confidence)
	}
}

func TestClassify_SingleNonZeroField(t *testing.T) {
	result := Classify(models.SensorReading{DownTime: 3})

	// voltage 0 is below every voltage threshold
	assert.Equal(t, models.CategoryTransformerFailure, result.Prediction)
	assert.InDelta(t, 1.0, result.Probabilities.Sum(), 1e-9)
}

func TestClassify_HotReadingWithoutVoltageTies(t *testing.T) {
	result := Classify(models.SensorReading{Temperature: 40})

	assert.Equal(t, models.CategoryTransformerFailure, result.Prediction)
	assert.InDelta(t, result.Probabilities[models.CategoryOverheating],
		result.Probabilities[models.CategoryTransformerFailure], 1e-12)
}

func TestClassify_TemperatureMonotonic(t *testing.T) {
	r := baseline()
	previous := -1.0

	for temp := 20.0; temp <= 40.0; temp += 0.25 {
		r.Temperature = temp
		p := Classify(r).Probabilities[models.CategoryOverheating]
		assert.GreaterOrEqual(t, p, previous, "temperature %.2f", temp)
		previous = p
	}
}

func TestClassify_VoltageMonotonic(t *testing.T) {
	r := baseline()
	previous := -1.0

	for voltage := 2200.0; voltage >= 1800.0; voltage -= 5 {
		r.Voltage = voltage
		p := Classify(r).Probabilities[models.CategoryTransformerFailure]
		assert.GreaterOrEqual(t, p, previous, "voltage %.0f", voltage)
		previous = p
	}
}

func TestClassify_OverheatingSeverityThreshold(t *testing.T) {
	r := models.SensorReading{Voltage: 2200, Current: 150, Temperature: 31, WindSpeed: 5}

	for temp := 31.0; temp <= 45.0; temp += 0.5 {
		r.Temperature = temp
		result := Classify(r)
		require.Equal(t, models.CategoryOverheating, result.Prediction, "temperature %.1f", temp)

		if temp > TempHigh {
			assert.Equal(t, models.SeverityHigh, result.FaultDetails.Severity)
			assert.Equal(t, models.RiskHigh, result.FaultDetails.RiskLevel)
		} else {
			assert.Equal(t, models.SeverityModerate, result.FaultDetails.Severity)
			assert.Equal(t, models.RiskMedium, result.FaultDetails.RiskLevel)
		}
	}
}

func TestDecide_TieKeepsFirstCategory(t *testing.T) {
	// transformer and overheating both score 0.4
	result := Classify(models.SensorReading{Voltage: 1800, Current: 150, Temperature: 40, WindSpeed: 5})

	assert.Equal(t,
		result.Probabilities[models.CategoryTransformerFailure],
		result.Probabilities[models.CategoryOverheating],
	)
	assert.Equal(t, models.CategoryTransformerFailure, result.Prediction)

	category, prob := Decide(models.Probabilities{
		models.CategoryLineBreakage:       0.4,
		models.CategoryTransformerFailure: 0.4,
		models.CategoryOverheating:        0.2,
	})
	assert.Equal(t, models.CategoryLineBreakage, category)
	assert.Equal(t, 0.4, prob)
}

func TestClassify_Deterministic(t *testing.T) {
	r := models.SensorReading{Voltage: 2156.7892, Current: 247.3456, PowerLoad: 48.2345, Temperature: 35.6789, WindSpeed: 23.4567, DurationOfFault: 2.3456, DownTime: 1.2345}
	first := Classify(r)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, Classify(r))
		}()
	}
	wg.Wait()
}
