package probe

import (
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// Scenario is a reading with the prediction it should produce.
type Scenario struct {
	Name             string
	Reading          models.SensorReading
	ExpectedFault    models.FaultCategory
	ExpectedSeverity models.Severity
}

// DefaultScenarios covers each fault category, a reading carrying four
// decimal places, and the empty reading.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{
			Name: "line breakage (high current)",
			Reading: models.SensorReading{
				Voltage: 2200, Current: 250, PowerLoad: 50, Temperature: 25,
				WindSpeed: 25, DurationOfFault: 2, DownTime: 1,
			},
			ExpectedFault:    models.CategoryLineBreakage,
			ExpectedSeverity: models.SeverityHigh,
		},
		{
			Name: "transformer failure (low voltage)",
			Reading: models.SensorReading{
				Voltage: 1800, Current: 180, PowerLoad: 45, Temperature: 28,
				WindSpeed: 15, DurationOfFault: 3, DownTime: 5,
			},
			ExpectedFault:    models.CategoryTransformerFailure,
			ExpectedSeverity: models.SeverityHigh,
		},
		{
			Name: "overheating (high temperature)",
			Reading: models.SensorReading{
				Voltage: 2100, Current: 230, PowerLoad: 55, Temperature: 38,
				WindSpeed: 25, DurationOfFault: 4, DownTime: 6,
			},
			ExpectedFault:    models.CategoryOverheating,
			ExpectedSeverity: models.SeverityHigh,
		},
		{
			Name: "four decimal precision",
			Reading: models.SensorReading{
				Voltage: 2156.7892, Current: 247.3456, PowerLoad: 48.2345, Temperature: 35.6789,
				WindSpeed: 23.4567, DurationOfFault: 2.3456, DownTime: 1.2345,
			},
			ExpectedFault:    models.CategoryLineBreakage,
			ExpectedSeverity: models.SeverityHigh,
		},
		{
			Name:             "no sensor data",
			Reading:          models.SensorReading{},
			ExpectedFault:    models.CategorySystemNormal,
			ExpectedSeverity: models.SeverityNone,
		},
	}
}
