package classifier

import (
	"fmt"

	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// Advisory returns the advisory record for a category. Severity and risk come
// from the same raw thresholds the factors use; unknown categories fall back
// to the System Normal record.
func Advisory(category models.FaultCategory, r models.SensorReading) models.FaultDetails {
	switch category {
	case models.CategoryOverheating:
		high := r.Temperature > TempHigh
		return models.FaultDetails{
			FaultType:   models.CategoryOverheating,
			Severity:    severity(high),
			RiskLevel:   riskLevel(high),
			Description: fmt.Sprintf("System temperature at %.4f°C indicates thermal stress on equipment. Overheating can cause equipment failure and power outages.", r.Temperature),
			RecommendedActions: []string{
				"Activate emergency cooling systems",
				"Reduce power load to decrease heat generation",
				"Check cooling fans and heat exchangers",
				"Monitor temperature sensors continuously",
				"Schedule immediate thermal inspection",
			},
			EstimatedDowntime:  "2-6 hours",
			AffectedComponents: models.AffectedComponents{"Cooling Systems", "Heat Exchangers", "Thermal Sensors", "Power Transformers"},
			ImmediateSteps: []string{
				"Increase cooling capacity immediately",
				"Reduce system load by 20-30%",
				"Check for cooling system blockages",
				"Notify thermal monitoring team",
				"Prepare backup cooling systems",
			},
		}

	case models.CategoryTransformerFailure:
		high := r.Voltage < VoltageLow
		return models.FaultDetails{
			FaultType:   models.CategoryTransformerFailure,
			Severity:    severity(high),
			RiskLevel:   riskLevel(high),
			Description: fmt.Sprintf("Voltage at %.4fV indicates transformer malfunction. Low voltage can cause equipment damage and system instability.", r.Voltage),
			RecommendedActions: []string{
				"Check transformer oil levels and quality",
				"Inspect transformer connections and terminals",
				"Verify power source integrity",
				"Test transformer protection relays",
				"Schedule transformer maintenance",
			},
			EstimatedDowntime:  "3-8 hours",
			AffectedComponents: models.AffectedComponents{"Power Transformers", "Voltage Regulators", "Protection Relays", "Distribution Panels"},
			ImmediateSteps: []string{
				"Check transformer health indicators",
				"Verify power source connections",
				"Protect sensitive loads from voltage fluctuations",
				"Activate voltage compensation systems",
				"Prepare backup transformer if available",
			},
		}

	case models.CategoryLineBreakage:
		high := r.Current > CurrentHigh
		return models.FaultDetails{
			FaultType:   models.CategoryLineBreakage,
			Severity:    severity(high),
			RiskLevel:   riskLevel(high),
			Description: fmt.Sprintf("Current at %.4fA indicates potential line breakage. High current can cause conductor failure and power interruptions.", r.Current),
			RecommendedActions: []string{
				"Inspect power lines for physical damage",
				"Check conductor connections and joints",
				"Verify line protection systems",
				"Test circuit breakers and fuses",
				"Schedule line maintenance and repair",
			},
			EstimatedDowntime:  "4-12 hours",
			AffectedComponents: models.AffectedComponents{"Power Lines", "Conductors", "Insulators", "Circuit Breakers", "Protection Systems"},
			ImmediateSteps: []string{
				"Isolate affected line sections",
				"Check for visible line damage",
				"Verify protection device operation",
				"Notify line maintenance crew",
				"Prepare emergency repair equipment",
			},
		}

	default:
		return systemNormal(r)
	}
}

// The all-zero reading gets instructions to enter real data; any other
// fallback gets the steady-state text.
func systemNormal(r models.SensorReading) models.FaultDetails {
	details := models.FaultDetails{
		FaultType:         models.CategorySystemNormal,
		Severity:          models.SeverityNone,
		RiskLevel:         models.RiskLow,
		EstimatedDowntime: "None",
		Description:       "All parameters within normal operating ranges",
		RecommendedActions: []string{
			"Continue normal operations",
			"Regular monitoring",
			"Scheduled maintenance as planned",
		},
		ImmediateSteps: []string{
			"Continue normal monitoring",
			"Maintain scheduled maintenance",
			"Document system status",
		},
	}

	if r.IsZero() {
		details.Description = "No sensor data provided. All readings are zero, so no fault can be assessed."
		details.RecommendedActions = []string{
			"Enter actual sensor readings to run a prediction",
			"Verify sensor connectivity and data feeds",
			"Check that the monitoring form was filled in",
		}
		details.ImmediateSteps = []string{
			"Provide voltage, current and temperature values",
			"Confirm sensors are reporting",
			"Re-run the prediction with real data",
		}
	}

	return details
}

func severity(high bool) models.Severity {
	if high {
		return models.SeverityHigh
	}
	return models.SeverityModerate
}

func riskLevel(high bool) models.RiskLevel {
	if high {
		return models.RiskHigh
	}
	return models.RiskMedium
}
