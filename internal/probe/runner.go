package probe

import (
	"context"
	"time"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
)

// Outcome is the observed result of one scenario.
type Outcome struct {
	Scenario Scenario
	Result   *models.ClassificationResult
	Err      error
	Latency  time.Duration
}

// Passed reports whether the service answered with the expected category
// and severity.
func (o Outcome) Passed() bool {
	return o.Err == nil &&
		o.Result != nil &&
		o.Result.Prediction == o.Scenario.ExpectedFault &&
		o.Result.FaultDetails.Severity == o.Scenario.ExpectedSeverity
}

// Report summarizes a probe run.
type Report struct {
	Outcomes []Outcome
	Passed   int
	Failed   int
}

func (r *Report) OK() bool {
	return r.Failed == 0
}

// Run submits every scenario in order. A failed scenario does not stop the
// run unless ctx is cancelled.
func Run(ctx context.Context, client Client, scenarios []Scenario) *Report {
	report := &Report{Outcomes: make([]Outcome, 0, len(scenarios))}

	for _, sc := range scenarios {
		if ctx.Err() != nil {
			report.Outcomes = append(report.Outcomes, Outcome{Scenario: sc, Err: ctx.Err()})
			report.Failed++
			continue
		}

		start := time.Now()
		result, err := client.Predict(ctx, sc.Reading)
		outcome := Outcome{
			Scenario: sc,
			Result:   result,
			Err:      err,
			Latency:  time.Since(start),
		}

		entry := logger.WithScenario(sc.Name, sc.ExpectedFault, outcome.Latency)
		switch {
		case err != nil:
			entry.Errorf("scenario failed: %v", err)
		case !outcome.Passed():
			entry.WithField("observed", result.Prediction).Warn("scenario mismatch")
		default:
			entry.Info("scenario passed")
		}

		if outcome.Passed() {
			report.Passed++
		} else {
			report.Failed++
		}
		report.Outcomes = append(report.Outcomes, outcome)
	}

	return report
}
