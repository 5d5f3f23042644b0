package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/metrics"
	"github.com/OldStager01/grid-fault-predictor/internal/probe"
	"github.com/OldStager01/grid-fault-predictor/internal/resilience"
	"github.com/OldStager01/grid-fault-predictor/pkg/config"
)

func (a *app) probeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Replay the reference scenarios against a running server",
		Long: `Submit the line breakage, transformer failure, overheating, precision and
empty-reading scenarios to /api/predict and compare each prediction with the
expected category. Exits non-zero when any scenario fails.`,
		Args: cobra.NoArgs,
		RunE: a.runProbe,
	}

	cmd.Flags().String("endpoint", "", "base URL of the prediction service (default from config)")
	cmd.Flags().Duration("timeout", 0, "per-request timeout (default from config)")
	cmd.Flags().Bool("skip-health", false, "do not check /health/live first")

	return cmd
}

func (a *app) runProbe(cmd *cobra.Command, _ []string) error {
	cfg := a.probeConfig(cmd)
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.Timeout = timeout
	}

	client := probe.NewResilientClient(probe.ResilientClientConfig{
		Client: probe.NewHTTPClient(probe.HTTPClientConfig{
			Endpoint: cfg.Endpoint,
			Timeout:  cfg.Timeout,
		}),
		MaxFailures:   cfg.CircuitBreaker.MaxFailures,
		Timeout:       cfg.CircuitBreaker.Timeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
			metrics.Get().SetCircuitBreakerState(name, int(to))
		},
	})
	defer client.Close()

	ctx := cmd.Context()
	if skip, _ := cmd.Flags().GetBool("skip-health"); !skip {
		if err := client.HealthCheck(ctx); err != nil {
			return fmt.Errorf("service at %s is not reachable: %w", cfg.Endpoint, err)
		}
	}

	report := probe.Run(ctx, client, probe.DefaultScenarios())
	if err := printReport(cmd.OutOrStdout(), report); err != nil {
		return err
	}

	if !report.OK() {
		return fmt.Errorf("%d of %d scenarios failed", report.Failed, len(report.Outcomes))
	}
	return nil
}

func printReport(w io.Writer, report *probe.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tEXPECTED\tPREDICTED\tCONFIDENCE\tSEVERITY\tRESULT")

	for _, o := range report.Outcomes {
		predicted, confidence, severity := "-", "-", "-"
		if o.Result != nil {
			predicted = string(o.Result.Prediction)
			confidence = fmt.Sprintf("%.4f", o.Result.Confidence)
			severity = string(o.Result.FaultDetails.Severity)
		}

		result := "PASS"
		switch {
		case o.Err != nil:
			result = "ERROR: " + o.Err.Error()
		case !o.Passed():
			result = "FAIL"
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Scenario.Name, o.Scenario.ExpectedFault, predicted, confidence, severity, result)
	}

	fmt.Fprintf(tw, "\n%d passed, %d failed\n", report.Passed, report.Failed)
	return tw.Flush()
}

// probeConfig applies a non-empty --endpoint flag over the configured one.
func (a *app) probeConfig(cmd *cobra.Command) config.ProbeConfig {
	cfg := a.cfg.Probe
	if endpoint, _ := cmd.Flags().GetString("endpoint"); endpoint != "" {
		cfg.Endpoint = endpoint
	}
	return cfg
}
