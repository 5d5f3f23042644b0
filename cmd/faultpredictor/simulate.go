package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/probe"
	"github.com/OldStager01/grid-fault-predictor/internal/simulator"
)

func (a *app) simulateCmd() *cobra.Command {
	var (
		patternName string
		count       int
		interval    time.Duration
		variance    float64
		seed        int64
	)

	names := make([]string, 0, len(simulator.Patterns()))
	for _, p := range simulator.Patterns() {
		names = append(names, p.Name())
	}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Stream synthetic readings to a running server",
		Long: `Generate grid readings following a pattern and submit them to /api/predict,
printing each prediction. Useful for driving the /ws live feed.

Patterns: ` + strings.Join(names, ", "),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pattern := simulator.ParsePattern(patternName)
			if pattern.Name() != patternName {
				return fmt.Errorf("unknown pattern %q (want one of: %s)", patternName, strings.Join(names, ", "))
			}

			probeCfg := a.probeConfig(cmd)
			client := probe.NewHTTPClient(probe.HTTPClientConfig{
				Endpoint: probeCfg.Endpoint,
				Timeout:  probeCfg.Timeout,
			})
			defer client.Close()

			gen := simulator.New(simulator.Config{Pattern: pattern, Variance: variance, Seed: seed})
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			var failures int
			for reading := range gen.Stream(ctx, count, interval) {
				result, err := client.Predict(ctx, reading)
				if err != nil {
					if errors.Is(err, probe.ErrRejected) || ctx.Err() != nil {
						return err
					}
					failures++
					logger.Warnf("Reading %d failed: %v", gen.Step(), err)
					continue
				}
				fmt.Fprintf(out, "%3d  V=%8.2f I=%7.2f T=%6.2f W=%6.2f  ->  %-19s %.4f %s\n",
					gen.Step(), reading.Voltage, reading.Current, reading.Temperature, reading.WindSpeed,
					result.Prediction, result.Confidence, result.FaultDetails.RiskLevel)
			}

			if failures > 0 {
				return fmt.Errorf("%d readings failed", failures)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&patternName, "pattern", "steady", "reading pattern")
	f.IntVar(&count, "count", 20, "number of readings, 0 streams until interrupted")
	f.DurationVar(&interval, "interval", time.Second, "delay between readings")
	f.Float64Var(&variance, "variance", 0.02, "relative jitter applied to each field")
	f.Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	f.String("endpoint", "", "base URL of the prediction service (default from config)")

	return cmd
}
