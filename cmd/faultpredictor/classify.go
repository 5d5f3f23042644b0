package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/grid-fault-predictor/internal/classifier"
	"github.com/OldStager01/grid-fault-predictor/pkg/models"
	"github.com/OldStager01/grid-fault-predictor/pkg/validation"
)

func (a *app) classifyCmd() *cobra.Command {
	var (
		reading       models.SensorReading
		compact       bool
		enforceRanges bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one reading locally",
		Long: `Run the classifier on a single reading and print the result as JSON.

Examples:
  faultpredictor classify --voltage 1800 --current 180 --temperature 28 --wind-speed 15
  faultpredictor classify --voltage 2100 --current 230 --power-load 55 --temperature 38 --compact`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if enforceRanges {
				if err := validation.ValidateRanges(reading); err != nil {
					return fmt.Errorf("reading rejected: %w", err)
				}
			}

			result := classifier.Classify(reading).Rounded()

			var (
				out []byte
				err error
			)
			if compact {
				out, err = json.Marshal(result)
			} else {
				out, err = json.MarshalIndent(result, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	f := cmd.Flags()
	f.Float64Var(&reading.Voltage, "voltage", 0, "voltage (V)")
	f.Float64Var(&reading.Current, "current", 0, "current (A)")
	f.Float64Var(&reading.PowerLoad, "power-load", 0, "power load (MW)")
	f.Float64Var(&reading.Temperature, "temperature", 0, "temperature (°C)")
	f.Float64Var(&reading.WindSpeed, "wind-speed", 0, "wind speed (km/h)")
	f.Float64Var(&reading.DurationOfFault, "duration-of-fault", 0, "duration of fault (hrs)")
	f.Float64Var(&reading.DownTime, "down-time", 0, "down time (hrs)")
	f.BoolVar(&compact, "compact", false, "print single-line JSON")
	f.BoolVar(&enforceRanges, "enforce-ranges", false, "reject readings outside the accepted ranges")

	return cmd
}
