// Command faultpredictor serves, runs and probes the grid fault classifier.
//
// @title Grid Fault Predictor API
// @version 1.0
// @description Classifies electrical-grid sensor readings into fault categories.
// @BasePath /
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/pkg/config"
)

// app carries state shared by every subcommand.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "faultpredictor",
		Short: "Electrical grid fault predictor",
		Long: `faultpredictor classifies grid sensor readings (voltage, current, power load,
temperature, wind speed, fault duration, downtime) into Line Breakage,
Transformer Failure or Overheating and returns an advisory for operators.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./config.yaml, ./configs/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = a.v.BindPFlag("app.log_level", root.PersistentFlags().Lookup("log-level"))

	root.AddCommand(a.serveCmd())
	root.AddCommand(a.classifyCmd())
	root.AddCommand(a.probeCmd())
	root.AddCommand(a.simulateCmd())

	return root
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWith(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Setup(cfg.App.LogLevel, cfg.App.Mode)
	a.cfg = cfg
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
