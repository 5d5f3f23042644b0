package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OldStager01/grid-fault-predictor/api"
	"github.com/OldStager01/grid-fault-predictor/internal/events"
	"github.com/OldStager01/grid-fault-predictor/internal/logger"
	"github.com/OldStager01/grid-fault-predictor/internal/predictor"
)

func (a *app) serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the prediction API",
		Long: `Start the HTTP API (/api/predict, /api/model-info, health, metrics,
the /ws live feed and swagger docs). Stops gracefully on SIGINT or SIGTERM.`,
		RunE: a.runServe,
	}

	cmd.Flags().Int("port", 5000, "HTTP listen port")
	cmd.Flags().Bool("lenient", false, "treat missing or non-numeric fields as 0")
	cmd.Flags().Bool("enforce-ranges", false, "reject readings outside the accepted ranges")
	_ = a.v.BindPFlag("api.port", cmd.Flags().Lookup("port"))
	_ = a.v.BindPFlag("validation.lenient", cmd.Flags().Lookup("lenient"))
	_ = a.v.BindPFlag("validation.enforce_ranges", cmd.Flags().Lookup("enforce-ranges"))

	return cmd
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	cfg := a.cfg
	logger.Infof("Starting %s in %s mode", cfg.App.Name, cfg.App.Mode)

	bus := events.NewEventBus(cfg.Events.BufferSize)
	eventLogger := events.NewEventLogger(bus.SubscribeAll())
	eventLogger.Start()

	server := api.NewServer(cfg, predictor.New(bus), bus)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	ctx := cmd.Context()
	select {
	case err := <-errChan:
		eventLogger.Stop()
		bus.Close()
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	eventLogger.Stop()
	bus.Close()

	logger.Info("Server stopped gracefully")
	return nil
}
