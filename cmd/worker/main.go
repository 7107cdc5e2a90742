package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-cart/internal/app/api"
	cartactivities "github.com/Apurer/storefront-cart/internal/durable/temporal/activities/cart"
	cartworkflows "github.com/Apurer/storefront-cart/internal/durable/temporal/workflows/cart"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-cart-worker"
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalog, err := api.BuildCatalog(cfg, logger)
	if err != nil {
		logger.Error("failed to configure catalog", slog.String("error", err.Error()))
		os.Exit(1)
	}
	stockActivities := cartactivities.NewActivities(catalog)

	temporalClient, err := api.ConnectTemporal(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, cartworkflows.StockAuditTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(cartworkflows.StockAuditWorkflow, workflow.RegisterOptions{Name: cartworkflows.StockAuditWorkflowName})
	w.RegisterActivityWithOptions(stockActivities.CheckStock, activity.RegisterOptions{Name: cartactivities.CheckStockActivityName})

	logger.Info("worker listening", slog.String("taskQueue", cartworkflows.StockAuditTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
