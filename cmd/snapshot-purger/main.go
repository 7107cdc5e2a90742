package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/storefront-cart/internal/app/api"
	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
)

// snapshot-purger deletes cart snapshots that have not been written for
// SNAPSHOT_TTL_HOURS. A purged cart hydrates as empty on the next start.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge cart snapshots")
	}

	purged, err := cartpostgres.NewStore(db).PurgeOlderThan(ctx, cfg.SnapshotTTL)
	if err != nil {
		logger.Error("failed to purge cart snapshots", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("cart snapshot purge completed", slog.Int64("purged", purged), slog.Duration("ttl", cfg.SnapshotTTL))
}
