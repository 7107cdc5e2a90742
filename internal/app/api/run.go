package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cartserver "github.com/Apurer/storefront-cart/go"

	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	cartnotify "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/notify"
	cartobs "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/observability"
	cartworkflows "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/workflows"
	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
)

const shutdownTimeout = 5 * time.Second

// Run boots the cart HTTP API with observability, storage, and workflows
// wired, and serves until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	const serviceName = "storefront-cart-api"
	instruments, shutdown, err := platformobservability.Init(ctx, cfg.Observability(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	catalog, err := BuildCatalog(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to configure catalog: %w", err)
	}
	store, cleanupStore := BuildStore(ctx, cfg, logger)
	defer cleanupStore()

	var auditor cartports.WorkflowOrchestrator = cartworkflows.NewInlineCartWorkflows(catalog)
	if temporalClient, err := ConnectTemporal(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running stock audits inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		auditor = cartworkflows.NewTemporalCartWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	toasts := cartmemory.NewNotifier(cfg.NotificationCapacity)
	coreService, err := cartapp.Open(ctx, catalog, store,
		cartapp.WithNotifier(cartnotify.Fanout{cartnotify.NewLogger(logger), toasts}),
		cartapp.WithLogger(logger),
		cartapp.WithStoreKey(cfg.CartStoreKey),
		cartapp.WithAuditor(auditor),
	)
	if err != nil {
		return fmt.Errorf("failed to open cart: %w", err)
	}
	cartService := cartobs.New(
		coreService,
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	cartserver.NewRouterWithGinEngine(router, cartserver.ApiHandleFunctions{
		CartAPI: cartserver.NewCartAPI(cartService, toasts),
	})
	return serve(ctx, logger, ":"+cfg.Port, router)
}

func serve(ctx context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("cart API listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("cart API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("cart API shutting down", slog.String("addr", addr))
	return srv.Shutdown(shutdownCtx)
}
