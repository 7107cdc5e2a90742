package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	cartcatalog "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/external/catalog"
	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	cartports "github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	"github.com/Apurer/storefront-cart/internal/platform/migrations"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
	platformpostgres "github.com/Apurer/storefront-cart/internal/platform/postgres"
)

// BuildCatalog returns the HTTP catalog when CATALOG_BASE_URL is set and a
// seeded in-memory catalog otherwise.
func BuildCatalog(cfg Config, logger *slog.Logger) (cartports.Catalog, error) {
	if cfg.CatalogBaseURL == "" {
		logger.Warn("CATALOG_BASE_URL not set, falling back to in-memory demo catalog")
		return DemoCatalog(), nil
	}
	httpClient := &http.Client{
		Timeout:   cfg.CatalogTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
	client, err := catalogclient.NewClient(cfg.CatalogBaseURL, httpClient)
	if err != nil {
		return nil, err
	}
	logger.Info("catalog configured", slog.String("baseURL", cfg.CatalogBaseURL), slog.Duration("timeout", cfg.CatalogTimeout))
	return cartcatalog.NewReader(client), nil
}

// BuildStore returns the Postgres snapshot store when the database is
// reachable and an in-memory store otherwise.
func BuildStore(ctx context.Context, cfg Config, logger *slog.Logger) (cartports.Store, func()) {
	db, cleanup := platformpostgres.ConnectOptional(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return cartmemory.NewStore(), cleanup
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to migrate cart schema, falling back to in-memory cart store", slog.String("error", err.Error()))
		cleanup()
		return cartmemory.NewStore(), func() {}
	}
	logger.Info("cart store configured with postgres")
	return cartpostgres.NewStore(db), cleanup
}

// ConnectTemporal dials the Temporal frontend with tracing and structured logging.
func ConnectTemporal(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(effectiveLogger(instruments)),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

// DemoCatalog seeds the products the storefront ships with for local runs.
func DemoCatalog() *cartmemory.Catalog {
	catalog := cartmemory.NewCatalog()
	seed := []struct {
		product domain.Product
		stock   int
	}{
		{domain.Product{ID: 1, Title: "Tênis de Caminhada Leve Confortável", Price: decimal.RequireFromString("179.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis1.jpg"}, 3},
		{domain.Product{ID: 2, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: decimal.RequireFromString("139.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5},
		{domain.Product{ID: 3, Title: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 2},
		{domain.Product{ID: 5, Title: "Tênis VR Caminhada Confortável Detalhes Couro Masculino", Price: decimal.RequireFromString("139.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis2.jpg"}, 5},
		{domain.Product{ID: 6, Title: "Tênis Adidas Duramo Lite 2.0", Price: decimal.RequireFromString("219.90"), Image: "https://rocketseat-cdn.s3-sa-east-1.amazonaws.com/modulo-redux/tenis3.jpg"}, 10},
	}
	for _, s := range seed {
		catalog.Put(s.product, s.stock)
	}
	return catalog
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
