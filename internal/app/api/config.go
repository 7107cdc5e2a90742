package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/client"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	cartpostgres "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/persistence/postgres"
	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
	platformobservability "github.com/Apurer/storefront-cart/internal/platform/observability"
)

// Config carries environment-driven settings for the cart processes.
type Config struct {
	Port                 string
	PostgresDSN          string
	CatalogBaseURL       string
	CatalogTimeout       time.Duration
	CartStoreKey         string
	NotificationCapacity int
	TemporalAddress      string
	TemporalNamespace    string
	TemporalDisabled     bool
	SnapshotTTL          time.Duration
	Environment          string
	LogLevel             slog.Level
	OTLPEndpoint         string
	OTLPInsecure         bool
}

// LoadConfig loads an optional dotenv file (ENV_FILE, default .env), then
// reads environment variables, applies defaults, and validates them.
// Variables already set in the environment win over the file.
func LoadConfig() (Config, error) {
	if err := loadDotEnv(envDefault("ENV_FILE", ".env")); err != nil {
		return Config{}, err
	}
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		CatalogBaseURL:    strings.TrimSpace(os.Getenv("CATALOG_BASE_URL")),
		CatalogTimeout:    catalogclient.DefaultTimeout,
		CartStoreKey:      envDefault("CART_STORE_KEY", cartapp.DefaultStoreKey),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		SnapshotTTL:       cartpostgres.DefaultSnapshotTTL,
		Environment:       envDefault("ENVIRONMENT", "local"),
		LogLevel:          platformobservability.ParseLevel(os.Getenv("LOG_LEVEL")),
		OTLPEndpoint:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:      strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")) != "0",
	}
	if cfg.CatalogBaseURL != "" {
		parsed, err := url.Parse(cfg.CatalogBaseURL)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return Config{}, fmt.Errorf("CATALOG_BASE_URL must be an absolute URL")
		}
	}
	seconds, err := positiveInt("CATALOG_TIMEOUT_SECONDS")
	if err != nil {
		return Config{}, err
	}
	if seconds > 0 {
		cfg.CatalogTimeout = time.Duration(seconds) * time.Second
	}
	hours, err := positiveInt("SNAPSHOT_TTL_HOURS")
	if err != nil {
		return Config{}, err
	}
	if hours > 0 {
		cfg.SnapshotTTL = time.Duration(hours) * time.Hour
	}
	capacity, err := positiveInt("NOTIFICATION_CAPACITY")
	if err != nil {
		return Config{}, err
	}
	cfg.NotificationCapacity = capacity
	if cfg.NotificationCapacity == 0 {
		cfg.NotificationCapacity = cartmemory.DefaultNotificationCapacity
	}
	return cfg, nil
}

// Observability maps the config onto platform observability settings.
func (c Config) Observability(serviceName string) platformobservability.Settings {
	return platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		LogLevel:     c.LogLevel,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
	}
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// positiveInt returns 0 when key is unset.
func positiveInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return value, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
