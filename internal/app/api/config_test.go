package api

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
)

var configKeys = []string{
	"PORT", "POSTGRES_DSN", "CATALOG_BASE_URL", "CATALOG_TIMEOUT_SECONDS", "CART_STORE_KEY",
	"NOTIFICATION_CAPACITY", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
	"SNAPSHOT_TTL_HOURS", "ENVIRONMENT", "LOG_LEVEL", "OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_INSECURE",
}

// isolateEnv clears config keys and points ENV_FILE at a missing file.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadConfig_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Empty(t, cfg.CatalogBaseURL)
	require.Equal(t, 5*time.Second, cfg.CatalogTimeout)
	require.Equal(t, cartapp.DefaultStoreKey, cfg.CartStoreKey)
	require.Equal(t, 50, cfg.NotificationCapacity)
	require.Equal(t, 30*24*time.Hour, cfg.SnapshotTTL)
	require.False(t, cfg.TemporalDisabled)
	require.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadConfig_Overrides(t *testing.T) {
	isolateEnv(t)
	t.Setenv("CATALOG_BASE_URL", "http://catalog:3333")
	t.Setenv("CATALOG_TIMEOUT_SECONDS", "2")
	t.Setenv("SNAPSHOT_TTL_HOURS", "12")
	t.Setenv("TEMPORAL_DISABLED", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "http://catalog:3333", cfg.CatalogBaseURL)
	require.Equal(t, 2*time.Second, cfg.CatalogTimeout)
	require.Equal(t, 12*time.Hour, cfg.SnapshotTTL)
	require.True(t, cfg.TemporalDisabled)
	require.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"CATALOG_BASE_URL":        "catalog:3333",
		"CATALOG_TIMEOUT_SECONDS": "0",
		"SNAPSHOT_TTL_HOURS":      "soon",
		"NOTIFICATION_CAPACITY":   "-1",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			isolateEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	isolateEnv(t)
	path := filepath.Join(t.TempDir(), "cart.env")
	require.NoError(t, os.WriteFile(path, []byte("CART_STORE_KEY=from-file\nPORT=9000\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("PORT", "7000")
	// godotenv only fills variables that are unset.
	require.NoError(t, os.Unsetenv("CART_STORE_KEY"))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "from-file", cfg.CartStoreKey)
	require.Equal(t, "7000", cfg.Port)
	t.Cleanup(func() { _ = os.Unsetenv("CART_STORE_KEY") })
}
