package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cartcatalog "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/external/catalog"
	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildCatalog_FallsBackToDemo(t *testing.T) {
	catalog, err := BuildCatalog(Config{}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &cartmemory.Catalog{}, catalog)

	stock, err := catalog.GetStock(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 3, stock.Amount)
}

func TestBuildCatalog_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":4,"amount":8}`))
	}))
	t.Cleanup(srv.Close)

	catalog, err := BuildCatalog(Config{CatalogBaseURL: srv.URL, CatalogTimeout: time.Second}, discardLogger())
	require.NoError(t, err)
	require.IsType(t, &cartcatalog.Reader{}, catalog)

	stock, err := catalog.GetStock(context.Background(), 4)
	require.NoError(t, err)
	require.Equal(t, 8, stock.Amount)
}

func TestBuildStore_WithoutDSNUsesMemory(t *testing.T) {
	store, cleanup := BuildStore(context.Background(), Config{}, discardLogger())
	defer cleanup()
	require.IsType(t, &cartmemory.Store{}, store)
}

func TestConnectTemporal_Disabled(t *testing.T) {
	_, err := ConnectTemporal(Config{TemporalDisabled: true}, nil)
	require.Error(t, err)
}
