package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL+"/", srv.Client())
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAbsoluteURL(t *testing.T) {
	_, err := NewClient("  ", nil)
	require.Error(t, err)

	_, err = NewClient("localhost:3333", nil)
	require.Error(t, err)

	client, err := NewClient("http://localhost:3333", nil)
	require.NoError(t, err)
	require.NotNil(t, client.httpClient)
}

func TestGetStock(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/stock/7", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"amount":3}`))
	})

	stock, err := client.GetStock(context.Background(), 7)
	require.NoError(t, err)
	require.Equal(t, int64(7), stock.ID)
	require.Equal(t, 3, stock.Amount)
}

func TestGetProduct(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products/1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":1,"title":"Tênis de Caminhada","price":179.9,"image":"https://cdn.example/1.jpg"}`))
	})

	product, err := client.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, "Tênis de Caminhada", product.Title)
	require.True(t, decimal.RequireFromString("179.9").Equal(product.Price))
	require.Equal(t, "https://cdn.example/1.jpg", product.Image)
	require.Nil(t, product.Extra)
}

func TestGetProduct_CollectsUnknownFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":1,"title":"t","price":"12.50","image":"","amount":4,"brand":"Olympikus","rating":{"stars":4}}`))
	})

	product, err := client.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("12.5").Equal(product.Price))
	require.Len(t, product.Extra, 2)
	require.JSONEq(t, `"Olympikus"`, string(product.Extra["brand"]))
	require.JSONEq(t, `{"stars":4}`, string(product.Extra["rating"]))
}

func TestGet_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetStock(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGet_StatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"stock service warming up"}`))
	})

	_, err := client.GetProduct(context.Background(), 1)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Equal(t, "stock service warming up", statusErr.Message)
}

func TestGet_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":`))
	})

	_, err := client.GetStock(context.Background(), 1)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode catalog stock response")
}
