package cartserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	carthttpmapper "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http/mapper"
	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	cartapp "github.com/Apurer/storefront-cart/internal/domains/cart/application"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

type testServer struct {
	router  *gin.Engine
	catalog *cartmemory.Catalog
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	catalog := cartmemory.NewCatalog()
	catalog.Put(domain.Product{ID: 1, Title: "Tênis de Caminhada", Price: decimal.RequireFromString("179.90"), Image: "1.jpg"}, 2)
	catalog.Put(domain.Product{ID: 2, Title: "Tênis Casual", Price: decimal.RequireFromString("99.90"), Image: "2.jpg"}, 5)
	notifier := cartmemory.NewNotifier(0)
	svc, err := cartapp.Open(context.Background(), catalog, cartmemory.NewStore(), cartapp.WithNotifier(notifier))
	require.NoError(t, err)
	router := NewRouter(ApiHandleFunctions{CartAPI: NewCartAPI(svc, notifier)})
	return &testServer{router: router, catalog: catalog}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestCartAPI_AddUpdateRemove(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":1}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[carthttpmapper.Cart](t, rec)
	require.Len(t, cart.Items, 1)
	require.Equal(t, 1, cart.Items[0].Amount)
	require.Equal(t, uint64(1), cart.Version)

	rec = s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":2}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPatch, "/v1/cart/items/2", `{"amount":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[carthttpmapper.Cart](t, rec)
	require.Equal(t, 4, cart.Count)
	require.True(t, decimal.RequireFromString("479.60").Equal(cart.Subtotal))

	rec = s.do(t, http.MethodDelete, "/v1/cart/items/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	cart = decode[carthttpmapper.Cart](t, rec)
	require.Len(t, cart.Items, 1)
	require.Equal(t, int64(2), cart.Items[0].ID)
}

func TestCartAPI_OutOfStockProblem(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":1}`).Code)

	rec := s.do(t, http.MethodPatch, "/v1/cart/items/1", `{"amount":3}`)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, apierrors.TypeOutOfStock, problem.Type)
	require.Equal(t, "/v1/cart/items/1", problem.Instance)

	notes := decode[[]carthttpmapper.Notification](t, s.do(t, http.MethodGet, "/v1/cart/notifications", ""))
	require.Len(t, notes, 1)
	require.Equal(t, "out_of_stock", notes[0].Kind)
	require.Equal(t, "Requested quantity is out of stock", notes[0].Message)

	notes = decode[[]carthttpmapper.Notification](t, s.do(t, http.MethodGet, "/v1/cart/notifications", ""))
	require.Empty(t, notes)
}

func TestCartAPI_RemoveAbsentIsNotFound(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodDelete, "/v1/cart/items/99", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	problem := decode[apierrors.ProblemDetail](t, rec)
	require.Equal(t, "remove_product", problem.Extensions["operation"])
}

func TestCartAPI_UnknownProductIsUpstreamFailure(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":404}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestCartAPI_BadInput(t *testing.T) {
	s := newTestServer(t)

	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":0}`).Code)
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPost, "/v1/cart/items", `not json`).Code)
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, "/v1/cart/items/abc", `{"amount":1}`).Code)
	require.Equal(t, http.StatusBadRequest, s.do(t, http.MethodPatch, "/v1/cart/items/1", `{}`).Code)
}

func TestCartAPI_NonPositiveAmountIsNoop(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":1}`).Code)

	rec := s.do(t, http.MethodPatch, "/v1/cart/items/1", `{"amount":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[carthttpmapper.Cart](t, rec)
	require.Equal(t, 1, cart.Items[0].Amount)
	require.Equal(t, uint64(1), cart.Version)
}

func TestCartAPI_Audit(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/v1/cart/items", `{"productId":2}`).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPatch, "/v1/cart/items/2", `{"amount":4}`).Code)
	s.catalog.SetStock(2, 1)

	rec := s.do(t, http.MethodPost, "/v1/cart/audit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	audit := decode[carthttpmapper.StockAudit](t, rec)
	require.False(t, audit.Healthy)
	require.Len(t, audit.Entries, 1)
	require.Equal(t, "insufficient", audit.Entries[0].Status)

	cart := decode[carthttpmapper.Cart](t, s.do(t, http.MethodGet, "/v1/cart", ""))
	require.Equal(t, 4, cart.Items[0].Amount)
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusNoContent, s.do(t, http.MethodGet, "/healthz", "").Code)
}
