package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var errSoldOut = stderrors.New("sold out")

func serve(t *testing.T, r *Responder, err error) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/v1/cart", func(c *gin.Context) { r.RespondError(c, err) })
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cart", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestResponder_UsesMappers(t *testing.T) {
	r := NewResponder("https://cart.example", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, errSoldOut) {
			return ErrOutOfStock.WithDetail(err.Error()), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, r, errSoldOut)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	require.Equal(t, "https://cart.example/problems/out-of-stock", problem.Type)
	require.Equal(t, "/v1/cart", problem.Instance)
}

func TestResponder_FallsBackToInternal(t *testing.T) {
	rec, problem := serve(t, NewResponder(""), stderrors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, TypeInternal, problem.Type)
	require.Equal(t, "boom", problem.Detail)
}

func TestResponder_PassesProblemThrough(t *testing.T) {
	rec, problem := serve(t, NewResponder(""), NewNotFoundProblem("product", 9))
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "product", problem.Extensions["resourceType"])
}

func TestWithExtension_DoesNotShareMaps(t *testing.T) {
	base := ErrBadRequest.WithExtension("a", 1)
	_ = base.WithExtension("b", 2)
	require.Len(t, base.Extensions, 1)
}
