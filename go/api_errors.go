package cartserver

import (
	"github.com/gin-gonic/gin"

	carthttpmapper "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/http/mapper"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

// newResponder builds the problem responder with cart error mapping.
func newResponder() *apierrors.Responder {
	return apierrors.NewResponder("", carthttpmapper.ProblemFor)
}

func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	defaultResponder.Respond(c, problem)
}

func respondCartServiceError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	defaultResponder.RespondError(c, err)
}

var defaultResponder = newResponder()
