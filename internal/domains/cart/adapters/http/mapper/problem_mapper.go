package mapper

import (
	"errors"

	"github.com/Apurer/storefront-cart/internal/domains/cart/adapters/workflows"
	"github.com/Apurer/storefront-cart/internal/domains/cart/application"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	apierrors "github.com/Apurer/storefront-cart/internal/shared/errors"
)

// ProblemFor maps cart errors onto problem details. It is meant to be
// registered on an apierrors.Responder.
func ProblemFor(err error) (apierrors.ProblemDetail, bool) {
	if err == nil {
		return apierrors.ProblemDetail{}, false
	}
	if errors.Is(err, workflows.ErrEngineUnavailable) {
		return apierrors.ErrServiceUnavailable.WithDetail(err.Error()), true
	}
	var opErr *application.OperationError
	hasOp := errors.As(err, &opErr)
	var problem apierrors.ProblemDetail
	switch application.Kind(err) {
	case ports.KindOutOfStock:
		problem = apierrors.ErrOutOfStock
	case ports.KindNotFound:
		problem = apierrors.ErrNotFound
	case ports.KindRemoteFailure:
		problem = apierrors.ErrUpstreamFailure
	case ports.KindPersistenceFailure:
		problem = apierrors.ErrInternal
	default:
		if !hasOp {
			return apierrors.ProblemDetail{}, false
		}
		problem = apierrors.ErrInternal
	}
	problem = problem.WithDetail(err.Error())
	if hasOp {
		problem = problem.
			WithExtension("operation", string(opErr.Op)).
			WithExtension("productId", opErr.ProductID)
	}
	return problem, true
}
