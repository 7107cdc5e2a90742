package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var (
	// ErrRemoteFailure wraps any failure reported by the catalog.
	ErrRemoteFailure = errors.New("catalog request failed")
	// ErrPersistenceFailure wraps failures writing the cart snapshot.
	ErrPersistenceFailure = errors.New("cart persistence failed")
)

// OperationError is returned by every failed cart operation. The wrapped
// chain identifies the failure kind; use Kind to classify it.
type OperationError struct {
	Op        ports.Operation
	ProductID int64
	Err       error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s product %d: %v", e.Op, e.ProductID, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

// Kind classifies err into one of the notification kinds.
func Kind(err error) ports.Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrOutOfStock):
		return ports.KindOutOfStock
	case errors.Is(err, domain.ErrNotInCart):
		return ports.KindNotFound
	case errors.Is(err, ErrRemoteFailure):
		return ports.KindRemoteFailure
	case errors.Is(err, ErrPersistenceFailure):
		return ports.KindPersistenceFailure
	default:
		return ports.KindUnknown
	}
}

func remoteError(err error) error {
	return fmt.Errorf("%w: %w", ErrRemoteFailure, err)
}

func persistenceError(err error) error {
	return fmt.Errorf("%w: %w", ErrPersistenceFailure, err)
}
