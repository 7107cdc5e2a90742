package ports

import (
	"context"
	"errors"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// ErrProductNotFound is returned when the catalog does not know a product id.
var ErrProductNotFound = errors.New("product not found in catalog")

// Catalog reads stock levels and product details from the remote catalog.
type Catalog interface {
	GetStock(ctx context.Context, productID int64) (domain.Stock, error)
	GetProduct(ctx context.Context, productID int64) (domain.Product, error)
}
