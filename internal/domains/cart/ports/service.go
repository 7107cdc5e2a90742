package ports

import (
	"context"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// UpdateAmountInput targets a line item with a new quantity.
type UpdateAmountInput struct {
	ProductID int64
	Amount    int
}

// CartView is the read-only state handed to renderers.
type CartView struct {
	Cart    domain.Cart
	Version uint64
}

// Service exposes the cart use cases to adapters.
type Service interface {
	Cart(ctx context.Context) CartView
	AddProduct(ctx context.Context, productID int64) error
	RemoveProduct(ctx context.Context, productID int64) error
	UpdateProductAmount(ctx context.Context, input UpdateAmountInput) error
	AuditStock(ctx context.Context) (domain.StockAudit, error)
}
