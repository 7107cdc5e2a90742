package catalog

import (
	"errors"
	"fmt"
	"strings"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// ErrStockMismatch is returned when the catalog answers a stock query with
// another product's stock.
var ErrStockMismatch = errors.New("catalog returned stock for a different product")

// ToStock converts a stock payload, trusting the requested id when the
// payload omits its own.
func ToStock(productID int64, payload *catalogclient.StockPayload) (domain.Stock, error) {
	if payload == nil {
		return domain.Stock{ProductID: productID}, nil
	}
	if payload.ID != 0 && payload.ID != productID {
		return domain.Stock{}, fmt.Errorf("%w: requested %d, got %d", ErrStockMismatch, productID, payload.ID)
	}
	amount := payload.Amount
	if amount < 0 {
		amount = 0
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

// ToProduct converts a catalog product into a domain product with no amount.
func ToProduct(payload *catalogclient.ProductPayload) domain.Product {
	if payload == nil {
		return domain.Product{}
	}
	return domain.Product{
		ID:         payload.ID,
		Title:      strings.TrimSpace(payload.Title),
		Price:      payload.Price,
		Image:      payload.Image,
		Attributes: payload.Extra,
	}
}
