package cart

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// CheckStockActivityName compares one line item with current catalog stock.
const CheckStockActivityName = "cart.activities.CheckStock"

// ErrTypeProductNotFound marks catalog misses so the workflow does not retry them.
const ErrTypeProductNotFound = "ProductNotFound"

// CheckStockInput is the line item to check.
type CheckStockInput struct {
	Item domain.Product
}

// Activities groups activities that read the catalog for the cart context.
type Activities struct {
	catalog ports.Catalog
}

// NewActivities wires the catalog port into the Temporal activities bundle.
func NewActivities(catalog ports.Catalog) *Activities {
	return &Activities{catalog: catalog}
}

// CheckStock fetches stock for the line item and reports how it compares.
func (a *Activities) CheckStock(ctx context.Context, input CheckStockInput) (domain.AuditEntry, error) {
	logger := activity.GetLogger(ctx)
	productID := input.Item.ID
	if a == nil || a.catalog == nil {
		logger.Error("stock check activity not initialized", "productId", productID)
		return domain.AuditEntry{}, errors.New("stock check activity not initialized")
	}
	stock, err := a.catalog.GetStock(ctx, productID)
	if err != nil {
		if errors.Is(err, ports.ErrProductNotFound) {
			logger.Warn("CheckStock product missing from catalog", "productId", productID)
			return domain.AuditEntry{}, temporal.NewNonRetryableApplicationError(err.Error(), ErrTypeProductNotFound, err)
		}
		logger.Error("CheckStock activity failed", "productId", productID, "error", err)
		return domain.AuditEntry{}, err
	}
	entry := domain.CheckLine(input.Item, stock)
	logger.Info("CheckStock activity completed", "productId", productID, "status", string(entry.Status))
	return entry, nil
}
