package application

import (
	"context"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// AuditCart compares each line item of cart with the stock the catalog
// reports now. Lines whose stock cannot be fetched are marked unavailable.
func AuditCart(ctx context.Context, catalog ports.Catalog, cart domain.Cart) (domain.StockAudit, error) {
	audit := domain.StockAudit{Entries: make([]domain.AuditEntry, 0, len(cart.Items))}
	for _, item := range cart.Items {
		if err := ctx.Err(); err != nil {
			return domain.StockAudit{}, err
		}
		stock, err := catalog.GetStock(ctx, item.ID)
		if err != nil {
			audit.Entries = append(audit.Entries, domain.UnavailableLine(item, err.Error()))
			continue
		}
		audit.Entries = append(audit.Entries, domain.CheckLine(item, stock))
	}
	return audit, nil
}
