package ports

import (
	"context"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
)

// WorkflowOrchestrator runs the stock audit either inline or on a durable engine.
type WorkflowOrchestrator interface {
	AuditStock(ctx context.Context, cart domain.Cart) (*domain.StockAudit, error)
}
