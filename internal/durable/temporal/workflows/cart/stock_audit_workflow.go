package cart

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/durable/temporal/sequences"
)

const (
	// StockAuditWorkflowName is the public identifier for registering the workflow.
	StockAuditWorkflowName = "cart.workflows.StockAudit"
	// StockAuditTaskQueue is the queue consumed by the worker processing cart workflows.
	StockAuditTaskQueue = "CART_STOCK_AUDIT"
)

// StockAuditWorkflowInput carries the cart snapshot to audit.
type StockAuditWorkflowInput struct {
	Items   []domain.Product
	TraceID string
}

// StockAuditWorkflow re-validates a cart snapshot against current stock.
func StockAuditWorkflow(ctx workflow.Context, input StockAuditWorkflowInput) (*domain.StockAudit, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("StockAuditWorkflow started", withTraceID(input.TraceID, "items", len(input.Items))...)
	audit, err := sequences.RunStockCheckSequence(ctx, input.Items)
	if err != nil {
		logger.Error("StockAuditWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("StockAuditWorkflow completed", withTraceID(input.TraceID, "healthy", audit.Healthy())...)
	return audit, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
