package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	cartactivities "github.com/Apurer/storefront-cart/internal/durable/temporal/activities/cart"
)

// RunStockCheckSequence checks every line item in parallel and collects the
// results in cart order. A line whose check still fails after retries is
// reported as unavailable instead of failing the whole audit.
func RunStockCheckSequence(ctx workflow.Context, items []domain.Product) (*domain.StockAudit, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("stock check sequence started", "items", len(items))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:        time.Second,
			BackoffCoefficient:     2.0,
			MaximumInterval:        10 * time.Second,
			MaximumAttempts:        3,
			NonRetryableErrorTypes: []string{cartactivities.ErrTypeProductNotFound},
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	futures := make([]workflow.Future, len(items))
	for i, item := range items {
		futures[i] = workflow.ExecuteActivity(ctx, cartactivities.CheckStockActivityName, cartactivities.CheckStockInput{Item: item})
	}

	audit := &domain.StockAudit{Entries: make([]domain.AuditEntry, 0, len(items))}
	for i, future := range futures {
		var entry domain.AuditEntry
		if err := future.Get(ctx, &entry); err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("stock check failed for line item", "productId", items[i].ID, "error", err)
			audit.Entries = append(audit.Entries, domain.UnavailableLine(items[i], err.Error()))
			continue
		}
		audit.Entries = append(audit.Entries, entry)
	}
	logger.Info("stock check sequence completed", "items", len(items), "healthy", audit.Healthy())
	return audit, nil
}
