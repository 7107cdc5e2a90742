package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/application"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
	cartworkflows "github.com/Apurer/storefront-cart/internal/durable/temporal/workflows/cart"
)

// ErrEngineUnavailable is returned when the Temporal frontend cannot take work
// or no worker finishes the audit in time.
var ErrEngineUnavailable = errors.New("workflow engine unavailable")

// DefaultAuditTimeout bounds a stock audit run, queue time included.
const DefaultAuditTimeout = time.Minute

var (
	_ ports.WorkflowOrchestrator = (*TemporalCartWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCartWorkflows)(nil)
)

// TemporalCartWorkflows starts cart workflows on a Temporal cluster.
type TemporalCartWorkflows struct {
	client    client.Client
	taskQueue string
	timeout   time.Duration
}

type TemporalOption func(*TemporalCartWorkflows)

// WithAuditTimeout overrides DefaultAuditTimeout. Non-positive values are ignored.
func WithAuditTimeout(d time.Duration) TemporalOption {
	return func(o *TemporalCartWorkflows) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// NewTemporalCartWorkflows wires a Temporal client into the orchestrator.
func NewTemporalCartWorkflows(c client.Client, opts ...TemporalOption) *TemporalCartWorkflows {
	o := &TemporalCartWorkflows{
		client:    c,
		taskQueue: cartworkflows.StockAuditTaskQueue,
		timeout:   DefaultAuditTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// AuditStock runs the stock audit workflow and waits for its report.
func (o *TemporalCartWorkflows) AuditStock(ctx context.Context, cart domain.Cart) (*domain.StockAudit, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal cart workflows not configured")
	}
	traceID := workflowTraceID(ctx)
	options := client.StartWorkflowOptions{
		ID:                       buildStockAuditWorkflowID(traceID),
		TaskQueue:                o.taskQueue,
		WorkflowExecutionTimeout: o.timeout,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		cartworkflows.StockAuditWorkflowName,
		cartworkflows.StockAuditWorkflowInput{Items: cart.Clone().Items, TraceID: traceID},
	)
	if err != nil {
		return nil, mapStartError(err)
	}
	var audit domain.StockAudit
	if err := run.Get(ctx, &audit); err != nil {
		return nil, mapRunError(err)
	}
	return &audit, nil
}

// mapRunError reports a timed-out audit as an unavailable engine: the usual
// cause is that no worker is polling the task queue.
func mapRunError(err error) error {
	var timeout *temporal.TimeoutError
	if errors.As(err, &timeout) {
		return fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}
	return err
}

func mapStartError(err error) error {
	var unavailable *serviceerror.Unavailable
	var missingNamespace *serviceerror.NamespaceNotFound
	if errors.As(err, &unavailable) || errors.As(err, &missingNamespace) {
		return fmt.Errorf("%w: %w", ErrEngineUnavailable, err)
	}
	return err
}

// InlineCartWorkflows audits against the catalog in-process, useful for tests or dev fallbacks.
type InlineCartWorkflows struct {
	catalog ports.Catalog
}

// NewInlineCartWorkflows wraps the catalog port for synchronous execution.
func NewInlineCartWorkflows(catalog ports.Catalog) *InlineCartWorkflows {
	return &InlineCartWorkflows{catalog: catalog}
}

func (o *InlineCartWorkflows) AuditStock(ctx context.Context, cart domain.Cart) (*domain.StockAudit, error) {
	if o == nil || o.catalog == nil {
		return nil, errors.New("inline cart workflows not configured")
	}
	audit, err := application.AuditCart(ctx, o.catalog, cart)
	if err != nil {
		return nil, err
	}
	return &audit, nil
}

func buildStockAuditWorkflowID(traceID string) string {
	if traceID == "" {
		return "cart-stock-audit-" + uuid.NewString()
	}
	return fmt.Sprintf("cart-stock-audit-%s-%s", traceID, uuid.NewString()[:8])
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
