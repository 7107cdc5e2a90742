package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-cart/internal/domains/cart/application"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/observability/service"

// Service decorates the cart application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = defaultLogger()
	}
	return s
}

// Cart is a hot read path; it gets a span but no logs.
func (s *Service) Cart(ctx context.Context) ports.CartView {
	ctx, span := s.startSpan(ctx, "Service.Cart")
	defer span.End()

	view := s.inner.Cart(ctx)
	span.SetAttributes(
		attribute.Int("cart.items", len(view.Cart.Items)),
		attribute.Int64("cart.version", int64(view.Version)),
	)
	return view
}

func (s *Service) AddProduct(ctx context.Context, productID int64) error {
	ctx, span := s.startSpan(ctx, "Service.AddProduct", attribute.Int64("product.id", productID))
	defer span.End()

	s.logInfo(ctx, "adding product to cart", slog.Int64("product.id", productID))
	if err := s.inner.AddProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, ports.OperationAdd, err, "failed to add product", slog.Int64("product.id", productID))
	}
	s.metrics.recordMutation(ctx, ports.OperationAdd)
	s.logInfo(ctx, "product added to cart", slog.Int64("product.id", productID))
	return nil
}

func (s *Service) RemoveProduct(ctx context.Context, productID int64) error {
	ctx, span := s.startSpan(ctx, "Service.RemoveProduct", attribute.Int64("product.id", productID))
	defer span.End()

	s.logInfo(ctx, "removing product from cart", slog.Int64("product.id", productID))
	if err := s.inner.RemoveProduct(ctx, productID); err != nil {
		return s.handleError(ctx, span, ports.OperationRemove, err, "failed to remove product", slog.Int64("product.id", productID))
	}
	s.metrics.recordMutation(ctx, ports.OperationRemove)
	s.logInfo(ctx, "product removed from cart", slog.Int64("product.id", productID))
	return nil
}

func (s *Service) UpdateProductAmount(ctx context.Context, input ports.UpdateAmountInput) error {
	ctx, span := s.startSpan(ctx, "Service.UpdateProductAmount",
		attribute.Int64("product.id", input.ProductID),
		attribute.Int("cart.amount.requested", input.Amount),
	)
	defer span.End()

	s.logInfo(ctx, "updating product amount", slog.Int64("product.id", input.ProductID), slog.Int("amount", input.Amount))
	if err := s.inner.UpdateProductAmount(ctx, input); err != nil {
		return s.handleError(ctx, span, ports.OperationUpdate, err, "failed to update product amount", slog.Int64("product.id", input.ProductID))
	}
	if input.Amount > 0 {
		s.metrics.recordMutation(ctx, ports.OperationUpdate)
	}
	return nil
}

// AuditStock records how many line items no longer fit current stock.
func (s *Service) AuditStock(ctx context.Context) (domain.StockAudit, error) {
	ctx, span := s.startSpan(ctx, "Service.AuditStock")
	defer span.End()

	s.logInfo(ctx, "auditing cart stock")
	audit, err := s.inner.AuditStock(ctx)
	if err != nil {
		if span != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.logError(ctx, "stock audit failed", err)
		return audit, err
	}
	flagged := 0
	for _, entry := range audit.Entries {
		if entry.Status != domain.AuditStatusOK {
			flagged++
		}
	}
	span.SetAttributes(
		attribute.Int("cart.audit.entries", len(audit.Entries)),
		attribute.Int("cart.audit.flagged", flagged),
	)
	s.metrics.recordFlagged(ctx, flagged)
	s.logInfo(ctx, "cart stock audited", slog.Int("entries", len(audit.Entries)), slog.Int("flagged", flagged))
	return audit, nil
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

// handleError classifies err, counts it, and only marks the span as failed
// for kinds the user could not have caused.
func (s *Service) handleError(ctx context.Context, span trace.Span, op ports.Operation, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	kind := application.Kind(err)
	s.metrics.recordFailure(ctx, op, kind)
	attrs = append(attrs, slog.String("cart.failure_kind", string(kind)))
	if span != nil {
		span.SetAttributes(attribute.String("cart.failure_kind", string(kind)))
		span.RecordError(err)
	}
	switch kind {
	case ports.KindOutOfStock, ports.KindNotFound:
		if s.logger != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, msg, append(attrs, slog.String("error", err.Error()))...)
		}
	default:
		if span != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		s.logError(ctx, msg, err, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	mutations metric.Int64Counter
	failures  metric.Int64Counter
	flagged   metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of committed cart mutations"))
	failures, _ := m.Int64Counter("cart.service.failures", metric.WithDescription("Number of failed cart operations"))
	flagged, _ := m.Int64Counter("cart.service.audit.flagged", metric.WithDescription("Line items flagged by stock audits"))
	return serviceMetrics{
		mutations: mutations,
		failures:  failures,
		flagged:   flagged,
	}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op ports.Operation) {
	addCounter(ctx, m.mutations, 1, attribute.String("cart.operation", string(op)))
}

func (m serviceMetrics) recordFailure(ctx context.Context, op ports.Operation, kind ports.Kind) {
	addCounter(ctx, m.failures, 1,
		attribute.String("cart.operation", string(op)),
		attribute.String("cart.failure_kind", string(kind)),
	)
}

func (m serviceMetrics) recordFlagged(ctx context.Context, flagged int) {
	if flagged == 0 {
		return
	}
	addCounter(ctx, m.flagged, int64(flagged))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
