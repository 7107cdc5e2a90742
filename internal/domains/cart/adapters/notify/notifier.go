package notify

import (
	"context"
	"log/slog"

	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// Logger writes notifications to a structured logger at warn level.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

func (l *Logger) ReportError(ctx context.Context, n ports.Notification) {
	l.logger.LogAttrs(ctx, slog.LevelWarn, n.Message,
		slog.String("cart.operation", string(n.Operation)),
		slog.Int64("product.id", n.ProductID),
		slog.String("cart.failure_kind", string(n.Kind)),
	)
}

// Fanout delivers every notification to each sink in order.
type Fanout []ports.Notifier

func (f Fanout) ReportError(ctx context.Context, n ports.Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.ReportError(ctx, n)
		}
	}
}

var (
	_ ports.Notifier = (*Logger)(nil)
	_ ports.Notifier = Fanout(nil)
)
