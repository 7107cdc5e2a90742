package notify

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	cartmemory "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/memory"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

func TestFanout_LogsAndBuffers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	buffer := cartmemory.NewNotifier(4)

	sink := Fanout{NewLogger(logger), nil, buffer}
	sink.ReportError(context.Background(), ports.Notification{
		Operation: ports.OperationAdd,
		ProductID: 12,
		Kind:      ports.KindOutOfStock,
		Message:   "Requested quantity is out of stock",
	})

	require.Len(t, buffer.Drain(), 1)
	out := buf.String()
	require.Contains(t, out, `"level":"WARN"`)
	require.Contains(t, out, `"cart.operation":"add_product"`)
	require.Contains(t, out, `"product.id":12`)
	require.Contains(t, out, `"cart.failure_kind":"out_of_stock"`)
}
