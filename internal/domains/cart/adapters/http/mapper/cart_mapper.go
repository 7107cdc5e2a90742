package mapper

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// AddItemRequest is the body of POST /v1/cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
}

// UpdateAmountRequest is the body of PATCH /v1/cart/items/:productId.
// Amount is a pointer so a missing field is told apart from zero.
type UpdateAmountRequest struct {
	Amount *int `json:"amount" binding:"required"`
}

// LineItem is the HTTP representation of a cart line item.
type LineItem struct {
	ID         int64                      `json:"id"`
	Title      string                     `json:"title"`
	Price      decimal.Decimal            `json:"price"`
	Image      string                     `json:"image"`
	Amount     int                        `json:"amount"`
	Subtotal   decimal.Decimal            `json:"subtotal"`
	Attributes map[string]json.RawMessage `json:"attributes,omitempty"`
}

// Cart is the body of GET /v1/cart.
type Cart struct {
	Items    []LineItem      `json:"items"`
	Version  uint64          `json:"version"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Notification is one toast drained from the notification buffer.
type Notification struct {
	Operation string `json:"operation"`
	ProductID int64  `json:"productId"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
}

// AuditEntry is one line of a stock audit report.
type AuditEntry struct {
	ProductID int64  `json:"productId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// StockAudit is the body of POST /v1/cart/audit.
type StockAudit struct {
	Healthy bool         `json:"healthy"`
	Entries []AuditEntry `json:"entries"`
}

// FromCartView converts the manager's view into the API payload.
func FromCartView(view ports.CartView) Cart {
	items := make([]LineItem, 0, len(view.Cart.Items))
	for _, item := range view.Cart.Items {
		items = append(items, LineItem{
			ID:         item.ID,
			Title:      item.Title,
			Price:      item.Price,
			Image:      item.Image,
			Amount:     item.Amount,
			Subtotal:   item.Price.Mul(decimal.NewFromInt(int64(item.Amount))),
			Attributes: item.Attributes,
		})
	}
	return Cart{
		Items:    items,
		Version:  view.Version,
		Count:    view.Cart.Count(),
		Subtotal: view.Cart.Subtotal(),
	}
}

func FromNotifications(in []ports.Notification) []Notification {
	out := make([]Notification, 0, len(in))
	for _, n := range in {
		out = append(out, Notification{
			Operation: string(n.Operation),
			ProductID: n.ProductID,
			Kind:      string(n.Kind),
			Message:   n.Message,
		})
	}
	return out
}

func FromStockAudit(audit domain.StockAudit) StockAudit {
	entries := make([]AuditEntry, 0, len(audit.Entries))
	for _, e := range audit.Entries {
		entries = append(entries, AuditEntry{
			ProductID: e.ProductID,
			Requested: e.Requested,
			Available: e.Available,
			Status:    string(e.Status),
			Reason:    e.Reason,
		})
	}
	return StockAudit{Healthy: audit.Healthy(), Entries: entries}
}
