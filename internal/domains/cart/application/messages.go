package application

import "github.com/Apurer/storefront-cart/internal/domains/cart/ports"

// Messages is the wording catalog used for notifications. Presentation
// layers can swap it through WithMessages.
type Messages struct {
	OutOfStock string
	Generic    map[ports.Operation]string
	Fallback   string
}

// DefaultMessages keeps a specific out-of-stock text and collapses every
// other failure into one message per operation.
func DefaultMessages() Messages {
	return Messages{
		OutOfStock: "Requested quantity is out of stock",
		Generic: map[ports.Operation]string{
			ports.OperationAdd:    "Error adding product",
			ports.OperationRemove: "Error removing product",
			ports.OperationUpdate: "Error updating product amount",
		},
		Fallback: "Something went wrong with your cart",
	}
}

// For picks the message shown for a failed operation.
func (m Messages) For(op ports.Operation, kind ports.Kind) string {
	if kind == ports.KindOutOfStock && m.OutOfStock != "" {
		return m.OutOfStock
	}
	if msg, ok := m.Generic[op]; ok && msg != "" {
		return msg
	}
	return m.Fallback
}
