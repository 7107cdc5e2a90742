package domain

import (
	"encoding/json"
	"errors"
	"maps"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID = errors.New("product id must be greater than zero")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrOutOfStock       = errors.New("requested quantity out of stock")
	ErrNotInCart        = errors.New("product is not in the cart")
	ErrDuplicateItem    = errors.New("product is already in the cart")
)

// Product is a catalog record, or a cart line item once Amount is set.
// Attributes holds catalog fields the cart does not interpret, kept
// verbatim so they survive persistence.
type Product struct {
	ID         int64
	Title      string
	Price      decimal.Decimal
	Image      string
	Amount     int
	Attributes map[string]json.RawMessage
}

// Stock is the available quantity reported by the catalog at query time.
type Stock struct {
	ProductID int64
	Amount    int
}

// Cart is the ordered, unique-by-id list of line items.
type Cart struct {
	Items []Product
}

// Clone returns a deep copy so callers never share the backing array.
func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{Items: []Product{}}
	}
	items := make([]Product, len(c.Items))
	copy(items, c.Items)
	for i := range items {
		if items[i].Attributes != nil {
			items[i].Attributes = maps.Clone(items[i].Attributes)
		}
	}
	return Cart{Items: items}
}

// Find returns the line item for productID.
func (c Cart) Find(productID int64) (Product, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Items[i], true
	}
	return Product{}, false
}

// Increment raises an existing line item by one unit when stock allows.
func (c Cart) Increment(productID int64, stock Stock) (Cart, error) {
	i := c.index(productID)
	if i < 0 {
		return c, ErrNotInCart
	}
	if stock.Amount <= c.Items[i].Amount {
		return c, ErrOutOfStock
	}
	next := c.Clone()
	next.Items[i].Amount++
	return next, nil
}

// Add appends product with an amount of one when stock allows.
func (c Cart) Add(product Product, stock Stock) (Cart, error) {
	if product.ID <= 0 {
		return c, ErrInvalidProductID
	}
	if c.index(product.ID) >= 0 {
		return c, ErrDuplicateItem
	}
	product.Amount = 1
	if stock.Amount < product.Amount {
		return c, ErrOutOfStock
	}
	next := c.Clone()
	next.Items = append(next.Items, product)
	return next, nil
}

// Remove drops the line item for productID, keeping the order of the rest.
func (c Cart) Remove(productID int64) (Cart, error) {
	i := c.index(productID)
	if i < 0 {
		return c, ErrNotInCart
	}
	items := make([]Product, 0, len(c.Items)-1)
	items = append(items, c.Items[:i]...)
	items = append(items, c.Items[i+1:]...)
	return Cart{Items: items}, nil
}

// SetAmount replaces the amount of an existing line item when stock allows.
func (c Cart) SetAmount(productID int64, amount int, stock Stock) (Cart, error) {
	if amount <= 0 {
		return c, ErrInvalidAmount
	}
	i := c.index(productID)
	if i < 0 {
		return c, ErrNotInCart
	}
	if stock.Amount < amount {
		return c, ErrOutOfStock
	}
	next := c.Clone()
	next.Items[i].Amount = amount
	return next, nil
}

// Validate enforces the line item invariants on hydrated carts.
func (c Cart) Validate() error {
	seen := make(map[int64]struct{}, len(c.Items))
	for _, item := range c.Items {
		if item.ID <= 0 {
			return ErrInvalidProductID
		}
		if item.Amount <= 0 {
			return ErrInvalidAmount
		}
		if _, ok := seen[item.ID]; ok {
			return ErrDuplicateItem
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

// Count is the total number of units across line items.
func (c Cart) Count() int {
	total := 0
	for _, item := range c.Items {
		total += item.Amount
	}
	return total
}

// Subtotal is the sum of price times amount across line items.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Amount))))
	}
	return total
}

func (c Cart) index(productID int64) int {
	for i, item := range c.Items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}
