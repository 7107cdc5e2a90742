package memory

import (
	"context"
	"sync"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

var _ ports.Catalog = (*Catalog)(nil)

// Catalog is an in-memory catalog for development and tests.
type Catalog struct {
	mu       sync.RWMutex
	products map[int64]domain.Product
	stock    map[int64]int
}

func NewCatalog() *Catalog {
	return &Catalog{
		products: map[int64]domain.Product{},
		stock:    map[int64]int{},
	}
}

// Put registers a product with its available stock.
func (c *Catalog) Put(product domain.Product, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	product.Amount = 0
	c.products[product.ID] = product
	c.stock[product.ID] = stock
}

// SetStock changes the available amount for a known product.
func (c *Catalog) SetStock(productID int64, stock int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stock[productID] = stock
}

func (c *Catalog) GetStock(_ context.Context, productID int64) (domain.Stock, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	amount, ok := c.stock[productID]
	if !ok {
		return domain.Stock{}, ports.ErrProductNotFound
	}
	return domain.Stock{ProductID: productID, Amount: amount}, nil
}

func (c *Catalog) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	product, ok := c.products[productID]
	if !ok {
		return domain.Product{}, ports.ErrProductNotFound
	}
	return product, nil
}
