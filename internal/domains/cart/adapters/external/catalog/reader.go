package catalog

import (
	"context"
	"errors"
	"fmt"

	catalogclient "github.com/Apurer/storefront-cart/internal/clients/http/catalog"
	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

// Reader implements the outbound catalog port over the HTTP client.
type Reader struct {
	client *catalogclient.Client
}

// NewReader wires a catalog HTTP client into the catalog port.
func NewReader(client *catalogclient.Client) *Reader {
	return &Reader{client: client}
}

func (r *Reader) GetStock(ctx context.Context, productID int64) (domain.Stock, error) {
	if r == nil || r.client == nil {
		return domain.Stock{}, errors.New("catalog reader not configured")
	}
	payload, err := r.client.GetStock(ctx, productID)
	if err != nil {
		return domain.Stock{}, mapError(err)
	}
	return ToStock(productID, payload)
}

func (r *Reader) GetProduct(ctx context.Context, productID int64) (domain.Product, error) {
	if r == nil || r.client == nil {
		return domain.Product{}, errors.New("catalog reader not configured")
	}
	payload, err := r.client.GetProduct(ctx, productID)
	if err != nil {
		return domain.Product{}, mapError(err)
	}
	return ToProduct(payload), nil
}

func mapError(err error) error {
	if errors.Is(err, catalogclient.ErrNotFound) {
		return fmt.Errorf("%w: %w", ports.ErrProductNotFound, err)
	}
	return err
}

var _ ports.Catalog = (*Reader)(nil)
